/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// Opcode is a raw JVM bytecode opcode byte.
type Opcode uint8

const (
	Nop             Opcode = 0x00
	AconstNull      Opcode = 0x01
	IconstM1        Opcode = 0x02
	Iconst0         Opcode = 0x03
	Iconst1         Opcode = 0x04
	Iconst2         Opcode = 0x05
	Iconst3         Opcode = 0x06
	Iconst4         Opcode = 0x07
	Iconst5         Opcode = 0x08
	Lconst0         Opcode = 0x09
	Lconst1         Opcode = 0x0a
	Fconst0         Opcode = 0x0b
	Fconst1         Opcode = 0x0c
	Fconst2         Opcode = 0x0d
	Dconst0         Opcode = 0x0e
	Dconst1         Opcode = 0x0f
	Bipush          Opcode = 0x10
	Sipush          Opcode = 0x11
	Ldc             Opcode = 0x12
	LdcW            Opcode = 0x13
	Ldc2W           Opcode = 0x14
	Iload           Opcode = 0x15
	Lload           Opcode = 0x16
	Fload           Opcode = 0x17
	Dload           Opcode = 0x18
	Aload           Opcode = 0x19
	Iload0          Opcode = 0x1a
	Iload1          Opcode = 0x1b
	Iload2          Opcode = 0x1c
	Iload3          Opcode = 0x1d
	Lload0          Opcode = 0x1e
	Lload1          Opcode = 0x1f
	Lload2          Opcode = 0x20
	Lload3          Opcode = 0x21
	Fload0          Opcode = 0x22
	Fload1          Opcode = 0x23
	Fload2          Opcode = 0x24
	Fload3          Opcode = 0x25
	Dload0          Opcode = 0x26
	Dload1          Opcode = 0x27
	Dload2          Opcode = 0x28
	Dload3          Opcode = 0x29
	Aload0          Opcode = 0x2a
	Aload1          Opcode = 0x2b
	Aload2          Opcode = 0x2c
	Aload3          Opcode = 0x2d
	Iaload          Opcode = 0x2e
	Laload          Opcode = 0x2f
	Faload          Opcode = 0x30
	Daload          Opcode = 0x31
	Aaload          Opcode = 0x32
	Baload          Opcode = 0x33
	Caload          Opcode = 0x34
	Saload          Opcode = 0x35
	Istore          Opcode = 0x36
	Lstore          Opcode = 0x37
	Fstore          Opcode = 0x38
	Dstore          Opcode = 0x39
	Astore          Opcode = 0x3a
	Istore0         Opcode = 0x3b
	Istore1         Opcode = 0x3c
	Istore2         Opcode = 0x3d
	Istore3         Opcode = 0x3e
	Lstore0         Opcode = 0x3f
	Lstore1         Opcode = 0x40
	Lstore2         Opcode = 0x41
	Lstore3         Opcode = 0x42
	Fstore0         Opcode = 0x43
	Fstore1         Opcode = 0x44
	Fstore2         Opcode = 0x45
	Fstore3         Opcode = 0x46
	Dstore0         Opcode = 0x47
	Dstore1         Opcode = 0x48
	Dstore2         Opcode = 0x49
	Dstore3         Opcode = 0x4a
	Astore0         Opcode = 0x4b
	Astore1         Opcode = 0x4c
	Astore2         Opcode = 0x4d
	Astore3         Opcode = 0x4e
	Iastore         Opcode = 0x4f
	Lastore         Opcode = 0x50
	Fastore         Opcode = 0x51
	Dastore         Opcode = 0x52
	Aastore         Opcode = 0x53
	Bastore         Opcode = 0x54
	Castore         Opcode = 0x55
	Sastore         Opcode = 0x56
	Pop             Opcode = 0x57
	Pop2            Opcode = 0x58
	Dup             Opcode = 0x59
	DupX1           Opcode = 0x5a
	DupX2           Opcode = 0x5b
	Dup2            Opcode = 0x5c
	Dup2X1          Opcode = 0x5d
	Dup2X2          Opcode = 0x5e
	Swap            Opcode = 0x5f
	Iadd            Opcode = 0x60
	Ladd            Opcode = 0x61
	Fadd            Opcode = 0x62
	Dadd            Opcode = 0x63
	Isub            Opcode = 0x64
	Lsub            Opcode = 0x65
	Fsub            Opcode = 0x66
	Dsub            Opcode = 0x67
	Imul            Opcode = 0x68
	Lmul            Opcode = 0x69
	Fmul            Opcode = 0x6a
	Dmul            Opcode = 0x6b
	Idiv            Opcode = 0x6c
	Ldiv            Opcode = 0x6d
	Fdiv            Opcode = 0x6e
	Ddiv            Opcode = 0x6f
	Irem            Opcode = 0x70
	Lrem            Opcode = 0x71
	Frem            Opcode = 0x72
	Drem            Opcode = 0x73
	Ineg            Opcode = 0x74
	Lneg            Opcode = 0x75
	Fneg            Opcode = 0x76
	Dneg            Opcode = 0x77
	Ishl            Opcode = 0x78
	Lshl            Opcode = 0x79
	Ishr            Opcode = 0x7a
	Lshr            Opcode = 0x7b
	Iushr           Opcode = 0x7c
	Lushr           Opcode = 0x7d
	Iand            Opcode = 0x7e
	Land            Opcode = 0x7f
	Ior             Opcode = 0x80
	Lor             Opcode = 0x81
	Ixor            Opcode = 0x82
	Lxor            Opcode = 0x83
	Iinc            Opcode = 0x84
	I2l             Opcode = 0x85
	I2f             Opcode = 0x86
	I2d             Opcode = 0x87
	L2i             Opcode = 0x88
	L2f             Opcode = 0x89
	L2d             Opcode = 0x8a
	F2i             Opcode = 0x8b
	F2l             Opcode = 0x8c
	F2d             Opcode = 0x8d
	D2i             Opcode = 0x8e
	D2l             Opcode = 0x8f
	D2f             Opcode = 0x90
	I2b             Opcode = 0x91
	I2c             Opcode = 0x92
	I2s             Opcode = 0x93
	Lcmp            Opcode = 0x94
	Fcmpl           Opcode = 0x95
	Fcmpg           Opcode = 0x96
	Dcmpl           Opcode = 0x97
	Dcmpg           Opcode = 0x98
	Ifeq            Opcode = 0x99
	Ifne            Opcode = 0x9a
	Iflt            Opcode = 0x9b
	Ifge            Opcode = 0x9c
	Ifgt            Opcode = 0x9d
	Ifle            Opcode = 0x9e
	IfIcmpeq        Opcode = 0x9f
	IfIcmpne        Opcode = 0xa0
	IfIcmplt        Opcode = 0xa1
	IfIcmpge        Opcode = 0xa2
	IfIcmpgt        Opcode = 0xa3
	IfIcmple        Opcode = 0xa4
	IfAcmpeq        Opcode = 0xa5
	IfAcmpne        Opcode = 0xa6
	Goto            Opcode = 0xa7
	Jsr             Opcode = 0xa8
	Ret             Opcode = 0xa9
	TableSwitch     Opcode = 0xaa
	LookupSwitch    Opcode = 0xab
	Ireturn         Opcode = 0xac
	Lreturn         Opcode = 0xad
	Freturn         Opcode = 0xae
	Dreturn         Opcode = 0xaf
	Areturn         Opcode = 0xb0
	Return          Opcode = 0xb1
	GetStatic       Opcode = 0xb2
	PutStatic       Opcode = 0xb3
	GetField        Opcode = 0xb4
	PutField        Opcode = 0xb5
	InvokeVirtual   Opcode = 0xb6
	InvokeSpecial   Opcode = 0xb7
	InvokeStatic    Opcode = 0xb8
	InvokeInterface Opcode = 0xb9
	InvokeDynamicOp Opcode = 0xba
	New             Opcode = 0xbb
	NewArray        Opcode = 0xbc
	ANewArray       Opcode = 0xbd
	ArrayLength     Opcode = 0xbe
	AThrow          Opcode = 0xbf
	CheckCast       Opcode = 0xc0
	InstanceOf      Opcode = 0xc1
	MonitorEnter    Opcode = 0xc2
	MonitorExit     Opcode = 0xc3
	Wide            Opcode = 0xc4
	MultiANewArray  Opcode = 0xc5
	IfNull          Opcode = 0xc6
	IfNonNull       Opcode = 0xc7
	GotoW           Opcode = 0xc8
	JsrW            Opcode = 0xc9
)

// OperandKind describes how an instruction's immediate bytes are laid out,
// which the decoder uses to compute instruction width and resolve operands.
type OperandKind int

const (
	OperandNone       OperandKind = iota
	OperandLocalU1                // 1-byte local-variable index (2 bytes under `wide`)
	OperandConstU1                // 1-byte signed constant (bipush)
	OperandConstU2                // 2-byte signed constant (sipush)
	OperandPoolU1                 // 1-byte constant-pool index (ldc)
	OperandPoolU2                 // 2-byte constant-pool index
	OperandBranchS2                // 2-byte signed branch offset
	OperandBranchS4                // 4-byte signed branch offset (goto_w, jsr_w)
	OperandIincU1                  // iinc: 1-byte local index + 1-byte signed const (2 bytes each under wide)
	OperandNewArrayType            // newarray: 1-byte array-type code
	OperandInvokeInterface          // invokeinterface: 2-byte pool index + 1-byte count + 1 reserved byte
	OperandInvokeDynamic            // invokedynamic: 2-byte pool index + 2 reserved bytes
	OperandMultiANewArray            // 2-byte pool index + 1-byte dimension count
	OperandTableSwitch
	OperandLookupSwitch
	OperandWidePrefixed // the `wide` opcode itself; its body is the widened instruction
)

// ControlKind classifies an instruction's effect on control flow, used by
// both the bytecode decoder (branch-target validation) and the IR lifter
// (basic-block boundary detection).
type ControlKind int

const (
	CtrlNormal         ControlKind = iota // falls through to the next instruction
	CtrlConditional                      // branches or falls through
	CtrlUnconditional                    // always branches, no fall-through
	CtrlSwitch                           // tableswitch/lookupswitch
	CtrlReturn                           // ireturn/lreturn/.../return
	CtrlThrow                            // athrow
	CtrlSubroutineCall                   // jsr/jsr_w
	CtrlSubroutineRet                    // ret
)

// OpInfo is the declarative per-opcode metadata the decoder reads instead
// of branching on opcode value throughout the decode loop, so the semantics
// of each opcode can be audited in one table.
type OpInfo struct {
	Mnemonic string
	Operand  OperandKind
	Control  ControlKind
}

var opcodeTable = map[Opcode]OpInfo{
	Nop:             {"nop", OperandNone, CtrlNormal},
	AconstNull:      {"aconst_null", OperandNone, CtrlNormal},
	IconstM1:        {"iconst_m1", OperandNone, CtrlNormal},
	Iconst0:         {"iconst_0", OperandNone, CtrlNormal},
	Iconst1:         {"iconst_1", OperandNone, CtrlNormal},
	Iconst2:         {"iconst_2", OperandNone, CtrlNormal},
	Iconst3:         {"iconst_3", OperandNone, CtrlNormal},
	Iconst4:         {"iconst_4", OperandNone, CtrlNormal},
	Iconst5:         {"iconst_5", OperandNone, CtrlNormal},
	Lconst0:         {"lconst_0", OperandNone, CtrlNormal},
	Lconst1:         {"lconst_1", OperandNone, CtrlNormal},
	Fconst0:         {"fconst_0", OperandNone, CtrlNormal},
	Fconst1:         {"fconst_1", OperandNone, CtrlNormal},
	Fconst2:         {"fconst_2", OperandNone, CtrlNormal},
	Dconst0:         {"dconst_0", OperandNone, CtrlNormal},
	Dconst1:         {"dconst_1", OperandNone, CtrlNormal},
	Bipush:          {"bipush", OperandConstU1, CtrlNormal},
	Sipush:          {"sipush", OperandConstU2, CtrlNormal},
	Ldc:             {"ldc", OperandPoolU1, CtrlNormal},
	LdcW:            {"ldc_w", OperandPoolU2, CtrlNormal},
	Ldc2W:           {"ldc2_w", OperandPoolU2, CtrlNormal},
	Iload:           {"iload", OperandLocalU1, CtrlNormal},
	Lload:           {"lload", OperandLocalU1, CtrlNormal},
	Fload:           {"fload", OperandLocalU1, CtrlNormal},
	Dload:           {"dload", OperandLocalU1, CtrlNormal},
	Aload:           {"aload", OperandLocalU1, CtrlNormal},
	Iload0:          {"iload_0", OperandNone, CtrlNormal},
	Iload1:          {"iload_1", OperandNone, CtrlNormal},
	Iload2:          {"iload_2", OperandNone, CtrlNormal},
	Iload3:          {"iload_3", OperandNone, CtrlNormal},
	Lload0:          {"lload_0", OperandNone, CtrlNormal},
	Lload1:          {"lload_1", OperandNone, CtrlNormal},
	Lload2:          {"lload_2", OperandNone, CtrlNormal},
	Lload3:          {"lload_3", OperandNone, CtrlNormal},
	Fload0:          {"fload_0", OperandNone, CtrlNormal},
	Fload1:          {"fload_1", OperandNone, CtrlNormal},
	Fload2:          {"fload_2", OperandNone, CtrlNormal},
	Fload3:          {"fload_3", OperandNone, CtrlNormal},
	Dload0:          {"dload_0", OperandNone, CtrlNormal},
	Dload1:          {"dload_1", OperandNone, CtrlNormal},
	Dload2:          {"dload_2", OperandNone, CtrlNormal},
	Dload3:          {"dload_3", OperandNone, CtrlNormal},
	Aload0:          {"aload_0", OperandNone, CtrlNormal},
	Aload1:          {"aload_1", OperandNone, CtrlNormal},
	Aload2:          {"aload_2", OperandNone, CtrlNormal},
	Aload3:          {"aload_3", OperandNone, CtrlNormal},
	Iaload:          {"iaload", OperandNone, CtrlNormal},
	Laload:          {"laload", OperandNone, CtrlNormal},
	Faload:          {"faload", OperandNone, CtrlNormal},
	Daload:          {"daload", OperandNone, CtrlNormal},
	Aaload:          {"aaload", OperandNone, CtrlNormal},
	Baload:          {"baload", OperandNone, CtrlNormal},
	Caload:          {"caload", OperandNone, CtrlNormal},
	Saload:          {"saload", OperandNone, CtrlNormal},
	Istore:          {"istore", OperandLocalU1, CtrlNormal},
	Lstore:          {"lstore", OperandLocalU1, CtrlNormal},
	Fstore:          {"fstore", OperandLocalU1, CtrlNormal},
	Dstore:          {"dstore", OperandLocalU1, CtrlNormal},
	Astore:          {"astore", OperandLocalU1, CtrlNormal},
	Istore0:         {"istore_0", OperandNone, CtrlNormal},
	Istore1:         {"istore_1", OperandNone, CtrlNormal},
	Istore2:         {"istore_2", OperandNone, CtrlNormal},
	Istore3:         {"istore_3", OperandNone, CtrlNormal},
	Lstore0:         {"lstore_0", OperandNone, CtrlNormal},
	Lstore1:         {"lstore_1", OperandNone, CtrlNormal},
	Lstore2:         {"lstore_2", OperandNone, CtrlNormal},
	Lstore3:         {"lstore_3", OperandNone, CtrlNormal},
	Fstore0:         {"fstore_0", OperandNone, CtrlNormal},
	Fstore1:         {"fstore_1", OperandNone, CtrlNormal},
	Fstore2:         {"fstore_2", OperandNone, CtrlNormal},
	Fstore3:         {"fstore_3", OperandNone, CtrlNormal},
	Dstore0:         {"dstore_0", OperandNone, CtrlNormal},
	Dstore1:         {"dstore_1", OperandNone, CtrlNormal},
	Dstore2:         {"dstore_2", OperandNone, CtrlNormal},
	Dstore3:         {"dstore_3", OperandNone, CtrlNormal},
	Astore0:         {"astore_0", OperandNone, CtrlNormal},
	Astore1:         {"astore_1", OperandNone, CtrlNormal},
	Astore2:         {"astore_2", OperandNone, CtrlNormal},
	Astore3:         {"astore_3", OperandNone, CtrlNormal},
	Iastore:         {"iastore", OperandNone, CtrlNormal},
	Lastore:         {"lastore", OperandNone, CtrlNormal},
	Fastore:         {"fastore", OperandNone, CtrlNormal},
	Dastore:         {"dastore", OperandNone, CtrlNormal},
	Aastore:         {"aastore", OperandNone, CtrlNormal},
	Bastore:         {"bastore", OperandNone, CtrlNormal},
	Castore:         {"castore", OperandNone, CtrlNormal},
	Sastore:         {"sastore", OperandNone, CtrlNormal},
	Pop:             {"pop", OperandNone, CtrlNormal},
	Pop2:            {"pop2", OperandNone, CtrlNormal},
	Dup:             {"dup", OperandNone, CtrlNormal},
	DupX1:           {"dup_x1", OperandNone, CtrlNormal},
	DupX2:           {"dup_x2", OperandNone, CtrlNormal},
	Dup2:            {"dup2", OperandNone, CtrlNormal},
	Dup2X1:          {"dup2_x1", OperandNone, CtrlNormal},
	Dup2X2:          {"dup2_x2", OperandNone, CtrlNormal},
	Swap:            {"swap", OperandNone, CtrlNormal},
	Iadd:            {"iadd", OperandNone, CtrlNormal},
	Ladd:            {"ladd", OperandNone, CtrlNormal},
	Fadd:            {"fadd", OperandNone, CtrlNormal},
	Dadd:            {"dadd", OperandNone, CtrlNormal},
	Isub:            {"isub", OperandNone, CtrlNormal},
	Lsub:            {"lsub", OperandNone, CtrlNormal},
	Fsub:            {"fsub", OperandNone, CtrlNormal},
	Dsub:            {"dsub", OperandNone, CtrlNormal},
	Imul:            {"imul", OperandNone, CtrlNormal},
	Lmul:            {"lmul", OperandNone, CtrlNormal},
	Fmul:            {"fmul", OperandNone, CtrlNormal},
	Dmul:            {"dmul", OperandNone, CtrlNormal},
	Idiv:            {"idiv", OperandNone, CtrlNormal},
	Ldiv:            {"ldiv", OperandNone, CtrlNormal},
	Fdiv:            {"fdiv", OperandNone, CtrlNormal},
	Ddiv:            {"ddiv", OperandNone, CtrlNormal},
	Irem:            {"irem", OperandNone, CtrlNormal},
	Lrem:            {"lrem", OperandNone, CtrlNormal},
	Frem:            {"frem", OperandNone, CtrlNormal},
	Drem:            {"drem", OperandNone, CtrlNormal},
	Ineg:            {"ineg", OperandNone, CtrlNormal},
	Lneg:            {"lneg", OperandNone, CtrlNormal},
	Fneg:            {"fneg", OperandNone, CtrlNormal},
	Dneg:            {"dneg", OperandNone, CtrlNormal},
	Ishl:            {"ishl", OperandNone, CtrlNormal},
	Lshl:            {"lshl", OperandNone, CtrlNormal},
	Ishr:            {"ishr", OperandNone, CtrlNormal},
	Lshr:            {"lshr", OperandNone, CtrlNormal},
	Iushr:           {"iushr", OperandNone, CtrlNormal},
	Lushr:           {"lushr", OperandNone, CtrlNormal},
	Iand:            {"iand", OperandNone, CtrlNormal},
	Land:            {"land", OperandNone, CtrlNormal},
	Ior:             {"ior", OperandNone, CtrlNormal},
	Lor:             {"lor", OperandNone, CtrlNormal},
	Ixor:            {"ixor", OperandNone, CtrlNormal},
	Lxor:            {"lxor", OperandNone, CtrlNormal},
	Iinc:            {"iinc", OperandIincU1, CtrlNormal},
	I2l:             {"i2l", OperandNone, CtrlNormal},
	I2f:             {"i2f", OperandNone, CtrlNormal},
	I2d:             {"i2d", OperandNone, CtrlNormal},
	L2i:             {"l2i", OperandNone, CtrlNormal},
	L2f:             {"l2f", OperandNone, CtrlNormal},
	L2d:             {"l2d", OperandNone, CtrlNormal},
	F2i:             {"f2i", OperandNone, CtrlNormal},
	F2l:             {"f2l", OperandNone, CtrlNormal},
	F2d:             {"f2d", OperandNone, CtrlNormal},
	D2i:             {"d2i", OperandNone, CtrlNormal},
	D2l:             {"d2l", OperandNone, CtrlNormal},
	D2f:             {"d2f", OperandNone, CtrlNormal},
	I2b:             {"i2b", OperandNone, CtrlNormal},
	I2c:             {"i2c", OperandNone, CtrlNormal},
	I2s:             {"i2s", OperandNone, CtrlNormal},
	Lcmp:            {"lcmp", OperandNone, CtrlNormal},
	Fcmpl:           {"fcmpl", OperandNone, CtrlNormal},
	Fcmpg:           {"fcmpg", OperandNone, CtrlNormal},
	Dcmpl:           {"dcmpl", OperandNone, CtrlNormal},
	Dcmpg:           {"dcmpg", OperandNone, CtrlNormal},
	Ifeq:            {"ifeq", OperandBranchS2, CtrlConditional},
	Ifne:            {"ifne", OperandBranchS2, CtrlConditional},
	Iflt:            {"iflt", OperandBranchS2, CtrlConditional},
	Ifge:            {"ifge", OperandBranchS2, CtrlConditional},
	Ifgt:            {"ifgt", OperandBranchS2, CtrlConditional},
	Ifle:            {"ifle", OperandBranchS2, CtrlConditional},
	IfIcmpeq:        {"if_icmpeq", OperandBranchS2, CtrlConditional},
	IfIcmpne:        {"if_icmpne", OperandBranchS2, CtrlConditional},
	IfIcmplt:        {"if_icmplt", OperandBranchS2, CtrlConditional},
	IfIcmpge:        {"if_icmpge", OperandBranchS2, CtrlConditional},
	IfIcmpgt:        {"if_icmpgt", OperandBranchS2, CtrlConditional},
	IfIcmple:        {"if_icmple", OperandBranchS2, CtrlConditional},
	IfAcmpeq:        {"if_acmpeq", OperandBranchS2, CtrlConditional},
	IfAcmpne:        {"if_acmpne", OperandBranchS2, CtrlConditional},
	Goto:            {"goto", OperandBranchS2, CtrlUnconditional},
	Jsr:             {"jsr", OperandBranchS2, CtrlSubroutineCall},
	Ret:             {"ret", OperandLocalU1, CtrlSubroutineRet},
	TableSwitch:     {"tableswitch", OperandTableSwitch, CtrlSwitch},
	LookupSwitch:    {"lookupswitch", OperandLookupSwitch, CtrlSwitch},
	Ireturn:         {"ireturn", OperandNone, CtrlReturn},
	Lreturn:         {"lreturn", OperandNone, CtrlReturn},
	Freturn:         {"freturn", OperandNone, CtrlReturn},
	Dreturn:         {"dreturn", OperandNone, CtrlReturn},
	Areturn:         {"areturn", OperandNone, CtrlReturn},
	Return:          {"return", OperandNone, CtrlReturn},
	GetStatic:       {"getstatic", OperandPoolU2, CtrlNormal},
	PutStatic:       {"putstatic", OperandPoolU2, CtrlNormal},
	GetField:        {"getfield", OperandPoolU2, CtrlNormal},
	PutField:        {"putfield", OperandPoolU2, CtrlNormal},
	InvokeVirtual:   {"invokevirtual", OperandPoolU2, CtrlNormal},
	InvokeSpecial:   {"invokespecial", OperandPoolU2, CtrlNormal},
	InvokeStatic:    {"invokestatic", OperandPoolU2, CtrlNormal},
	InvokeInterface: {"invokeinterface", OperandInvokeInterface, CtrlNormal},
	InvokeDynamicOp: {"invokedynamic", OperandInvokeDynamic, CtrlNormal},
	New:             {"new", OperandPoolU2, CtrlNormal},
	NewArray:        {"newarray", OperandNewArrayType, CtrlNormal},
	ANewArray:       {"anewarray", OperandPoolU2, CtrlNormal},
	ArrayLength:     {"arraylength", OperandNone, CtrlNormal},
	AThrow:          {"athrow", OperandNone, CtrlThrow},
	CheckCast:       {"checkcast", OperandPoolU2, CtrlNormal},
	InstanceOf:      {"instanceof", OperandPoolU2, CtrlNormal},
	MonitorEnter:    {"monitorenter", OperandNone, CtrlNormal},
	MonitorExit:     {"monitorexit", OperandNone, CtrlNormal},
	Wide:            {"wide", OperandWidePrefixed, CtrlNormal},
	MultiANewArray:  {"multianewarray", OperandMultiANewArray, CtrlNormal},
	IfNull:          {"ifnull", OperandBranchS2, CtrlConditional},
	IfNonNull:       {"ifnonnull", OperandBranchS2, CtrlConditional},
	GotoW:           {"goto_w", OperandBranchS4, CtrlUnconditional},
	JsrW:            {"jsr_w", OperandBranchS4, CtrlSubroutineCall},
}

// Lookup returns the declarative metadata for op, or ok=false if op is not
// a recognised opcode (the decoder fails with UnknownOpcode in that case).
func Lookup(op Opcode) (OpInfo, bool) {
	info, ok := opcodeTable[op]
	return info, ok
}
