/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import "github.com/jacobin-vm/classir/classfile"

// StmtOp classifies what a Stmt does to the abstract machine, independent
// of which concrete opcode produced it. The lifter groups JVM opcodes into
// these shapes instead of keeping one IR node type per opcode.
type StmtOp int

const (
	OpNop        StmtOp = iota // stack/local bookkeeping only: dup*, pop*, swap, *load, *store, nop
	OpConst                    // pushes a fresh constant value: iconst*, ldc, aconst_null, bipush...
	OpUnary                    // one use, one def, same or widened kind: ineg, i2l, i2f, arraylength...
	OpBinary                   // two uses, one def: iadd, fcmpl, lcmp...
	OpFieldGet                 // getfield/getstatic
	OpFieldPut                 // putfield/putstatic
	OpArrayLoad                // iaload et al.
	OpArrayStore               // iastore et al.
	OpNew                      // new, newarray, anewarray, multianewarray
	OpInvoke                   // invokevirtual/special/static/interface/dynamic
	OpCheckCast                // checkcast/instanceof
	OpMonitor                  // monitorenter/monitorexit
	OpThrow                    // athrow
	OpReturn                   // *return
	OpGoto                     // goto/goto_w (unconditional, no value test)
	OpIf                       // conditional branch, 1 or 2 uses compared against the branch condition
	OpSwitch                   // tableswitch/lookupswitch
	OpJsr                      // jsr/jsr_w
	OpRet                      // ret
)

// ConstExtra is Stmt.Extra for OpConst. Value holds the Go-typed constant:
// int32 for iconst*/bipush/sipush/ldc(int), int64 for lconst*/ldc2_w(long),
// float32/float64 for the float/double forms, string for a resolved String
// constant, []byte for a String constant whose pool bytes were not valid
// modified UTF-8 (preserved verbatim as an opaque payload), and nil for
// aconst_null. A Class constant carries its name in ClassName instead; a
// Dynamic constant carries its "name:descriptor" string as Value;
// MethodHandle and MethodType constants carry no payload.
type ConstExtra struct {
	Value     interface{}
	ClassName string               // ldc of a Class constant
	Ref       *classfile.MemberRef // MethodHandle reference; ldc leaves it nil
}

// FieldRefExtra is Stmt.Extra for OpFieldGet/OpFieldPut.
type FieldRefExtra struct {
	Ref  classfile.MemberRef
	Type *classfile.TypeDescriptor
}

// InvokeExtra is Stmt.Extra for OpInvoke.
type InvokeExtra struct {
	Opcode                   classfile.Opcode
	Ref                      classfile.MemberRef // zero value for invokedynamic
	IsInvokeDynamic          bool
	BootstrapIndex           int // only meaningful when IsInvokeDynamic
	CallName, CallDescriptor string
	Params                   []*classfile.TypeDescriptor
	Return                   *classfile.TypeDescriptor
}

// NewExtra is Stmt.Extra for OpNew.
type NewExtra struct {
	ClassName  string // new, anewarray, multianewarray
	ArrayType  uint8  // newarray primitive type code
	Dimensions uint8  // multianewarray
}

// CondExtra is Stmt.Extra for OpIf: the comparison the conditional branch
// performs against its use(s) (the implicit zero/null for single-use forms).
type CondExtra struct {
	Mnemonic string
}

// SwitchExtra is Stmt.Extra for OpSwitch, expressed over IR blocks rather
// than raw offsets.
type SwitchExtra struct {
	IsTable bool
	Low     int32
	Keys    []int32
	Default *Block
	Cases   []*Block // parallel to Keys for lookupswitch, or Low..High for tableswitch
}

// Stmt is one lifted instruction. Offset is the original bytecode offset it
// was decoded from: every offset in the method's Bytecode.Order appears as
// the Offset of exactly one Stmt, in the same relative order, which is the
// bijection invariant a caller can rely on when correlating IR back to
// bytecode (e.g. for a debugger or a line-number mapping).
type Stmt struct {
	Offset   int
	Opcode   classfile.Opcode
	Mnemonic string
	Op       StmtOp

	Uses []*Value
	Defs []*Value // 0 or 1 element; category-2 defs still appear once here

	Extra interface{}
}
