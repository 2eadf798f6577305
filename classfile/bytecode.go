/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "github.com/samber/lo"

// SwitchData carries the decoded operand of a tableswitch or lookupswitch
// instruction. For a tableswitch, TableTargets[i] is the absolute target
// for key Low+i. For a lookupswitch, LookupKeys/LookupTargets are parallel
// slices sorted ascending by key, per JVMS.
type SwitchData struct {
	IsTable       bool
	Default       int
	Low, High     int32 // tableswitch only
	TableTargets  []int
	LookupKeys    []int32
	LookupTargets []int
}

// Instruction is one decoded bytecode instruction, positioned at Offset in
// the method's code array. Operand indices have already been validated
// against the constant pool's tag expectations; PoolIndex is the 1-based
// constant-pool index a caller resolves through ConstantPool's accessors.
type Instruction struct {
	Offset   int
	Opcode   Opcode
	Mnemonic string
	Width    int
	WidePrefixed bool

	LocalIndex   int   // -1 if not applicable
	IntOperand   int32 // bipush/sipush/iinc-const
	PoolIndex    int   // -1 if not applicable
	BranchTarget int   // absolute offset, -1 if not applicable
	ArrayType    uint8 // newarray
	ArgCount     uint8 // invokeinterface
	Dimensions   uint8 // multianewarray
	Switch       *SwitchData
}

// Bytecode is the ordered, offset-indexed map of decoded instructions for
// one method's Code attribute.
type Bytecode struct {
	ByOffset map[int]*Instruction
	Order    []int // ascending offsets
}

// At returns the instruction at offset, or nil if none starts there.
func (b *Bytecode) At(offset int) *Instruction { return b.ByOffset[offset] }

// newarray type codes (JVMS Table 6.5.newarray-A)
const (
	ArrayTypeBoolean = 4
	ArrayTypeChar    = 5
	ArrayTypeFloat   = 6
	ArrayTypeDouble  = 7
	ArrayTypeByte    = 8
	ArrayTypeShort   = 9
	ArrayTypeInt     = 10
	ArrayTypeLong    = 11
)

// decodeBytecode decodes code into an offset-ordered instruction map,
// resolving branch/switch targets to absolute offsets and checking
// constant-pool operands against the tag the opcode requires at that
// position. It does not yet verify that every branch target lands on an
// actual instruction boundary; that check runs as a second pass in
// validateBranchTargets once every instruction has been decoded, since a
// forward branch's target may not yet be in ByOffset while decoding is in
// progress.
func decodeBytecode(code []byte, cp *ConstantPool) (*Bytecode, error) {
	r := NewReader(code)
	bc := &Bytecode{ByOffset: make(map[int]*Instruction)}

	for r.Remaining() > 0 {
		start := r.Pos()
		opByte, err := r.U1()
		if err != nil {
			return nil, err
		}
		op := Opcode(opByte)

		wide := false
		if op == Wide {
			wide = true
			opByte, err = r.U1()
			if err != nil {
				return nil, err
			}
			op = Opcode(opByte)
		}

		info, ok := Lookup(op)
		if !ok {
			return nil, unknownOpcode(opByte, start)
		}

		inst := &Instruction{
			Offset:       start,
			Opcode:       op,
			Mnemonic:     info.Mnemonic,
			LocalIndex:   -1,
			PoolIndex:    -1,
			BranchTarget: -1,
			WidePrefixed: wide,
		}

		switch info.Operand {
		case OperandNone:
			// nothing to read; xload_<n>/xstore_<n> carry their local index in the opcode
			switch {
			case op >= Iload0 && op <= Aload3:
				inst.LocalIndex = int(op-Iload0) % 4
			case op >= Istore0 && op <= Astore3:
				inst.LocalIndex = int(op-Istore0) % 4
			}

		case OperandLocalU1:
			if wide {
				v, err := r.U2()
				if err != nil {
					return nil, err
				}
				inst.LocalIndex = int(v)
			} else {
				v, err := r.U1()
				if err != nil {
					return nil, err
				}
				inst.LocalIndex = int(v)
			}

		case OperandConstU1:
			v, err := r.U1()
			if err != nil {
				return nil, err
			}
			inst.IntOperand = int32(int8(v))

		case OperandConstU2:
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			inst.IntOperand = int32(int16(v))

		case OperandPoolU1:
			v, err := r.U1()
			if err != nil {
				return nil, err
			}
			inst.PoolIndex = int(v)
			if err := checkLdcTag(cp, op, inst.PoolIndex); err != nil {
				return nil, err
			}

		case OperandPoolU2:
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			inst.PoolIndex = int(v)
			if err := checkPoolTag(cp, op, inst.PoolIndex); err != nil {
				return nil, err
			}

		case OperandBranchS2:
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			inst.BranchTarget = start + int(int16(v))

		case OperandBranchS4:
			v, err := r.S4()
			if err != nil {
				return nil, err
			}
			inst.BranchTarget = start + int(v)

		case OperandIincU1:
			if wide {
				idx, err := r.U2()
				if err != nil {
					return nil, err
				}
				c, err := r.U2()
				if err != nil {
					return nil, err
				}
				inst.LocalIndex = int(idx)
				inst.IntOperand = int32(int16(c))
			} else {
				idx, err := r.U1()
				if err != nil {
					return nil, err
				}
				c, err := r.U1()
				if err != nil {
					return nil, err
				}
				inst.LocalIndex = int(idx)
				inst.IntOperand = int32(int8(c))
			}

		case OperandNewArrayType:
			v, err := r.U1()
			if err != nil {
				return nil, err
			}
			inst.ArrayType = v

		case OperandInvokeInterface:
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			count, err := r.U1()
			if err != nil {
				return nil, err
			}
			if _, err := r.U1(); err != nil { // reserved, must be 0
				return nil, err
			}
			inst.PoolIndex = int(v)
			inst.ArgCount = count
			if err := checkPoolTag(cp, op, inst.PoolIndex); err != nil {
				return nil, err
			}

		case OperandInvokeDynamic:
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			if _, err := r.U2(); err != nil { // reserved, must be 0
				return nil, err
			}
			inst.PoolIndex = int(v)
			if err := checkPoolTag(cp, op, inst.PoolIndex); err != nil {
				return nil, err
			}

		case OperandMultiANewArray:
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			dims, err := r.U1()
			if err != nil {
				return nil, err
			}
			inst.PoolIndex = int(v)
			inst.Dimensions = dims
			if err := checkPoolTag(cp, op, inst.PoolIndex); err != nil {
				return nil, err
			}

		case OperandTableSwitch, OperandLookupSwitch:
			sw, err := decodeSwitch(r, start, info.Operand == OperandTableSwitch)
			if err != nil {
				return nil, err
			}
			inst.Switch = sw

		case OperandWidePrefixed:
			// unreachable: the wide byte was already consumed above
		}

		inst.Width = r.Pos() - start
		bc.ByOffset[start] = inst
		bc.Order = append(bc.Order, start)
	}

	if err := validateBranchTargets(bc); err != nil {
		return nil, err
	}
	return bc, nil
}

// decodeSwitch reads a tableswitch/lookupswitch body. Both pad with zero
// bytes from the opcode's own offset to the next 4-byte boundary before
// the default-offset field, per JVMS 6.5.
func decodeSwitch(r *Reader, opcodeOffset int, isTable bool) (*SwitchData, error) {
	padTo := (opcodeOffset + 1 + 3) &^ 3 // opcode occupies 1 byte before the padding
	for r.Pos() < padTo {
		if _, err := r.U1(); err != nil {
			return nil, err
		}
	}
	if r.Pos() != padTo {
		return nil, newErr(SwitchMisaligned, opcodeOffset, "switch padding did not reach a 4-byte boundary")
	}

	defaultOff, err := r.S4()
	if err != nil {
		return nil, err
	}
	sw := &SwitchData{IsTable: isTable, Default: opcodeOffset + int(defaultOff)}

	if isTable {
		low, err := r.S4()
		if err != nil {
			return nil, err
		}
		high, err := r.S4()
		if err != nil {
			return nil, err
		}
		if high < low {
			return nil, newErr(Malformed, opcodeOffset, "tableswitch high < low")
		}
		sw.Low, sw.High = low, high
		n := int(high-low) + 1
		sw.TableTargets = make([]int, n)
		for i := 0; i < n; i++ {
			off, err := r.S4()
			if err != nil {
				return nil, err
			}
			sw.TableTargets[i] = opcodeOffset + int(off)
		}
	} else {
		npairs, err := r.S4()
		if err != nil {
			return nil, err
		}
		if npairs < 0 {
			return nil, newErr(Malformed, opcodeOffset, "lookupswitch negative npairs")
		}
		sw.LookupKeys = make([]int32, npairs)
		sw.LookupTargets = make([]int, npairs)
		for i := 0; i < int(npairs); i++ {
			key, err := r.S4()
			if err != nil {
				return nil, err
			}
			off, err := r.S4()
			if err != nil {
				return nil, err
			}
			sw.LookupKeys[i] = key
			sw.LookupTargets[i] = opcodeOffset + int(off)
		}
	}
	return sw, nil
}

// checkLdcTag validates the single-byte ldc's pool index names a loadable
// constant: Integer, Float, String, Class, MethodHandle, MethodType, or
// Dynamic.
func checkLdcTag(cp *ConstantPool, op Opcode, index int) error {
	e, err := cp.entry(index)
	if err != nil {
		return err
	}
	switch e.Type {
	case TagInteger, TagFloat, TagString, TagClass, TagMethodHandle, TagMethodType, TagDynamic:
		return nil
	default:
		return wrongTag(index, TagString, e.Type)
	}
}

// checkPoolTag validates an opcode's 2-byte constant-pool operand against
// the tag the JVMS requires at that opcode.
func checkPoolTag(cp *ConstantPool, op Opcode, index int) error {
	var want []Tag
	switch op {
	case GetStatic, PutStatic, GetField, PutField:
		want = []Tag{TagFieldref}
	case InvokeVirtual, InvokeSpecial, InvokeStatic:
		want = []Tag{TagMethodref, TagInterfaceMethodref} // invokestatic/special may target an interface method (JVMS 52+)
	case InvokeInterface:
		want = []Tag{TagInterfaceMethodref}
	case InvokeDynamicOp:
		want = []Tag{TagInvokeDynamic}
	case New, ANewArray, CheckCast, InstanceOf, MultiANewArray:
		want = []Tag{TagClass}
	case LdcW:
		want = []Tag{TagInteger, TagFloat, TagString, TagClass, TagMethodHandle, TagMethodType, TagDynamic}
	case Ldc2W:
		want = []Tag{TagLong, TagDouble}
	default:
		return nil
	}
	e, err := cp.entry(index)
	if err != nil {
		return err
	}
	if !lo.Contains(want, e.Type) {
		return wrongTag(index, want[0], e.Type)
	}
	return nil
}

// validateBranchTargets checks that every branch/switch target an
// instruction computes lands exactly on another decoded instruction's
// offset.
func validateBranchTargets(bc *Bytecode) error {
	check := func(off int) error {
		if bc.ByOffset[off] == nil {
			return newErr(BranchOutOfRange, off, "branch target does not land on an instruction boundary")
		}
		return nil
	}
	for _, off := range bc.Order {
		inst := bc.ByOffset[off]
		if inst.BranchTarget >= 0 {
			if err := check(inst.BranchTarget); err != nil {
				return err
			}
		}
		if inst.Switch != nil {
			if err := check(inst.Switch.Default); err != nil {
				return err
			}
			for _, t := range inst.Switch.TableTargets {
				if err := check(t); err != nil {
					return err
				}
			}
			for _, t := range inst.Switch.LookupTargets {
				if err := check(t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
