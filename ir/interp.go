/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"github.com/jacobin-vm/classir/classfile"
)

func interpretBlock(b *Block, s *frameState, cp *classfile.ConstantPool, vt *valueTable) error {
	b.Stmts = make([]*Stmt, 0, len(b.Instrs))
	for _, inst := range b.Instrs {
		stmt, err := interpretInstr(b, inst, s, cp, vt)
		if err != nil {
			return err
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	return nil
}

var binaryArithKind = map[classfile.Opcode]ValueKind{
	classfile.Iadd: KindInt, classfile.Ladd: KindLong, classfile.Fadd: KindFloat, classfile.Dadd: KindDouble,
	classfile.Isub: KindInt, classfile.Lsub: KindLong, classfile.Fsub: KindFloat, classfile.Dsub: KindDouble,
	classfile.Imul: KindInt, classfile.Lmul: KindLong, classfile.Fmul: KindFloat, classfile.Dmul: KindDouble,
	classfile.Idiv: KindInt, classfile.Ldiv: KindLong, classfile.Fdiv: KindFloat, classfile.Ddiv: KindDouble,
	classfile.Irem: KindInt, classfile.Lrem: KindLong, classfile.Frem: KindFloat, classfile.Drem: KindDouble,
	classfile.Iand: KindInt, classfile.Land: KindLong,
	classfile.Ior:  KindInt, classfile.Lor: KindLong,
	classfile.Ixor: KindInt, classfile.Lxor: KindLong,
}

var shiftKind = map[classfile.Opcode]ValueKind{
	classfile.Ishl: KindInt, classfile.Ishr: KindInt, classfile.Iushr: KindInt,
	classfile.Lshl: KindLong, classfile.Lshr: KindLong, classfile.Lushr: KindLong,
}

var unaryNegKind = map[classfile.Opcode]ValueKind{
	classfile.Ineg: KindInt, classfile.Lneg: KindLong, classfile.Fneg: KindFloat, classfile.Dneg: KindDouble,
}

var convertKind = map[classfile.Opcode]ValueKind{
	classfile.I2l: KindLong, classfile.I2f: KindFloat, classfile.I2d: KindDouble,
	classfile.L2i: KindInt, classfile.L2f: KindFloat, classfile.L2d: KindDouble,
	classfile.F2i: KindInt, classfile.F2l: KindLong, classfile.F2d: KindDouble,
	classfile.D2i: KindInt, classfile.D2l: KindLong, classfile.D2f: KindFloat,
	classfile.I2b: KindInt, classfile.I2c: KindInt, classfile.I2s: KindInt,
}

var compareOps = map[classfile.Opcode]bool{
	classfile.Lcmp: true, classfile.Fcmpl: true, classfile.Fcmpg: true, classfile.Dcmpl: true, classfile.Dcmpg: true,
}

var arrayElemKind = map[classfile.Opcode]ValueKind{
	classfile.Iaload: KindInt, classfile.Laload: KindLong, classfile.Faload: KindFloat, classfile.Daload: KindDouble,
	classfile.Aaload: KindRef, classfile.Baload: KindInt, classfile.Caload: KindInt, classfile.Saload: KindInt,
}

var arrayStoreOps = map[classfile.Opcode]bool{
	classfile.Iastore: true, classfile.Lastore: true, classfile.Fastore: true, classfile.Dastore: true,
	classfile.Aastore: true, classfile.Bastore: true, classfile.Castore: true, classfile.Sastore: true,
}

var condMnemonics = map[classfile.Opcode]bool{
	classfile.Ifeq: true, classfile.Ifne: true, classfile.Iflt: true, classfile.Ifge: true, classfile.Ifgt: true, classfile.Ifle: true,
	classfile.IfIcmpeq: true, classfile.IfIcmpne: true, classfile.IfIcmplt: true, classfile.IfIcmpge: true, classfile.IfIcmpgt: true, classfile.IfIcmple: true,
	classfile.IfAcmpeq: true, classfile.IfAcmpne: true, classfile.IfNull: true, classfile.IfNonNull: true,
}

var twoOperandConds = map[classfile.Opcode]bool{
	classfile.IfIcmpeq: true, classfile.IfIcmpne: true, classfile.IfIcmplt: true, classfile.IfIcmpge: true, classfile.IfIcmpgt: true, classfile.IfIcmple: true,
	classfile.IfAcmpeq: true, classfile.IfAcmpne: true,
}

var returnOps = map[classfile.Opcode]bool{
	classfile.Ireturn: true, classfile.Lreturn: true, classfile.Freturn: true, classfile.Dreturn: true, classfile.Areturn: true, classfile.Return: true,
}

func interpretInstr(b *Block, inst *classfile.Instruction, s *frameState, cp *classfile.ConstantPool, vt *valueTable) (*Stmt, error) {
	off := inst.Offset
	base := func(op StmtOp) *Stmt {
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: op}
	}

	switch {
	case inst.Opcode == classfile.Nop:
		return base(OpNop), nil

	case isLoad(inst.Opcode):
		v := s.getLocal(inst.LocalIndex)
		if v != nil {
			if err := s.pushValue(off, v); err != nil {
				return nil, err
			}
		}
		st := base(OpNop)
		if v != nil {
			st.Uses = []*Value{v}
		}
		return st, nil

	case isStore(inst.Opcode):
		v, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		s.setLocal(inst.LocalIndex, v)
		st := base(OpNop)
		st.Uses = []*Value{v}
		return st, nil

	case isConst(inst.Opcode):
		v := vt.define(inst.Offset, constKind(inst.Opcode))
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpConst, Defs: []*Value{v}, Extra: ConstExtra{Value: implicitConstValue(inst.Opcode)}}, nil

	case inst.Opcode == classfile.Bipush || inst.Opcode == classfile.Sipush:
		v := vt.define(inst.Offset, KindInt)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpConst, Defs: []*Value{v}, Extra: ConstExtra{Value: inst.IntOperand}}, nil

	case inst.Opcode == classfile.Ldc || inst.Opcode == classfile.LdcW || inst.Opcode == classfile.Ldc2W:
		kind, err := ldcKind(cp, inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		extra, err := ldcExtra(cp, inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, kind)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpConst, Defs: []*Value{v}, Extra: extra}, nil

	case inst.Opcode == classfile.Pop:
		slots, err := s.popSlots(off, 1)
		if err != nil {
			return nil, err
		}
		st := base(OpNop)
		st.Uses = slots
		return st, nil

	case inst.Opcode == classfile.Pop2:
		slots, err := s.popSlots(off, 2)
		if err != nil {
			return nil, err
		}
		st := base(OpNop)
		st.Uses = dedupValues(slots)
		return st, nil

	case inst.Opcode == classfile.Dup:
		a, err := s.popSlots(off, 1)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, a[0], a[0]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case inst.Opcode == classfile.DupX1:
		sl, err := s.popSlots(off, 2)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, sl[1], sl[0], sl[1]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case inst.Opcode == classfile.DupX2:
		sl, err := s.popSlots(off, 3)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, sl[2], sl[0], sl[1], sl[2]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case inst.Opcode == classfile.Dup2:
		sl, err := s.popSlots(off, 2)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, sl[0], sl[1], sl[0], sl[1]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case inst.Opcode == classfile.Dup2X1:
		sl, err := s.popSlots(off, 3)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, sl[1], sl[2], sl[0], sl[1], sl[2]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case inst.Opcode == classfile.Dup2X2:
		sl, err := s.popSlots(off, 4)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, sl[2], sl[3], sl[0], sl[1], sl[2], sl[3]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case inst.Opcode == classfile.Swap:
		sl, err := s.popSlots(off, 2)
		if err != nil {
			return nil, err
		}
		if err := s.pushSlots(off, sl[1], sl[0]); err != nil {
			return nil, err
		}
		return base(OpNop), nil

	case binaryArithKindHas(inst.Opcode):
		kind := binaryArithKind[inst.Opcode]
		rhs, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		lhs, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, kind)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpBinary, Uses: []*Value{lhs, rhs}, Defs: []*Value{v}}, nil

	case shiftKindHas(inst.Opcode):
		kind := shiftKind[inst.Opcode]
		shiftAmount, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		value, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, kind)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpBinary, Uses: []*Value{value, shiftAmount}, Defs: []*Value{v}}, nil

	case unaryNegKindHas(inst.Opcode):
		kind := unaryNegKind[inst.Opcode]
		operand, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, kind)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpUnary, Uses: []*Value{operand}, Defs: []*Value{v}}, nil

	case inst.Opcode == classfile.Iinc:
		old := s.getLocal(inst.LocalIndex)
		v := vt.define(inst.Offset, KindInt)
		s.setLocal(inst.LocalIndex, v)
		st := &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpUnary, Defs: []*Value{v}}
		if old != nil {
			st.Uses = []*Value{old}
		}
		return st, nil

	case convertKindHas(inst.Opcode):
		kind := convertKind[inst.Opcode]
		operand, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, kind)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpUnary, Uses: []*Value{operand}, Defs: []*Value{v}}, nil

	case compareOps[inst.Opcode]:
		rhs, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		lhs, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindInt)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpBinary, Uses: []*Value{lhs, rhs}, Defs: []*Value{v}}, nil

	case condMnemonics[inst.Opcode]:
		var uses []*Value
		if twoOperandConds[inst.Opcode] {
			rhs, err := s.popValue(off)
			if err != nil {
				return nil, err
			}
			lhs, err := s.popValue(off)
			if err != nil {
				return nil, err
			}
			uses = []*Value{lhs, rhs}
		} else {
			v, err := s.popValue(off)
			if err != nil {
				return nil, err
			}
			uses = []*Value{v}
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpIf, Uses: uses, Extra: CondExtra{Mnemonic: inst.Mnemonic}}, nil

	case inst.Opcode == classfile.Goto || inst.Opcode == classfile.GotoW:
		return base(OpGoto), nil

	case inst.Opcode == classfile.TableSwitch || inst.Opcode == classfile.LookupSwitch:
		key, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		extra := buildSwitchExtra(b, inst)
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpSwitch, Uses: []*Value{key}, Extra: extra}, nil

	case returnOps[inst.Opcode]:
		st := base(OpReturn)
		if inst.Opcode != classfile.Return {
			v, err := s.popValue(off)
			if err != nil {
				return nil, err
			}
			st.Uses = []*Value{v}
		}
		return st, nil

	case inst.Opcode == classfile.AThrow:
		v, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpThrow, Uses: []*Value{v}}, nil

	case inst.Opcode == classfile.GetStatic:
		ref, err := cp.FieldRef(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		typ, err := classfile.ParseFieldDescriptor(ref.Descriptor)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, descriptorKind(typ))
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpFieldGet, Defs: []*Value{v}, Extra: FieldRefExtra{Ref: ref, Type: typ}}, nil

	case inst.Opcode == classfile.GetField:
		ref, err := cp.FieldRef(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		typ, err := classfile.ParseFieldDescriptor(ref.Descriptor)
		if err != nil {
			return nil, err
		}
		objref, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, descriptorKind(typ))
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpFieldGet, Uses: []*Value{objref}, Defs: []*Value{v}, Extra: FieldRefExtra{Ref: ref, Type: typ}}, nil

	case inst.Opcode == classfile.PutStatic:
		ref, err := cp.FieldRef(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		typ, err := classfile.ParseFieldDescriptor(ref.Descriptor)
		if err != nil {
			return nil, err
		}
		value, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpFieldPut, Uses: []*Value{value}, Extra: FieldRefExtra{Ref: ref, Type: typ}}, nil

	case inst.Opcode == classfile.PutField:
		ref, err := cp.FieldRef(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		typ, err := classfile.ParseFieldDescriptor(ref.Descriptor)
		if err != nil {
			return nil, err
		}
		value, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		objref, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpFieldPut, Uses: []*Value{objref, value}, Extra: FieldRefExtra{Ref: ref, Type: typ}}, nil

	case isInvoke(inst.Opcode):
		return interpretInvoke(inst, s, cp, vt)

	case inst.Opcode == classfile.New:
		name, err := cp.ClassName(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindRef)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpNew, Defs: []*Value{v}, Extra: NewExtra{ClassName: name}}, nil

	case inst.Opcode == classfile.NewArray:
		count, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindRef)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpNew, Uses: []*Value{count}, Defs: []*Value{v}, Extra: NewExtra{ArrayType: inst.ArrayType}}, nil

	case inst.Opcode == classfile.ANewArray:
		name, err := cp.ClassName(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		count, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindRef)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpNew, Uses: []*Value{count}, Defs: []*Value{v}, Extra: NewExtra{ClassName: name}}, nil

	case inst.Opcode == classfile.MultiANewArray:
		name, err := cp.ClassName(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		dims, err := s.popSlots(off, int(inst.Dimensions))
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindRef)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpNew, Uses: dims, Defs: []*Value{v}, Extra: NewExtra{ClassName: name, Dimensions: inst.Dimensions}}, nil

	case inst.Opcode == classfile.ArrayLength:
		arrRef, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindInt)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpUnary, Uses: []*Value{arrRef}, Defs: []*Value{v}}, nil

	case inst.Opcode == classfile.CheckCast:
		name, err := cp.ClassName(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		objref, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindRef)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpCheckCast, Uses: []*Value{objref}, Defs: []*Value{v}, Extra: NewExtra{ClassName: name}}, nil

	case inst.Opcode == classfile.InstanceOf:
		name, err := cp.ClassName(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		objref, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, KindInt)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpCheckCast, Uses: []*Value{objref}, Defs: []*Value{v}, Extra: NewExtra{ClassName: name}}, nil

	case arrayElemKindHas(inst.Opcode):
		kind := arrayElemKind[inst.Opcode]
		index, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		arrRef, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		v := vt.define(inst.Offset, kind)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpArrayLoad, Uses: []*Value{arrRef, index}, Defs: []*Value{v}}, nil

	case arrayStoreOps[inst.Opcode]:
		value, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		index, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		arrRef, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpArrayStore, Uses: []*Value{arrRef, index, value}}, nil

	case inst.Opcode == classfile.MonitorEnter || inst.Opcode == classfile.MonitorExit:
		objref, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpMonitor, Uses: []*Value{objref}}, nil

	case inst.Opcode == classfile.Jsr || inst.Opcode == classfile.JsrW:
		v := vt.define(inst.Offset, KindReturnAddress)
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		return &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpJsr, Defs: []*Value{v}}, nil

	case inst.Opcode == classfile.Ret:
		ra := s.getLocal(inst.LocalIndex)
		st := &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpRet}
		if ra != nil {
			st.Uses = []*Value{ra}
		}
		return st, nil

	default:
		return nil, newLiftError(UnsupportedOpcode, inst.Offset, inst.Mnemonic)
	}
}

func interpretInvoke(inst *classfile.Instruction, s *frameState, cp *classfile.ConstantPool, vt *valueTable) (*Stmt, error) {
	off := inst.Offset
	extra := InvokeExtra{Opcode: inst.Opcode}
	var desc string
	if inst.Opcode == classfile.InvokeDynamicOp {
		bsmIdx, name, d, err := cp.InvokeDynamicCallSite(inst.PoolIndex)
		if err != nil {
			return nil, err
		}
		extra.IsInvokeDynamic = true
		extra.BootstrapIndex = bsmIdx
		extra.CallName, extra.CallDescriptor = name, d
		desc = d
	} else {
		var ref classfile.MemberRef
		var err error
		switch inst.Opcode {
		case classfile.InvokeInterface:
			ref, err = cp.InterfaceMethodRef(inst.PoolIndex)
		default:
			ref, err = cp.MethodRef(inst.PoolIndex)
		}
		if err != nil {
			return nil, err
		}
		extra.Ref = ref
		extra.CallName, extra.CallDescriptor = ref.MemberName, ref.Descriptor
		desc = ref.Descriptor
	}

	params, ret, err := classfile.ParseMethodDescriptor(desc)
	if err != nil {
		return nil, err
	}
	extra.Params, extra.Return = params, ret

	args := make([]*Value, len(params))
	for i := len(params) - 1; i >= 0; i-- {
		args[i], err = s.popValue(off)
		if err != nil {
			return nil, err
		}
	}

	var uses []*Value
	if inst.Opcode != classfile.InvokeStatic && !extra.IsInvokeDynamic {
		objref, err := s.popValue(off)
		if err != nil {
			return nil, err
		}
		uses = append(uses, objref)
	}
	uses = append(uses, args...)

	st := &Stmt{Offset: inst.Offset, Opcode: inst.Opcode, Mnemonic: inst.Mnemonic, Op: OpInvoke, Uses: uses, Extra: extra}
	if ret.Kind != classfile.DescVoid {
		v := vt.define(inst.Offset, descriptorKind(ret))
		if err := s.pushValue(off, v); err != nil {
			return nil, err
		}
		st.Defs = []*Value{v}
	}
	return st, nil
}

func buildSwitchExtra(b *Block, inst *classfile.Instruction) SwitchExtra {
	extra := SwitchExtra{IsTable: inst.Switch.IsTable, Low: inst.Switch.Low}
	if inst.Switch.IsTable {
		extra.Keys = make([]int32, len(inst.Switch.TableTargets))
		for i := range inst.Switch.TableTargets {
			extra.Keys[i] = inst.Switch.Low + int32(i)
		}
	} else {
		extra.Keys = inst.Switch.LookupKeys
	}
	for _, e := range b.Succs {
		switch e.Kind {
		case EdgeSwitchDefault:
			extra.Default = e.Target
		case EdgeSwitchCase:
			extra.Cases = append(extra.Cases, e.Target)
		}
	}
	return extra
}

func isLoad(op classfile.Opcode) bool {
	switch op {
	case classfile.Iload, classfile.Lload, classfile.Fload, classfile.Dload, classfile.Aload,
		classfile.Iload0, classfile.Iload1, classfile.Iload2, classfile.Iload3,
		classfile.Lload0, classfile.Lload1, classfile.Lload2, classfile.Lload3,
		classfile.Fload0, classfile.Fload1, classfile.Fload2, classfile.Fload3,
		classfile.Dload0, classfile.Dload1, classfile.Dload2, classfile.Dload3,
		classfile.Aload0, classfile.Aload1, classfile.Aload2, classfile.Aload3:
		return true
	default:
		return false
	}
}

func isStore(op classfile.Opcode) bool {
	switch op {
	case classfile.Istore, classfile.Lstore, classfile.Fstore, classfile.Dstore, classfile.Astore,
		classfile.Istore0, classfile.Istore1, classfile.Istore2, classfile.Istore3,
		classfile.Lstore0, classfile.Lstore1, classfile.Lstore2, classfile.Lstore3,
		classfile.Fstore0, classfile.Fstore1, classfile.Fstore2, classfile.Fstore3,
		classfile.Dstore0, classfile.Dstore1, classfile.Dstore2, classfile.Dstore3,
		classfile.Astore0, classfile.Astore1, classfile.Astore2, classfile.Astore3:
		return true
	default:
		return false
	}
}

func isConst(op classfile.Opcode) bool {
	switch op {
	case classfile.AconstNull,
		classfile.IconstM1, classfile.Iconst0, classfile.Iconst1, classfile.Iconst2, classfile.Iconst3, classfile.Iconst4, classfile.Iconst5,
		classfile.Lconst0, classfile.Lconst1,
		classfile.Fconst0, classfile.Fconst1, classfile.Fconst2,
		classfile.Dconst0, classfile.Dconst1:
		return true
	default:
		return false
	}
}

func constKind(op classfile.Opcode) ValueKind {
	switch op {
	case classfile.AconstNull:
		return KindRef
	case classfile.Lconst0, classfile.Lconst1:
		return KindLong
	case classfile.Fconst0, classfile.Fconst1, classfile.Fconst2:
		return KindFloat
	case classfile.Dconst0, classfile.Dconst1:
		return KindDouble
	default:
		return KindInt
	}
}

func convertKindHas(op classfile.Opcode) bool {
	_, ok := convertKind[op]
	return ok
}

func binaryArithKindHas(op classfile.Opcode) bool {
	_, ok := binaryArithKind[op]
	return ok
}

func shiftKindHas(op classfile.Opcode) bool {
	_, ok := shiftKind[op]
	return ok
}

func unaryNegKindHas(op classfile.Opcode) bool {
	_, ok := unaryNegKind[op]
	return ok
}

func arrayElemKindHas(op classfile.Opcode) bool {
	_, ok := arrayElemKind[op]
	return ok
}

func isInvoke(op classfile.Opcode) bool {
	switch op {
	case classfile.InvokeVirtual, classfile.InvokeSpecial, classfile.InvokeStatic, classfile.InvokeInterface, classfile.InvokeDynamicOp:
		return true
	default:
		return false
	}
}

// implicitConstValue returns the literal Go value for a zero-operand
// constant-push opcode (iconst_0, lconst_1, fconst_2, dconst_0, ...).
func implicitConstValue(op classfile.Opcode) interface{} {
	switch op {
	case classfile.AconstNull:
		return nil
	case classfile.IconstM1:
		return int32(-1)
	case classfile.Iconst0:
		return int32(0)
	case classfile.Iconst1:
		return int32(1)
	case classfile.Iconst2:
		return int32(2)
	case classfile.Iconst3:
		return int32(3)
	case classfile.Iconst4:
		return int32(4)
	case classfile.Iconst5:
		return int32(5)
	case classfile.Lconst0:
		return int64(0)
	case classfile.Lconst1:
		return int64(1)
	case classfile.Fconst0:
		return float32(0)
	case classfile.Fconst1:
		return float32(1)
	case classfile.Fconst2:
		return float32(2)
	case classfile.Dconst0:
		return float64(0)
	case classfile.Dconst1:
		return float64(1)
	default:
		return nil
	}
}

// ldcExtra resolves an ldc/ldc_w/ldc2_w pool index to the ConstExtra payload
// describing what it pushes: a literal Go value for numeric/String
// constants, the class name for a Class constant, a "name:descriptor"
// string for a Dynamic constant, and an empty payload for
// MethodHandle/MethodType.
func ldcExtra(cp *classfile.ConstantPool, index int) (ConstExtra, error) {
	tag, err := cp.TagAt(index)
	if err != nil {
		return ConstExtra{}, err
	}
	switch tag {
	case classfile.TagInteger:
		v, err := cp.Integer(index)
		return ConstExtra{Value: v}, err
	case classfile.TagFloat:
		v, err := cp.Float(index)
		return ConstExtra{Value: v}, err
	case classfile.TagLong:
		v, err := cp.Long(index)
		return ConstExtra{Value: v}, err
	case classfile.TagDouble:
		v, err := cp.Double(index)
		return ConstExtra{Value: v}, err
	case classfile.TagString:
		mu, err := cp.StringEntry(index)
		if err != nil {
			return ConstExtra{}, err
		}
		if !mu.Valid {
			// opaque payload: surface the raw bytes rather than a lossy decode
			return ConstExtra{Value: mu.Raw}, nil
		}
		return ConstExtra{Value: mu.Text}, nil
	case classfile.TagClass:
		name, err := cp.ClassName(index)
		return ConstExtra{ClassName: name}, err
	case classfile.TagMethodHandle, classfile.TagMethodType:
		return ConstExtra{}, nil
	case classfile.TagDynamic:
		_, name, desc, err := cp.DynamicConstant(index)
		return ConstExtra{Value: name + ":" + desc}, err
	default:
		return ConstExtra{}, newLiftError(UnsupportedOpcode, index, "unsupported ldc constant tag")
	}
}

func ldcKind(cp *classfile.ConstantPool, index int) (ValueKind, error) {
	tag, err := cp.TagAt(index)
	if err != nil {
		return 0, err
	}
	switch tag {
	case classfile.TagInteger:
		return KindInt, nil
	case classfile.TagFloat:
		return KindFloat, nil
	case classfile.TagLong:
		return KindLong, nil
	case classfile.TagDouble:
		return KindDouble, nil
	case classfile.TagString, classfile.TagClass, classfile.TagMethodHandle, classfile.TagMethodType:
		return KindRef, nil
	case classfile.TagDynamic:
		_, _, desc, err := cp.DynamicConstant(index)
		if err != nil {
			return 0, err
		}
		typ, err := classfile.ParseFieldDescriptor(desc)
		if err != nil {
			return 0, err
		}
		return descriptorKind(typ), nil
	default:
		return 0, newLiftError(UnsupportedOpcode, index, "unsupported ldc constant tag")
	}
}

func dedupValues(vs []*Value) []*Value {
	if len(vs) < 2 || vs[0] != vs[1] {
		return vs
	}
	return vs[:1]
}
