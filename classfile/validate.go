/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// validateConstantPool is the eager counterpart to the pool's lazy,
// accessor-driven resolution: it walks every addressable index once,
// right after the pool is decoded, and resolves it exactly the way the
// rest of the package would on first use. This surfaces a bad index, a
// reserved-slot reference, or a tag mismatch anywhere in the pool up
// front, rather than only when some later class/field/method/attribute
// happens to dereference that particular entry.
//
// Checked here: CP index bounds, the reserved slot after a Long/Double
// entry, and tag agreement at every reference a pool entry makes to
// another entry.
func validateConstantPool(cp *ConstantPool) error {
	for i := 1; i <= cp.Len(); i++ {
		e := cp.CpIndex[i]
		if e.Type == tagReserved {
			// The second slot of a Long/Double entry: a valid, expected gap
			// in the index space, not a reference to validate. cp.entry
			// rejects tagReserved because nothing may *reference* this slot,
			// but walking the pool must still pass over it to reach the
			// entries that follow.
			continue
		}
		switch e.Type {
		case TagClass:
			if _, err := cp.ClassName(i); err != nil {
				return err
			}
		case TagString:
			if _, err := cp.StringValue(i); err != nil {
				return err
			}
		case TagFieldref:
			if _, err := cp.FieldRef(i); err != nil {
				return err
			}
		case TagMethodref:
			if _, err := cp.MethodRef(i); err != nil {
				return err
			}
		case TagInterfaceMethodref:
			if _, err := cp.InterfaceMethodRef(i); err != nil {
				return err
			}
		case TagNameAndType:
			if _, _, err := cp.NameAndType(i); err != nil {
				return err
			}
		case TagMethodHandle:
			mh := cp.MethodHandles[e.Slot]
			if err := validateMethodHandleRef(cp, mh.RefKind, int(mh.RefIndex)); err != nil {
				return err
			}
		case TagMethodType:
			if _, err := cp.MethodTypeDescriptor(i); err != nil {
				return err
			}
		case TagDynamic:
			// The bootstrap-method index itself is only checkable once the
			// class's BootstrapMethods attribute is parsed; that happens
			// later, in validateBootstrapIndices. Here we only check the
			// NameAndType half, which is already resolvable.
			d := cp.Dynamics[e.Slot]
			if _, _, err := cp.NameAndType(int(d.NameAndTypeIdx)); err != nil {
				return err
			}
		case TagInvokeDynamic:
			d := cp.InvokeDynamics[e.Slot]
			if _, _, err := cp.NameAndType(int(d.NameAndTypeIdx)); err != nil {
				return err
			}
		case TagModule:
			if _, err := cp.ModuleName(i); err != nil {
				return err
			}
		case TagPackage:
			if _, err := cp.PackageName(i); err != nil {
				return err
			}
		case TagUtf8, TagInteger, TagFloat, TagLong, TagDouble:
			// leaf entries, nothing further to resolve
		}
	}
	return nil
}

// MethodHandle reference-kind codes (JVMS 4.4.8, Table 4.4.8-A/B).
const (
	refGetField         = 1
	refGetStatic        = 2
	refPutField         = 3
	refPutStatic        = 4
	refInvokeVirtual    = 5
	refInvokeStatic     = 6
	refInvokeSpecial    = 7
	refNewInvokeSpecial = 8
	refInvokeInterface  = 9
)

// validateMethodHandleRef checks that a MethodHandle's reference_kind and
// the tag of the entry it targets agree, per JVMS 4.4.8: field accessors
// must target a Fieldref; refInvokeStatic/refInvokeSpecial may target a
// Methodref or, since Java 8, an InterfaceMethodref; refInvokeVirtual and
// refNewInvokeSpecial must target a Methodref; refInvokeInterface must
// target an InterfaceMethodref.
func validateMethodHandleRef(cp *ConstantPool, kind uint8, refIndex int) error {
	e, err := cp.entry(refIndex)
	if err != nil {
		return err
	}
	switch kind {
	case refGetField, refGetStatic, refPutField, refPutStatic:
		if e.Type != TagFieldref {
			return wrongTag(refIndex, TagFieldref, e.Type)
		}
	case refInvokeVirtual, refNewInvokeSpecial:
		if e.Type != TagMethodref {
			return wrongTag(refIndex, TagMethodref, e.Type)
		}
	case refInvokeStatic, refInvokeSpecial:
		if e.Type != TagMethodref && e.Type != TagInterfaceMethodref {
			return wrongTag(refIndex, TagMethodref, e.Type)
		}
	case refInvokeInterface:
		if e.Type != TagInterfaceMethodref {
			return wrongTag(refIndex, TagInterfaceMethodref, e.Type)
		}
	default:
		return newErr(Malformed, refIndex, "unrecognized MethodHandle reference_kind")
	}
	return nil
}

// validateBootstrapIndices checks every Dynamic/InvokeDynamic pool entry's
// bootstrap_method_attr_index against the class's BootstrapMethods
// attribute, once attrs (the class's top-level attribute list) has been
// decoded. A class with no InvokeDynamic/Dynamic constants and no
// BootstrapMethods attribute is valid and this is a no-op.
func validateBootstrapIndices(cp *ConstantPool, attrs []Attribute) error {
	if len(cp.Dynamics) == 0 && len(cp.InvokeDynamics) == 0 {
		return nil
	}
	var n int
	for _, a := range attrs {
		if bsm, ok := a.Value.(BootstrapMethodsAttr); ok {
			n = len(bsm.Methods)
			break
		}
	}
	for i, d := range cp.Dynamics {
		if int(d.BootstrapIndex) >= n {
			return newErr(BadOffset, i, "Dynamic entry's bootstrap_method_attr_index has no matching BootstrapMethods entry")
		}
	}
	for i, d := range cp.InvokeDynamics {
		if int(d.BootstrapIndex) >= n {
			return newErr(BadOffset, i, "InvokeDynamic entry's bootstrap_method_attr_index has no matching BootstrapMethods entry")
		}
	}
	return nil
}
