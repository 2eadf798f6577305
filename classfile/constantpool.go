/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "github.com/samber/lo"

// Tag identifies the kind of a constant-pool entry.
type Tag byte

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20

	// tagReserved marks the second slot of a Long/Double entry. It is never
	// present in a class file; the decoder inserts it synthetically.
	tagReserved Tag = 0
)

func (t Tag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	case tagReserved:
		return "ReservedSlot"
	default:
		return "Unknown"
	}
}

// CpEntry is the pool's 1-based index-addressed directory: for every index
// it records which typed slice the payload lives in (Type) and at which
// position (Slot).
type CpEntry struct {
	Type Tag
	Slot int
}

// RefEntry backs FieldRef/MethodRef/InterfaceMethodRef: an index into
// CpIndex for the owning class, and one for the NameAndType descriptor.
type RefEntry struct {
	ClassIndex      uint16
	NameAndTypeIdx  uint16
}

// NameAndTypeEntry backs NameAndType entries.
type NameAndTypeEntry struct {
	NameIndex uint16
	DescIndex uint16
}

// MethodHandleEntry backs MethodHandle entries.
type MethodHandleEntry struct {
	RefKind  uint8 // JVMS 4.4.8 REF_getField .. REF_invokeInterface
	RefIndex uint16
}

// DynamicEntry backs Dynamic/InvokeDynamic entries.
type DynamicEntry struct {
	BootstrapIndex uint16
	NameAndTypeIdx uint16
}

// ConstantPool is the typed view over a class's constant pool: a 1-based
// index space of length n-1, where every entry resolves in O(1) by
// indexing CpIndex then the per-tag slice it names. Resolution of index
// references (e.g. a MethodRef's ClassIndex) is lazy: accessor methods
// below walk the reference chain on demand rather than materializing a
// pointer graph up front, which sidesteps ever needing to topologically
// order Dynamic/InvokeDynamic's bootstrap-method cycles.
type ConstantPool struct {
	CpIndex []CpEntry // index 0 is always the zero value and never valid

	Utf8Refs       []ModifiedUTF8
	IntConsts      []int32
	FloatConsts    []float32
	LongConsts     []int64
	DoubleConsts   []float64
	ClassRefs      []uint16 // index of a Utf8 entry holding the (possibly array) class name
	StringRefs     []uint16 // index of a Utf8 entry
	FieldRefs      []RefEntry
	MethodRefs     []RefEntry
	InterfaceRefs  []RefEntry
	NameAndTypes   []NameAndTypeEntry
	MethodHandles  []MethodHandleEntry
	MethodTypes    []uint16 // index of a Utf8 entry holding the descriptor
	Dynamics       []DynamicEntry
	InvokeDynamics []DynamicEntry
	ModuleRefs     []uint16
	PackageRefs    []uint16
}

// Len returns n-1: the number of addressable slots, excluding index 0.
func (cp *ConstantPool) Len() int { return len(cp.CpIndex) - 1 }

// TagAt reports the tag of the entry at index, for callers (such as the ir
// package's ldc handling) that need to dispatch on an entry's kind before
// knowing which typed accessor to call.
func (cp *ConstantPool) TagAt(index int) (Tag, error) {
	e, err := cp.entry(index)
	if err != nil {
		return 0, err
	}
	return e.Type, nil
}

func (cp *ConstantPool) entry(index int) (CpEntry, error) {
	if index <= 0 || index >= len(cp.CpIndex) {
		return CpEntry{}, newErr(BadPoolIndex, index, "index out of range")
	}
	e := cp.CpIndex[index]
	if e.Type == tagReserved {
		return CpEntry{}, newErr(ReservedSlotReferenced, index, "index refers to the second slot of a Long/Double entry")
	}
	return e, nil
}

func (cp *ConstantPool) expect(index int, want Tag) (CpEntry, error) {
	e, err := cp.entry(index)
	if err != nil {
		return CpEntry{}, err
	}
	if e.Type != want {
		return CpEntry{}, wrongTag(index, want, e.Type)
	}
	return e, nil
}

// Utf8 resolves index to a decoded modified-UTF-8 string. If the raw bytes
// were not valid modified UTF-8, the returned string is empty (callers
// interested in validity or the raw bytes should consult Utf8Entry).
func (cp *ConstantPool) Utf8(index int) (string, error) {
	e, err := cp.expect(index, TagUtf8)
	if err != nil {
		return "", err
	}
	return cp.Utf8Refs[e.Slot].Text, nil
}

// Utf8Entry resolves index to the full ModifiedUTF8 payload, including
// invalid-encoding raw bytes.
func (cp *ConstantPool) Utf8Entry(index int) (ModifiedUTF8, error) {
	e, err := cp.expect(index, TagUtf8)
	if err != nil {
		return ModifiedUTF8{}, err
	}
	return cp.Utf8Refs[e.Slot], nil
}

// ClassName resolves a Class entry to its (internal-form) name string.
func (cp *ConstantPool) ClassName(index int) (string, error) {
	e, err := cp.expect(index, TagClass)
	if err != nil {
		return "", err
	}
	return cp.Utf8(int(cp.ClassRefs[e.Slot]))
}

// StringValue resolves a String entry to its backing Utf8 text.
func (cp *ConstantPool) StringValue(index int) (string, error) {
	e, err := cp.expect(index, TagString)
	if err != nil {
		return "", err
	}
	return cp.Utf8(int(cp.StringRefs[e.Slot]))
}

// StringEntry resolves a String entry to its full backing Utf8 payload,
// including the raw bytes of a string constant that was not valid modified
// UTF-8 (the format permits those; they are preserved, not rejected).
func (cp *ConstantPool) StringEntry(index int) (ModifiedUTF8, error) {
	e, err := cp.expect(index, TagString)
	if err != nil {
		return ModifiedUTF8{}, err
	}
	return cp.Utf8Entry(int(cp.StringRefs[e.Slot]))
}

// Integer resolves an Integer entry.
func (cp *ConstantPool) Integer(index int) (int32, error) {
	e, err := cp.expect(index, TagInteger)
	if err != nil {
		return 0, err
	}
	return cp.IntConsts[e.Slot], nil
}

// Float resolves a Float entry.
func (cp *ConstantPool) Float(index int) (float32, error) {
	e, err := cp.expect(index, TagFloat)
	if err != nil {
		return 0, err
	}
	return cp.FloatConsts[e.Slot], nil
}

// Long resolves a Long entry.
func (cp *ConstantPool) Long(index int) (int64, error) {
	e, err := cp.expect(index, TagLong)
	if err != nil {
		return 0, err
	}
	return cp.LongConsts[e.Slot], nil
}

// Double resolves a Double entry.
func (cp *ConstantPool) Double(index int) (float64, error) {
	e, err := cp.expect(index, TagDouble)
	if err != nil {
		return 0, err
	}
	return cp.DoubleConsts[e.Slot], nil
}

// NameAndType resolves a NameAndType entry to its (name, descriptor) pair.
func (cp *ConstantPool) NameAndType(index int) (name, desc string, err error) {
	e, err := cp.expect(index, TagNameAndType)
	if err != nil {
		return "", "", err
	}
	nat := cp.NameAndTypes[e.Slot]
	name, err = cp.Utf8(int(nat.NameIndex))
	if err != nil {
		return "", "", err
	}
	desc, err = cp.Utf8(int(nat.DescIndex))
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// MemberRef is the resolved form of a FieldRef/MethodRef/InterfaceMethodRef:
// owning class name, member name, descriptor.
type MemberRef struct {
	ClassName  string
	MemberName string
	Descriptor string
}

func (cp *ConstantPool) memberRef(index int, want Tag, table []RefEntry) (MemberRef, error) {
	e, err := cp.expect(index, want)
	if err != nil {
		return MemberRef{}, err
	}
	ref := table[e.Slot]
	className, err := cp.ClassName(int(ref.ClassIndex))
	if err != nil {
		return MemberRef{}, err
	}
	name, desc, err := cp.NameAndType(int(ref.NameAndTypeIdx))
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{ClassName: className, MemberName: name, Descriptor: desc}, nil
}

// FieldRef resolves a Fieldref entry.
func (cp *ConstantPool) FieldRef(index int) (MemberRef, error) {
	return cp.memberRef(index, TagFieldref, cp.FieldRefs)
}

// MethodRef resolves a Methodref entry.
func (cp *ConstantPool) MethodRef(index int) (MemberRef, error) {
	return cp.memberRef(index, TagMethodref, cp.MethodRefs)
}

// InterfaceMethodRef resolves an InterfaceMethodref entry.
func (cp *ConstantPool) InterfaceMethodRef(index int) (MemberRef, error) {
	return cp.memberRef(index, TagInterfaceMethodref, cp.InterfaceRefs)
}

// MethodHandle resolves a MethodHandle entry to its kind and referenced index.
func (cp *ConstantPool) MethodHandle(index int) (MethodHandleEntry, error) {
	e, err := cp.expect(index, TagMethodHandle)
	if err != nil {
		return MethodHandleEntry{}, err
	}
	return cp.MethodHandles[e.Slot], nil
}

// MethodTypeDescriptor resolves a MethodType entry to its descriptor string.
func (cp *ConstantPool) MethodTypeDescriptor(index int) (string, error) {
	e, err := cp.expect(index, TagMethodType)
	if err != nil {
		return "", err
	}
	return cp.Utf8(int(cp.MethodTypes[e.Slot]))
}

// InvokeDynamicCallSite resolves an InvokeDynamic entry to its bootstrap
// method table index and its (name, descriptor).
func (cp *ConstantPool) InvokeDynamicCallSite(index int) (bootstrapIndex int, name, desc string, err error) {
	e, err := cp.expect(index, TagInvokeDynamic)
	if err != nil {
		return 0, "", "", err
	}
	d := cp.InvokeDynamics[e.Slot]
	name, desc, err = cp.NameAndType(int(d.NameAndTypeIdx))
	return int(d.BootstrapIndex), name, desc, err
}

// DynamicConstant resolves a Dynamic entry the same way InvokeDynamic does.
func (cp *ConstantPool) DynamicConstant(index int) (bootstrapIndex int, name, desc string, err error) {
	e, err := cp.expect(index, TagDynamic)
	if err != nil {
		return 0, "", "", err
	}
	d := cp.Dynamics[e.Slot]
	name, desc, err = cp.NameAndType(int(d.NameAndTypeIdx))
	return int(d.BootstrapIndex), name, desc, err
}

// ModuleName resolves a Module entry.
func (cp *ConstantPool) ModuleName(index int) (string, error) {
	e, err := cp.expect(index, TagModule)
	if err != nil {
		return "", err
	}
	return cp.Utf8(int(cp.ModuleRefs[e.Slot]))
}

// PackageName resolves a Package entry.
func (cp *ConstantPool) PackageName(index int) (string, error) {
	e, err := cp.expect(index, TagPackage)
	if err != nil {
		return "", err
	}
	return cp.Utf8(int(cp.PackageRefs[e.Slot]))
}

// parseConstantPool reads the count-prefixed constant pool off r: a u2
// entry count (1-based; the real entry count is count-1), followed by
// that many tagged entries. Long and Double entries occupy two index
// slots, the second of which is marked tagReserved and must never be
// referenced directly (JVMS 4.4.5).
func parseConstantPool(r *Reader) (*ConstantPool, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}

	cp := &ConstantPool{CpIndex: make([]CpEntry, 1, count)} // index 0 reserved, never valid

	for i := 1; i < int(count); i++ {
		tagByte, err := r.U1()
		if err != nil {
			return nil, err
		}
		tag := Tag(tagByte)

		switch tag {
		case TagUtf8:
			s, err := r.Utf8String()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagUtf8, len(cp.Utf8Refs)})
			cp.Utf8Refs = append(cp.Utf8Refs, s)

		case TagInteger:
			v, err := r.S4()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagInteger, len(cp.IntConsts)})
			cp.IntConsts = append(cp.IntConsts, v)

		case TagFloat:
			v, err := r.F4()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagFloat, len(cp.FloatConsts)})
			cp.FloatConsts = append(cp.FloatConsts, v)

		case TagLong:
			hi, err := r.U4()
			if err != nil {
				return nil, err
			}
			lo, err := r.U4()
			if err != nil {
				return nil, err
			}
			v := int64(uint64(hi)<<32 | uint64(lo))
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagLong, len(cp.LongConsts)})
			cp.LongConsts = append(cp.LongConsts, v)
			cp.CpIndex = append(cp.CpIndex, CpEntry{tagReserved, 0}) // reserved slot
			i++

		case TagDouble:
			v, err := r.F8()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagDouble, len(cp.DoubleConsts)})
			cp.DoubleConsts = append(cp.DoubleConsts, v)
			cp.CpIndex = append(cp.CpIndex, CpEntry{tagReserved, 0}) // reserved slot
			i++

		case TagClass:
			nameIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagClass, len(cp.ClassRefs)})
			cp.ClassRefs = append(cp.ClassRefs, nameIdx)

		case TagString:
			strIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagString, len(cp.StringRefs)})
			cp.StringRefs = append(cp.StringRefs, strIdx)

		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			classIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			re := RefEntry{ClassIndex: classIdx, NameAndTypeIdx: natIdx}
			switch tag {
			case TagFieldref:
				cp.CpIndex = append(cp.CpIndex, CpEntry{TagFieldref, len(cp.FieldRefs)})
				cp.FieldRefs = append(cp.FieldRefs, re)
			case TagMethodref:
				cp.CpIndex = append(cp.CpIndex, CpEntry{TagMethodref, len(cp.MethodRefs)})
				cp.MethodRefs = append(cp.MethodRefs, re)
			case TagInterfaceMethodref:
				cp.CpIndex = append(cp.CpIndex, CpEntry{TagInterfaceMethodref, len(cp.InterfaceRefs)})
				cp.InterfaceRefs = append(cp.InterfaceRefs, re)
			}

		case TagNameAndType:
			nameIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			descIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagNameAndType, len(cp.NameAndTypes)})
			cp.NameAndTypes = append(cp.NameAndTypes, NameAndTypeEntry{nameIdx, descIdx})

		case TagMethodHandle:
			kind, err := r.U1()
			if err != nil {
				return nil, err
			}
			refIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagMethodHandle, len(cp.MethodHandles)})
			cp.MethodHandles = append(cp.MethodHandles, MethodHandleEntry{kind, refIdx})

		case TagMethodType:
			descIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagMethodType, len(cp.MethodTypes)})
			cp.MethodTypes = append(cp.MethodTypes, descIdx)

		case TagDynamic, TagInvokeDynamic:
			bsmIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			d := DynamicEntry{BootstrapIndex: bsmIdx, NameAndTypeIdx: natIdx}
			if tag == TagDynamic {
				cp.CpIndex = append(cp.CpIndex, CpEntry{TagDynamic, len(cp.Dynamics)})
				cp.Dynamics = append(cp.Dynamics, d)
			} else {
				cp.CpIndex = append(cp.CpIndex, CpEntry{TagInvokeDynamic, len(cp.InvokeDynamics)})
				cp.InvokeDynamics = append(cp.InvokeDynamics, d)
			}

		case TagModule:
			nameIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagModule, len(cp.ModuleRefs)})
			cp.ModuleRefs = append(cp.ModuleRefs, nameIdx)

		case TagPackage:
			nameIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			cp.CpIndex = append(cp.CpIndex, CpEntry{TagPackage, len(cp.PackageRefs)})
			cp.PackageRefs = append(cp.PackageRefs, nameIdx)

		default:
			return nil, newErr(Malformed, r.Pos()-1, "unrecognized constant pool tag")
		}
	}

	return cp, nil
}

// utf8Indexes returns, for diagnostics/tests, every CpIndex position that
// holds a Utf8 entry.
func (cp *ConstantPool) utf8Indexes() []int {
	return lo.FilterMap(cp.CpIndex, func(e CpEntry, i int) (int, bool) {
		return i, e.Type == TagUtf8
	})
}
