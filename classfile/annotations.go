/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// ElementValue is a tagged annotation element value (JVMS 4.7.16.1).
type ElementValue struct {
	Tag byte // one of BCDFIJSZ (primitives), 's' (string), 'e' (enum), 'c' (class), '@' (annotation), '[' (array)

	ConstIndex       int // primitives and 's': index of the backing constant
	EnumTypeIndex    int // 'e': descriptor index
	EnumConstIndex   int // 'e': const-name index
	ClassInfoIndex   int // 'c': index of a Utf8 holding the return descriptor
	Annotation       *Annotation
	Array            []ElementValue
}

// ElementValuePair is one (name, value) entry of an annotation.
type ElementValuePair struct {
	NameIndex int
	Value     ElementValue
}

// Annotation is a single run-time visible/invisible annotation (JVMS
// 4.7.16).
type Annotation struct {
	TypeIndex int // Utf8 descriptor, e.g. "Ljava/lang/Override;"
	Pairs     []ElementValuePair
}

// TypePathEntry is one segment of a type_path (JVMS 4.7.20.2).
type TypePathEntry struct {
	Kind           byte // 0=array, 1=nested, 2=wildcard bound, 3=type argument
	ArgumentIndex  byte
}

// LocalVarTargetEntry is one row of a localvar_target table.
type LocalVarTargetEntry struct {
	StartPC int
	Length  int
	Index   int
}

// TypeAnnotation is a type annotation: an Annotation plus the JVMS
// target_type/target_info/type_path triple identifying which type use it
// decorates. Every target_type variant JVMS 4.7.20.1 names is recognised;
// rather than one Go type per variant, TargetInfo carries whichever subset
// of fields that target_type populates (unused fields stay at their zero
// value), which keeps the decoder a single table-driven switch instead of
// fourteen near-identical structs.
type TypeAnnotation struct {
	Annotation
	TargetType byte
	TargetInfo TargetInfo
	TypePath   []TypePathEntry
}

// TargetInfo is the decoded target_info union, keyed by the owning
// TypeAnnotation's TargetType.
type TargetInfo struct {
	TypeParameterIndex   int
	BoundIndex           int
	SupertypeIndex       int
	FormalParameterIndex int
	ThrowsTypeIndex      int
	LocalVarTable        []LocalVarTargetEntry
	CatchTargetIndex     int
	Offset               int
	TypeArgumentIndex    int
}

func parseElementValue(r *Reader) (ElementValue, error) {
	tagByte, err := r.U1()
	if err != nil {
		return ElementValue{}, err
	}
	ev := ElementValue{Tag: tagByte}
	switch tagByte {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		idx, err := r.U2()
		if err != nil {
			return ElementValue{}, err
		}
		ev.ConstIndex = int(idx)
	case 'e':
		t, err := r.U2()
		if err != nil {
			return ElementValue{}, err
		}
		c, err := r.U2()
		if err != nil {
			return ElementValue{}, err
		}
		ev.EnumTypeIndex, ev.EnumConstIndex = int(t), int(c)
	case 'c':
		idx, err := r.U2()
		if err != nil {
			return ElementValue{}, err
		}
		ev.ClassInfoIndex = int(idx)
	case '@':
		a, err := parseAnnotation(r)
		if err != nil {
			return ElementValue{}, err
		}
		ev.Annotation = a
	case '[':
		n, err := r.U2()
		if err != nil {
			return ElementValue{}, err
		}
		ev.Array = make([]ElementValue, n)
		for i := range ev.Array {
			v, err := parseElementValue(r)
			if err != nil {
				return ElementValue{}, err
			}
			ev.Array[i] = v
		}
	default:
		return ElementValue{}, newErr(AttrTruncated, r.Pos()-1, "unrecognized element_value tag")
	}
	return ev, nil
}

func parseAnnotation(r *Reader) (*Annotation, error) {
	typeIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	n, err := r.U2()
	if err != nil {
		return nil, err
	}
	a := &Annotation{TypeIndex: int(typeIdx), Pairs: make([]ElementValuePair, n)}
	for i := range a.Pairs {
		nameIdx, err := r.U2()
		if err != nil {
			return nil, err
		}
		v, err := parseElementValue(r)
		if err != nil {
			return nil, err
		}
		a.Pairs[i] = ElementValuePair{NameIndex: int(nameIdx), Value: v}
	}
	return a, nil
}

func parseAnnotations(r *Reader) ([]Annotation, error) {
	n, err := r.U2()
	if err != nil {
		return nil, err
	}
	out := make([]Annotation, n)
	for i := range out {
		a, err := parseAnnotation(r)
		if err != nil {
			return nil, err
		}
		out[i] = *a
	}
	return out, nil
}

// parseParameterAnnotations reads one annotation list per method parameter,
// as found in RuntimeVisible/InvisibleParameterAnnotations.
func parseParameterAnnotations(r *Reader) ([][]Annotation, error) {
	n, err := r.U1()
	if err != nil {
		return nil, err
	}
	out := make([][]Annotation, n)
	for i := range out {
		a, err := parseAnnotations(r)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func parseTypePath(r *Reader) ([]TypePathEntry, error) {
	n, err := r.U1()
	if err != nil {
		return nil, err
	}
	out := make([]TypePathEntry, n)
	for i := range out {
		kind, err := r.U1()
		if err != nil {
			return nil, err
		}
		argIdx, err := r.U1()
		if err != nil {
			return nil, err
		}
		out[i] = TypePathEntry{Kind: kind, ArgumentIndex: argIdx}
	}
	return out, nil
}

func parseTypeAnnotation(r *Reader) (*TypeAnnotation, error) {
	targetType, err := r.U1()
	if err != nil {
		return nil, err
	}
	var info TargetInfo
	switch targetType {
	case 0x00, 0x01: // type_parameter_target
		v, err := r.U1()
		if err != nil {
			return nil, err
		}
		info.TypeParameterIndex = int(v)
	case 0x10: // supertype_target
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		info.SupertypeIndex = int(v)
	case 0x11, 0x12: // type_parameter_bound_target
		p, err := r.U1()
		if err != nil {
			return nil, err
		}
		b, err := r.U1()
		if err != nil {
			return nil, err
		}
		info.TypeParameterIndex, info.BoundIndex = int(p), int(b)
	case 0x13, 0x14, 0x15: // empty_target
		// no fields
	case 0x16: // formal_parameter_target
		v, err := r.U1()
		if err != nil {
			return nil, err
		}
		info.FormalParameterIndex = int(v)
	case 0x17: // throws_target
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		info.ThrowsTypeIndex = int(v)
	case 0x40, 0x41: // localvar_target
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		info.LocalVarTable = make([]LocalVarTargetEntry, n)
		for i := range info.LocalVarTable {
			start, err := r.U2()
			if err != nil {
				return nil, err
			}
			length, err := r.U2()
			if err != nil {
				return nil, err
			}
			idx, err := r.U2()
			if err != nil {
				return nil, err
			}
			info.LocalVarTable[i] = LocalVarTargetEntry{int(start), int(length), int(idx)}
		}
	case 0x42: // catch_target
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		info.CatchTargetIndex = int(v)
	case 0x43, 0x44, 0x45, 0x46: // offset_target
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		info.Offset = int(v)
	case 0x47, 0x48, 0x49, 0x4A, 0x4B: // type_argument_target
		off, err := r.U2()
		if err != nil {
			return nil, err
		}
		idx, err := r.U1()
		if err != nil {
			return nil, err
		}
		info.Offset, info.TypeArgumentIndex = int(off), int(idx)
	default:
		return nil, newErr(UnknownAnnotationTarget, r.Pos()-1, "unrecognized type-annotation target_type")
	}

	path, err := parseTypePath(r)
	if err != nil {
		return nil, err
	}
	a, err := parseAnnotation(r)
	if err != nil {
		return nil, err
	}
	return &TypeAnnotation{Annotation: *a, TargetType: targetType, TargetInfo: info, TypePath: path}, nil
}

func parseTypeAnnotations(r *Reader) ([]TypeAnnotation, error) {
	n, err := r.U2()
	if err != nil {
		return nil, err
	}
	out := make([]TypeAnnotation, 0, n)
	for i := 0; i < int(n); i++ {
		ta, err := parseTypeAnnotation(r)
		if err != nil {
			if e, ok := AsError(err); ok && e.Kind == UnknownAnnotationTarget {
				// abort only this attribute, not the whole class
				warnClass("parseTypeAnnotations: skipping remainder of attribute: %v", err)
				return out, nil
			}
			return nil, err
		}
		out = append(out, *ta)
	}
	return out, nil
}
