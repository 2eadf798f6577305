/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// Attribute is one class/field/method/Code attribute. Name is always
// resolved; Raw retains the attribute's exact bytes regardless of whether
// it was recognised; Value holds the typed decode result for every
// attribute name the registry below knows, or nil for an attribute this
// decoder does not recognise (which is not an error: unknown attributes
// are kept verbatim under their name).
type Attribute struct {
	Name  string
	Raw   []byte
	Value interface{}
}

type ExceptionTableEntry struct{ StartPC, EndPC, HandlerPC, CatchType int }

type CodeAttribute struct {
	MaxStack   int
	MaxLocals  int
	Code       []byte
	Bytecode   *Bytecode
	Exceptions []ExceptionTableEntry
	Attributes []Attribute
}

type LineNumberEntry struct{ StartPC, LineNumber int }
type LineNumberTableAttr struct{ Entries []LineNumberEntry }

type LocalVariableEntry struct{ StartPC, Length, NameIndex, DescIndex, Index int }
type LocalVariableTableAttr struct{ Entries []LocalVariableEntry }

type LocalVariableTypeEntry struct{ StartPC, Length, NameIndex, SignatureIndex, Index int }
type LocalVariableTypeTableAttr struct{ Entries []LocalVariableTypeEntry }

type StackMapTableAttr struct{ Frames []StackMapFrame }

type ExceptionsAttr struct{ ClassIndexes []int }

type InnerClassEntry struct {
	InnerClassIndex, OuterClassIndex, InnerNameIndex, InnerAccessFlags int
}
type InnerClassesAttr struct{ Classes []InnerClassEntry }

type EnclosingMethodAttr struct{ ClassIndex, MethodIndex int }

type ConstantValueAttr struct{ Index int }
type SignatureAttr struct{ Index int }
type SourceFileAttr struct{ Index int }
type SourceDebugExtensionAttr struct{ Raw []byte }
type DeprecatedAttr struct{}
type SyntheticAttr struct{}

type BootstrapMethodEntry struct {
	MethodRefIndex int
	Args           []int
}
type BootstrapMethodsAttr struct{ Methods []BootstrapMethodEntry }

type MethodParameterEntry struct {
	NameIndex   int // 0 means no name
	AccessFlags int
}
type MethodParametersAttr struct{ Parameters []MethodParameterEntry }

type ModuleRequire struct {
	Index        int
	Flags        int
	VersionIndex int
}
type ModuleExport struct {
	Index      int
	Flags      int
	ToIndexes  []int
}
type ModuleOpen struct {
	Index     int
	Flags     int
	ToIndexes []int
}
type ModuleProvide struct {
	Index       int
	WithIndexes []int
}
type ModuleAttr struct {
	NameIndex    int
	Flags        int
	VersionIndex int
	Requires     []ModuleRequire
	Exports      []ModuleExport
	Opens        []ModuleOpen
	Uses         []int
	Provides     []ModuleProvide
}
type ModulePackagesAttr struct{ PackageIndexes []int }
type ModuleMainClassAttr struct{ Index int }

type NestHostAttr struct{ Index int }
type NestMembersAttr struct{ ClassIndexes []int }
type PermittedSubclassesAttr struct{ ClassIndexes []int }

type RecordComponent struct {
	NameIndex int
	DescIndex int
	Attributes []Attribute
}
type RecordAttr struct{ Components []RecordComponent }

type AnnotationDefaultAttr struct{ Value ElementValue }
type RuntimeAnnotationsAttr struct{ Annotations []Annotation }
type RuntimeParameterAnnotationsAttr struct{ Parameters [][]Annotation }
type RuntimeTypeAnnotationsAttr struct{ Annotations []TypeAnnotation }

// attrContext tells the registry what else it may need (the owning pool,
// and for Code, the configured cap on a declared code_length).
type attrContext struct {
	cp          *ConstantPool
	maxCodeSize int
}

// parseAttributeList reads a u2-prefixed attribute table: name_index (u2),
// length (u4), then that many raw bytes. Every known attribute name is
// decoded into Attribute.Value; anything else is retained as a raw, opaque
// blob (Value stays nil). A decode failure other than UnknownAnnotationTarget
// propagates and aborts the whole class parse.
func parseAttributeList(r *Reader, ctx attrContext) ([]Attribute, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.U2()
		if err != nil {
			return nil, err
		}
		name, err := ctx.cp.Utf8(int(nameIdx))
		if err != nil {
			return nil, err
		}
		length, err := r.U4()
		if err != nil {
			return nil, err
		}
		raw, err := r.Bytes(int(length))
		if err != nil {
			return nil, newErr(AttrTruncated, r.Pos(), "attribute body shorter than declared length")
		}
		value, err := decodeAttribute(name, raw, ctx)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attribute{Name: name, Raw: raw, Value: value})
	}
	return attrs, nil
}

func decodeAttribute(name string, raw []byte, ctx attrContext) (interface{}, error) {
	r := NewReader(raw)
	switch name {
	case "Code":
		return decodeCodeAttribute(r, ctx)
	case "LineNumberTable":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]LineNumberEntry, n)
		for i := range out {
			pc, err := r.U2()
			if err != nil {
				return nil, err
			}
			line, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = LineNumberEntry{int(pc), int(line)}
		}
		return LineNumberTableAttr{out}, nil

	case "LocalVariableTable":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]LocalVariableEntry, n)
		for i := range out {
			v, err := readLVTRow(r)
			if err != nil {
				return nil, err
			}
			out[i] = LocalVariableEntry(v)
		}
		return LocalVariableTableAttr{out}, nil

	case "LocalVariableTypeTable":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]LocalVariableTypeEntry, n)
		for i := range out {
			v, err := readLVTRow(r)
			if err != nil {
				return nil, err
			}
			out[i] = LocalVariableTypeEntry{StartPC: v.StartPC, Length: v.Length, NameIndex: v.NameIndex, SignatureIndex: v.DescIndex, Index: v.Index}
		}
		return LocalVariableTypeTableAttr{out}, nil

	case "StackMapTable":
		frames, err := parseStackMapTable(raw)
		if err != nil {
			return nil, err
		}
		return StackMapTableAttr{frames}, nil

	case "Exceptions":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]int, n)
		for i := range out {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = int(v)
		}
		return ExceptionsAttr{out}, nil

	case "InnerClasses":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]InnerClassEntry, n)
		for i := range out {
			inner, err := r.U2()
			if err != nil {
				return nil, err
			}
			outer, err := r.U2()
			if err != nil {
				return nil, err
			}
			iname, err := r.U2()
			if err != nil {
				return nil, err
			}
			flags, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = InnerClassEntry{int(inner), int(outer), int(iname), int(flags)}
		}
		return InnerClassesAttr{out}, nil

	case "EnclosingMethod":
		classIdx, err := r.U2()
		if err != nil {
			return nil, err
		}
		methodIdx, err := r.U2()
		if err != nil {
			return nil, err
		}
		return EnclosingMethodAttr{int(classIdx), int(methodIdx)}, nil

	case "ConstantValue":
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		return ConstantValueAttr{int(idx)}, nil

	case "Signature":
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		return SignatureAttr{int(idx)}, nil

	case "Deprecated":
		return DeprecatedAttr{}, nil

	case "Synthetic":
		return SyntheticAttr{}, nil

	case "SourceFile":
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		return SourceFileAttr{int(idx)}, nil

	case "SourceDebugExtension":
		return SourceDebugExtensionAttr{raw}, nil

	case "BootstrapMethods":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]BootstrapMethodEntry, n)
		for i := range out {
			methodRef, err := r.U2()
			if err != nil {
				return nil, err
			}
			argc, err := r.U2()
			if err != nil {
				return nil, err
			}
			args := make([]int, argc)
			for j := range args {
				v, err := r.U2()
				if err != nil {
					return nil, err
				}
				args[j] = int(v)
			}
			out[i] = BootstrapMethodEntry{int(methodRef), args}
		}
		return BootstrapMethodsAttr{out}, nil

	case "MethodParameters":
		n, err := r.U1()
		if err != nil {
			return nil, err
		}
		out := make([]MethodParameterEntry, n)
		for i := range out {
			nameIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			flags, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = MethodParameterEntry{int(nameIdx), int(flags)}
		}
		return MethodParametersAttr{out}, nil

	case "Module":
		return decodeModuleAttribute(r)

	case "ModulePackages":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]int, n)
		for i := range out {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = int(v)
		}
		return ModulePackagesAttr{out}, nil

	case "ModuleMainClass":
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		return ModuleMainClassAttr{int(idx)}, nil

	case "NestHost":
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		return NestHostAttr{int(idx)}, nil

	case "NestMembers":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]int, n)
		for i := range out {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = int(v)
		}
		return NestMembersAttr{out}, nil

	case "PermittedSubclasses":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]int, n)
		for i := range out {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			out[i] = int(v)
		}
		return PermittedSubclassesAttr{out}, nil

	case "Record":
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		out := make([]RecordComponent, n)
		for i := range out {
			nameIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			descIdx, err := r.U2()
			if err != nil {
				return nil, err
			}
			sub, err := parseAttributeList(r, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = RecordComponent{int(nameIdx), int(descIdx), sub}
		}
		return RecordAttr{out}, nil

	case "AnnotationDefault":
		v, err := parseElementValue(r)
		if err != nil {
			return nil, err
		}
		return AnnotationDefaultAttr{v}, nil

	case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
		a, err := parseAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeAnnotationsAttr{a}, nil

	case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
		p, err := parseParameterAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeParameterAnnotationsAttr{p}, nil

	case "RuntimeVisibleTypeAnnotations", "RuntimeInvisibleTypeAnnotations":
		a, err := parseTypeAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeTypeAnnotationsAttr{a}, nil

	default:
		traceClass("decodeAttribute: retaining unknown attribute %q verbatim (%d bytes)", name, len(raw))
		return nil, nil
	}
}

func readLVTRow(r *Reader) (struct{ StartPC, Length, NameIndex, DescIndex, Index int }, error) {
	var row struct{ StartPC, Length, NameIndex, DescIndex, Index int }
	start, err := r.U2()
	if err != nil {
		return row, err
	}
	length, err := r.U2()
	if err != nil {
		return row, err
	}
	nameIdx, err := r.U2()
	if err != nil {
		return row, err
	}
	descIdx, err := r.U2()
	if err != nil {
		return row, err
	}
	idx, err := r.U2()
	if err != nil {
		return row, err
	}
	row = struct{ StartPC, Length, NameIndex, DescIndex, Index int }{
		int(start), int(length), int(nameIdx), int(descIdx), int(idx),
	}
	return row, nil
}

func decodeCodeAttribute(r *Reader, ctx attrContext) (interface{}, error) {
	maxStack, err := r.U2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.U2()
	if err != nil {
		return nil, err
	}
	codeLen, err := r.U4()
	if err != nil {
		return nil, err
	}
	maxCodeSize := ctx.maxCodeSize
	if maxCodeSize == 0 || maxCodeSize > defaultMaxCodeSize {
		maxCodeSize = defaultMaxCodeSize
	}
	if int(codeLen) > maxCodeSize {
		return nil, newErr(AttrTruncated, r.Pos(), "Code attribute's declared code_length exceeds the configured maximum")
	}
	code, err := r.Bytes(int(codeLen))
	if err != nil {
		return nil, newErr(AttrTruncated, r.Pos(), "Code attribute's code array shorter than declared length")
	}

	bc, err := decodeBytecode(code, ctx.cp)
	if err != nil {
		return nil, err
	}

	excCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	exceptions := make([]ExceptionTableEntry, excCount)
	for i := range exceptions {
		start, err := r.U2()
		if err != nil {
			return nil, err
		}
		end, err := r.U2()
		if err != nil {
			return nil, err
		}
		handler, err := r.U2()
		if err != nil {
			return nil, err
		}
		catchType, err := r.U2()
		if err != nil {
			return nil, err
		}
		exceptions[i] = ExceptionTableEntry{int(start), int(end), int(handler), int(catchType)}
	}

	sub, err := parseAttributeList(r, ctx)
	if err != nil {
		return nil, err
	}

	return CodeAttribute{
		MaxStack:   int(maxStack),
		MaxLocals:  int(maxLocals),
		Code:       code,
		Bytecode:   bc,
		Exceptions: exceptions,
		Attributes: sub,
	}, nil
}

func decodeModuleAttribute(r *Reader) (interface{}, error) {
	nameIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	flags, err := r.U2()
	if err != nil {
		return nil, err
	}
	versionIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	m := ModuleAttr{NameIndex: int(nameIdx), Flags: int(flags), VersionIndex: int(versionIdx)}

	reqCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	m.Requires = make([]ModuleRequire, reqCount)
	for i := range m.Requires {
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		f, err := r.U2()
		if err != nil {
			return nil, err
		}
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		m.Requires[i] = ModuleRequire{int(idx), int(f), int(v)}
	}

	expCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	m.Exports = make([]ModuleExport, expCount)
	for i := range m.Exports {
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		f, err := r.U2()
		if err != nil {
			return nil, err
		}
		toCount, err := r.U2()
		if err != nil {
			return nil, err
		}
		to := make([]int, toCount)
		for j := range to {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			to[j] = int(v)
		}
		m.Exports[i] = ModuleExport{int(idx), int(f), to}
	}

	openCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	m.Opens = make([]ModuleOpen, openCount)
	for i := range m.Opens {
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		f, err := r.U2()
		if err != nil {
			return nil, err
		}
		toCount, err := r.U2()
		if err != nil {
			return nil, err
		}
		to := make([]int, toCount)
		for j := range to {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			to[j] = int(v)
		}
		m.Opens[i] = ModuleOpen{int(idx), int(f), to}
	}

	usesCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	m.Uses = make([]int, usesCount)
	for i := range m.Uses {
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		m.Uses[i] = int(v)
	}

	provCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	m.Provides = make([]ModuleProvide, provCount)
	for i := range m.Provides {
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		withCount, err := r.U2()
		if err != nil {
			return nil, err
		}
		with := make([]int, withCount)
		for j := range with {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			with[j] = int(v)
		}
		m.Provides[i] = ModuleProvide{int(idx), with}
	}

	return m, nil
}
