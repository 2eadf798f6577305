/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "strings"

// DescKind identifies the shape of a TypeDescriptor.
type DescKind byte

const (
	DescByte    DescKind = 'B'
	DescChar    DescKind = 'C'
	DescDouble  DescKind = 'D'
	DescFloat   DescKind = 'F'
	DescInt     DescKind = 'I'
	DescLong    DescKind = 'J'
	DescShort   DescKind = 'S'
	DescBoolean DescKind = 'Z'
	DescVoid    DescKind = 'V'
	DescClass   DescKind = 'L'
	DescArray   DescKind = '['
)

// TypeDescriptor is a parsed field or return-type descriptor (JVMS 4.3.2).
// For DescClass, ClassName holds the internal-form class name (no leading
// 'L', no trailing ';'). For DescArray, Element is the element type and
// Dimensions counts how many leading '[' were consumed.
type TypeDescriptor struct {
	Kind       DescKind
	ClassName  string
	Element    *TypeDescriptor
	Dimensions int
}

func (d *TypeDescriptor) String() string {
	switch d.Kind {
	case DescClass:
		return "L" + d.ClassName + ";"
	case DescArray:
		return strings.Repeat("[", d.Dimensions) + d.Element.String()
	default:
		return string(rune(d.Kind))
	}
}

// ParseFieldDescriptor parses a single field/return-type descriptor
// starting at s[0]. It requires the whole string be consumed.
func ParseFieldDescriptor(s string) (*TypeDescriptor, error) {
	d, rest, err := parseOneDescriptor(s)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, newErr(Malformed, -1, "trailing data after field descriptor: "+s)
	}
	return d, nil
}

func parseOneDescriptor(s string) (*TypeDescriptor, string, error) {
	if s == "" {
		return nil, "", newErr(Malformed, -1, "empty type descriptor")
	}
	switch s[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		return &TypeDescriptor{Kind: DescKind(s[0])}, s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return nil, "", newErr(Malformed, -1, "unterminated class descriptor: "+s)
		}
		return &TypeDescriptor{Kind: DescClass, ClassName: s[1:end]}, s[end+1:], nil
	case '[':
		dims := 0
		rest := s
		for len(rest) > 0 && rest[0] == '[' {
			dims++
			rest = rest[1:]
		}
		elem, rest, err := parseOneDescriptor(rest)
		if err != nil {
			return nil, "", err
		}
		return &TypeDescriptor{Kind: DescArray, Element: elem, Dimensions: dims}, rest, nil
	default:
		return nil, "", newErr(Malformed, -1, "unrecognized descriptor character: "+string(s[0]))
	}
}

// ParseMethodDescriptor parses a method descriptor "(params)return"
// (JVMS 4.3.3) into its parameter types and return type.
func ParseMethodDescriptor(s string) (params []*TypeDescriptor, ret *TypeDescriptor, err error) {
	if len(s) == 0 || s[0] != '(' {
		return nil, nil, newErr(Malformed, -1, "method descriptor missing '(': "+s)
	}
	rest := s[1:]
	for len(rest) > 0 && rest[0] != ')' {
		var d *TypeDescriptor
		d, rest, err = parseOneDescriptor(rest)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, d)
	}
	if len(rest) == 0 {
		return nil, nil, newErr(Malformed, -1, "method descriptor missing ')': "+s)
	}
	rest = rest[1:] // consume ')'
	ret, rest, err = parseOneDescriptor(rest)
	if err != nil {
		return nil, nil, err
	}
	if rest != "" {
		return nil, nil, newErr(Malformed, -1, "trailing data after method descriptor: "+s)
	}
	return params, ret, nil
}

// Field is one parsed field_info entry.
type Field struct {
	AccessFlags   int
	Name          string
	Descriptor    string
	Type          *TypeDescriptor
	Attributes    []Attribute
	ConstantValue *ConstantValueAttr // nil unless a ConstantValue attribute is present
}

// Method is one parsed method_info entry, with its Code attribute (if any)
// surfaced directly for lifting.
type Method struct {
	AccessFlags int
	Name        string
	Descriptor  string
	Params      []*TypeDescriptor
	Return      *TypeDescriptor
	Attributes  []Attribute
	Code        *CodeAttribute // nil for abstract/native methods
}

// StackMapFrames returns the method's decoded StackMapTable frames, or nil
// if it has no Code attribute or no StackMapTable (true of every method
// compiled for a pre-Java-6 target, and of <init>/<clinit> bodies with no
// branching).
func (m *Method) StackMapFrames() []StackMapFrame {
	if m.Code == nil {
		return nil
	}
	for _, a := range m.Code.Attributes {
		if smt, ok := a.Value.(StackMapTableAttr); ok {
			return smt.Frames
		}
	}
	return nil
}

func parseField(r *Reader, ctx attrContext) (*Field, error) {
	cp := ctx.cp
	flags, err := r.U2()
	if err != nil {
		return nil, err
	}
	nameIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	name, err := cp.Utf8(int(nameIdx))
	if err != nil {
		return nil, err
	}
	descIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	desc, err := cp.Utf8(int(descIdx))
	if err != nil {
		return nil, err
	}
	typ, err := ParseFieldDescriptor(desc)
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributeList(r, ctx)
	if err != nil {
		return nil, err
	}
	f := &Field{
		AccessFlags: int(flags),
		Name:        name,
		Descriptor:  desc,
		Type:        typ,
		Attributes:  attrs,
	}
	for _, a := range attrs {
		if cv, ok := a.Value.(ConstantValueAttr); ok {
			f.ConstantValue = &cv
			break
		}
	}
	return f, nil
}

func parseMethod(r *Reader, ctx attrContext) (*Method, error) {
	cp := ctx.cp
	flags, err := r.U2()
	if err != nil {
		return nil, err
	}
	nameIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	name, err := cp.Utf8(int(nameIdx))
	if err != nil {
		return nil, err
	}
	descIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	desc, err := cp.Utf8(int(descIdx))
	if err != nil {
		return nil, err
	}
	params, ret, err := ParseMethodDescriptor(desc)
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributeList(r, ctx)
	if err != nil {
		return nil, err
	}
	m := &Method{
		AccessFlags: int(flags),
		Name:        name,
		Descriptor:  desc,
		Params:      params,
		Return:      ret,
		Attributes:  attrs,
	}
	for _, a := range attrs {
		if code, ok := a.Value.(CodeAttribute); ok {
			m.Code = &code
			break
		}
	}
	return m, nil
}
