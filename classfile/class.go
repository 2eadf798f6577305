/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

const classMagic = 0xCAFEBABE

// highest major_version this decoder recognises (Java SE 23, JVMS Table
// 4.1-A). Anything newer is still decoded — format hasn't changed across
// recent releases — but is flagged via UnsupportedVersion so a caller can
// decide whether to trust it.
const maxKnownMajorVersion = 67
const minKnownMajorVersion = 45 // JDK 1.0.2

// Class is a fully decoded class file (JVMS 4.1).
type Class struct {
	MinorVersion int
	MajorVersion int

	ConstantPool *ConstantPool

	AccessFlags int
	ThisClass   string
	SuperClass  string // empty for java/lang/Object
	Interfaces  []string

	Fields     []*Field
	Methods    []*Method
	Attributes []Attribute
}

// ParseClass decodes raw into a Class. It returns an error wrapping one of
// the classfile.ErrorKind values at the first structural problem
// encountered; a version outside the decoder's known range is reported via
// the returned error's Kind == UnsupportedVersion but the rest of the file
// is still parsed and returned alongside it, so a caller that only cares
// about decodability can ignore that one error kind.
func ParseClass(raw []byte, opts ...Option) (*Class, error) {
	o := resolveOptions(opts)
	if o.Logger != nil {
		SetLogger(o.Logger)
	}

	r := NewReader(raw)

	magic, err := r.U4()
	if err != nil {
		return nil, err
	}
	if magic != classMagic {
		return nil, newErr(BadMagic, 0, "missing 0xCAFEBABE magic")
	}

	minor, err := r.U2()
	if err != nil {
		return nil, err
	}
	major, err := r.U2()
	if err != nil {
		return nil, err
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}
	if err := validateConstantPool(cp); err != nil {
		return nil, err
	}
	if idxs := cp.utf8Indexes(); len(idxs) > 0 {
		traceClass("ParseClass: constant pool holds %d Utf8 entries", len(idxs))
	}

	ctx := attrContext{cp: cp, maxCodeSize: o.MaxCodeSize}

	accessFlags, err := r.U2()
	if err != nil {
		return nil, err
	}

	thisIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	thisName, err := cp.ClassName(int(thisIdx))
	if err != nil {
		return nil, err
	}

	superIdx, err := r.U2()
	if err != nil {
		return nil, err
	}
	var superName string
	if superIdx != 0 {
		superName, err = cp.ClassName(int(superIdx))
		if err != nil {
			return nil, err
		}
	}

	ifaceCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, ifaceCount)
	for i := range interfaces {
		idx, err := r.U2()
		if err != nil {
			return nil, err
		}
		interfaces[i], err = cp.ClassName(int(idx))
		if err != nil {
			return nil, err
		}
	}

	fieldCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, fieldCount)
	for i := range fields {
		fields[i], err = parseField(r, ctx)
		if err != nil {
			return nil, err
		}
	}

	methodCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, methodCount)
	for i := range methods {
		methods[i], err = parseMethod(r, ctx)
		if err != nil {
			return nil, err
		}
	}

	attrs, err := parseAttributeList(r, ctx)
	if err != nil {
		return nil, err
	}
	if err := validateBootstrapIndices(cp, attrs); err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		warnClass("ParseClass: %d trailing bytes after the last attribute in %s", r.Remaining(), thisName)
	}

	class := &Class{
		MinorVersion: int(minor),
		MajorVersion: int(major),
		ConstantPool: cp,
		AccessFlags:  int(accessFlags),
		ThisClass:    thisName,
		SuperClass:   superName,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
	}

	if class.MajorVersion < minKnownMajorVersion || class.MajorVersion > maxKnownMajorVersion {
		traceClass("ParseClass: %s has major_version %d outside known range [%d,%d]",
			thisName, class.MajorVersion, minKnownMajorVersion, maxKnownMajorVersion)
		return class, newErr(UnsupportedVersion, 4, "major_version outside the decoder's known range")
	}

	return class, nil
}

// Method looks up a method by name and descriptor, the way a caller
// resolving an invoke* instruction's MemberRef would.
func (c *Class) Method(name, descriptor string) *Method {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m
		}
	}
	return nil
}

// Field looks up a field by name and descriptor.
func (c *Class) Field(name, descriptor string) *Field {
	for _, f := range c.Fields {
		if f.Name == name && f.Descriptor == descriptor {
			return f
		}
	}
	return nil
}

// Attribute returns the first top-level attribute with the given name, or
// nil if the class carries none.
func (c *Class) Attribute(name string) *Attribute {
	for i := range c.Attributes {
		if c.Attributes[i].Name == name {
			return &c.Attributes[i]
		}
	}
	return nil
}
