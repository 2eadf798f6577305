/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attrListBuilder assembles a u2-count-prefixed attribute table the way
// parseAttributeList expects to read it, resolving attribute names through a
// constant pool built alongside it.
type attrListBuilder struct {
	cpb     *cpBuilder
	entries []byte
	count   int
}

func newAttrListBuilder(cpb *cpBuilder) *attrListBuilder {
	return &attrListBuilder{cpb: cpb}
}

func (a *attrListBuilder) add(name string, body []byte) {
	a.count++
	nameIdx := a.cpb.utf8(name)
	a.entries = append(a.entries, byte(nameIdx>>8), byte(nameIdx))
	a.entries = append(a.entries, byte(len(body)>>24), byte(len(body)>>16), byte(len(body)>>8), byte(len(body)))
	a.entries = append(a.entries, body...)
}

func (a *attrListBuilder) bytes() []byte {
	out := []byte{byte(a.count >> 8), byte(a.count)}
	return append(out, a.entries...)
}

func TestParseAttributeListLineNumberTable(t *testing.T) {
	cpb := newCPBuilder()
	alb := newAttrListBuilder(cpb)
	// one entry: startPC=0, lineNumber=42
	alb.add("LineNumberTable", []byte{0x00, 0x01, 0x00, 0x00, 0x00, 42})

	cp, err := parseConstantPool(NewReader(cpb.build()))
	require.NoError(t, err)

	attrs, err := parseAttributeList(NewReader(alb.bytes()), attrContext{cp: cp})
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "LineNumberTable", attrs[0].Name)
	lnt, ok := attrs[0].Value.(LineNumberTableAttr)
	require.True(t, ok)
	require.Len(t, lnt.Entries, 1)
	assert.Equal(t, LineNumberEntry{StartPC: 0, LineNumber: 42}, lnt.Entries[0])
}

func TestParseAttributeListUnknownAttributeKeptVerbatim(t *testing.T) {
	cpb := newCPBuilder()
	alb := newAttrListBuilder(cpb)
	body := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	alb.add("com.example.CustomAttribute", body)

	cp, err := parseConstantPool(NewReader(cpb.build()))
	require.NoError(t, err)

	attrs, err := parseAttributeList(NewReader(alb.bytes()), attrContext{cp: cp})
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "com.example.CustomAttribute", attrs[0].Name)
	assert.Nil(t, attrs[0].Value)
	assert.Equal(t, body, attrs[0].Raw)
}

func TestParseAttributeListTruncatedBody(t *testing.T) {
	cpb := newCPBuilder()
	nameIdx := cpb.utf8("Synthetic")
	raw := []byte{0x00, 0x01, byte(nameIdx >> 8), byte(nameIdx), 0x00, 0x00, 0x00, 0x05} // declares 5 bytes, supplies none

	cp, err := parseConstantPool(NewReader(cpb.build()))
	require.NoError(t, err)

	_, err = parseAttributeList(NewReader(raw), attrContext{cp: cp})
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, AttrTruncated, lerr.Kind)
}

func TestDecodeCodeAttributeRoundTrip(t *testing.T) {
	cpb := newCPBuilder()
	cp, err := parseConstantPool(NewReader(cpb.build()))
	require.NoError(t, err)

	code := []byte{byte(Iconst1), byte(Ireturn)}
	body := []byte{
		0x00, 0x02, // max_stack
		0x00, 0x01, // max_locals
		0x00, 0x00, 0x00, byte(len(code)), // code_length
	}
	body = append(body, code...)
	body = append(body, 0x00, 0x00) // exception_table_length = 0
	body = append(body, 0x00, 0x00) // attributes_count = 0

	v, err := decodeCodeAttribute(NewReader(body), attrContext{cp: cp})
	require.NoError(t, err)
	ca, ok := v.(CodeAttribute)
	require.True(t, ok)
	assert.Equal(t, 2, ca.MaxStack)
	assert.Equal(t, 1, ca.MaxLocals)
	assert.Equal(t, []int{0, 1}, ca.Bytecode.Order)
}
