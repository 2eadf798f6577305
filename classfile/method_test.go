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

func TestParseFieldDescriptorPrimitive(t *testing.T) {
	d, err := ParseFieldDescriptor("I")
	require.NoError(t, err)
	assert.Equal(t, DescInt, d.Kind)
}

func TestParseFieldDescriptorClass(t *testing.T) {
	d, err := ParseFieldDescriptor("Ljava/lang/String;")
	require.NoError(t, err)
	assert.Equal(t, DescClass, d.Kind)
	assert.Equal(t, "java/lang/String", d.ClassName)
	assert.Equal(t, "Ljava/lang/String;", d.String())
}

func TestParseFieldDescriptorArray(t *testing.T) {
	d, err := ParseFieldDescriptor("[[I")
	require.NoError(t, err)
	assert.Equal(t, DescArray, d.Kind)
	assert.Equal(t, 2, d.Dimensions)
	assert.Equal(t, DescInt, d.Element.Kind)
	assert.Equal(t, "[[I", d.String())
}

func TestParseFieldDescriptorTrailingData(t *testing.T) {
	_, err := ParseFieldDescriptor("II")
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, Malformed, lerr.Kind)
}

func TestParseMethodDescriptor(t *testing.T) {
	params, ret, err := ParseMethodDescriptor("(ILjava/lang/String;[D)Z")
	require.NoError(t, err)
	require.Len(t, params, 3)
	assert.Equal(t, DescInt, params[0].Kind)
	assert.Equal(t, DescClass, params[1].Kind)
	assert.Equal(t, "java/lang/String", params[1].ClassName)
	assert.Equal(t, DescArray, params[2].Kind)
	assert.Equal(t, DescBoolean, ret.Kind)
}

func TestParseMethodDescriptorVoidNoArgs(t *testing.T) {
	params, ret, err := ParseMethodDescriptor("()V")
	require.NoError(t, err)
	assert.Empty(t, params)
	assert.Equal(t, DescVoid, ret.Kind)
}

func TestParseMethodDescriptorMissingParen(t *testing.T) {
	_, _, err := ParseMethodDescriptor("I)V")
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, Malformed, lerr.Kind)
}
