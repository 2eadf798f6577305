/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobin-vm/classir/classfile"
)

func methodWithFrames(frames []classfile.StackMapFrame) *classfile.Method {
	return &classfile.Method{
		Code: &classfile.CodeAttribute{
			Attributes: []classfile.Attribute{
				{Name: "StackMapTable", Value: classfile.StackMapTableAttr{Frames: frames}},
			},
		},
	}
}

func TestCompareStackMapFramesNoFramesIsNoop(t *testing.T) {
	method := &classfile.Method{Code: &classfile.CodeAttribute{}}
	b := &Block{EntryOffset: 0}
	var divs []Divergence
	err := compareStackMapFrames(method, []*Block{b}, map[*Block]*frameState{}, false, &divs)
	require.NoError(t, err)
	assert.Empty(t, divs)
}

func TestCompareStackMapFramesAgreeingFrameRecordsNoDivergence(t *testing.T) {
	frames := []classfile.StackMapFrame{
		{Kind: classfile.FrameFull, Offset: 5, Locals: []classfile.VerificationType{{Tag: classfile.VInteger}}},
	}
	method := methodWithFrames(frames)

	b := &Block{EntryOffset: 5}
	s := newFrameState(0, 8)
	s.setLocal(0, &Value{Kind: KindInt})

	var divs []Divergence
	err := compareStackMapFrames(method, []*Block{b}, map[*Block]*frameState{b: s}, false, &divs)
	require.NoError(t, err)
	assert.Empty(t, divs)
}

func TestCompareStackMapFramesDisagreementRecordsDivergenceByDefault(t *testing.T) {
	frames := []classfile.StackMapFrame{
		{Kind: classfile.FrameFull, Offset: 5, Locals: []classfile.VerificationType{{Tag: classfile.VObject}}},
	}
	method := methodWithFrames(frames)

	b := &Block{EntryOffset: 5}
	s := newFrameState(0, 8)
	s.setLocal(0, &Value{Kind: KindInt}) // declared ref, computed int: disagreement

	var divs []Divergence
	err := compareStackMapFrames(method, []*Block{b}, map[*Block]*frameState{b: s}, false, &divs)
	require.NoError(t, err)
	require.Len(t, divs, 1)
	assert.Equal(t, 5, divs[0].BlockOffset)
}

func TestCompareStackMapFramesDisagreementIsHardErrorUnderStrictMode(t *testing.T) {
	frames := []classfile.StackMapFrame{
		{Kind: classfile.FrameFull, Offset: 5, Locals: []classfile.VerificationType{{Tag: classfile.VObject}}},
	}
	method := methodWithFrames(frames)

	b := &Block{EntryOffset: 5}
	s := newFrameState(0, 8)
	s.setLocal(0, &Value{Kind: KindInt})

	var divs []Divergence
	err := compareStackMapFrames(method, []*Block{b}, map[*Block]*frameState{b: s}, true, &divs)
	require.Error(t, err)
	lerr, ok := AsLiftError(err)
	require.True(t, ok)
	assert.Equal(t, TypeMismatchAtMerge, lerr.Kind)
}

func TestCumulativeFrameAppendThenChop(t *testing.T) {
	cf := &cumulativeFrame{}
	locals, _ := cf.apply(classfile.StackMapFrame{
		Kind:   classfile.FrameAppend,
		Locals: []classfile.VerificationType{{Tag: classfile.VInteger}, {Tag: classfile.VFloat}},
	})
	assert.Len(t, locals, 2)

	locals, stack := cf.apply(classfile.StackMapFrame{Kind: classfile.FrameChop, ChopCount: 1})
	assert.Len(t, locals, 1)
	assert.Empty(t, stack)
}

func TestExpandPhysicalKindsCategory2OccupiesTwoSlots(t *testing.T) {
	out := expandPhysicalKinds([]classfile.VerificationType{{Tag: classfile.VLong}})
	assert.Equal(t, []ValueKind{KindLong, KindLong}, out)
}

func TestExpandPhysicalKindsTopIsHole(t *testing.T) {
	out := expandPhysicalKinds([]classfile.VerificationType{{Tag: classfile.VTop}})
	assert.Equal(t, []ValueKind{-1}, out)
}
