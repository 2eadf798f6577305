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

// excSpec is a raw (startPC, endPC, handlerPC, catchType) exception-table row.
type excSpec struct{ start, end, handler, catchType int }

// buildMethodBytecode assembles a minimal static ()V method (via
// assembleClassWithMethod in lift_test.go) and returns its decoded Code
// attribute. This exercises buildBlocks against the real decode path rather
// than a hand-rolled classfile.Bytecode literal.
func buildMethodBytecode(t *testing.T, code []byte, excs []excSpec) *classfile.CodeAttribute {
	t.Helper()
	_, method := assembleClassWithMethod(t, "()V", 0x0009, 8, 4, code, excs)
	return method.Code
}

func TestBuildBlocksFallthroughAndBranch(t *testing.T) {
	// 0: iconst_0; 1: ifeq -> 8; 4: iconst_1; 5: goto -> 8; 8: iconst_0; 9: return
	code := []byte{
		byte(classfile.Iconst0),
		byte(classfile.Ifeq), 0x00, 0x07,
		byte(classfile.Iconst1),
		byte(classfile.Goto), 0x00, 0x03,
		byte(classfile.Iconst0),
		byte(classfile.Return),
	}
	ca := buildMethodBytecode(t, code, nil)

	blocks, err := buildBlocks(ca.Bytecode, ca.Exceptions)
	require.NoError(t, err)

	var offsets []int
	for _, b := range blocks {
		offsets = append(offsets, b.EntryOffset)
	}
	assert.Contains(t, offsets, 0)
	assert.Contains(t, offsets, 4)
	assert.Contains(t, offsets, 8)

	entry := blocks[0]
	require.Len(t, entry.Succs, 2)
	kinds := map[EdgeKind]bool{}
	for _, e := range entry.Succs {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[EdgeFallthrough])
	assert.True(t, kinds[EdgeBranch])
}

func TestBuildBlocksSwitchEdges(t *testing.T) {
	code := make([]byte, 0)
	code = append(code, byte(classfile.Iconst0))     // offset 0
	code = append(code, byte(classfile.TableSwitch)) // offset 1
	code = append(code, 0x00, 0x00)                  // padding to offset 4
	code = append(code, 0x00, 0x00, 0x00, 23)        // default -> 24
	code = append(code, 0x00, 0x00, 0x00, 0x00)      // low = 0
	code = append(code, 0x00, 0x00, 0x00, 0x01)      // high = 1
	code = append(code, 0x00, 0x00, 0x00, 23)        // case 0 -> 24
	code = append(code, 0x00, 0x00, 0x00, 24)        // case 1 -> 25
	code = append(code, byte(classfile.Nop))         // offset 24
	code = append(code, byte(classfile.Return))      // offset 25

	ca := buildMethodBytecode(t, code, nil)
	blocks, err := buildBlocks(ca.Bytecode, ca.Exceptions)
	require.NoError(t, err)

	var switchBlock *Block
	for _, b := range blocks {
		if b.lastInstr().Opcode == classfile.TableSwitch {
			switchBlock = b
		}
	}
	require.NotNil(t, switchBlock)

	kindCounts := map[EdgeKind]int{}
	for _, e := range switchBlock.Succs {
		kindCounts[e.Kind]++
	}
	assert.Equal(t, 1, kindCounts[EdgeSwitchDefault])
	assert.Equal(t, 2, kindCounts[EdgeSwitchCase])
}

func TestBuildBlocksExceptionEdge(t *testing.T) {
	code := []byte{
		byte(classfile.Iconst0), // 0
		byte(classfile.Pop),     // 1
		byte(classfile.Return),  // 2
		byte(classfile.Pop),     // 3 (handler)
		byte(classfile.Return),  // 4
	}
	ca := buildMethodBytecode(t, code, []excSpec{{start: 0, end: 2, handler: 3, catchType: 0}})

	blocks, err := buildBlocks(ca.Bytecode, ca.Exceptions)
	require.NoError(t, err)

	entry := blocks[0]
	var handlerBlock *Block
	for _, b := range blocks {
		if b.EntryOffset == 3 {
			handlerBlock = b
		}
	}
	require.NotNil(t, handlerBlock)

	found := false
	for _, e := range entry.Succs {
		if e.Kind == EdgeException && e.Target == handlerBlock {
			found = true
		}
	}
	assert.True(t, found)
	require.Len(t, handlerBlock.ExceptionHandlers, 1)
	assert.Equal(t, 3, handlerBlock.ExceptionHandlers[0].HandlerPC)
}

func TestBuildBlocksJsrRetConservativeEdges(t *testing.T) {
	// 0: jsr -> 6; 3: nop; 4: nop; 5: return; 6 (subroutine): astore_1; 7: ret 1
	code := []byte{
		byte(classfile.Jsr), 0x00, 0x06,
		byte(classfile.Nop),
		byte(classfile.Nop),
		byte(classfile.Return),
		byte(classfile.Astore1),
		byte(classfile.Ret), 0x01,
	}
	ca := buildMethodBytecode(t, code, nil)
	blocks, err := buildBlocks(ca.Bytecode, ca.Exceptions)
	require.NoError(t, err)

	var jsrBlock, retBlock *Block
	for _, b := range blocks {
		if b.EntryOffset == 0 {
			jsrBlock = b
		}
		if b.lastInstr().Opcode == classfile.Ret {
			retBlock = b
		}
	}
	require.NotNil(t, jsrBlock)
	require.NotNil(t, retBlock)

	hasCall := false
	for _, e := range jsrBlock.Succs {
		if e.Kind == EdgeSubroutineCall {
			hasCall = true
		}
	}
	assert.True(t, hasCall)

	require.Len(t, retBlock.Succs, 1)
	assert.Equal(t, EdgeSubroutineReturn, retBlock.Succs[0].Kind)
	assert.Equal(t, 3, retBlock.Succs[0].Target.EntryOffset)
}

func TestComputeLeadersDedupsAndSorts(t *testing.T) {
	code := []byte{
		byte(classfile.Iconst0),
		byte(classfile.Ifeq), 0x00, 0x04,
		byte(classfile.Iconst1),
		byte(classfile.Return),
	}
	ca := buildMethodBytecode(t, code, nil)
	leaders := computeLeaders(ca.Bytecode, ca.Exceptions)
	assert.Equal(t, []int{0, 4, 5}, leaders)
}
