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

func emptyPool() *ConstantPool {
	return &ConstantPool{CpIndex: make([]CpEntry, 1)}
}

func TestDecodeBytecodeSimpleSequence(t *testing.T) {
	// iconst_1; iconst_2; iadd; ireturn
	code := []byte{byte(Iconst1), byte(Iconst2), byte(Iadd), byte(Ireturn)}
	bc, err := decodeBytecode(code, emptyPool())
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 2, 3}, bc.Order)
	assert.Equal(t, "iconst_1", bc.At(0).Mnemonic)
	assert.Equal(t, "iadd", bc.At(2).Mnemonic)
	assert.Equal(t, 1, bc.At(3).Width)
}

func TestDecodeBytecodeBranch(t *testing.T) {
	// iconst_0 [0]; ifeq +4 [1]; iconst_1 [4]; goto +3 [5]; iconst_0 [8]; return [9]
	code := []byte{
		byte(Iconst0),
		byte(Ifeq), 0x00, 0x04,
		byte(Iconst1),
		byte(Goto), 0x00, 0x03,
		byte(Iconst0),
		byte(Return),
	}
	bc, err := decodeBytecode(code, emptyPool())
	require.NoError(t, err)

	ifeq := bc.At(1)
	require.NotNil(t, ifeq)
	assert.Equal(t, 5, ifeq.BranchTarget) // 1 + 4

	gotoInst := bc.At(5)
	require.NotNil(t, gotoInst)
	assert.Equal(t, 8, gotoInst.BranchTarget) // 5 + 3
}

func TestDecodeBytecodeBranchOutOfRange(t *testing.T) {
	// ifeq branches into the middle of nowhere (offset 1+99 = 100 is never decoded)
	code := []byte{
		byte(Iconst0),
		byte(Ifeq), 0x00, 0x63, // +99
	}
	_, err := decodeBytecode(code, emptyPool())
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BranchOutOfRange, lerr.Kind)
}

func TestDecodeBytecodeWideLoad(t *testing.T) {
	// wide iload #300
	code := []byte{byte(Wide), byte(Iload), 0x01, 0x2C}
	bc, err := decodeBytecode(code, emptyPool())
	require.NoError(t, err)

	inst := bc.At(0)
	require.NotNil(t, inst)
	assert.True(t, inst.WidePrefixed)
	assert.Equal(t, 300, inst.LocalIndex)
	assert.Equal(t, 4, inst.Width)
}

func TestDecodeBytecodeTableSwitch(t *testing.T) {
	// iconst_0 [0]; tableswitch [1..23]; nop [24]; nop [25]
	// The switch's own body runs from offset 1 to 23, so every branch target
	// must resolve past it (to 24 or 25) to land on a real instruction.
	code := make([]byte, 0)
	code = append(code, byte(Iconst0))     // offset 0
	code = append(code, byte(TableSwitch)) // offset 1
	code = append(code, 0x00, 0x00)        // 2 padding bytes, to reach offset 4
	code = append(code, 0x00, 0x00, 0x00, 23) // default -> 1+23 = 24
	code = append(code, 0x00, 0x00, 0x00, 0x00) // low = 0
	code = append(code, 0x00, 0x00, 0x00, 0x01) // high = 1
	code = append(code, 0x00, 0x00, 0x00, 23)   // target[0] -> 1+23 = 24
	code = append(code, 0x00, 0x00, 0x00, 24)   // target[1] -> 1+24 = 25
	code = append(code, byte(Nop))              // offset 24
	code = append(code, byte(Nop))              // offset 25

	bc, err := decodeBytecode(code, emptyPool())
	require.NoError(t, err)

	sw := bc.At(1)
	require.NotNil(t, sw)
	require.NotNil(t, sw.Switch)
	assert.True(t, sw.Switch.IsTable)
	assert.Equal(t, 24, sw.Switch.Default)
	assert.Equal(t, []int{24, 25}, sw.Switch.TableTargets)
}

func TestDecodeBytecodeUnknownOpcode(t *testing.T) {
	code := []byte{0xFE} // never assigned in the JVMS
	_, err := decodeBytecode(code, emptyPool())
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, UnknownOpcode, lerr.Kind)
}

func TestDumpBytecodeListsEveryInstruction(t *testing.T) {
	code := []byte{byte(Iconst1), byte(Iconst2), byte(Iadd), byte(Ireturn)}
	bc, err := decodeBytecode(code, emptyPool())
	require.NoError(t, err)

	out := DumpBytecode(bc)
	assert.Contains(t, out, "iconst_1")
	assert.Contains(t, out, "iadd")
	assert.Contains(t, out, "ireturn")
}
