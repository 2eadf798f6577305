/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"fmt"
	"strings"

	"github.com/klauspost/asmfmt"
)

// DumpBytecode renders bc as a flat mnemonic listing, one instruction per
// line, offset-prefixed. Branch and switch targets print as absolute
// offsets rather than relative deltas so the listing reads the same way a
// disassembler's would. The text is run through asmfmt.Format before
// returning, the same way the generated assembly a code-generation tool
// emits gets tidied before it is written out; a listing that doesn't parse
// as assembly just comes back unformatted.
func DumpBytecode(bc *Bytecode) string {
	var sb strings.Builder
	for _, off := range bc.Order {
		inst := bc.At(off)
		fmt.Fprintf(&sb, "%4d: %s", inst.Offset, inst.Mnemonic)
		switch {
		case inst.LocalIndex >= 0:
			fmt.Fprintf(&sb, " #%d", inst.LocalIndex)
		case inst.PoolIndex >= 0:
			fmt.Fprintf(&sb, " cp#%d", inst.PoolIndex)
		case inst.BranchTarget >= 0:
			fmt.Fprintf(&sb, " -> %d", inst.BranchTarget)
		case inst.Switch != nil:
			fmt.Fprintf(&sb, " default -> %d", inst.Switch.Default)
		}
		sb.WriteByte('\n')
	}
	raw := sb.String()
	if formatted, err := asmfmt.Format(strings.NewReader(raw)); err == nil {
		return string(formatted)
	}
	return raw
}
