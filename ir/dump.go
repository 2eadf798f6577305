/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/klauspost/asmfmt"

	"github.com/jacobin-vm/classir/collab"
)

// DumpMethod renders m as a flat, line-oriented listing: one block header
// per basic block (its phis, then one line per Stmt), in Blocks order. The
// listing is comment-annotated enough (leading ";" lines, column-aligned
// operands) that running it through asmfmt.Format tidies alignment the same
// way it would a generated .s file; a method whose listing doesn't parse as
// assembly just comes back unformatted; the format is meant for tests and
// ad-hoc debugging, not as a stable wire format.
func DumpMethod(m *IrMethod) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "method %s%s\n", m.Name, m.Descriptor)
	for _, b := range m.Blocks {
		dumpBlock(&sb, b)
	}
	if len(m.Divergences) > 0 {
		fmt.Fprintf(&sb, "; %d divergence(s) from declared StackMapTable\n", len(m.Divergences))
	}
	raw := sb.String()
	if formatted, err := asmfmt.Format(strings.NewReader(raw)); err == nil {
		return string(formatted)
	}
	return raw
}

func dumpBlock(sb *strings.Builder, b *Block) {
	fmt.Fprintf(sb, "block%d: ; entry offset %d, preds=%s\n", b.Index, b.EntryOffset, blockList(b.Preds))
	for _, phi := range b.Phis {
		fmt.Fprintf(sb, "  %s = phi %s %s\n", valueName(phi.Value), phi.Kind, incomingList(phi))
	}
	for _, stmt := range b.Stmts {
		fmt.Fprintf(sb, "  %s\n", dumpStmt(stmt))
	}
	for _, e := range b.Succs {
		fmt.Fprintf(sb, "  -> block%d (%s)\n", e.Target.Index, e.Kind)
	}
}

func dumpStmt(s *Stmt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4d: ", s.Offset)
	if len(s.Defs) == 1 {
		fmt.Fprintf(&sb, "%s = ", valueName(s.Defs[0]))
	}
	sb.WriteString(s.Mnemonic)
	for _, u := range s.Uses {
		sb.WriteByte(' ')
		sb.WriteString(valueName(u))
	}
	if extra := dumpExtra(s.Extra); extra != "" {
		sb.WriteString(" ; ")
		sb.WriteString(extra)
	}
	return sb.String()
}

func dumpExtra(extra interface{}) string {
	switch e := extra.(type) {
	case ConstExtra:
		if e.ClassName != "" {
			return fmt.Sprintf("class %s", e.ClassName)
		}
		return fmt.Sprintf("%v", e.Value)
	case FieldRefExtra:
		return fmt.Sprintf("%s.%s:%s", e.Ref.ClassName, e.Ref.MemberName, e.Ref.Descriptor)
	case InvokeExtra:
		if e.IsInvokeDynamic {
			return fmt.Sprintf("bsm#%d %s%s", e.BootstrapIndex, e.CallName, e.CallDescriptor)
		}
		return fmt.Sprintf("%s.%s%s", e.Ref.ClassName, e.CallName, e.CallDescriptor)
	case NewExtra:
		if e.ClassName != "" {
			return e.ClassName
		}
		return fmt.Sprintf("arraytype %d dims %d", e.ArrayType, e.Dimensions)
	case CondExtra:
		return e.Mnemonic
	case SwitchExtra:
		return fmt.Sprintf("%d case(s), default block%d", len(e.Cases), e.Default.Index)
	default:
		return ""
	}
}

func valueName(v *Value) string {
	if v == nil {
		return "<nil>"
	}
	switch {
	case v.Phi != nil:
		return fmt.Sprintf("%%phi%d", v.ID)
	case v.IsParam:
		return fmt.Sprintf("%%arg%d", v.ParamIdx)
	case v.IsCaught:
		return "%caught_exception"
	default:
		return fmt.Sprintf("%%v%d", v.ID)
	}
}

func blockList(blocks []*Block) string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = fmt.Sprintf("block%d", b.Index)
	}
	return strings.Join(names, ",")
}

func incomingList(phi *PhiNode) string {
	preds := make([]*Block, 0, len(phi.Incoming))
	for pred := range phi.Incoming {
		preds = append(preds, pred)
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].Index < preds[j].Index })
	parts := make([]string, 0, len(preds))
	for _, pred := range preds {
		parts = append(parts, fmt.Sprintf("[block%d: %s]", pred.Index, valueName(phi.Incoming[pred])))
	}
	return strings.Join(parts, " ")
}

// IterCFG flattens m's basic blocks and edges into the collab package's
// graph-export shape, for a caller that adapts them to a third-party graph
// library rather than walking Block/Edge directly.
func IterCFG(m *IrMethod) ([]collab.CFGNode, []collab.CFGEdge) {
	nodes := make([]collab.CFGNode, 0, len(m.Blocks))
	var edges []collab.CFGEdge
	for _, b := range m.Blocks {
		offsets := make([]int, len(b.Instrs))
		for i, inst := range b.Instrs {
			offsets[i] = inst.Offset
		}
		nodes = append(nodes, collab.CFGNode{Index: b.Index, EntryOffset: b.EntryOffset, Offsets: offsets})
		for _, e := range b.Succs {
			edges = append(edges, collab.CFGEdge{From: b.Index, To: e.Target.Index, Kind: collab.EdgeKind(e.Kind)})
		}
	}
	return nodes, edges
}
