/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package collab declares the interfaces this module's consumers implement
// but that classfile and ir never implement themselves: a byte-stream
// source for class entries (a .jar/ZIP walker, a filesystem walker, a
// network fetch) and a CFG export sink (an adapter to a graph library).
// Nothing in this package touches a filesystem or imports archive/zip;
// it exists purely to keep classfile/ir leaf packages that never reach
// outside their own input bytes.
package collab

// ClassEntrySource iterates the class files of some container a caller
// already knows how to open (a .jar, a directory tree, a network stream).
// Next returns ok=false once the source is exhausted; a non-nil err aborts
// iteration regardless of ok.
type ClassEntrySource interface {
	Next() (name string, data []byte, ok bool, err error)
}

// EdgeKind mirrors ir.EdgeKind without importing the ir package, so a graph
// adapter can depend on collab alone.
type EdgeKind int

const (
	EdgeFallthrough EdgeKind = iota
	EdgeBranch
	EdgeSwitchCase
	EdgeSwitchDefault
	EdgeException
	EdgeSubroutineCall
	EdgeSubroutineReturn
)

// CFGNode is one basic block, described for export to a graph library: its
// index, its entry offset in the original bytecode, and the offsets of the
// instructions it covers (for labeling).
type CFGNode struct {
	Index       int
	EntryOffset int
	Offsets     []int
}

// CFGEdge is one directed edge between two nodes, identified by their
// Index. Kind explains why the edge exists, for a caller that wants to
// style exception edges differently from fallthrough edges, say.
type CFGEdge struct {
	From, To int
	Kind     EdgeKind
}
