/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"sort"

	"github.com/samber/lo"

	"github.com/jacobin-vm/classir/classfile"
)

// EdgeKind classifies a CFG edge by why it exists.
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

func (k EdgeKind) String() string {
	switch k {
	case EdgeFallthrough:
		return "fallthrough"
	case EdgeBranch:
		return "branch"
	case EdgeSwitchCase:
		return "switch-case"
	case EdgeSwitchDefault:
		return "switch-default"
	case EdgeException:
		return "exception"
	case EdgeSubroutineCall:
		return "jsr"
	case EdgeSubroutineReturn:
		return "ret"
	default:
		return "?"
	}
}

// Edge is one directed CFG edge out of a Block.
type Edge struct {
	Target *Block
	Kind   EdgeKind
}

// Block is one basic block: a maximal run of instructions with a single
// entry point (EntryOffset) and no internal control-flow joins or splits.
type Block struct {
	Index       int
	EntryOffset int
	Instrs      []*classfile.Instruction

	Phis  []*PhiNode
	Stmts []*Stmt

	Preds []*Block
	Succs []*Edge

	// ExceptionHandlers is non-empty when this block is the target of at
	// least one exception-table entry (an entry is appended once per block
	// its range covers); CatchType is 0 for a catch-all (finally).
	ExceptionHandlers []classfile.ExceptionTableEntry
}

func (b *Block) addSucc(target *Block, kind EdgeKind) {
	b.Succs = append(b.Succs, &Edge{Target: target, Kind: kind})
	target.Preds = append(target.Preds, b)
}

// lastInstr returns the block's terminating instruction.
func (b *Block) lastInstr() *classfile.Instruction {
	return b.Instrs[len(b.Instrs)-1]
}

// buildBlocks partitions bc into basic blocks and wires their CFG edges,
// including exception edges from exceptions and the jsr/ret edges
// described below.
func buildBlocks(bc *classfile.Bytecode, exceptions []classfile.ExceptionTableEntry) ([]*Block, error) {
	leaders := computeLeaders(bc, exceptions)

	blocks := make([]*Block, 0, len(leaders))
	offsetToBlock := make(map[int]*Block, len(leaders))
	for i, off := range leaders {
		b := &Block{Index: i, EntryOffset: off}
		blocks = append(blocks, b)
		offsetToBlock[off] = b
	}

	// Assign instructions to blocks: walk bc.Order (ascending) and switch
	// the current block whenever we cross a leader.
	cur := 0
	for _, off := range bc.Order {
		for cur+1 < len(leaders) && off >= leaders[cur+1] {
			cur++
		}
		blocks[cur].Instrs = append(blocks[cur].Instrs, bc.At(off))
	}
	for _, b := range blocks {
		if len(b.Instrs) == 0 {
			return nil, newLiftError(EmptyBlock, b.EntryOffset, "computed block has no instructions")
		}
	}

	blockAt := func(offset int) (*Block, error) {
		b, ok := offsetToBlock[offset]
		if !ok {
			return nil, newLiftError(NoSuchBlock, offset, "offset is not a basic block leader")
		}
		return b, nil
	}

	var jsrReturnSites []*Block
	for _, b := range blocks {
		last := b.lastInstr()
		info, _ := classfile.Lookup(last.Opcode)
		nextOffset := last.Offset + last.Width
		switch info.Control {
		case classfile.CtrlNormal:
			if nextOffset < bc.Order[len(bc.Order)-1]+1 {
				if next, ok := offsetToBlock[nextOffset]; ok {
					b.addSucc(next, EdgeFallthrough)
				}
			}
		case classfile.CtrlConditional:
			if next, ok := offsetToBlock[nextOffset]; ok {
				b.addSucc(next, EdgeFallthrough)
			}
			target, err := blockAt(last.BranchTarget)
			if err != nil {
				return nil, err
			}
			b.addSucc(target, EdgeBranch)
		case classfile.CtrlUnconditional:
			target, err := blockAt(last.BranchTarget)
			if err != nil {
				return nil, err
			}
			b.addSucc(target, EdgeBranch)
		case classfile.CtrlSwitch:
			def, err := blockAt(last.Switch.Default)
			if err != nil {
				return nil, err
			}
			b.addSucc(def, EdgeSwitchDefault)
			targets := last.Switch.TableTargets
			if !last.Switch.IsTable {
				targets = last.Switch.LookupTargets
			}
			for _, t := range targets {
				tb, err := blockAt(t)
				if err != nil {
					return nil, err
				}
				b.addSucc(tb, EdgeSwitchCase)
			}
		case classfile.CtrlSubroutineCall:
			target, err := blockAt(last.BranchTarget)
			if err != nil {
				return nil, err
			}
			b.addSucc(target, EdgeSubroutineCall)
			if next, ok := offsetToBlock[nextOffset]; ok {
				jsrReturnSites = append(jsrReturnSites, next)
			}
		case classfile.CtrlSubroutineRet, classfile.CtrlReturn, classfile.CtrlThrow:
			// wired below (ret) or have no intra-method successor (return/throw)
		}
	}

	// jsr/ret: the verifier guarantees each subroutine has a single ret, but
	// nothing here depends on that. Conservatively connect every ret site to
	// every jsr's return site; a method using jsr almost always has exactly
	// one subroutine in play at a time, so this rarely over-approximates in
	// practice, and it keeps the CFG free of the full reaching-jsr dataflow
	// analysis the JVMS verifier runs.
	if len(jsrReturnSites) > 0 {
		for _, b := range blocks {
			last := b.lastInstr()
			info, _ := classfile.Lookup(last.Opcode)
			if info.Control == classfile.CtrlSubroutineRet {
				for _, rs := range jsrReturnSites {
					b.addSucc(rs, EdgeSubroutineReturn)
				}
			}
		}
	}

	for _, exc := range exceptions {
		handler, err := blockAt(exc.HandlerPC)
		if err != nil {
			return nil, err
		}
		matched := false
		for _, b := range blocks {
			if b.EntryOffset >= exc.StartPC && b.EntryOffset < exc.EndPC {
				b.addSucc(handler, EdgeException)
				handler.ExceptionHandlers = append(handler.ExceptionHandlers, exc)
				matched = true
			}
		}
		if !matched {
			return nil, newLiftError(UnreachableHandler, exc.HandlerPC,
				"exception table entry's [StartPC,EndPC) covers no block leader")
		}
	}

	return blocks, nil
}

// computeLeaders returns the sorted, deduplicated set of basic-block leader
// offsets: the method entry, every branch/switch target, the instruction
// following any instruction that can transfer control elsewhere, and every
// exception-table start/end/handler offset.
func computeLeaders(bc *classfile.Bytecode, exceptions []classfile.ExceptionTableEntry) []int {
	set := map[int]struct{}{0: {}}
	add := func(off int) {
		if _, ok := bc.ByOffset[off]; ok {
			set[off] = struct{}{}
		}
	}

	for _, off := range bc.Order {
		inst := bc.At(off)
		info, _ := classfile.Lookup(inst.Opcode)
		next := off + inst.Width

		switch info.Control {
		case classfile.CtrlConditional, classfile.CtrlUnconditional:
			add(inst.BranchTarget)
			add(next)
		case classfile.CtrlSwitch:
			add(inst.Switch.Default)
			targets := inst.Switch.TableTargets
			if !inst.Switch.IsTable {
				targets = inst.Switch.LookupTargets
			}
			for _, t := range targets {
				add(t)
			}
			add(next)
		case classfile.CtrlReturn, classfile.CtrlThrow, classfile.CtrlSubroutineRet:
			add(next)
		case classfile.CtrlSubroutineCall:
			add(inst.BranchTarget)
			add(next)
		}
	}

	for _, exc := range exceptions {
		add(exc.StartPC)
		add(exc.EndPC)
		add(exc.HandlerPC)
	}

	leaders := lo.Keys(set)
	sort.Ints(leaders)
	return leaders
}
