/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package ir lifts a decoded method's bytecode (classfile.CodeAttribute)
// into a static single assignment intermediate representation: basic
// blocks of Stmts over Values, joined by PhiNodes at every merge point.
//
// Lifting runs in two passes. Pass one walks the CFG in reverse postorder,
// abstractly interpreting each block's instructions over a frameState
// (operand stack + locals of *Value pointers) and creating a phi for every
// defined stack/local slot at a block with more than one predecessor (for
// an exception handler, every defined local), whether or not the
// predecessors' values differ — eagerly for
// blocks whose predecessors are all already processed, and via a
// placeholder Value for loop headers reached before their back-edge
// predecessor has run. Pass two, run once every block's exit state exists,
// fills in every phi's Incoming map by reading each predecessor's final
// exit state for that slot. Splitting phi creation from phi completion
// this way means the lifter never needs the sealed/unsealed bookkeeping a
// single-pass SSA builder needs for irreducible or not-yet-fully-explored
// control flow: every predecessor's exit state is guaranteed to exist by
// the time pass two runs, because pass one unconditionally visits every
// block.
package ir

import (
	"github.com/jacobin-vm/classir/classfile"
)

// IrMethod is one method lifted to SSA form.
type IrMethod struct {
	Name       string
	Descriptor string
	IsStatic   bool

	Blocks []*Block
	Entry  *Block

	// Divergences records non-fatal disagreements noticed between this
	// package's own abstract interpretation and the method's declared
	// StackMapTable, if it has one, and merge points where a predecessor's
	// exit stack is shallower than a stack phi. Lifting never fails over
	// these.
	Divergences []Divergence
}

// Lift abstractly interprets method's Code attribute and returns its SSA
// form. method must belong to class (its ConstantPool resolves the
// method's field/method/class references). Returns an error wrapping a
// LiftErrorKind on structural problems in the CFG; method.Code == nil
// (abstract or native methods carry no bytecode) is reported the same way
// rather than treated as success with an empty body, since a caller asking
// to lift such a method is almost always a bug on the caller's side.
func Lift(class *classfile.Class, method *classfile.Method, opts ...Option) (*IrMethod, error) {
	o := resolveOptions(opts)
	if o.Logger != nil {
		SetLogger(o.Logger)
	}

	if method.Code == nil {
		return nil, newLiftError(UnsupportedOpcode, -1, "method has no Code attribute to lift")
	}
	code := method.Code
	cp := class.ConstantPool

	blocks, err := buildBlocks(code.Bytecode, code.Exceptions)
	if err != nil {
		return nil, err
	}
	traceLift("Lift: %s%s has %d basic blocks", method.Name, method.Descriptor, len(blocks))

	vt := newValueTable()
	pt := newPhiTable(vt)

	im := &IrMethod{
		Name:       method.Name,
		Descriptor: method.Descriptor,
		IsStatic:   method.AccessFlags&0x0008 != 0,
		Blocks:     blocks,
	}
	if len(blocks) > 0 {
		im.Entry = blocks[0]
	}

	rpo := reversePostorder(blocks)

	entryStates := make(map[*Block]*frameState, len(blocks))
	exitStates := make(map[*Block]*frameState, len(blocks))
	processed := make(map[*Block]bool, len(blocks))

	if im.Entry != nil {
		state := newFrameState(code.MaxLocals, code.MaxStack)
		seedParams(class, method, vt, state)
		entryStates[im.Entry] = state
	}

	for _, b := range rpo {
		state, ok := entryStates[b]
		if !ok {
			state = computeEntryState(b, pt, vt, exitStates, processed, code.MaxStack)
			entryStates[b] = state
		}
		work := state.clone()
		if err := interpretBlock(b, work, cp, vt); err != nil {
			return nil, err
		}
		exitStates[b] = work
		processed[b] = true
	}

	// Any block unreachable from the entry (dead handlers, degenerate
	// input) still needs a Stmts list so every Instrs offset keeps its
	// bijection with a Stmt.
	for _, b := range blocks {
		if processed[b] {
			continue
		}
		state := computeEntryState(b, pt, vt, exitStates, processed, code.MaxStack)
		work := state.clone()
		if err := interpretBlock(b, work, cp, vt); err != nil {
			return nil, err
		}
		exitStates[b] = work
		processed[b] = true
	}

	if err := finalizePhis(pt, exitStates, &im.Divergences); err != nil {
		return nil, err
	}

	if err := compareStackMapFrames(method, blocks, entryStates, o.StrictStackMap, &im.Divergences); err != nil {
		return nil, err
	}

	return im, nil
}

// seedParams populates the entry block's locals with the method's
// parameter values (and `this`, for an instance method), per JVMS 2.6.1
// local-variable layout: `this` (if any) occupies slot 0, then each
// parameter occupies the next slot(s), category-2 parameters taking two.
func seedParams(class *classfile.Class, method *classfile.Method, vt *valueTable, s *frameState) {
	slot := 0
	paramIdx := 0
	if method.AccessFlags&0x0008 == 0 { // ACC_STATIC unset: instance method, `this` is slot 0
		v := vt.param(paramIdx, KindRef)
		s.setLocal(slot, v)
		slot++
		paramIdx++
	}
	for _, p := range method.Params {
		kind := descriptorKind(p)
		v := vt.param(paramIdx, kind)
		s.setLocal(slot, v)
		slot += kind.Category()
		paramIdx++
	}
	_ = class
}

// descriptorKind maps a parsed field/return descriptor to the JVMS 2.11.1
// computational type used on the operand stack and in local slots: byte,
// char, short, and boolean all widen to int.
func descriptorKind(d *classfile.TypeDescriptor) ValueKind {
	switch d.Kind {
	case classfile.DescLong:
		return KindLong
	case classfile.DescFloat:
		return KindFloat
	case classfile.DescDouble:
		return KindDouble
	case classfile.DescClass, classfile.DescArray:
		return KindRef
	default:
		return KindInt
	}
}

func reversePostorder(blocks []*Block) []*Block {
	if len(blocks) == 0 {
		return nil
	}
	visited := make(map[*Block]bool, len(blocks))
	var post []*Block
	var visit func(b *Block)
	visit = func(b *Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, e := range b.Succs {
			visit(e.Target)
		}
		post = append(post, b)
	}
	visit(blocks[0])
	rpo := make([]*Block, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

// computeEntryState derives block b's entry frameState from whichever of
// its predecessors have already been processed. A single already-processed
// predecessor is copied directly (the common case: straight-line code and
// forward branches). Any other shape — multiple predecessors, or a loop
// header reached before its back-edge predecessor runs — gets a phi per
// slot, interned against b so later visits (and pass two) find the same
// node.
//
// Exception-handler blocks are special-cased per JVMS 6.5 athrow semantics:
// whatever the protected range had on its operand stack is discarded, and
// the handler enters with exactly one value — the in-flight exception — on
// the stack. Only locals merge from the handler's predecessors.
func computeEntryState(b *Block, pt *phiTable, vt *valueTable, exitStates map[*Block]*frameState, processed map[*Block]bool, maxStack int) *frameState {
	isHandler := len(b.ExceptionHandlers) > 0

	var template *frameState
	for _, p := range b.Preds {
		if processed[p] {
			template = exitStates[p]
			break
		}
	}
	if template == nil {
		// Unreachable block (no processed predecessor, or no predecessors
		// at all): starts from an empty, fully-undefined state.
		out := &frameState{maxStack: maxStack}
		if isHandler {
			out.stack = []*Value{vt.caught(b.EntryOffset)}
		}
		return out
	}

	if !isHandler && len(b.Preds) == 1 && processed[b.Preds[0]] {
		pred := exitStates[b.Preds[0]]
		return &frameState{
			stack:    append([]*Value(nil), pred.stack...),
			locals:   append([]*Value(nil), pred.locals...),
			maxStack: maxStack,
		}
	}

	out := &frameState{
		stack:    make([]*Value, len(template.stack)),
		locals:   make([]*Value, len(template.locals)),
		maxStack: maxStack,
	}
	if isHandler {
		out.stack = []*Value{vt.caught(b.EntryOffset)}
	} else {
		for i := 0; i < len(out.stack); {
			v := template.stack[i]
			if v == nil {
				i++
				continue
			}
			phi := pt.intern(PhiKey{Block: b, Kind: SlotStack, Index: i}, v.Kind)
			out.stack[i] = phi.Value
			if v.Kind.Category() == 2 {
				out.stack[i+1] = phi.Value
				i += 2
			} else {
				i++
			}
		}
	}
	for i := 0; i < len(out.locals); {
		v := template.locals[i]
		if v == nil {
			i++
			continue
		}
		phi := pt.intern(PhiKey{Block: b, Kind: SlotLocal, Index: i}, v.Kind)
		out.locals[i] = phi.Value
		if v.Kind.Category() == 2 && i+1 < len(out.locals) {
			out.locals[i+1] = phi.Value
			i += 2
		} else {
			i++
		}
	}
	return out
}

// finalizePhis fills in every phi's Incoming map by reading each
// predecessor's final exit state for that slot, and checks that every
// predecessor agrees on the value's Kind at that slot — an Object/int
// collision at a merge point indicates a structurally malformed method
// (the verifier would reject it), reported as TypeMismatchAtMerge rather
// than silently picked from whichever predecessor happened to run first.
// A predecessor whose exit stack is too shallow for a stack phi is
// recorded as a Divergence instead, and that phi gets no incoming value
// from it.
func finalizePhis(pt *phiTable, exitStates map[*Block]*frameState, divergences *[]Divergence) error {
	for key, phi := range pt.entries {
		for _, pred := range key.Block.Preds {
			predExit, ok := exitStates[pred]
			if !ok {
				continue
			}
			var v *Value
			switch key.Kind {
			case SlotStack:
				if key.Index < len(predExit.stack) {
					v = predExit.stack[key.Index]
				} else {
					*divergences = append(*divergences, Divergence{
						BlockOffset: key.Block.EntryOffset,
						Reason:      "predecessor's exit stack is shallower than the merge point expects",
					})
					continue
				}
			case SlotLocal:
				if key.Index < len(predExit.locals) {
					v = predExit.locals[key.Index]
				}
			}
			if v != nil && v.Kind != phi.Value.Kind {
				return newLiftError(TypeMismatchAtMerge, key.Block.EntryOffset,
					"predecessors disagree on the value Kind at a merge point")
			}
			phi.setIncoming(pred, v)
		}
	}
	return nil
}
