/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import "github.com/jacobin-vm/classir/classfile"

// verificationKind maps a StackMapTable verification_type_info tag to the
// ValueKind this package's abstract interpretation would have produced for
// the same slot. ok is false only for VTop (an unused/hole slot, never
// comparable). VUninitialized/VUninitializedThis, which this package's
// Value model has no dedicated representation for, map to KindRef, same
// as every other object reference.
func verificationKind(vt classfile.VerificationType) (kind ValueKind, ok bool) {
	switch vt.Tag {
	case classfile.VInteger:
		return KindInt, true
	case classfile.VFloat:
		return KindFloat, true
	case classfile.VLong:
		return KindLong, true
	case classfile.VDouble:
		return KindDouble, true
	case classfile.VObject, classfile.VNull, classfile.VUninitializedThis, classfile.VUninitialized:
		return KindRef, true
	case classfile.VTop:
		return 0, false
	default:
		return 0, false
	}
}

// expandPhysicalKinds lowers a verification_type_info list to the same
// physical-slot convention frameState uses: a category-2 entry occupies
// two consecutive slots holding the same Kind.
func expandPhysicalKinds(vts []classfile.VerificationType) []ValueKind {
	out := make([]ValueKind, 0, len(vts)*2)
	for _, vt := range vts {
		kind, ok := verificationKind(vt)
		if !ok {
			out = append(out, -1)
			continue
		}
		out = append(out, kind)
		if kind.Category() == 2 {
			out = append(out, kind)
		}
	}
	return out
}

// cumulativeFrame tracks the running locals list a StackMapTable frame
// sequence builds up across FrameAppend/FrameChop/FrameSame entries, which
// are differential relative to the previous frame (JVMS 4.7.4) rather than
// self-contained.
type cumulativeFrame struct {
	locals []classfile.VerificationType
}

func (c *cumulativeFrame) apply(f classfile.StackMapFrame) (locals, stack []classfile.VerificationType) {
	switch f.Kind {
	case classfile.FrameSame, classfile.FrameSameExtended:
		// locals unchanged, stack empty
	case classfile.FrameSameLocals1StackItem, classfile.FrameSameLocals1StackItemExtended:
		stack = f.Stack
	case classfile.FrameChop:
		n := len(c.locals) - f.ChopCount
		if n < 0 {
			n = 0
		}
		c.locals = c.locals[:n]
	case classfile.FrameAppend:
		c.locals = append(c.locals, f.Locals...)
	case classfile.FrameFull:
		c.locals = append([]classfile.VerificationType(nil), f.Locals...)
		stack = f.Stack
	}
	return append([]classfile.VerificationType(nil), c.locals...), stack
}

// compareStackMapFrames replays method's declared StackMapTable (if any)
// alongside this package's own fixpoint typing and records where they
// disagree. A disagreement is ordinarily a
// non-fatal Divergence — verifiers and independent abstract interpreters
// routinely differ on unreachable code, merged exception-handler state,
// and other corners neither side treats as load-bearing — but
// strictStackMap promotes it to a hard TypeMismatchAtMerge error for a
// caller that wants verifier-level strictness.
func compareStackMapFrames(method *classfile.Method, blocks []*Block, entryStates map[*Block]*frameState, strictStackMap bool, divergences *[]Divergence) error {
	frames := method.StackMapFrames()
	if len(frames) == 0 {
		return nil
	}

	byOffset := make(map[int]*Block, len(blocks))
	for _, b := range blocks {
		byOffset[b.EntryOffset] = b
	}

	cf := &cumulativeFrame{}
	for _, f := range frames {
		locals, stack := cf.apply(f)
		b, ok := byOffset[f.Offset]
		if !ok {
			// The frame doesn't land on a block leader this package computed;
			// can't compare, but that's itself not a hard failure.
			continue
		}
		state, ok := entryStates[b]
		if !ok {
			continue
		}

		if mismatch := compareKindSlots(expandPhysicalKinds(locals), kindsOf(state.locals)); mismatch {
			if strictStackMap {
				return newLiftError(TypeMismatchAtMerge, f.Offset, "declared StackMapTable locals disagree with this package's fixpoint typing")
			}
			*divergences = append(*divergences, Divergence{
				BlockOffset: f.Offset,
				Reason:      "declared StackMapTable locals disagree with the lifter's own fixpoint typing",
			})
		}
		if mismatch := compareKindSlots(expandPhysicalKinds(stack), kindsOf(state.stack)); mismatch {
			if strictStackMap {
				return newLiftError(TypeMismatchAtMerge, f.Offset, "declared StackMapTable stack disagrees with this package's fixpoint typing")
			}
			*divergences = append(*divergences, Divergence{
				BlockOffset: f.Offset,
				Reason:      "declared StackMapTable stack disagrees with the lifter's own fixpoint typing",
			})
		}
	}
	return nil
}

func kindsOf(vs []*Value) []ValueKind {
	out := make([]ValueKind, len(vs))
	for i, v := range vs {
		if v == nil {
			out[i] = -1
			continue
		}
		out[i] = v.Kind
	}
	return out
}

// compareKindSlots reports whether two physical-slot Kind sequences
// disagree anywhere both sides have a known (non-hole) Kind. A length
// difference alone is reported too, since it means the two analyses
// disagree on how deep the stack or how many locals are live.
func compareKindSlots(a, b []ValueKind) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] == -1 || b[i] == -1 {
			continue
		}
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
