/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// VerificationTag identifies the kind of a verification_type_info entry
// (JVMS 4.7.4).
type VerificationTag byte

const (
	VTop               VerificationTag = 0
	VInteger           VerificationTag = 1
	VFloat             VerificationTag = 2
	VDouble            VerificationTag = 3
	VLong              VerificationTag = 4
	VNull              VerificationTag = 5
	VUninitializedThis VerificationTag = 6
	VObject            VerificationTag = 7
	VUninitialized     VerificationTag = 8
)

// VerificationType is a decoded verification_type_info: for VObject,
// PoolIndex names the class; for VUninitialized, Offset is the bytecode
// offset of the `new` instruction that created the uninitialized value.
type VerificationType struct {
	Tag       VerificationTag
	PoolIndex int
	Offset    int
}

func parseVerificationType(r *Reader) (VerificationType, error) {
	tagByte, err := r.U1()
	if err != nil {
		return VerificationType{}, err
	}
	vt := VerificationType{Tag: VerificationTag(tagByte)}
	switch vt.Tag {
	case VObject:
		idx, err := r.U2()
		if err != nil {
			return VerificationType{}, err
		}
		vt.PoolIndex = int(idx)
	case VUninitialized:
		off, err := r.U2()
		if err != nil {
			return VerificationType{}, err
		}
		vt.Offset = int(off)
	case VTop, VInteger, VFloat, VDouble, VLong, VNull, VUninitializedThis:
		// no payload
	default:
		return VerificationType{}, newErr(MalformedFrame, r.Pos()-1, "unrecognized verification_type_info tag")
	}
	return vt, nil
}

// StackMapFrameKind classifies a decoded frame by its encoding family.
type StackMapFrameKind int

const (
	FrameSame StackMapFrameKind = iota
	FrameSameLocals1StackItem
	FrameSameLocals1StackItemExtended
	FrameChop
	FrameSameExtended
	FrameAppend
	FrameFull
)

// StackMapFrame is one decoded entry of a StackMapTable. Offset is the
// absolute bytecode offset this frame describes (the cumulative sum of
// offset_delta fields plus one per frame after the first, per JVMS 4.7.4).
type StackMapFrame struct {
	Kind       StackMapFrameKind
	Offset     int
	ChopCount  int                // FrameChop: number of locals removed from the end
	Locals     []VerificationType // appended (FrameAppend) or full (FrameFull) locals
	Stack      []VerificationType // stack items (FrameSameLocals1StackItem*/FrameFull)
}

// parseStackMapTable decodes a StackMapTable attribute body. The JVMS 4.7.4
// delta encoding guarantees the decoded frames monotonically advance the
// bytecode offset cursor.
func parseStackMapTable(raw []byte) ([]StackMapFrame, error) {
	r := NewReader(raw)
	count, err := r.U2()
	if err != nil {
		return nil, err
	}

	frames := make([]StackMapFrame, 0, count)
	offset := -1 // so that the first frame's offset_delta is used as-is

	for i := 0; i < int(count); i++ {
		frameType, err := r.U1()
		if err != nil {
			return nil, err
		}

		var f StackMapFrame
		switch {
		case frameType <= 63:
			f.Kind = FrameSame
			f.Offset = bumpOffset(&offset, int(frameType))

		case frameType <= 127:
			f.Kind = FrameSameLocals1StackItem
			f.Offset = bumpOffset(&offset, int(frameType)-64)
			vt, err := parseVerificationType(r)
			if err != nil {
				return nil, err
			}
			f.Stack = []VerificationType{vt}

		case frameType >= 128 && frameType <= 246:
			return nil, newErr(MalformedFrame, r.Pos()-1, "reserved frame_type")

		case frameType == 247:
			f.Kind = FrameSameLocals1StackItemExtended
			delta, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Offset = bumpOffset(&offset, int(delta))
			vt, err := parseVerificationType(r)
			if err != nil {
				return nil, err
			}
			f.Stack = []VerificationType{vt}

		case frameType >= 248 && frameType <= 250:
			f.Kind = FrameChop
			delta, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Offset = bumpOffset(&offset, int(delta))
			f.ChopCount = 251 - int(frameType)

		case frameType == 251:
			f.Kind = FrameSameExtended
			delta, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Offset = bumpOffset(&offset, int(delta))

		case frameType >= 252 && frameType <= 254:
			f.Kind = FrameAppend
			delta, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Offset = bumpOffset(&offset, int(delta))
			n := int(frameType) - 251
			f.Locals = make([]VerificationType, n)
			for j := 0; j < n; j++ {
				vt, err := parseVerificationType(r)
				if err != nil {
					return nil, err
				}
				f.Locals[j] = vt
			}

		case frameType == 255:
			f.Kind = FrameFull
			delta, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Offset = bumpOffset(&offset, int(delta))
			nLocals, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Locals = make([]VerificationType, nLocals)
			for j := range f.Locals {
				vt, err := parseVerificationType(r)
				if err != nil {
					return nil, err
				}
				f.Locals[j] = vt
			}
			nStack, err := r.U2()
			if err != nil {
				return nil, err
			}
			f.Stack = make([]VerificationType, nStack)
			for j := range f.Stack {
				vt, err := parseVerificationType(r)
				if err != nil {
					return nil, err
				}
				f.Stack[j] = vt
			}
		}

		frames = append(frames, f)
	}
	return frames, nil
}

// bumpOffset advances *cur by delta (plus one, for every frame after the
// first, per JVMS 4.7.4) and returns the new absolute offset.
func bumpOffset(cur *int, delta int) int {
	if *cur < 0 {
		*cur = delta
	} else {
		*cur = *cur + delta + 1
	}
	return *cur
}
