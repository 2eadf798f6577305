/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

// ValueKind is the JVM computational type of an SSA value (JVMS 2.11.1).
// ReturnAddress only arises from jsr/jsr_w targeting a subroutine.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindLong
	KindFloat
	KindDouble
	KindRef
	KindReturnAddress
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindRef:
		return "ref"
	case KindReturnAddress:
		return "retaddr"
	default:
		return "?"
	}
}

// Category is the JVMS 2.6.1 computational type category: 2 for long/double
// (which occupy two stack slots / two local slots), 1 for everything else.
func (k ValueKind) Category() int {
	if k == KindLong || k == KindDouble {
		return 2
	}
	return 1
}

// Value is an SSA value. Its identity is its Origin offset for every value
// actually produced by a bytecode instruction — two Values with the same
// Origin are the same value — which gives the lifter a value-numbering
// scheme for free: defining instructions are looked up once, and every load
// or dup of that value after definition hands back the same *Value pointer
// rather than allocating a new one.
//
// Values introduced by the lifter itself rather than by an instruction
// (method parameters and phi nodes) use the synthetic Origin spaces below so
// they never collide with a real bytecode offset.
type Value struct {
	ID     int
	Kind   ValueKind
	Origin int

	IsParam  bool
	ParamIdx int

	// IsCaught marks the value an exception handler's entry block finds on
	// its otherwise-empty operand stack: the in-flight exception object.
	IsCaught bool

	Phi *PhiNode // non-nil iff this value is defined by a phi
}

// Synthetic origin spaces, kept disjoint from the [0, len(code)) range real
// bytecode offsets occupy: parameters count down from -1, caught-exception
// values and phis from far-negative bases so the spaces never meet even for
// a method with thousands of parameters.
const (
	paramOriginBase  = -1
	phiOriginBase    = -1_000_000
	caughtOriginBase = -2_000_000
)

// valueTable owns every Value allocated while lifting one method, keyed by
// Origin so the same bytecode offset always yields the same *Value.
type valueTable struct {
	byOrigin map[int]*Value
	nextID   int
	nextPhi  int
}

func newValueTable() *valueTable {
	return &valueTable{byOrigin: make(map[int]*Value)}
}

// define creates (or, if called twice for the same offset — which should
// not happen for a well-formed method — returns) the value produced by the
// instruction at offset.
func (t *valueTable) define(offset int, kind ValueKind) *Value {
	if v, ok := t.byOrigin[offset]; ok {
		return v
	}
	v := &Value{ID: t.nextID, Kind: kind, Origin: offset}
	t.nextID++
	t.byOrigin[offset] = v
	return v
}

func (t *valueTable) param(index int, kind ValueKind) *Value {
	origin := paramOriginBase - index
	if v, ok := t.byOrigin[origin]; ok {
		return v
	}
	v := &Value{ID: t.nextID, Kind: kind, Origin: origin, IsParam: true, ParamIdx: index}
	t.nextID++
	t.byOrigin[origin] = v
	return v
}

// caught returns the exception value an exception handler starting at
// handlerOffset receives on its entry stack. One per handler entry, so a
// handler reached through several exception-table rows still sees a single
// value.
func (t *valueTable) caught(handlerOffset int) *Value {
	origin := caughtOriginBase - handlerOffset
	if v, ok := t.byOrigin[origin]; ok {
		return v
	}
	v := &Value{ID: t.nextID, Kind: KindRef, Origin: origin, IsCaught: true}
	t.nextID++
	t.byOrigin[origin] = v
	return v
}

func (t *valueTable) newPhi(kind ValueKind) *Value {
	origin := phiOriginBase - t.nextPhi
	t.nextPhi++
	v := &Value{ID: t.nextID, Kind: kind, Origin: origin}
	t.nextID++
	t.byOrigin[origin] = v
	return v
}
