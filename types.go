package boa

import "fmt"

// OperatorType identifies the semantic combinator a Coll/Mon node was built
// with. It participates in every node's signature (see Canonicalize).
type OperatorType uint8

const (
	ListType OperatorType = iota // ordered, multiplicity-sensitive
	SetType                      // unordered, duplicates collapsed
	AddType                      // monoid on u64: addition
	MaxType                      // monoid on u64: max
	OrType                       // monoid on u64: bitwise or
	TagType                      // unordered multiset of (child, u64), duplicates distinct
)

func (t OperatorType) String() string {
	switch t {
	case ListType:
		return "List"
	case SetType:
		return "Set"
	case AddType:
		return "Add"
	case MaxType:
		return "Max"
	case OrType:
		return "Or"
	case TagType:
		return "Tag"
	}
	return fmt.Sprintf("OperatorType(%d)", uint8(t))
}

// IsColl reports whether values of this operator type are encoded as a
// Coll node (plain child sequence) rather than a Mon node (child,value
// pairs).
func (t OperatorType) IsColl() bool {
	return t == ListType || t == SetType
}

// MaxStateID is the largest state id this format can address: state ids
// are packed into 30 bits of a 32-bit word (see encodeInlineStateWord and
// Decoder.ReadWord).
const MaxStateID = 1<<30 - 1
