package boa

import "fmt"

// Node is the in-memory recursive representation of one state's successor
// tree. It exists only for I/O conversion (ASCII <-> binary, .aut import);
// the canonicalizer and the two drivers never build a Node — they walk the
// byte-packed representation directly.
type Node interface {
	node()
	// Write appends this node's words to e in the order a depth-first
	// traversal encounters them.
	Write(e *Encoder) error
}

// StateRef is a Node referring to another state by id.
type StateRef struct {
	State uint32
}

func (StateRef) node() {}

func (n StateRef) Write(e *Encoder) error {
	return e.WriteStateRef(n.State)
}

// Coll is a LIST or SET node: an ordered sequence of children.
type Coll struct {
	Typ      OperatorType // ListType or SetType
	Tag      uint8
	Children []Node
}

func (Coll) node() {}

func (n Coll) Write(e *Encoder) error {
	if !n.Typ.IsColl() {
		return fmt.Errorf("%w: Coll node with non-collection type %s", ErrMalformedInput, n.Typ)
	}
	if len(n.Children) > 1<<16-1 {
		return fmt.Errorf("%w: collection length %d exceeds 16 bits", ErrMalformedInput, len(n.Children))
	}
	e.WriteHeader(n.Typ, n.Tag, uint16(len(n.Children)))
	for _, c := range n.Children {
		if err := c.Write(e); err != nil {
			return err
		}
	}
	return nil
}

// MonEntry is one (child, value) pair inside a Mon node.
type MonEntry struct {
	Child Node
	Value uint64
}

// Mon is an ADD/MAX/OR/TAG node: an ordered sequence of (child, value)
// pairs, whose ordering and duplicate treatment is decided by Typ at
// canonicalization time, not at construction time.
type Mon struct {
	Typ     OperatorType // AddType, MaxType, OrType, or TagType
	Tag     uint8
	Entries []MonEntry
}

func (Mon) node() {}

func (n Mon) Write(e *Encoder) error {
	if n.Typ.IsColl() {
		return fmt.Errorf("%w: Mon node with collection type %s", ErrMalformedInput, n.Typ)
	}
	if len(n.Entries) > 1<<16-1 {
		return fmt.Errorf("%w: entry count %d exceeds 16 bits", ErrMalformedInput, len(n.Entries))
	}
	e.WriteHeader(n.Typ, n.Tag, uint16(len(n.Entries)))
	for _, ent := range n.Entries {
		if err := ent.Child.Write(e); err != nil {
			return err
		}
		e.WriteValue(ent.Value)
	}
	return nil
}

// ReadNode decodes exactly one node starting at offset, returning the
// offset just past it.
func ReadNode(dec *Decoder, data []byte, offset int) (Node, int, error) {
	w, next, err := dec.ReadWord(data, offset)
	if err != nil {
		return nil, 0, err
	}
	if IsStateWord(w) {
		return StateRef{State: StateWordID(w)}, next, nil
	}
	typ, tag, length := HeaderWordFields(w)
	offset = next
	switch typ {
	case ListType, SetType:
		children := make([]Node, length)
		for i := range children {
			var child Node
			child, offset, err = ReadNode(dec, data, offset)
			if err != nil {
				return nil, 0, err
			}
			children[i] = child
		}
		return Coll{Typ: typ, Tag: tag, Children: children}, offset, nil
	case AddType, MaxType, OrType, TagType:
		entries := make([]MonEntry, length)
		for i := range entries {
			var child Node
			child, offset, err = ReadNode(dec, data, offset)
			if err != nil {
				return nil, 0, err
			}
			var value uint64
			value, offset, err = dec.ReadValue(data, offset)
			if err != nil {
				return nil, 0, err
			}
			entries[i] = MonEntry{Child: child, Value: value}
		}
		return Mon{Typ: typ, Tag: tag, Entries: entries}, offset, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown operator type byte %d", ErrMalformedInput, uint8(typ))
	}
}
