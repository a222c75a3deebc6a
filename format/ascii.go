// Package format implements the external collaborators around the core
// boa coalgebra package: the human-readable ASCII grammar, the .boa binary
// file framing (dictionaries + optionally-compressed body), and .aut
// import — none of which the canonicalizer or the drivers need to touch a
// coalgebra already resident in memory.
package format

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/coalg/boa"
)

// ParseNode parses one node from the front of line, per the grammar:
//
//	node  := '@' uint | coll | mon
//	coll  := ("List"|"Set") '[' uint8 ']' '{' (node (',' node)*)? '}'
//	mon   := ("Add"|"Or"|"Max"|"Tag") '[' uint8 ']' '{' (node ':' uint64 (',' node ':' uint64)*)? '}'
//
// It returns the parsed node and the unconsumed remainder of line.
func ParseNode(line []byte) (boa.Node, []byte, error) {
	if len(line) == 0 {
		return nil, nil, fmt.Errorf("%w: expected a node, got empty input", boa.ErrMalformedInput)
	}
	chr, rest := line[0], line[1:]
	switch chr {
	case '@':
		id, n, err := parseUint(rest, 32)
		if err != nil {
			return nil, nil, err
		}
		if id > boa.MaxStateID {
			return nil, nil, fmt.Errorf("%w: state id %d exceeds %d", boa.ErrMalformedInput, id, boa.MaxStateID)
		}
		return boa.StateRef{State: uint32(id)}, rest[n:], nil
	case 'L':
		rest, err := expectWord(rest, "ist")
		if err != nil {
			return nil, nil, err
		}
		return parseColl(rest, boa.ListType)
	case 'S':
		rest, err := expectWord(rest, "et")
		if err != nil {
			return nil, nil, err
		}
		return parseColl(rest, boa.SetType)
	case 'A':
		rest, err := expectWord(rest, "dd")
		if err != nil {
			return nil, nil, err
		}
		return parseMon(rest, boa.AddType)
	case 'O':
		rest, err := expectWord(rest, "r")
		if err != nil {
			return nil, nil, err
		}
		return parseMon(rest, boa.OrType)
	case 'M':
		rest, err := expectWord(rest, "ax")
		if err != nil {
			return nil, nil, err
		}
		return parseMon(rest, boa.MaxType)
	case 'T':
		rest, err := expectWord(rest, "ag")
		if err != nil {
			return nil, nil, err
		}
		return parseMon(rest, boa.TagType)
	default:
		return nil, nil, fmt.Errorf("%w: expected start of a node, got %q", boa.ErrMalformedInput, chr)
	}
}

func expectWord(inp []byte, word string) ([]byte, error) {
	if len(inp) < len(word) || string(inp[:len(word)]) != word {
		return nil, fmt.Errorf("%w: expected %q", boa.ErrMalformedInput, word)
	}
	return inp[len(word):], nil
}

func expectByte(inp []byte, b byte) ([]byte, error) {
	if len(inp) == 0 || inp[0] != b {
		return nil, fmt.Errorf("%w: expected %q", boa.ErrMalformedInput, b)
	}
	return inp[1:], nil
}

func parseUint(inp []byte, bits int) (uint64, int, error) {
	n := 0
	for n < len(inp) && inp[n] >= '0' && inp[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: expected a number", boa.ErrMalformedInput)
	}
	v, err := strconv.ParseUint(string(inp[:n]), 10, bits)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", boa.ErrMalformedInput, err)
	}
	return v, n, nil
}

func parseTag(inp []byte) (uint8, []byte, error) {
	inp, err := expectByte(inp, '[')
	if err != nil {
		return 0, nil, err
	}
	tag, n, err := parseUint(inp, 8)
	if err != nil {
		return 0, nil, err
	}
	inp, err = expectByte(inp[n:], ']')
	if err != nil {
		return 0, nil, err
	}
	return uint8(tag), inp, nil
}

func parseColl(inp []byte, typ boa.OperatorType) (boa.Node, []byte, error) {
	tag, inp, err := parseTag(inp)
	if err != nil {
		return nil, nil, err
	}
	inp, err = expectByte(inp, '{')
	if err != nil {
		return nil, nil, err
	}
	var children []boa.Node
	if len(inp) == 0 {
		return nil, nil, fmt.Errorf("%w: unexpected end of input in collection", boa.ErrMalformedInput)
	}
	if inp[0] == '}' {
		return boa.Coll{Typ: typ, Tag: tag, Children: children}, inp[1:], nil
	}
	for {
		var node boa.Node
		node, inp, err = ParseNode(inp)
		if err != nil {
			return nil, nil, err
		}
		children = append(children, node)
		if len(inp) == 0 {
			return nil, nil, fmt.Errorf("%w: unexpected end of input in collection", boa.ErrMalformedInput)
		}
		if inp[0] == '}' {
			return boa.Coll{Typ: typ, Tag: tag, Children: children}, inp[1:], nil
		}
		inp, err = expectByte(inp, ',')
		if err != nil {
			return nil, nil, err
		}
	}
}

func parseMon(inp []byte, typ boa.OperatorType) (boa.Node, []byte, error) {
	tag, inp, err := parseTag(inp)
	if err != nil {
		return nil, nil, err
	}
	inp, err = expectByte(inp, '{')
	if err != nil {
		return nil, nil, err
	}
	var entries []boa.MonEntry
	if len(inp) == 0 {
		return nil, nil, fmt.Errorf("%w: unexpected end of input in monoid", boa.ErrMalformedInput)
	}
	if inp[0] == '}' {
		return boa.Mon{Typ: typ, Tag: tag, Entries: entries}, inp[1:], nil
	}
	for {
		var node boa.Node
		node, inp, err = ParseNode(inp)
		if err != nil {
			return nil, nil, err
		}
		inp, err = expectByte(inp, ':')
		if err != nil {
			return nil, nil, err
		}
		val, n, err := parseUint(inp, 64)
		if err != nil {
			return nil, nil, err
		}
		inp = inp[n:]
		entries = append(entries, boa.MonEntry{Child: node, Value: val})
		if len(inp) == 0 {
			return nil, nil, fmt.Errorf("%w: unexpected end of input in monoid", boa.ErrMalformedInput)
		}
		if inp[0] == '}' {
			return boa.Mon{Typ: typ, Tag: tag, Entries: entries}, inp[1:], nil
		}
		inp, err = expectByte(inp, ',')
		if err != nil {
			return nil, nil, err
		}
	}
}

// FormatNode appends the ASCII rendering of n to buf and returns the
// extended slice.
func FormatNode(buf []byte, n boa.Node) []byte {
	switch v := n.(type) {
	case boa.StateRef:
		buf = append(buf, '@')
		return strconv.AppendUint(buf, uint64(v.State), 10)
	case boa.Coll:
		name := "List"
		if v.Typ == boa.SetType {
			name = "Set"
		}
		buf = append(buf, name...)
		buf = formatTag(buf, v.Tag)
		buf = append(buf, '{')
		for i, c := range v.Children {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = FormatNode(buf, c)
		}
		return append(buf, '}')
	case boa.Mon:
		var name string
		switch v.Typ {
		case boa.AddType:
			name = "Add"
		case boa.OrType:
			name = "Or"
		case boa.MaxType:
			name = "Max"
		default:
			name = "Tag"
		}
		buf = append(buf, name...)
		buf = formatTag(buf, v.Tag)
		buf = append(buf, '{')
		for i, e := range v.Entries {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = FormatNode(buf, e.Child)
			buf = append(buf, ':')
			buf = strconv.AppendUint(buf, e.Value, 10)
		}
		return append(buf, '}')
	default:
		panic(fmt.Sprintf("format: unknown node type %T", n))
	}
}

func formatTag(buf []byte, tag uint8) []byte {
	buf = append(buf, '[')
	buf = strconv.AppendUint(buf, uint64(tag), 10)
	return append(buf, ']')
}

// NodeString renders n as its ASCII form.
func NodeString(n boa.Node) string {
	return string(FormatNode(nil, n))
}

// splitLines splits on '\n', dropping a trailing empty line, matching the
// one-node-per-line convention of .boa.txt files.
func splitLines(data []byte) [][]byte {
	lines := bytes.Split(data, []byte{'\n'})
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
