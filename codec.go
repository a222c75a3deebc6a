package boa

import (
	"encoding/binary"
	"fmt"
)

// dictSize is the number of interned entries the header and value
// dictionaries each hold.
const dictSize = 128

// Dictionaries holds the two per-file interning tables built while
// encoding a coalgebra: the first dictSize distinct header words and the
// first dictSize distinct values are assigned a 1-byte token; everything
// else is written inline. There is no default/shared content across
// files — every Dictionaries is specific to the byte stream it was built
// for.
type Dictionaries struct {
	Headers [dictSize]uint32
	Values  [dictSize]uint64
}

// Encoder builds the byte-packed representation of a coalgebra one word at
// a time. The zero value is not usable; construct with NewEncoder.
type Encoder struct {
	data        []byte
	headerIndex map[uint32]uint8
	valueIndex  map[uint64]uint8
	dict        Dictionaries
}

// NewEncoder returns an Encoder ready to accept WriteStateRef / WriteHeader
// / WriteValue calls in the order a depth-first walk of the node tree
// would produce them.
func NewEncoder() *Encoder {
	return &Encoder{
		headerIndex: make(map[uint32]uint8, dictSize),
		valueIndex:  make(map[uint64]uint8, dictSize),
	}
}

// WriteStateRef writes a State(id) reference. State references are always
// written inline (never dictionary-compressed), per the wire format.
func (e *Encoder) WriteStateRef(id uint32) error {
	if id > MaxStateID {
		return fmt.Errorf("%w: state id %d exceeds %d", ErrMalformedInput, id, MaxStateID)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], encodeInlineStateWord(id))
	e.data = append(e.data, buf[:]...)
	return nil
}

// WriteHeader writes a Coll/Mon header (typ, tag, len), using the header
// dictionary greedily: the first dictSize distinct headers get a 1-byte
// token, later ones fall back to a 4-byte inline word.
func (e *Encoder) WriteHeader(typ OperatorType, tag uint8, length uint16) {
	raw := encodeHeaderRaw(typ, tag, length)
	if tok, ok := e.headerIndex[raw]; ok {
		e.data = append(e.data, tok<<1)
		return
	}
	if len(e.headerIndex) < dictSize {
		i := uint8(len(e.headerIndex))
		e.headerIndex[raw] = i
		e.dict.Headers[i] = raw
		e.data = append(e.data, i<<1)
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], encodeInlineHeaderWord(raw))
	e.data = append(e.data, buf[:]...)
}

// WriteValue writes the u64 weight attached to a monoid/tag entry, using
// the value dictionary the same way WriteHeader uses the header
// dictionary.
func (e *Encoder) WriteValue(value uint64) {
	if tok, ok := e.valueIndex[value]; ok {
		e.data = append(e.data, tok<<1)
		return
	}
	if len(e.valueIndex) < dictSize {
		i := uint8(len(e.valueIndex))
		e.valueIndex[value] = i
		e.dict.Values[i] = value
		e.data = append(e.data, i<<1)
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], encodeInlineValueWord(value))
	e.data = append(e.data, buf[:]...)
}

// Finish returns the encoded byte stream and the dictionaries used to
// build it. The returned slice's capacity extends 7 bytes past its
// length so that any 8-byte little-endian read starting at the last
// logical byte is always an in-bounds slice expression, without a
// zero-pad branch in the decode hot path.
func (e *Encoder) Finish() ([]byte, Dictionaries) {
	padded := make([]byte, len(e.data), len(e.data)+7)
	copy(padded, e.data)
	return padded, e.dict
}

// Decoder reads words out of a byte stream built by Encoder, resolving
// dictionary tokens against a fixed Dictionaries.
type Decoder struct {
	dict *Dictionaries
}

// NewDecoder returns a Decoder that resolves dictionary tokens against dict.
func NewDecoder(dict *Dictionaries) *Decoder {
	return &Decoder{dict: dict}
}

// AtEnd reports whether offset is the logical end of data.
func (d *Decoder) AtEnd(data []byte, offset int) bool {
	return offset >= len(data)
}

// ReadWord reads one state-ref-or-header word at offset, returning its raw
// 32-bit payload (post dictionary resolution, pre is-state/is-header
// discrimination — use IsStateWord/StateWordID/HeaderWordFields on the
// result) and the offset of the next word.
func (d *Decoder) ReadWord(data []byte, offset int) (uint32, int, error) {
	if offset >= len(data) {
		return 0, 0, fmt.Errorf("%w: read past end of buffer at offset %d", ErrMalformedInput, offset)
	}
	if offset+4 > cap(data) {
		return 0, 0, fmt.Errorf("%w: truncated word at offset %d", ErrMalformedInput, offset)
	}
	x := binary.LittleEndian.Uint32(data[offset : offset+4])
	if isDictWord32(x) {
		// The dictionary holds raw (typ,tag,len) headers; re-tag as a
		// header payload so callers discriminate it like an inline one.
		return d.dict.Headers[dictIndex32(x)]<<1 | 1, offset + 1, nil
	}
	return inlinePayload32(x), offset + 4, nil
}

// ReadValue reads one u64 weight at offset.
func (d *Decoder) ReadValue(data []byte, offset int) (uint64, int, error) {
	if offset >= len(data) {
		return 0, 0, fmt.Errorf("%w: read past end of buffer at offset %d", ErrMalformedInput, offset)
	}
	if offset+8 > cap(data) {
		return 0, 0, fmt.Errorf("%w: truncated value at offset %d", ErrMalformedInput, offset)
	}
	x := binary.LittleEndian.Uint64(data[offset : offset+8])
	if isDictWord64(x) {
		return d.dict.Values[dictIndex64(x)], offset + 1, nil
	}
	return inlineLiteral64(x), offset + 8, nil
}

// IsStateWord reports whether a payload returned by ReadWord is a state
// reference (true) or a header (false).
func IsStateWord(payload uint32) bool { return isStatePayload(payload) }

// StateWordID extracts the state id from a state payload.
func StateWordID(payload uint32) uint32 { return statePayloadID(payload) }

// HeaderWordFields extracts (typ, tag, len) from a header payload.
func HeaderWordFields(payload uint32) (OperatorType, uint8, uint16) {
	return decodeHeaderRaw(headerPayloadRaw(payload))
}
