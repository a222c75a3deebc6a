package boa

// Bit-level word encoding, ported from the dictionary-compressed wire
// format described in the codec section of the design doc. Everything is
// little-endian. A "word" is either a dictionary-compressed 1-byte token or
// a 4-byte inline payload; the low bits of each layer disambiguate:
//
//	byte0 bit0 == 0  -> dictionary header token, index = byte0>>1, 1 byte
//	byte0 bit0 == 1  -> inline word: read 4 bytes x; payload = x>>1
//	    payload bit0 == 0 -> state ref, id = payload>>1
//	    payload bit0 == 1 -> inline header, raw = payload>>1
//
// Values (the u64 weight attached to monoid/tag entries) follow the same
// shape one level deep: byte0 bit0==0 is a 1-byte dictionary index, bit0==1
// means read 8 bytes and the literal is x>>1.

func isDictWord32(x uint32) bool { return x&1 == 0 }

// dictIndex32 must mask to the dictionary token's own byte before
// shifting: x is a 4-byte little-endian read performed speculatively (the
// word might turn out to be a 1-byte token or a 4-byte inline word), so
// the upper 24 bits already belong to whatever follows this token in the
// stream and must not leak into the extracted index.
func dictIndex32(x uint32) uint8 { return uint8(x) >> 1 }

func inlinePayload32(x uint32) uint32 { return x >> 1 }
func isStatePayload(payload uint32) bool { return payload&1 == 0 }
func statePayloadID(payload uint32) uint32 { return payload >> 1 }
func headerPayloadRaw(payload uint32) uint32 { return payload >> 1 }

// encodeInlineStateWord builds the 4-byte inline word for a state
// reference with the given id.
func encodeInlineStateWord(id uint32) uint32 {
	return (id << 2) | 1
}

// encodeInlineHeaderWord builds the 4-byte inline word for a header whose
// raw (typ,tag,len) encoding is headerRaw.
func encodeInlineHeaderWord(headerRaw uint32) uint32 {
	return (headerRaw << 2) | 3
}

// encodeHeaderRaw packs (typ, tag, len) the way spec describes: typ in the
// top byte, tag in the next, len in the low 16 bits.
func encodeHeaderRaw(typ OperatorType, tag uint8, length uint16) uint32 {
	return uint32(typ)<<24 | uint32(tag)<<16 | uint32(length)
}

func decodeHeaderRaw(raw uint32) (typ OperatorType, tag uint8, length uint16) {
	return OperatorType(raw >> 24), uint8(raw >> 16), uint16(raw)
}

func isDictWord64(x uint64) bool { return x&1 == 0 }

// dictIndex64 has the same byte-masking requirement as dictIndex32.
func dictIndex64(x uint64) uint8 { return uint8(x) >> 1 }
func inlineLiteral64(x uint64) uint64 { return x >> 1 }

// encodeInlineValueWord builds the 8-byte inline word for a literal value.
// Values are limited to 63 bits; the top bit is lost if set, matching the
// original format this module is ported from.
func encodeInlineValueWord(value uint64) uint64 {
	return (value << 1) | 1
}
