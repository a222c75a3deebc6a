package boa

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// nodeHasher wraps xxhash.Digest with the little-endian u64/u8 feed
// helpers the canonicalizer needs. cespare/xxhash/v2 does not expose a
// seeded constructor, so a run seed is folded in by writing it as the
// first 8 bytes of the digest instead — functionally equivalent and keeps
// every signature in a run reproducible from (seed, bytes, dicts).
type nodeHasher struct {
	d *xxhash.Digest
}

func newRunSeed(seed uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	return buf[:]
}

// newNodeHasher starts a fresh hasher seeded with the run seed and the
// node's (typ, tag) pair, matching the canonicalizer contract: "a fresh
// hasher h is seeded with (typ, tag)".
func newNodeHasher(seed uint64, typ OperatorType, tag uint8) *nodeHasher {
	d := xxhash.New()
	d.Write(newRunSeed(seed))
	d.Write([]byte{byte(typ), tag})
	return &nodeHasher{d: d}
}

func (h *nodeHasher) writeU64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.d.Write(buf[:])
}

func (h *nodeHasher) finish() uint64 {
	return h.d.Sum64()
}

// hashPair produces a single 64-bit fingerprint for a TAG entry's
// (child-signature, value) pair, used so pairs can be sorted and
// deduplicated before being folded into the node's own hasher. It is
// independent of the node's own seeded hasher on purpose: two different
// TAG nodes with the same multiset of pairs must derive the same set of
// pair fingerprints regardless of where in the tree they sit.
func hashPair(seed uint64, sig, value uint64) uint64 {
	d := xxhash.New()
	d.Write(newRunSeed(seed))
	d.Write([]byte("tag-pair"))
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], sig)
	binary.LittleEndian.PutUint64(buf[8:16], value)
	d.Write(buf[:])
	return d.Sum64()
}
