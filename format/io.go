package format

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"

	"github.com/coalg/boa"
)

// magic identifies a .boa file and its framing version. Byte 4 is the
// Codec the body was compressed with.
var magic = [4]byte{'B', 'O', 'A', '1'}

// ReadBoaTxt parses a .boa.txt file: one ASCII node per line, line i
// giving state i's successor tree.
func ReadBoaTxt(filename string) ([]byte, boa.Dictionaries, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, boa.Dictionaries{}, err
	}
	enc := boa.NewEncoder()
	for _, line := range splitLines(raw) {
		node, rest, err := ParseNode(line)
		if err != nil {
			return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w", filename, err)
		}
		if len(bytes.TrimSpace(rest)) != 0 {
			return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w: trailing input %q after node", filename, boa.ErrMalformedInput, rest)
		}
		if err := node.Write(enc); err != nil {
			return nil, boa.Dictionaries{}, err
		}
	}
	data, dict := enc.Finish()
	return data, dict, nil
}

// WriteBoaTxt writes data/dict out in the .boa.txt ASCII format, one node
// per line.
func WriteBoaTxt(filename string, data []byte, dict boa.Dictionaries) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	dec := boa.NewDecoder(&dict)
	offset := 0
	first := true
	for !dec.AtEnd(data, offset) {
		node, next, err := boa.ReadNode(dec, data, offset)
		if err != nil {
			return err
		}
		if !first {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		first = false
		if _, err := w.Write(FormatNode(nil, node)); err != nil {
			return err
		}
		offset = next
	}
	if !first {
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadBoa reads a .boa binary file: magic+codec, the fixed 128-entry
// header and value dictionaries, then the (possibly compressed) body.
func ReadBoa(filename string) ([]byte, boa.Dictionaries, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, boa.Dictionaries{}, err
	}
	if len(raw) < 5 || [4]byte{raw[0], raw[1], raw[2], raw[3]} != magic {
		return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w: bad .boa magic", filename, boa.ErrMalformedInput)
	}
	codec := Codec(raw[4])
	r := bytes.NewReader(raw[5:])

	var dict boa.Dictionaries
	for i := range dict.Headers {
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w", filename, err)
		}
		dict.Headers[i] = v
	}
	for i := range dict.Values {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w", filename, err)
		}
		dict.Values[i] = v
	}

	body, err := decompressBody(codec, r)
	if err != nil {
		return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w", filename, err)
	}
	// Pad capacity so boa.Decoder's 8-byte tail reads stay in-bounds.
	padded := make([]byte, len(body), len(body)+7)
	copy(padded, body)
	return padded, dict, nil
}

// WriteBoa writes data/dict to filename in the .boa binary format,
// compressing the body with codec.
func WriteBoa(filename string, data []byte, dict boa.Dictionaries, codec Codec) error {
	body, err := compressBody(codec, data)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := w.WriteByte(byte(codec)); err != nil {
		return err
	}
	for _, v := range dict.Headers {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, v := range dict.Values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	return w.Flush()
}

// ReadAut imports an Aldebaran .aut file (an explicit labeled transition
// system) as a coalgebra: every state becomes a TAG node whose entries are
// (target, label-id) pairs, with labels interned in first-appearance
// order. The .aut header's own state/transition counts are taken on
// faith; ReadAut does not cross-check them against the body.
func ReadAut(filename string) ([]byte, boa.Dictionaries, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, boa.Dictionaries{}, err
	}
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w: empty .aut file", filename, boa.ErrMalformedInput)
	}
	numStates, err := parseAutHeader(lines[0])
	if err != nil {
		return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w", filename, err)
	}

	type edge struct {
		label  uint64
		target uint32
	}
	edges := make([][]edge, numStates)
	labelIDs := map[string]uint64{}
	var nextLabel uint64

	for _, line := range lines[1:] {
		source, label, target, err := parseAutLine(line)
		if err != nil {
			return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w", filename, err)
		}
		if int(source) >= len(edges) {
			return nil, boa.Dictionaries{}, fmt.Errorf("format: %s: %w: source state %d out of range", filename, boa.ErrMalformedInput, source)
		}
		id, ok := labelIDs[label]
		if !ok {
			id = nextLabel
			labelIDs[label] = id
			nextLabel++
		}
		edges[source] = append(edges[source], edge{label: id, target: target})
	}

	enc := boa.NewEncoder()
	for _, es := range edges {
		entries := make([]boa.MonEntry, len(es))
		for i, e := range es {
			entries[i] = boa.MonEntry{Child: boa.StateRef{State: e.target}, Value: e.label}
		}
		node := boa.Mon{Typ: boa.TagType, Entries: entries}
		if err := node.Write(enc); err != nil {
			return nil, boa.Dictionaries{}, err
		}
	}
	data, dict := enc.Finish()
	return data, dict, nil
}

// parseAutHeader parses the mandatory first line "des (0, numEdges, numStates)".
func parseAutHeader(line []byte) (uint32, error) {
	line = bytes.TrimSpace(line)
	if !bytes.HasPrefix(line, []byte("des (0,")) {
		return 0, fmt.Errorf("%w: expected \"des (0, ...\" header", boa.ErrMalformedInput)
	}
	rest := bytes.TrimSuffix(bytes.TrimPrefix(line, []byte("des (0,")), []byte(")"))
	parts := bytes.Split(rest, []byte(","))
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: malformed .aut header", boa.ErrMalformedInput)
	}
	n, err := strconv.ParseUint(string(bytes.TrimSpace(parts[1])), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", boa.ErrMalformedInput, err)
	}
	return uint32(n), nil
}

// parseAutLine parses a transition line "(source,\"label\",target)".
func parseAutLine(line []byte) (source uint32, label string, target uint32, err error) {
	line = bytes.TrimSpace(line)
	line, err = expectByte(line, '(')
	if err != nil {
		return 0, "", 0, err
	}
	srcU, n, err := parseUint(line, 32)
	if err != nil {
		return 0, "", 0, err
	}
	line = line[n:]
	line, err = expectByte(line, ',')
	if err != nil {
		return 0, "", 0, err
	}
	line = bytes.TrimSuffix(line, []byte(")"))
	idx := bytes.LastIndexByte(line, ',')
	if idx < 0 {
		return 0, "", 0, fmt.Errorf("%w: malformed .aut transition", boa.ErrMalformedInput)
	}
	labelField := bytes.TrimSpace(line[:idx])
	tgtU, err := strconv.ParseUint(string(bytes.TrimSpace(line[idx+1:])), 10, 32)
	if err != nil {
		return 0, "", 0, fmt.Errorf("%w: %v", boa.ErrMalformedInput, err)
	}
	return uint32(srcU), string(labelField), uint32(tgtU), nil
}

// ConvertFile rewrites filename to the sibling format implied by its
// suffix: .boa -> .boa.txt, .boa.txt -> .boa, .aut -> .boa (codec is used
// only when the destination is .boa).
func ConvertFile(filename string, codec Codec) error {
	switch {
	case hasSuffix(filename, ".boa.txt"):
		data, dict, err := ReadBoaTxt(filename)
		if err != nil {
			return err
		}
		return WriteBoa(trimSuffix(filename, ".boa.txt")+".boa", data, dict, codec)
	case hasSuffix(filename, ".boa"):
		data, dict, err := ReadBoa(filename)
		if err != nil {
			return err
		}
		return WriteBoaTxt(trimSuffix(filename, ".boa")+".boa.txt", data, dict)
	case hasSuffix(filename, ".aut"):
		data, dict, err := ReadAut(filename)
		if err != nil {
			return err
		}
		return WriteBoa(trimSuffix(filename, ".aut")+".boa", data, dict, codec)
	default:
		return fmt.Errorf("format: %s: %w: unknown file extension", filename, boa.ErrMalformedInput)
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func trimSuffix(s, suffix string) string {
	return s[:len(s)-len(suffix)]
}
