// Package savestate implements a tagged, length-prefixed binary record
// format for persisting and restoring console state: a small header (magic,
// format version, ROM identity hash) followed by one record per component,
// each a 4-byte tag, a uint32 length and the component's encoded payload.
package savestate

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Version is the current record-stream format. Bumped whenever a component
// State struct's layout changes in a way that breaks binary compatibility.
const Version = 1

var magic = [4]byte{'N', 'S', 'S', 0}

const headerSize = len(magic) + 1 + 4 // magic + version + rom hash

var (
	// ErrVersionMismatch is returned when loading a save state written by
	// a different format version.
	ErrVersionMismatch = errors.New("savestate: version mismatch")
	// ErrCorrupt is returned when the byte stream is truncated or its
	// record framing doesn't add up.
	ErrCorrupt = errors.New("savestate: corrupt save data")
	// ErrRomMismatch is returned when the save state's ROM identity hash
	// doesn't match the cartridge currently loaded.
	ErrRomMismatch = errors.New("savestate: save state was captured against a different ROM")
)

// Writer builds a tagged record stream in memory.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter starts a new record stream identified by romHash (typically
// cartridge.Cartridge.PRGHash()).
func NewWriter(romHash uint32) *Writer {
	w := &Writer{}
	w.buf.Write(magic[:])
	w.buf.WriteByte(Version)
	binary.Write(&w.buf, binary.LittleEndian, romHash)
	return w
}

// WriteRecord appends a tagged record holding the binary encoding of v. v
// must be a fixed-layout value: structs of integers, bools and arrays
// thereof, with no slices, strings, maps or pointers.
func (w *Writer) WriteRecord(tag string, v interface{}) error {
	var payload bytes.Buffer
	if err := binary.Write(&payload, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("savestate: encode %s record: %w", tag, err)
	}
	w.WriteBytes(tag, payload.Bytes())
	return nil
}

// WriteBytes appends a tagged record holding an already-encoded byte slice,
// for components (mappers.Stateful) that serialize themselves.
func (w *Writer) WriteBytes(tag string, data []byte) {
	var tagBytes [4]byte
	copy(tagBytes[:], tag)
	w.buf.Write(tagBytes[:])
	binary.Write(&w.buf, binary.LittleEndian, uint32(len(data)))
	w.buf.Write(data)
}

// Bytes returns the completed record stream.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Reader walks a record stream produced by Writer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader validates the stream header (magic, version, ROM identity)
// before returning a Reader positioned at the first record.
func NewReader(data []byte, romHash uint32) (*Reader, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, ErrCorrupt
	}
	if data[4] != Version {
		return nil, ErrVersionMismatch
	}
	if binary.LittleEndian.Uint32(data[5:9]) != romHash {
		return nil, ErrRomMismatch
	}
	return &Reader{data: data, pos: headerSize}, nil
}

// Next returns the next record's tag and payload. ok is false once the
// stream is exhausted.
func (r *Reader) Next() (tag string, payload []byte, ok bool, err error) {
	if r.pos >= len(r.data) {
		return "", nil, false, nil
	}
	if r.pos+8 > len(r.data) {
		return "", nil, false, ErrCorrupt
	}
	tagBytes := r.data[r.pos : r.pos+4]
	length := binary.LittleEndian.Uint32(r.data[r.pos+4 : r.pos+8])
	r.pos += 8
	if r.pos+int(length) > len(r.data) {
		return "", nil, false, ErrCorrupt
	}
	payload = r.data[r.pos : r.pos+int(length)]
	r.pos += int(length)
	return string(bytes.TrimRight(tagBytes, "\x00")), payload, true, nil
}

// Decode unmarshals a record payload into v, the counterpart of the value
// passed to Writer.WriteRecord.
func Decode(payload []byte, v interface{}) error {
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, v); err != nil {
		return fmt.Errorf("savestate: decode record: %w", err)
	}
	return nil
}
