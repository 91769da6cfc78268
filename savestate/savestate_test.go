package savestate

import "testing"

type sample struct {
	A uint8
	B uint32
	C [4]uint8
}

func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter(0xDEADBEEF)
	in := sample{A: 7, B: 12345, C: [4]uint8{1, 2, 3, 4}}
	if err := w.WriteRecord("TST0", in); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	w.WriteBytes("RAW0", []byte{9, 8, 7})

	r, err := NewReader(w.Bytes(), 0xDEADBEEF)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	tag, payload, ok, err := r.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = (%q, %v, %v, %v)", tag, payload, ok, err)
	}
	if tag != "TST0" {
		t.Fatalf("tag = %q, want TST0", tag)
	}
	var out sample
	if err := Decode(payload, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("out = %+v, want %+v", out, in)
	}

	tag, payload, ok, err = r.Next()
	if err != nil || !ok || tag != "RAW0" {
		t.Fatalf("second Next() = (%q, %v, %v, %v)", tag, payload, ok, err)
	}
	if string(payload) != "\x09\x08\x07" {
		t.Fatalf("raw payload = %v, want [9 8 7]", payload)
	}

	_, _, ok, err = r.Next()
	if err != nil || ok {
		t.Fatalf("third Next() = (ok=%v err=%v), want end of stream", ok, err)
	}
}

func TestNewReaderRejectsWrongVersion(t *testing.T) {
	w := NewWriter(1)
	data := w.Bytes()
	data[4] = Version + 1
	if _, err := NewReader(data, 1); err != ErrVersionMismatch {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestNewReaderRejectsRomMismatch(t *testing.T) {
	w := NewWriter(1)
	if _, err := NewReader(w.Bytes(), 2); err != ErrRomMismatch {
		t.Fatalf("err = %v, want ErrRomMismatch", err)
	}
}

func TestNewReaderRejectsTruncatedHeader(t *testing.T) {
	if _, err := NewReader([]byte{1, 2, 3}, 0); err != ErrCorrupt {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestNextRejectsTruncatedRecord(t *testing.T) {
	w := NewWriter(0)
	w.WriteBytes("ABCD", []byte{1, 2, 3, 4, 5})
	data := w.Bytes()[:len(w.Bytes())-2] // chop the payload short

	r, err := NewReader(data, 0)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, _, _, err := r.Next(); err != ErrCorrupt {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}
