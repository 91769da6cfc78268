package cartridge

import "testing"

func buildROM(prgBlocks, chrBlocks int) []byte {
	raw := makeHeader(byte(prgBlocks), byte(chrBlocks), 0, 0)
	raw = append(raw, make([]byte, prgBlocks*prgBlockSize)...)
	raw = append(raw, make([]byte, chrBlocks*chrBlockSize)...)
	return raw
}

func TestLoadNROM(t *testing.T) {
	raw := buildROM(2, 1)
	c, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.PRG) != 2*prgBlockSize {
		t.Errorf("PRG len = %d, want %d", len(c.PRG), 2*prgBlockSize)
	}
	if len(c.CHR) != chrBlockSize {
		t.Errorf("CHR len = %d, want %d", len(c.CHR), chrBlockSize)
	}
	if c.CHRRAM {
		t.Errorf("CHRRAM = true, want false (ROM present)")
	}
}

func TestLoadCHRRAMFallback(t *testing.T) {
	raw := buildROM(1, 0)
	c, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.CHRRAM {
		t.Errorf("CHRRAM = false, want true")
	}
	if len(c.CHR) != chrBlockSize {
		t.Errorf("CHR RAM len = %d, want %d", len(c.CHR), chrBlockSize)
	}
}

func TestLoadTruncatedPRG(t *testing.T) {
	raw := makeHeader(2, 0, 0, 0)
	raw = append(raw, make([]byte, prgBlockSize)...) // only one bank present
	if _, err := Load(raw); err == nil {
		t.Fatal("expected error for truncated PRG-ROM")
	}
}

func TestPRGHashDeterministic(t *testing.T) {
	raw := buildROM(1, 1)
	raw[16] = 0x42
	c1, _ := Load(raw)
	c2, _ := Load(raw)
	if c1.PRGHash() != c2.PRGHash() {
		t.Fatal("PRGHash not deterministic across identical loads")
	}

	raw[17] = 0xFF
	c3, _ := Load(raw)
	if c1.PRGHash() == c3.PRGHash() {
		t.Fatal("PRGHash did not change for different PRG contents")
	}
}
