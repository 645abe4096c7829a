package cartridge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefineBankRangeRejectsLowBanks(t *testing.T) {
	c := New()
	if err := c.DefineBankRange(10, 20, Rom); err == nil {
		t.Fatal("expected error for bank below 32")
	}
}

func TestReadWriteRespectsBankType(t *testing.T) {
	c := New()
	if err := c.DefineBankRange(32, 33, Rom); err != nil {
		t.Fatal(err)
	}
	c.payload[0][5] = 0xAB
	c.Write(5, 32, 0xCD) // ROM write should be dropped
	if got := c.Read(5, 32); got != 0xAB {
		t.Errorf("ROM bank write not dropped: got %#x, want 0xAB", got)
	}

	if err := c.DefineBankRange(33, 34, UninitializedRam); err != nil {
		t.Fatal(err)
	}
	c.Write(5, 33, 0xEF)
	if got := c.Read(5, 33); got != 0xEF {
		t.Errorf("RAM bank write lost: got %#x, want 0xEF", got)
	}
}

func TestReadNoneBankIsZero(t *testing.T) {
	c := New()
	if got := c.Read(0, 32); got != 0 {
		t.Errorf("unpopulated bank read: got %#x, want 0", got)
	}
}

func TestFillClampsToBankTableEnd(t *testing.T) {
	c := New()
	// end at the top of the 8-bit bank-number space must not panic or write
	// out of range
	if err := c.Fill(250, 255, []byte{0x5A}); err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if got := c.Read(0, 250); got != 0x5A {
		t.Errorf("fill pattern missing: got %#x, want 0x5a", got)
	}
}

func TestImportFilesTightlyPacksAndClampsTail(t *testing.T) {
	c := New()
	fileA := make([]byte, BankSize-4) // leaves 4 bytes in the first bank
	for i := range fileA {
		fileA[i] = 0x01
	}
	fileB := []byte{0x02, 0x02} // lands in the tail of bank 0
	if err := c.ImportFiles([][]byte{fileA, fileB}, 32, Rom, []byte{0xFF}); err != nil {
		t.Fatalf("ImportFiles: %v", err)
	}
	if got := c.Read(BankSize-4, 32); got != 0x02 {
		t.Errorf("second file not packed immediately after first: got %#x", got)
	}
	if got := c.Read(BankSize-1, 32); got != 0xFF {
		t.Errorf("tail fill missing: got %#x, want 0xff", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := New()
	c.Description = "test cart"
	c.Author = "tester"
	if err := c.DefineBankRange(32, 33, Rom); err != nil {
		t.Fatal(err)
	}
	c.payload[0][0] = 0x42

	dir := t.TempDir()
	path := filepath.Join(dir, "test.crt")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Description != "test cart" {
		t.Errorf("description: got %q, want %q", loaded.Description, "test cart")
	}
	if got := loaded.Read(0, 32); got != 0x42 {
		t.Errorf("payload byte: got %#x, want 0x42", got)
	}
}

func TestSaveLoadGzipRoundTrip(t *testing.T) {
	c := New()
	if err := c.DefineBankRange(32, 33, Rom); err != nil {
		t.Fatal(err)
	}
	c.payload[0][0] = 0x11

	dir := t.TempDir()
	path := filepath.Join(dir, "test.crt.gz")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}

	loaded, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Read(0, 32); got != 0x11 {
		t.Errorf("payload byte: got %#x, want 0x11", got)
	}
}
