package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"hello/world":      "hello_world",
		`a:b*c?"d"<e>|f\g`: "a_b_c__d__e__f_g",
		"  spaced  ":       "spaced",
		"...":              "untitled",
		"":                 "untitled",
		"Me at the zoo":    "Me at the zoo",
	}

	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSwapExt(t *testing.T) {
	got := SwapExt("/dl/mp3", "/dl/Song title.m4a", ".mp3")
	if got != filepath.Join("/dl/mp3", "Song title.mp3") {
		t.Fatalf("SwapExt() = %q", got)
	}

	got = SwapExt("/out", "/in/no_ext", ".mp3")
	if got != filepath.Join("/out", "no_ext.mp3") {
		t.Fatalf("SwapExt() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/Downloads/media_downloads")
	if err != nil {
		t.Fatalf("ExpandHome() error = %v", err)
	}
	if got != filepath.Join(home, "Downloads", "media_downloads") {
		t.Fatalf("ExpandHome() = %q", got)
	}

	if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Fatalf("ExpandHome(abs) = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "nested", "out.m4a")

	n, err := WriteFile(dst, strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if n != int64(len("payload")) {
		t.Fatalf("WriteFile() n = %d", n)
	}

	body, err := os.ReadFile(dst)
	if err != nil || string(body) != "payload" {
		t.Fatalf("ReadFile() = %q, %v", body, err)
	}
	if _, err := os.Stat(dst + ".part"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected .part file to be gone, stat err = %v", err)
	}
}

func TestWriteFile_ReaderErrorLeavesNothing(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.m4a")

	boom := errors.New("boom")
	if _, err := WriteFile(dst, iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Fatalf("WriteFile() error = %v, want boom", err)
	}

	for _, p := range []string{dst, dst + ".part"} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected %s to be absent, stat err = %v", p, err)
		}
	}
}

func TestFreeSpace(t *testing.T) {
	free, err := FreeSpace(t.TempDir())
	if err != nil {
		t.Fatalf("FreeSpace() error = %v", err)
	}
	if free == 0 {
		t.Fatal("FreeSpace() = 0")
	}
}
