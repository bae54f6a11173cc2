package logutil

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriter_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	w, err := NewRotatingWriter(path, 10, 2)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	tests := []struct {
		name string
		want string
	}{
		{"server.log", "dddddddd\n"},
		{"server.log.1", "cccccccc\n"},
		{"server.log.2", "bbbbbbbb\n"},
	}
	for _, tt := range tests {
		data, err := os.ReadFile(filepath.Join(filepath.Dir(path), tt.name))
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if string(data) != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, data, tt.want)
		}
	}

	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("more archives kept than configured")
	}
}

func TestRotatingWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	os.WriteFile(path, []byte("old\n"), 0o644)

	w, err := NewRotatingWriter(path, 1024, 3)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	w.Write([]byte("new\n"))
	w.Close()

	data, _ := os.ReadFile(path)
	if string(data) != "old\nnew\n" {
		t.Errorf("content: got %q", data)
	}

	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestRotatingWriter_RotatesOversizedOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	os.WriteFile(path, bytes.Repeat([]byte("x"), 100), 0o644)

	w, err := NewRotatingWriter(path, 50, 3)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer w.Close()

	if st, _ := os.Stat(path); st.Size() != 0 {
		t.Errorf("oversized log not rotated, size %d", st.Size())
	}
	if st, err := os.Stat(path + ".1"); err != nil || st.Size() != 100 {
		t.Errorf("archive missing or wrong size: %v", err)
	}
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	closer, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() {
		closer.Close()
		Setup("")
	})

	logLine := "hello from the log test"
	log.Print(logLine)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), logLine) {
		t.Errorf("log file missing line, got %q", data)
	}
}

func TestSetup_BadPath(t *testing.T) {
	if _, err := Setup(filepath.Join(t.TempDir(), "missing", "dir", "server.log")); err == nil {
		t.Error("Setup should fail for an unwritable path")
	}
	Setup("")
}
