package daemonrun

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestWritePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamscribed.pid")
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parse pid: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), pid)
	}
	if err := writePIDFile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
}

func TestEnsureCurrentLogPointer(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "streamscribe-run1.log")
	second := filepath.Join(dir, "streamscribe-run2.log")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte("log\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := ensureCurrentLogPointer(dir, first); err != nil {
		t.Fatalf("ensureCurrentLogPointer: %v", err)
	}
	pointer := filepath.Join(dir, "streamscribe.log")
	target, err := os.Readlink(pointer)
	if err != nil {
		// Hard links are the fallback on filesystems without symlinks.
		if _, statErr := os.Stat(pointer); statErr != nil {
			t.Fatalf("log pointer missing: %v", statErr)
		}
	} else if target != first {
		t.Fatalf("pointer targets %q, want %q", target, first)
	}

	// Repointing replaces the existing link.
	if err := ensureCurrentLogPointer(dir, second); err != nil {
		t.Fatalf("repoint: %v", err)
	}
	if target, err := os.Readlink(pointer); err == nil && target != second {
		t.Fatalf("pointer targets %q, want %q", target, second)
	}
}
