package filelock

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestLockUnlock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))

	if err := lock.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
}

func TestLockPath(t *testing.T) {
	lockDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "results.csv")

	got := LockPath(lockDir, target)
	if filepath.Dir(got) != lockDir {
		t.Errorf("lock file %s should live in %s", got, lockDir)
	}
	if !strings.HasSuffix(got, LockSuffix) {
		t.Errorf("lock file %s should end with %s", got, LockSuffix)
	}
	if again := LockPath(lockDir, filepath.Join(filepath.Dir(target), ".", "results.csv")); again != got {
		t.Errorf("equivalent paths should share a lock: %s vs %s", again, got)
	}
	if other := LockPath(lockDir, target+".bak"); other == got {
		t.Error("different targets should not share a lock")
	}
	if def := LockPath("", target); filepath.Dir(def) != DefaultLockDir() {
		t.Errorf("empty lock dir should use %s, got %s", DefaultLockDir(), def)
	}
}

func TestAtomicWriteFunc(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "results.csv")

	content := "title,compliance_tag\nMIT License,N/A (Local Search Only)\n"
	if err := AtomicWriteFunc(targetPath, writeString(content)); err != nil {
		t.Fatalf("AtomicWriteFunc failed: %v", err)
	}

	readContent, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(readContent) != content {
		t.Errorf("Expected content %q, got %q", content, readContent)
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected permissions 0644, got %o", info.Mode().Perm())
	}
}

func TestAtomicWriteFuncOverwrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "results.csv")

	if err := os.WriteFile(targetPath, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	if err := AtomicWriteFunc(targetPath, writeString("new")); err != nil {
		t.Fatalf("AtomicWriteFunc failed: %v", err)
	}

	readContent, _ := os.ReadFile(targetPath)
	if string(readContent) != "new" {
		t.Errorf("Expected overwritten content, got %q", readContent)
	}
}

func TestAtomicWriteFuncCreateDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	targetPath := filepath.Join(tmpDir, "exports", "2026", "results.csv")

	if err := AtomicWriteFunc(targetPath, writeString("data")); err != nil {
		t.Fatalf("AtomicWriteFunc failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "exports", "2026")); os.IsNotExist(err) {
		t.Error("Directory should have been created")
	}
}

func TestAtomicWriteFunc_FailureKeepsOriginal(t *testing.T) {
	tmpDir := t.TempDir()
	targetPath := filepath.Join(tmpDir, "results.csv")

	if err := os.WriteFile(targetPath, []byte("original"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	boom := errors.New("encoder failed")
	err := AtomicWriteFunc(targetPath, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped writer error, got %v", err)
	}

	readContent, _ := os.ReadFile(targetPath)
	if string(readContent) != "original" {
		t.Errorf("Original file must survive a failed write, got %q", readContent)
	}

	assertOnlyFiles(t, tmpDir, "results.csv")
}

func TestLockAndWriteFunc_LeavesOnlyTarget(t *testing.T) {
	exportDir := t.TempDir()
	lockDir := t.TempDir()
	targetPath := filepath.Join(exportDir, "results.csv")

	for i := 0; i < 3; i++ {
		if err := LockAndWriteFunc(lockDir, targetPath, writeString(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("LockAndWriteFunc failed: %v", err)
		}
	}

	readContent, _ := os.ReadFile(targetPath)
	if string(readContent) != "v2" {
		t.Errorf("Unexpected content %q", readContent)
	}

	// No lock or temp file beside the export
	assertOnlyFiles(t, exportDir, "results.csv")

	if _, err := os.Stat(LockPath(lockDir, targetPath)); err != nil {
		t.Errorf("lock file should be in the lock directory: %v", err)
	}
}

func TestLockAndWriteFunc_WaitsForHolder(t *testing.T) {
	lockDir := t.TempDir()
	targetPath := filepath.Join(t.TempDir(), "results.csv")

	holder := NewFileLock(LockPath(lockDir, targetPath))
	if err := holder.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- LockAndWriteFunc(lockDir, targetPath, writeString("second"))
	}()

	// Holder writes while the contender is blocked
	if err := AtomicWriteFunc(targetPath, writeString("first")); err != nil {
		t.Fatalf("AtomicWriteFunc failed: %v", err)
	}
	if err := holder.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("LockAndWriteFunc failed: %v", err)
	}

	readContent, _ := os.ReadFile(targetPath)
	if string(readContent) != "second" {
		t.Errorf("Expected blocked writer to land last, got %q", readContent)
	}
}

func TestConcurrentLockAndWriteFunc(t *testing.T) {
	lockDir := t.TempDir()
	targetPath := filepath.Join(t.TempDir(), "results.csv")

	const goroutines = 10
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			content := strings.Repeat(fmt.Sprintf("row-%d\n", id), 100)
			if err := LockAndWriteFunc(lockDir, targetPath, writeString(content)); err != nil {
				t.Errorf("LockAndWriteFunc failed for goroutine %d: %v", id, err)
			}
		}(i)
	}

	wg.Wait()

	readContent, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	// Every line must come from the same writer
	lines := strings.Split(strings.TrimSuffix(string(readContent), "\n"), "\n")
	if len(lines) != 100 {
		t.Fatalf("Expected 100 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line != lines[0] {
			t.Fatalf("Interleaved writes detected: %q vs %q", line, lines[0])
		}
	}
}

func TestLockAndWriteFunc_ReadOnlyDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping permission test when running as root")
	}

	readOnlyDir := filepath.Join(t.TempDir(), "readonly")
	if err := os.Mkdir(readOnlyDir, 0555); err != nil {
		t.Fatalf("Failed to create read-only directory: %v", err)
	}
	defer os.Chmod(readOnlyDir, 0755)

	err := LockAndWriteFunc(t.TempDir(), filepath.Join(readOnlyDir, "results.csv"), writeString("data"))
	if err == nil {
		t.Fatal("Expected LockAndWriteFunc to fail in a read-only directory")
	}
}

func assertOnlyFiles(t *testing.T, dir string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("directory %s holds %v, want %v", dir, names, want)
	}
}
