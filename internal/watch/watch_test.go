package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWatchedFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.json")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{data, other} {
		if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New([]string{data, ""}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(data, []byte("[{}]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case batch := <-w.Changes():
		if len(batch) != 1 || batch[0] != data {
			t.Fatalf("unexpected batch %v", batch)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing", "x.json")}, 0, nil); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
