package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMessageIndex_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telegram_messages.csv")

	index, err := NewMessageIndex(path)
	if err != nil {
		t.Fatalf("expected no error opening index but got: %v", err)
	}
	if _, ok := index.MessageID(1001); ok {
		t.Fatal("expected empty index on first run")
	}

	if err := index.SetMessageID(1001, 321); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if err := index.SetMessageID(1002, 322); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if err := index.DeleteMessageID(1002); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	reloaded, err := NewMessageIndex(path)
	if err != nil {
		t.Fatalf("expected no error reloading index but got: %v", err)
	}
	if id, ok := reloaded.MessageID(1001); !ok || id != 321 {
		t.Errorf("expected message 321 for complaint 1001 but got %d (found=%v)", id, ok)
	}
	if _, ok := reloaded.MessageID(1002); ok {
		t.Error("expected deleted complaint 1002 to stay deleted after reload")
	}
}

func TestMessageIndex_FileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")
	index, err := NewMessageIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := index.SetMessageID(20, 2); err != nil {
		t.Fatal(err)
	}
	if err := index.SetMessageID(10, 1); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := "ComplaintID,MessageID\n10,1\n20,2\n"
	if string(data) != expected {
		t.Errorf("expected file %q but got %q", expected, string(data))
	}
}

func TestMessageIndex_SkipsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")
	content := "ComplaintID,MessageID\nabc,1\n7\n8,x\n9,90\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	index, err := NewMessageIndex(path)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if id, ok := index.MessageID(9); !ok || id != 90 {
		t.Errorf("expected message 90 for complaint 9 but got %d (found=%v)", id, ok)
	}
	if _, ok := index.MessageID(8); ok {
		t.Error("expected row with a bad message id to be skipped")
	}
}

func TestMessageIndex_DeleteUnknownIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")
	index, err := NewMessageIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := index.DeleteMessageID(5); err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file to be written for a no-op delete")
	}
}

func TestMessageIndex_WriteFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	index, err := NewMessageIndex(filepath.Join(blocker, "messages.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if err := index.SetMessageID(1, 1); err == nil {
		t.Fatal("expected error writing under a regular file")
	}
	if _, ok := index.MessageID(1); ok {
		t.Error("expected failed write to leave the index unchanged")
	}
}
