package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"corkboard/internal/store"
	"corkboard/pkg/types"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
	return path
}

func TestIngest(t *testing.T) {
	st := store.New()
	contentDir := t.TempDir()
	ingestor, err := NewIngestor(st, contentDir)
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	source := writeSource(t, t.TempDir(), "spool", "image bytes")
	message, side, err := ingestor.Ingest(context.Background(), Upload{
		SourcePath:  source,
		ContentType: "image/jpeg",
		Name:        "bird.jpg",
		Geo:         "55.1, 37.6",
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if message.Message != "bird.jpg" {
		t.Errorf("Expected stored name bird.jpg, got %s", message.Message)
	}
	if message.Type != types.MessageTypeImage {
		t.Errorf("Expected type image, got %s", message.Type)
	}
	if message.Geo != "55.1, 37.6" {
		t.Errorf("Geo not carried: %q", message.Geo)
	}
	if side["image"] != 1 {
		t.Errorf("Expected image count 1, got %d", side["image"])
	}

	data, err := os.ReadFile(filepath.Join(contentDir, "bird.jpg"))
	if err != nil {
		t.Fatalf("Destination file missing: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("Destination content mismatch: %q", data)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Error("Spooled source must be removed after a successful copy")
	}
}

func TestIngestMissingSource(t *testing.T) {
	st := store.New()
	contentDir := t.TempDir()
	ingestor, err := NewIngestor(st, contentDir)
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	_, _, err = ingestor.Ingest(context.Background(), Upload{
		SourcePath:  filepath.Join(t.TempDir(), "does-not-exist"),
		ContentType: "image/png",
		Name:        "ghost.png",
	})
	if !errors.Is(err, ErrIngestionFailed) {
		t.Fatalf("Expected ErrIngestionFailed, got %v", err)
	}

	// A failed copy must leave no trace: no log entry, no destination file.
	if st.Len() != 0 {
		t.Errorf("Failed ingestion must not append, log length %d", st.Len())
	}
	if _, err := os.Stat(filepath.Join(contentDir, "ghost.png")); !os.IsNotExist(err) {
		t.Error("Failed ingestion must not leave a destination file")
	}
}

func TestIngestCancelledContext(t *testing.T) {
	st := store.New()
	ingestor, err := NewIngestor(st, t.TempDir())
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := writeSource(t, t.TempDir(), "spool", "bytes")
	if _, _, err := ingestor.Ingest(ctx, Upload{SourcePath: source, ContentType: "image/png", Name: "x.png"}); err == nil {
		t.Error("Expected error from cancelled context")
	}
	if st.Len() != 0 {
		t.Errorf("Cancelled ingestion must not append, log length %d", st.Len())
	}
}

func TestIngestDedupesRepeatedNames(t *testing.T) {
	st := store.New()
	contentDir := t.TempDir()
	ingestor, err := NewIngestor(st, contentDir)
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	spoolDir := t.TempDir()
	first := writeSource(t, spoolDir, "spool1", "v1")
	second := writeSource(t, spoolDir, "spool2", "v2")

	message, _, err := ingestor.Ingest(context.Background(), Upload{SourcePath: first, ContentType: "image/png", Name: "photo.png"})
	if err != nil {
		t.Fatalf("First ingest failed: %v", err)
	}
	if message.Message != "photo.png" {
		t.Errorf("First name mangled: %s", message.Message)
	}

	message, _, err = ingestor.Ingest(context.Background(), Upload{SourcePath: second, ContentType: "image/png", Name: "photo.png"})
	if err != nil {
		t.Fatalf("Second ingest failed: %v", err)
	}
	if message.Message != "photo_1.png" {
		t.Errorf("Expected photo_1.png, got %s", message.Message)
	}

	// Both physical files must exist with distinct content.
	v1, _ := os.ReadFile(filepath.Join(contentDir, "photo.png"))
	v2, _ := os.ReadFile(filepath.Join(contentDir, "photo_1.png"))
	if string(v1) != "v1" || string(v2) != "v2" {
		t.Errorf("Deduplicated files hold wrong content: %q, %q", v1, v2)
	}
}

func TestIngestRecorderBlob(t *testing.T) {
	st := store.New()
	contentDir := t.TempDir()
	ingestor, err := NewIngestor(st, contentDir)
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	source := writeSource(t, t.TempDir(), "spool", "clip")
	message, _, err := ingestor.Ingest(context.Background(), Upload{SourcePath: source, ContentType: "audio/webm", Name: "blob"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if message.Message != "recorder.webm" {
		t.Errorf("Expected recorder.webm, got %s", message.Message)
	}
	if _, err := os.Stat(filepath.Join(contentDir, "recorder.webm")); err != nil {
		t.Errorf("Destination recorder.webm missing: %v", err)
	}
}

func TestIngestStripsClientPath(t *testing.T) {
	st := store.New()
	contentDir := t.TempDir()
	ingestor, err := NewIngestor(st, contentDir)
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	source := writeSource(t, t.TempDir(), "spool", "x")
	message, _, err := ingestor.Ingest(context.Background(), Upload{SourcePath: source, ContentType: "application/pdf", Name: "../../etc/guide.pdf"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if message.Message != "guide.pdf" {
		t.Errorf("Path not stripped from name: %s", message.Message)
	}
	if _, err := os.Stat(filepath.Join(contentDir, "guide.pdf")); err != nil {
		t.Errorf("Destination guide.pdf missing: %v", err)
	}
}

func TestRemove(t *testing.T) {
	st := store.New()
	contentDir := t.TempDir()
	ingestor, err := NewIngestor(st, contentDir)
	if err != nil {
		t.Fatalf("NewIngestor failed: %v", err)
	}

	path := filepath.Join(contentDir, "doomed.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// A mix of a real file, a link name, and an already-gone file; none may
	// panic or error.
	ingestor.Remove([]string{"doomed.txt", "https://example.com", "never-existed.bin"})

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected doomed.txt to be unlinked")
	}
}
