package files

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"corkboard/internal/store"
	"corkboard/pkg/types"
)

// Ingestor moves uploaded files from their temporary location into the
// content directory and appends the resulting attachment message.
type Ingestor struct {
	store      *store.Store
	contentDir string
}

// Upload describes one uploaded file as handed over by the HTTP layer: the
// spooled temporary source, the declared MIME type, the client's file name,
// and an optional coordinate string.
type Upload struct {
	SourcePath  string
	ContentType string
	Name        string
	Geo         string
}

// NewIngestor creates an ingestor over the given content directory,
// creating it if needed.
func NewIngestor(st *store.Store, contentDir string) (*Ingestor, error) {
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, fmt.Errorf("create content directory %s: %w", contentDir, err)
	}
	return &Ingestor{store: st, contentDir: contentDir}, nil
}

// Ingest plans the destination name, copies the source into the content
// directory, and appends the attachment message once the copy is confirmed.
// FUNCTIONAL DISCOVERY: the store append happens strictly after the copy
// completes, so a failed copy leaves every index untouched and produces no
// broadcast; the error surfaces only to the uploader.
func (in *Ingestor) Ingest(ctx context.Context, up Upload) (*types.Message, types.SideSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Base strips any path the client smuggled into the file name.
	category, name := in.store.PlanAttachment(up.ContentType, filepath.Base(up.Name))
	destination := filepath.Join(in.contentDir, name)

	if err := copyFile(up.SourcePath, destination); err != nil {
		// Do not leave a partial destination behind.
		_ = os.Remove(destination)
		return nil, nil, fmt.Errorf("%w: %v", ErrIngestionFailed, err)
	}

	// The spooled source is disposable once the copy landed.
	if err := os.Remove(up.SourcePath); err != nil {
		log.Printf("Failed to remove upload source %s: %v", up.SourcePath, err)
	}

	message, side, err := in.store.AddAttachment(name, category, up.Geo)
	if err != nil {
		_ = os.Remove(destination)
		return nil, nil, err
	}
	return message, side, nil
}

// Remove unlinks backing files after a delete cascade. Best-effort: link
// names and already-gone files fail silently, matching the policy that
// cleanup never blocks a user-visible delete.
func (in *Ingestor) Remove(names []string) {
	for _, name := range names {
		_ = os.Remove(filepath.Join(in.contentDir, filepath.Base(name)))
	}
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return err
	}
	return destination.Close()
}
