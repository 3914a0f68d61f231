package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalArchive implements Archive on the local filesystem. Each case gets a
// directory; metadata lives in JSON sidecars under .meta so the documents
// themselves stay byte-identical to what was uploaded.
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates the archive root if needed.
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

func (a *LocalArchive) Store(_ context.Context, caseID string, docID uuid.UUID, filename string, r io.Reader) (*DocumentInfo, error) {
	caseDir := filepath.Join(a.basePath, sanitizeName(caseID))
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create case directory: %w", err)
	}

	// The short identifier prefix keeps same-named statements from
	// different months apart.
	storedName := fmt.Sprintf("%s_%s", docID.String()[:8], sanitizeName(filename))
	path := filepath.Join(caseDir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archived document: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write archived document: %w", err)
	}

	info := &DocumentInfo{
		ID:         docID,
		Name:       filename,
		Size:       size,
		Path:       storedName,
		ArchivedAt: time.Now(),
	}
	if err := a.saveMetadata(caseID, info); err != nil {
		os.Remove(path)
		return nil, err
	}
	return info, nil
}

func (a *LocalArchive) Open(ctx context.Context, caseID string, docID uuid.UUID) (io.ReadCloser, *DocumentInfo, error) {
	info, err := a.Info(ctx, caseID, docID)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(a.basePath, sanitizeName(caseID), info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("open archived document: %w", err)
	}
	return f, info, nil
}

func (a *LocalArchive) List(ctx context.Context, caseID string) ([]*DocumentInfo, error) {
	metaDir := filepath.Join(a.basePath, sanitizeName(caseID), ".meta")
	entries, err := os.ReadDir(metaDir)
	if os.IsNotExist(err) {
		return []*DocumentInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list archive metadata: %w", err)
	}

	docs := make([]*DocumentInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		info, err := a.Info(ctx, caseID, id)
		if err != nil {
			continue
		}
		docs = append(docs, info)
	}
	return docs, nil
}

func (a *LocalArchive) Info(_ context.Context, caseID string, docID uuid.UUID) (*DocumentInfo, error) {
	metaPath := filepath.Join(a.basePath, sanitizeName(caseID), ".meta", docID.String()+".json")
	data, err := os.ReadFile(metaPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("document not found: %s", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("read archive metadata: %w", err)
	}

	var info DocumentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse archive metadata: %w", err)
	}
	return &info, nil
}

func (a *LocalArchive) saveMetadata(caseID string, info *DocumentInfo) error {
	metaDir := filepath.Join(a.basePath, sanitizeName(caseID), ".meta")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive metadata: %w", err)
	}
	metaPath := filepath.Join(metaDir, info.ID.String()+".json")
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("write archive metadata: %w", err)
	}
	return nil
}

// sanitizeName strips path separators and shell-hostile characters from
// user-supplied names before they touch the filesystem.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
