// Package source reads analysis documents from the local filesystem and
// hands the run harness both the raw text and the typed parse.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// FileSource implements dfmload.DocumentSource over a data directory.
type FileSource struct {
	dataDir string
	files   []string
	logger  dfmload.Logger
}

// NewFileSource creates a source over dataDir. When files is non-empty the
// run is restricted to those names; a configured file that does not exist is
// logged and skipped, matching document-level skip-and-continue granularity.
// Panics if logger is nil.
func NewFileSource(dataDir string, files []string, logger dfmload.Logger) *FileSource {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FileSource{
		dataDir: dataDir,
		files:   files,
		logger:  logger,
	}
}

// ListDocuments enumerates the input documents in deterministic name order.
func (s *FileSource) ListDocuments(_ context.Context) ([]dfmload.DocumentHandle, error) {
	if len(s.files) > 0 {
		return s.listConfigured()
	}
	return s.listDirectory()
}

func (s *FileSource) listConfigured() ([]dfmload.DocumentHandle, error) {
	handles := make([]dfmload.DocumentHandle, 0, len(s.files))
	for _, name := range s.files {
		path := filepath.Join(s.dataDir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				s.logger.Error("File not found, skipping: %s", path)
				continue
			}
			return nil, fmt.Errorf("failed to stat %q: %w", path, err)
		}
		handles = append(handles, dfmload.DocumentHandle{Path: path, Name: name})
	}
	return handles, nil
}

func (s *FileSource) listDirectory() ([]dfmload.DocumentHandle, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %q: %w", s.dataDir, err)
	}

	var handles []dfmload.DocumentHandle
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), dfmload.DocumentExtension) {
			continue
		}
		handles = append(handles, dfmload.DocumentHandle{
			Path: filepath.Join(s.dataDir, name),
			Name: name,
		})
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].Name < handles[j].Name })

	s.logger.Verbose("Found %d documents in %s", len(handles), s.dataDir)
	return handles, nil
}

// ReadDocument reads and parses one document. Text that does not decode into
// the expected tree shape fails with an ErrParse-wrapped error.
func (s *FileSource) ReadDocument(_ context.Context, handle dfmload.DocumentHandle) (*dfmload.ParsedDocument, error) {
	raw, err := os.ReadFile(handle.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", handle.Path, err)
	}

	var doc dfmload.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", handle.Name, err, dfmload.ErrParse)
	}

	return &dfmload.ParsedDocument{
		Handle: handle,
		Raw:    raw,
		Doc:    &doc,
	}, nil
}
