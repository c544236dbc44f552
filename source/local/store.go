package local

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/source"
)

// Store is a directory-backed source.Store for development and demos.
// Every regular file under the root directory is addressable; its document
// ID is the content hash of its slash-separated relative path, so the same
// file always resolves to the same ID.
type Store struct {
	root string

	mu    sync.RWMutex
	paths map[core.ID]string // docID -> relative path
}

var _ source.Store = (*Store)(nil)

// NewStore creates a store rooted at dir and indexes the files currently
// present. Call Refresh to pick up files added later.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		root:  dir,
		paths: make(map[core.ID]string),
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh re-scans the root directory and rebuilds the ID index.
func (s *Store) Refresh() error {
	paths := make(map[core.ID]string)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		paths[DocID(rel)] = rel
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.paths = paths
	s.mu.Unlock()
	return nil
}

// DocID returns the document ID for a slash-separated path relative to the
// store root.
func DocID(relPath string) core.ID {
	return core.IDFromContent(relPath)
}

// FetchMetadata resolves a document's file metadata.
func (s *Store) FetchMetadata(ctx context.Context, docID core.ID) (*source.FileInfo, error) {
	rel, ok := s.lookup(docID)
	if !ok {
		return nil, source.ErrFileNotFound
	}

	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, source.ErrFileNotFound
		}
		return nil, err
	}

	return &source.FileInfo{
		Name:      filepath.Base(rel),
		SizeBytes: info.Size(),
		Mimetype:  mime.TypeByExtension(filepath.Ext(rel)),
	}, nil
}

// FetchContent reads the raw bytes of a document.
func (s *Store) FetchContent(ctx context.Context, docID core.ID) ([]byte, error) {
	rel, ok := s.lookup(docID)
	if !ok {
		return nil, source.ErrFileNotFound
	}

	content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, source.ErrFileNotFound
		}
		return nil, err
	}
	return content, nil
}

func (s *Store) lookup(docID core.ID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, ok := s.paths[docID]
	return rel, ok
}
