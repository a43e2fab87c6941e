package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Scanner watches a drop folder and ingests documents placed in it.
// It combines filesystem notifications with a periodic rescan, so
// files are picked up promptly and missed events are eventually
// reconciled.
type Scanner struct {
	dir         string
	ingestion   driving.IngestionService
	normalisers driven.NormaliserRegistry
	extensions  map[string]bool
	interval    time.Duration
	roles       []domain.Role

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScanner creates a scanner for the given directory. Only files
// with an extension the registry supports are picked up. interval <= 0
// uses the default rescan period. roles gates every document ingested
// from this folder; empty means all roles.
func NewScanner(
	dir string,
	ingestion driving.IngestionService,
	normalisers driven.NormaliserRegistry,
	interval time.Duration,
	roles []domain.Role,
) *Scanner {
	if interval <= 0 {
		interval = domain.DefaultScanInterval
	}
	extensions := make(map[string]bool)
	for _, ext := range normalisers.SupportedExtensions() {
		extensions[ext] = true
	}
	return &Scanner{
		dir:         dir,
		ingestion:   ingestion,
		normalisers: normalisers,
		extensions:  extensions,
		interval:    interval,
		roles:       roles,
	}
}

// Start begins watching. Blocks until the context is cancelled or
// Stop is called.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	logger.Info("Watching %s (rescan every %s)", s.dir, s.interval)

	// Pick up anything already in the folder before waiting on events.
	s.scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				s.ingestFile(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// Stop shuts the scanner down and waits for in-flight ingestions.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// scan walks the drop folder and ingests every eligible file.
func (s *Scanner) scan(ctx context.Context) {
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.dir {
				return filepath.SkipDir // Top level only
			}
			return nil
		}
		s.ingestFile(ctx, path)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Scan of %s failed: %v", s.dir, err)
	}
}

// ingestFile ingests one file, skipping unsupported extensions and
// already ingested, unchanged files.
func (s *Scanner) ingestFile(ctx context.Context, path string) {
	if !s.extensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	sourceName := filepath.Base(path)
	req := driving.IngestRequest{
		SourceName:   sourceName,
		AllowedRoles: s.roles,
	}

	// Re-ingest only if the file changed since the last ingestion.
	if existing, err := s.existingDocument(ctx, sourceName); err == nil && existing != nil {
		if !info.ModTime().After(existing.UpdatedAt) {
			return
		}
		req.DocumentID = existing.ID
		logger.Debug("%s changed, re-ingesting", sourceName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return
	}
	text, err := s.normalisers.Normalise(ctx, domain.RawFile{Path: path, Content: data})
	if err != nil {
		logger.Warn("Failed to normalise %s: %v", sourceName, err)
		return
	}
	req.Text = text

	s.wg.Add(1)
	defer s.wg.Done()

	result, err := s.ingestion.Ingest(ctx, req)
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", sourceName, err)
		return
	}
	logger.Info("Ingested %s: %d chunks", sourceName, result.ChunkCount)
}

// existingDocument finds the document previously ingested from the
// source name, or nil if there is none.
func (s *Scanner) existingDocument(ctx context.Context, sourceName string) (*domain.Document, error) {
	docs, err := s.ingestion.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].SourceName == sourceName {
			return &docs[i], nil
		}
	}
	return nil, nil
}
