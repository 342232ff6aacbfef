package ingest

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// RecordSink receives parsed record batches from the ingest paths
type RecordSink interface {
	IngestFile(path string) error
}

// Watcher monitors the data directory for new consolidated exports and
// hands them to the sink as they appear.
type Watcher struct {
	dataDir string
	sink    RecordSink
}

// NewWatcher creates a watcher over dataDir
func NewWatcher(dataDir string, sink RecordSink) *Watcher {
	return &Watcher{dataDir: dataDir, sink: sink}
}

// Start begins watching. It returns after registering the directory;
// events are handled on a background goroutine until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if !isLogExport(evt.Name) {
					continue
				}
				log.Printf("📥 New export detected: %s", filepath.Base(evt.Name))
				if err := w.sink.IngestFile(evt.Name); err != nil {
					log.Printf("⚠️  Ingest failed for %s: %v", evt.Name, err)
				}
			case err := <-watcher.Errors:
				log.Printf("⚠️  Watcher error: %v", err)
			}
		}
	}()

	return watcher.Add(w.dataDir)
}

// Backfill ingests exports already sitting in the data directory
func (w *Watcher) Backfill() error {
	entries, err := filepath.Glob(filepath.Join(w.dataDir, "*"))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !isLogExport(entry) {
			continue
		}
		log.Printf("📥 Backfilling export: %s", filepath.Base(entry))
		if err := w.sink.IngestFile(entry); err != nil {
			log.Printf("⚠️  Backfill failed for %s: %v", entry, err)
		}
	}
	return nil
}

func isLogExport(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz")
}
