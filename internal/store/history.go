// Package store persists toast history and the state shared between toasty
// processes.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
)

// SchemaVersion is the current history schema version.
const SchemaVersion = 1

// ErrHistoryClosed is returned when operations are attempted on a closed history.
var ErrHistoryClosed = errors.New("history is closed")

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	ToastySchemaVersion int   `json:"toasty_schema_version"`
	CreatedAt           int64 `json:"created_at"`
}

// History is an append-only JSONL log of shown toasts.
type History struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
	logger *slog.Logger
}

// OpenHistory opens or creates the history file at path.
func OpenHistory(path string, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	h := &History{path: path, file: file, logger: logger}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := h.writeHeader(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return h, nil
}

// Path returns the history file path.
func (h *History) Path() string {
	return h.path
}

func (h *History) writeHeader() error {
	data, err := json.Marshal(schemaHeader{
		ToastySchemaVersion: SchemaVersion,
		CreatedAt:           time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = h.file.Write(append(data, '\n'))
	return err
}

// Append adds a record. It satisfies intercept.Appender.
func (h *History) Append(rec model.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.file == nil {
		return ErrHistoryClosed
	}
	if err := h.syncHandle(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := h.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return h.file.Sync()
}

// syncHandle reopens the history file when another process has replaced or
// removed it since it was opened. Caller must hold h.mu.
func (h *History) syncHandle() error {
	open, err := h.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat open history: %w", err)
	}
	onDisk, err := os.Stat(h.path)
	if err == nil && os.SameFile(open, onDisk) {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", h.path, err)
	}

	file, err := os.OpenFile(h.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to reopen %s: %w", h.path, err)
	}
	_ = h.file.Close()
	h.file = file
	h.logger.Debug("history file replaced, reopened", "path", h.path)

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return h.writeHeader()
	}
	return nil
}

// Load reads all records in file order. Malformed lines are skipped.
func (h *History) Load() ([]model.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.file == nil {
		return nil, ErrHistoryClosed
	}
	if err := h.syncHandle(); err != nil {
		return nil, err
	}

	if _, err := h.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", h.path, err)
	}

	var records []model.Record
	scanner := bufio.NewScanner(h.file)
	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.ToastySchemaVersion > 0 {
				if header.ToastySchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
						header.ToastySchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
			h.logger.Debug("skipping malformed history line", "line", lineNum)
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading file: %w", err)
	}

	if _, err := h.file.Seek(0, io.SeekEnd); err != nil {
		return records, err
	}
	return records, nil
}

// Recent returns up to limit records, newest first. A limit of 0 returns all.
func (h *History) Recent(limit int) ([]model.Record, error) {
	records, err := h.Load()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Prune keeps only the newest keep records and returns how many were removed.
func (h *History) Prune(keep int) (int, error) {
	records, err := h.Load()
	if err != nil {
		return 0, err
	}
	if keep < 0 || len(records) <= keep {
		return 0, nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})
	removed := len(records) - keep
	if err := h.Rewrite(records[removed:]); err != nil {
		return 0, err
	}
	return removed, nil
}

// Rewrite replaces the file contents with records. The new contents are
// written to a temporary file and renamed over the history, so a failed
// rewrite leaves the old file intact and other open Histories pick up the
// new file on their next Append or Load.
func (h *History) Rewrite(records []model.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHistoryClosed
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), filepath.Base(h.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeRecords(tmp, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, h.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", h.path, err)
	}

	file, err := os.OpenFile(h.path, os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to reopen %s: %w", h.path, err)
	}
	if h.file != nil {
		_ = h.file.Close()
	}
	h.file = file
	return nil
}

// writeRecords writes a schema header followed by records and syncs f.
func writeRecords(f *os.File, records []model.Record) error {
	w := bufio.NewWriter(f)
	header, err := json.Marshal(schemaHeader{
		ToastySchemaVersion: SchemaVersion,
		CreatedAt:           time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(append(header, '\n')); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// Clear removes all records.
func (h *History) Clear() error {
	return h.Rewrite(nil)
}

// Close releases the file handle.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.file != nil {
		err := h.file.Close()
		h.file = nil
		return err
	}
	return nil
}
