// Package storage provides persistent storage for complaint records.
//
// Three backends implement complaint.Repository:
//  1. CSV: a flat file, the default for single-host deployments
//  2. SQL: Postgres (pgx), MySQL or SQLite through database/sql
//  3. Cached: a Redis read-through layer wrapping either of the above
//
// MessageIndex keeps the Telegram message posted for each complaint in a
// second CSV file so resolutions can edit it after a restart.
//
// Thread-safety:
//   - CSV serialises every operation with a mutex
//   - SQL relies on the database
//   - Cached adds no locking of its own
package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"citizenhub/internal/complaint"
	apperrors "citizenhub/internal/errors"
)

// bufferSize for buffered I/O (64KB)
const bufferSize = 64 * 1024

// Header is the column layout of the complaints table.
var Header = []string{"ID", "Name", "Category", "Department", "Priority", "Status", "Description", "Sentiment", "Image"}

// CSV keeps complaints in a flat file.
//
// Data flow:
//
//	Read:  CSV → load into memory at construction → serve from memory
//	Write: update memory → rewrite the whole file (temp file + rename)
//
// The file is small (one row per complaint) so a full rewrite per mutation
// keeps the format trivially valid and human editable.
type CSV struct {
	mu      sync.Mutex
	path    string
	order   []int64                    // insertion order, mirrored in the file
	records map[int64]complaint.Record // ID → record
}

// NewCSV opens the CSV store at path, loading existing rows.
//
// A missing file is normal on first run; it is created on the first write.
// A file that exists but cannot be parsed is an error so data is never
// silently overwritten.
func NewCSV(path string) (*CSV, error) {
	s := &CSV{
		path:    path,
		records: make(map[int64]complaint.Record),
	}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFromFile loads complaint rows into memory.
//
// CSV format:
//   - Header row: ID,Name,Category,Department,Priority,Status,Description,Sentiment,Image
//   - Rows with a non-numeric ID are skipped with a warning
//   - Missing trailing columns (older files without Sentiment/Image) read as empty
func (s *CSV) loadFromFile() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("📋 No existing complaint file found. Creating new one on first submission...")
			return nil
		}
		return apperrors.NewStorageError("open "+s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return apperrors.NewStorageError("read "+s.path, err)
	}

	count := 0
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == Header[0] {
			continue
		}
		rec, err := fromRow(row)
		if err != nil {
			log.Printf("⚠️  Skipping row %d of %s: %v", i+1, s.path, err)
			continue
		}
		if _, dup := s.records[rec.ID]; !dup {
			s.order = append(s.order, rec.ID)
		}
		s.records[rec.ID] = rec
		count++
	}

	log.Println("📚 Loaded", count, "complaints from", s.path)
	return nil
}

// Create appends a new complaint and rewrites the file.
func (s *CSV) Create(_ context.Context, rec complaint.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return apperrors.NewStorageError("create", fmt.Errorf("duplicate id %d", rec.ID))
	}

	s.order = append(s.order, rec.ID)
	s.records[rec.ID] = rec

	if err := s.rewriteFile(); err != nil {
		// keep memory consistent with the file
		s.order = s.order[:len(s.order)-1]
		delete(s.records, rec.ID)
		return err
	}
	return nil
}

// Get returns the complaint with the given ID.
func (s *CSV) Get(_ context.Context, id int64) (complaint.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return complaint.Record{}, apperrors.NewNotFoundError(strconv.FormatInt(id, 10))
	}
	return rec, nil
}

// Update replaces an existing complaint and rewrites the file.
func (s *CSV) Update(_ context.Context, rec complaint.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.records[rec.ID]
	if !ok {
		return apperrors.NewNotFoundError(rec.IDString())
	}

	s.records[rec.ID] = rec
	if err := s.rewriteFile(); err != nil {
		s.records[rec.ID] = prev
		return err
	}
	return nil
}

// List returns all complaints in insertion order.
func (s *CSV) List(_ context.Context) ([]complaint.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]complaint.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

// Close is a no-op; every mutation is already on disk.
func (s *CSV) Close() error {
	return nil
}

// rewriteFile writes header and all rows over the store file.
//
// Note: Caller must hold the mutex lock
func (s *CSV) rewriteFile() error {
	rows := make([][]string, 0, len(s.order)+1)
	rows = append(rows, Header)
	for _, id := range s.order {
		rows = append(rows, toRow(s.records[id]))
	}
	return writeCSVFile(s.path, rows)
}

// writeCSVFile writes rows to a temp file in the same directory as path,
// then renames it over path.
func writeCSVFile(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewStorageError("mkdir "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bufferedWriter := bufio.NewWriterSize(tmp, bufferSize)
	writer := csv.NewWriter(bufferedWriter)

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return apperrors.NewStorageError("write row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("flush csv", err)
	}
	if err := bufferedWriter.Flush(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("flush buffer", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("close temp file", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return apperrors.NewStorageError("replace "+path, err)
	}
	return nil
}

func toRow(r complaint.Record) []string {
	return []string{
		r.IDString(),
		r.Name,
		r.Category,
		r.Department,
		string(r.Priority),
		string(r.Status),
		r.Description,
		string(r.Sentiment),
		r.Image,
	}
}

func fromRow(row []string) (complaint.Record, error) {
	if len(row) == 0 {
		return complaint.Record{}, fmt.Errorf("empty row")
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return complaint.Record{}, fmt.Errorf("invalid id %q", row[0])
	}

	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	status := complaint.Status(col(5))
	if status == "" {
		status = complaint.StatusPending
	}

	return complaint.Record{
		ID:          id,
		Name:        col(1),
		Category:    col(2),
		Department:  col(3),
		Priority:    complaint.Priority(col(4)),
		Status:      status,
		Description: col(6),
		Sentiment:   complaint.Sentiment(col(7)),
		Image:       col(8),
	}, nil
}
