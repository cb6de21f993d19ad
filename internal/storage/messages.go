package storage

import (
	"encoding/csv"
	"log"
	"os"
	"sort"
	"strconv"
	"sync"

	apperrors "citizenhub/internal/errors"
)

// messageHeader is the column layout of the message index file.
var messageHeader = []string{"ComplaintID", "MessageID"}

// MessageIndex maps complaint IDs to the Telegram message that announced
// them, persisted as a two-column CSV.
//
// Entries are added when a complaint is posted and removed once the message
// has been edited to its resolved form, so the file only holds open
// complaints.
type MessageIndex struct {
	mu   sync.Mutex
	path string
	ids  map[int64]int
}

// NewMessageIndex opens the index at path. A missing file starts empty.
func NewMessageIndex(path string) (*MessageIndex, error) {
	m := &MessageIndex{path: path, ids: make(map[int64]int)}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, apperrors.NewStorageError("open "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewStorageError("read "+path, err)
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == messageHeader[0] {
			continue
		}
		if len(row) < 2 {
			continue
		}
		complaintID, err1 := strconv.ParseInt(row[0], 10, 64)
		messageID, err2 := strconv.Atoi(row[1])
		if err1 != nil || err2 != nil {
			log.Printf("⚠️  Skipping row %d of %s", i+1, path)
			continue
		}
		m.ids[complaintID] = messageID
	}

	log.Println("📚 Loaded", len(m.ids), "Telegram message IDs from", path)
	return m, nil
}

// MessageID retrieves the Telegram message ID for a complaint.
func (m *MessageIndex) MessageID(complaintID int64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[complaintID]
	return id, ok
}

// SetMessageID records the Telegram message ID for a complaint.
func (m *MessageIndex) SetMessageID(complaintID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, had := m.ids[complaintID]
	m.ids[complaintID] = messageID
	if err := m.rewriteFile(); err != nil {
		if had {
			m.ids[complaintID] = prev
		} else {
			delete(m.ids, complaintID)
		}
		return err
	}
	return nil
}

// DeleteMessageID forgets a complaint's message. Unknown IDs are a no-op.
func (m *MessageIndex) DeleteMessageID(complaintID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.ids[complaintID]
	if !ok {
		return nil
	}
	delete(m.ids, complaintID)
	if err := m.rewriteFile(); err != nil {
		m.ids[complaintID] = prev
		return err
	}
	return nil
}

// Note: Caller must hold the mutex lock
func (m *MessageIndex) rewriteFile() error {
	keys := make([]int64, 0, len(m.ids))
	for id := range m.ids {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([][]string, 0, len(keys)+1)
	rows = append(rows, messageHeader)
	for _, id := range keys {
		rows = append(rows, []string{strconv.FormatInt(id, 10), strconv.Itoa(m.ids[id])})
	}
	return writeCSVFile(m.path, rows)
}
