package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/mdinput/internal/engine/cursor"
	"github.com/dshills/mdinput/internal/engine/rundoc"
)

// Entry is an immutable snapshot of editor state.
type Entry struct {
	ID        uuid.UUID
	Document  *rundoc.Document
	Selection cursor.Selection
	Label     string
	Timestamp time.Time
}

// NewEntry snapshots doc and sel. The entry owns its own copy of the
// document, so later edits to the live document never reach history.
func NewEntry(doc *rundoc.Document, sel cursor.Selection, label string, at time.Time) Entry {
	return Entry{
		ID:        uuid.New(),
		Document:  doc.Clone(),
		Selection: sel,
		Label:     label,
		Timestamp: at,
	}
}

// Info returns display information about the entry.
func (e Entry) Info() EntryInfo {
	info := EntryInfo{ID: e.ID, Label: e.Label, Timestamp: e.Timestamp}
	if e.Document != nil {
		info.Length = e.Document.PlainLen()
	}
	return info
}

// RestoredSelection returns the entry's selection clamped to its document.
func (e Entry) RestoredSelection() cursor.Selection {
	if e.Document == nil {
		return cursor.Selection{}
	}
	return e.Selection.Clamp(e.Document.PlainLen())
}

// EntryInfo provides read-only info about a history entry.
// Used for displaying undo/redo history to users.
type EntryInfo struct {
	ID        uuid.UUID
	Label     string    // Operation that produced the entry
	Timestamp time.Time // When the snapshot was taken
	Length    int       // Plain-text length of the snapshot
}
