package models

import (
	"time"

	"github.com/lib/pq"
)

// DefaultSubject is substituted when a message is sent without a subject.
const DefaultSubject = "(No Subject)"

// Message represents an internal mail item. Archival is tracked per party so
// that one side hiding its copy never affects the other side's view.
type Message struct {
	ID                  string         `db:"id" json:"id"`
	FromID              string         `db:"from_id" json:"-"`
	ToID                string         `db:"to_id" json:"-"`
	From                *UserRef       `db:"-" json:"from,omitempty"`
	To                  *UserRef       `db:"-" json:"to,omitempty"`
	Subject             string         `db:"subject" json:"subject"`
	Body                string         `db:"body" json:"body"`
	Labels              pq.StringArray `db:"labels" json:"labels"`
	Read                bool           `db:"read" json:"read"`
	ArchivedBySender    bool           `db:"archived_by_sender" json:"-"`
	ArchivedByRecipient bool           `db:"archived_by_recipient" json:"-"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsParty reports whether the given user is the sender or the recipient.
func (m *Message) IsParty(userID string) bool {
	return m != nil && (m.FromID == userID || m.ToID == userID)
}

// MessageFilter narrows inbox queries.
type MessageFilter struct {
	Label  string
	Search string
}
