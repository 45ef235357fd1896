package models

import "time"

// Link statuses.
const (
	LinkStatusActive = "active"
)

// Link grants a guardian write access to one student's form, scoped to one
// trip. The token itself is the primary key; the student binding is set on
// first successful submission and is the only mutation a link ever sees.
type Link struct {
	Token     string    `db:"token" json:"token"`
	TripID    string    `db:"trip_id" json:"trip_id"`
	StudentID *string   `db:"student_id" json:"student_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TokenDescriptor is the minting result returned to the administrator.
type TokenDescriptor struct {
	Token string `json:"token"`
}

// LinkStatus is the guardian-facing completion state of a link.
type LinkStatus struct {
	Status string `json:"status"`
}

// DocumentReceipt acknowledges an uploaded guardian document.
type DocumentReceipt struct {
	DocumentID string `json:"document_id"`
}
