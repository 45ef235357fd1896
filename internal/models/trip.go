package models

import "time"

// Trip statuses.
const (
	TripStatusActive = "active"
)

// Trip is an administrator-created grouping of students traveling together.
type Trip struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Classe    string    `db:"classe" json:"classe"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
