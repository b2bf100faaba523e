package types

import "time"

type Donor struct {
	ID            string    `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	IsAnonymous   bool      `db:"is_anonymous" json:"is_anonymous"`
	NeedsReminder bool      `db:"needs_reminder" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
