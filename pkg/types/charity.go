package types

import "time"

type CharityStatus string

const (
	CharityStatusPending  CharityStatus = "Pending"
	CharityStatusApproved CharityStatus = "Approved"
	CharityStatusRejected CharityStatus = "Rejected"
)

type Charity struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	Description  *string       `db:"description" json:"description"`
	Status       CharityStatus `db:"status" json:"status"`
	PasswordHash string        `db:"password_hash" json:"-"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}
