package types

import "time"

type Story struct {
	ID            string    `db:"id" json:"id"`
	CharityID     string    `db:"charity_id" json:"charity_id"`
	BeneficiaryID string    `db:"beneficiary_id" json:"beneficiary_id"`
	Title         string    `db:"title" json:"title"`
	Content       string    `db:"content" json:"content"`
	DatePosted    time.Time `db:"date_posted" json:"date_posted"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
