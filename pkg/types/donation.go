package types

import "time"

// Donation rows are insert-only. A row exists only for payments the
// gateway reported as accepted; there is no refund or void path.
type Donation struct {
	ID                string    `db:"id" json:"id"`
	DonorID           string    `db:"donor_id" json:"donor_id"`
	CharityID         string    `db:"charity_id" json:"charity_id"`
	Amount            float64   `db:"amount" json:"amount"`
	IsAnonymous       bool      `db:"is_anonymous" json:"is_anonymous"`
	IsOneTimeDonation bool      `db:"is_one_time_donation" json:"is_one_time_donation"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
