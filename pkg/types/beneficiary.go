package types

import "time"

type Beneficiary struct {
	ID            string    `db:"id" json:"id"`
	CharityID     string    `db:"charity_id" json:"charity_id"`
	Name          string    `db:"name" json:"name"`
	Age           int       `db:"age" json:"age"`
	Location      string    `db:"location" json:"location"`
	Story         string    `db:"story" json:"story"`
	InventorySent bool      `db:"inventory_sent" json:"inventory_sent"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
