package models

import "time"

// Dispute carries the metadata the memory subsystem needs to attribute
// messages to party roles. The full dispute workflow lives elsewhere.
type Dispute struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	PlaintiffID   string    `db:"plaintiff_id" json:"plaintiff_id"`
	PlaintiffName string    `db:"plaintiff_name" json:"plaintiff_name"`
	DefendantID   string    `db:"defendant_id" json:"defendant_id"`
	DefendantName string    `db:"defendant_name" json:"defendant_name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Message is one entry in a dispute's append-only conversation. Ids are
// strictly increasing in creation order within a dispute; the watermark
// logic is built on that invariant.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	DisputeID string    `db:"dispute_id" json:"dispute_id"`
	SenderID  string    `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
