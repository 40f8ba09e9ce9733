package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SummaryType distinguishes chain links from point-in-time snapshots.
type SummaryType string

const (
	// SummaryTypeIncremental covers one batch of messages since the last
	// summary. Incremental summaries form the watermark chain.
	SummaryTypeIncremental SummaryType = "incremental"
	// SummaryTypeFull covers the entire dispute to date. Full summaries do
	// not advance the watermark.
	SummaryTypeFull SummaryType = "full"
)

// Tone classifies the overall temperature of a conversation span.
type Tone string

const (
	ToneCooperative Tone = "cooperative"
	ToneAdversarial Tone = "adversarial"
	ToneNeutral     Tone = "neutral"
	ToneImproving   Tone = "improving"
	ToneMixed       Tone = "mixed"
	ToneUnknown     Tone = "unknown"
)

// ValidTone reports whether t is one of the tones the oracle may return.
func ValidTone(t Tone) bool {
	switch t {
	case ToneCooperative, ToneAdversarial, ToneNeutral, ToneImproving, ToneMixed:
		return true
	}
	return false
}

// ConversationSummary is a compressed representation of a contiguous,
// non-overlapping range of messages for one dispute. Rows are append-only:
// created by the generator, never updated, never deleted by this service.
type ConversationSummary struct {
	ID           string      `db:"id" json:"id"`
	DisputeID    string      `db:"dispute_id" json:"dispute_id"`
	SummaryType  SummaryType `db:"summary_type" json:"summary_type"`
	SummaryText  string      `db:"summary_text" json:"summary_text"`
	KeyPoints    KeyPoints   `db:"key_points" json:"key_points"`
	MessagesFrom int64       `db:"messages_from" json:"messages_from"`
	MessagesTo   int64       `db:"messages_to" json:"messages_to"`
	MessageCount int         `db:"message_count" json:"message_count"`
	OverallTone  Tone        `db:"overall_tone" json:"overall_tone"`
	Version      int         `db:"version" json:"version"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// KeyPoints stores a string list as JSONB.
type KeyPoints []string

func (k KeyPoints) Value() (driver.Value, error) {
	if k == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(k))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (k *KeyPoints) Scan(value interface{}) error {
	if value == nil {
		*k = KeyPoints{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("models.KeyPoints: unsupported Scan type %T", value)
	}

	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil {
		return fmt.Errorf("models.KeyPoints: %w", err)
	}
	*k = arr
	return nil
}
