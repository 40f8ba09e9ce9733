package models

// ConversationContext is the assembled, bounded view of a dispute's
// conversation: every summary oldest-first plus the unsummarized tail
// verbatim. It is recomputed on every request and never persisted.
type ConversationContext struct {
	DisputeID      string                `json:"dispute_id"`
	ContextText    string                `json:"context_text"`
	Summaries      []ConversationSummary `json:"summaries"`
	RecentMessages []Message             `json:"recent_messages"`

	SummaryCount            int      `json:"summary_count"`
	RecentMessageCount      int      `json:"recent_message_count"`
	TotalMessagesSummarized int      `json:"total_messages_summarized"`
	LatestTone              Tone     `json:"latest_tone"`
	KeyPointsCompiled       []string `json:"key_points_compiled"`
}
