package domain

// EntryKind discriminates the timeline entry union. The aggregator handles
// every kind exhaustively; adding a kind without a formatter is a compile-time
// visible omission in its switch.
type EntryKind string

const (
	EntryKindAction      EntryKind = "action"
	EntryKindCall        EntryKind = "call"
	EntryKindStatusEvent EntryKind = "status_event"
	EntryKindSMS         EntryKind = "sms"
)

// TimelineEntry is one normalized, displayable unit of lead history.
// ID is prefixed by the source kind so ids never collide across the four
// event streams. Timestamp is epoch millis and drives ordering. Entries are
// immutable once produced by the aggregator.
type TimelineEntry struct {
	Kind      EntryKind `json:"kind"`
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"`
	ActorName string    `json:"actorName"`
	Summary   string    `json:"summary"`
	Detail    string    `json:"detail"`
	ColorHint string    `json:"colorHint,omitempty"`

	// Action fields
	StageLabel string `json:"stageLabel,omitempty"`

	// Call fields
	MethodLabel  string `json:"methodLabel,omitempty"`
	CallTime     int64  `json:"callTime,omitempty"`
	FollowUpTime int64  `json:"followUpTime,omitempty"`

	// Status/assignment event fields, pre-formatted for display
	OldValue string `json:"oldValue,omitempty"`
	NewValue string `json:"newValue,omitempty"`

	// SMS fields
	PhoneTo string `json:"phoneTo,omitempty"`
}
