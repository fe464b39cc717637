// Package ports declares the contracts the lead view subsystem consumes.
// Concrete implementations live at the edges (internal/upstream,
// internal/leads/adapters, internal/i18n); the core depends only on these
// interfaces.
package ports

import (
	"context"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/internal/leads/normalize"
)

// EventKind names one of the four independent event streams kept per lead.
type EventKind string

const (
	// EventKindActions is the stage-change action stream.
	EventKindActions EventKind = "actions"
	// EventKindCalls is the call log stream.
	EventKindCalls EventKind = "calls"
	// EventKindAudit is the status/assignment/edit audit stream.
	EventKindAudit EventKind = "audit"
	// EventKindSMS is the outbound message stream.
	EventKindSMS EventKind = "sms"
)

// LeadSource reads raw records from the external CRM data source.
// Records come back in whatever shape the upstream currently produces;
// callers normalize them.
type LeadSource interface {
	FetchLeads(ctx context.Context, filters map[string]string) ([]normalize.Record, error)
	FetchStatuses(ctx context.Context) ([]normalize.Record, error)
	FetchEvents(ctx context.Context, kind EventKind, leadID int64) ([]normalize.Record, error)
}

// PhonePayload is one phone entry of an update payload.
type PhonePayload struct {
	ID        int64  `json:"id,omitempty"`
	Number    string `json:"phone"`
	Type      string `json:"phone_type,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateLeadPayload carries a full lead mutation to the upstream service.
// Phones is omitted when empty: to the upstream an absent collection means
// "no change", not "clear".
type UpdateLeadPayload struct {
	Name             string         `json:"name"`
	Phones           []PhonePayload `json:"phones,omitempty"`
	Budget           float64        `json:"budget"`
	AssignedTo       *int64         `json:"assigned_to,omitempty"`
	Type             string         `json:"lead_type"`
	CommunicationWay string         `json:"communication_way,omitempty"`
	Priority         string         `json:"priority,omitempty"`
	Status           int64          `json:"status"`
	Company          int64          `json:"company"`
}

// LeadUpdater applies a lead mutation through the external service.
// Failures carry an optional machine-readable error key next to the
// human-readable message.
type LeadUpdater interface {
	UpdateLead(ctx context.Context, id int64, payload UpdateLeadPayload) (normalize.Record, error)
}

// StatusProvider serves the externally owned status configuration.
type StatusProvider interface {
	Statuses(ctx context.Context) (domain.StatusSet, error)
}

// Translator resolves a message key to localized text. The boolean is false
// when no mapping exists, in which case the caller supplies a literal
// fallback.
type Translator interface {
	Lookup(key string) (string, bool)
}
