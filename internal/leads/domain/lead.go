// Package domain holds the canonical lead entities shared by the lead
// view subsystem. Values are passed by value and never mutated in place;
// every transform produces a new derived collection.
package domain

import "time"

// LeadType classifies how a lead entered the current view partition.
type LeadType string

const (
	LeadTypeFresh   LeadType = "fresh"
	LeadTypeCold    LeadType = "cold"
	LeadTypeRotated LeadType = "rotated"
	LeadTypeOther   LeadType = "other"
)

// Priority is the sales priority assigned to a lead.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityUnset  Priority = ""
)

// LeadSource identifies the channel a lead originated from.
type LeadSource string

const (
	SourceManual       LeadSource = "manual"
	SourceMetaLeadForm LeadSource = "meta_lead_form"
	SourceWhatsApp     LeadSource = "whatsapp"
	SourceTikTok       LeadSource = "tiktok"
)

// PhoneNumber is one entry of a lead's ordered phone collection.
// At most one entry carries IsPrimary.
type PhoneNumber struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	Type      string `json:"type"`
	IsPrimary bool   `json:"isPrimary"`
}

// UserRef points at a user owned by the identity system.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CampaignRef points at a marketing campaign plus its display name.
type CampaignRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Lead is the canonical lead record. ID is immutable once assigned;
// normalization never fabricates one.
type Lead struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Phones           []PhoneNumber `json:"phones"`
	StatusID         *int64        `json:"statusId"`
	Type             LeadType      `json:"type"`
	Priority         Priority      `json:"priority"`
	Budget           float64       `json:"budget"`
	AssignedTo       *UserRef      `json:"assignedTo"`
	Source           LeadSource    `json:"source"`
	Campaign         *CampaignRef  `json:"campaign"`
	CommunicationWay string        `json:"communicationWay"`
	CreatedAt        time.Time     `json:"createdAt"`
	CompanyID        int64         `json:"companyId"`
}

// PrimaryPhone returns the number flagged primary, falling back to the
// first number in the collection.
func (l Lead) PrimaryPhone() string {
	for _, p := range l.Phones {
		if p.IsPrimary {
			return p.Number
		}
	}
	if len(l.Phones) > 0 {
		return l.Phones[0].Number
	}
	return ""
}

// Status is one configurable point in the lead workflow. The status set is
// externally owned; this subsystem only reads it. Hidden statuses are
// excluded from the transition menu but stay valid as a current status.
type Status struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsHidden bool   `json:"isHidden"`
}

// StatusSet is a read-only view over the configured statuses.
type StatusSet []Status

// ByID resolves a status by its identifier.
func (s StatusSet) ByID(id int64) (Status, bool) {
	for _, st := range s {
		if st.ID == id {
			return st, true
		}
	}
	return Status{}, false
}

// Visible returns the statuses eligible for the transition menu,
// preserving configuration order.
func (s StatusSet) Visible() []Status {
	out := make([]Status, 0, len(s))
	for _, st := range s {
		if !st.IsHidden {
			out = append(out, st)
		}
	}
	return out
}
