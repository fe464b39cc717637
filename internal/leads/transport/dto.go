package transport

import "time"

// Request DTOs

// ListLeadsRequest carries the filter criteria for the lead list view.
// Every field is optional; "All" or an empty value leaves the dimension
// unconstrained. Numeric and date bounds stay strings so unparsable input
// can be ignored instead of rejected.
type ListLeadsRequest struct {
	Scope            string `form:"scope" validate:"omitempty,oneof=fresh cold mine rotated"`
	Search           string `form:"search" validate:"max=100"`
	Type             string `form:"type" validate:"max=30"`
	Priority         string `form:"priority" validate:"max=30"`
	AssignedTo       string `form:"assignedTo" validate:"max=100"`
	CommunicationWay string `form:"communicationWay" validate:"max=50"`
	BudgetMin        string `form:"budgetMin" validate:"max=20"`
	BudgetMax        string `form:"budgetMax" validate:"max=20"`
	CreatedFrom      string `form:"createdFrom" validate:"max=30"`
	CreatedTo        string `form:"createdTo" validate:"max=30"`
	Status           string `form:"status" validate:"max=100"`
	Tab              string `form:"tab" validate:"max=100"`
}

// TransitionRequest asks for a lead status change.
type TransitionRequest struct {
	StatusID int64 `json:"statusId" validate:"required,gt=0"`
}

// Response DTOs

type PhoneResponse struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	Type      string `json:"type,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

type UserRefResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CampaignResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type LeadResponse struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Phones           []PhoneResponse   `json:"phones"`
	StatusID         *int64            `json:"statusId,omitempty"`
	StatusName       string            `json:"statusName,omitempty"`
	StatusColor      string            `json:"statusColor,omitempty"`
	Type             string            `json:"type"`
	Priority         string            `json:"priority,omitempty"`
	Budget           float64           `json:"budget"`
	AssignedTo       *UserRefResponse  `json:"assignedTo,omitempty"`
	Source           string            `json:"source"`
	Campaign         *CampaignResponse `json:"campaign,omitempty"`
	CommunicationWay string            `json:"communicationWay,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type LeadListResponse struct {
	Items          []LeadResponse `json:"items"`
	CountsByStatus map[string]int `json:"countsByStatus"`
	Total          int            `json:"total"`
	Skipped        int            `json:"skipped,omitempty"`
}

type StatusResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TimelineEntryResponse is one displayable unit of lead history.
type TimelineEntryResponse struct {
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	ActorName    string `json:"actorName,omitempty"`
	Summary      string `json:"summary"`
	Detail       string `json:"detail,omitempty"`
	ColorHint    string `json:"colorHint,omitempty"`
	StageLabel   string `json:"stageLabel,omitempty"`
	MethodLabel  string `json:"methodLabel,omitempty"`
	CallTime     int64  `json:"callTime,omitempty"`
	FollowUpTime int64  `json:"followUpTime,omitempty"`
	OldValue     string `json:"oldValue,omitempty"`
	NewValue     string `json:"newValue,omitempty"`
	PhoneTo      string `json:"phoneTo,omitempty"`
}

type TimelineResponse struct {
	Entries []TimelineEntryResponse `json:"entries"`
	Total   int                     `json:"total"`
}
