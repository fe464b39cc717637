package normalize

import (
	"errors"
	"fmt"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/platform/sanitize"
)

// ErrMalformedRecord marks a raw record that cannot be normalized at all.
// Only a missing or non-integer id triggers it; every optional field
// degrades to its zero value instead.
var ErrMalformedRecord = errors.New("malformed record")

// Lead maps a raw upstream lead record onto the canonical Lead. It is pure
// and never mutates the input.
func Lead(r Record) (domain.Lead, error) {
	id, ok := Int64(r, "id", "lead_id")
	if !ok {
		return domain.Lead{}, fmt.Errorf("%w: lead id missing or not an integer", ErrMalformedRecord)
	}

	lead := domain.Lead{
		ID:               id,
		Name:             sanitize.Text(Str(r, "name", "lead_name", "full_name")),
		Phones:           phones(r),
		Type:             leadType(Str(r, "lead_type", "type")),
		Priority:         priority(Str(r, "priority")),
		Budget:           Float(r, "budget"),
		Source:           leadSource(Str(r, "source_of_lead", "source")),
		CommunicationWay: Str(r, "communication_way", "communicationWay"),
		CreatedAt:        Time(r, "created_at", "createdAt", "creation_date"),
	}

	if statusID, ok := Int64(r, "status", "status_id"); ok {
		lead.StatusID = &statusID
	}

	if assignee, ok := Sub(r, "assigned_to", "assignedTo"); ok {
		userID, _ := Int64(assignee, "id", "user_id")
		lead.AssignedTo = &domain.UserRef{
			ID:   userID,
			Name: Str(assignee, "name", "username", "full_name"),
		}
	} else if name := Str(r, "assigned_to_name"); name != "" {
		userID, _ := Int64(r, "assigned_to_id")
		lead.AssignedTo = &domain.UserRef{ID: userID, Name: name}
	}

	if campaign, ok := Sub(r, "campaign", "compain"); ok {
		campaignID, _ := Int64(campaign, "id")
		lead.Campaign = &domain.CampaignRef{
			ID:   campaignID,
			Name: Str(campaign, "name", "campaign_name"),
		}
	}

	lead.CompanyID = CompanyID(r)

	return lead, nil
}

// LeadBatch normalizes a collection, skipping malformed records so one bad
// row never aborts the batch. It reports how many records were skipped.
func LeadBatch(records []Record) ([]domain.Lead, int) {
	leads := make([]domain.Lead, 0, len(records))
	skipped := 0
	for _, r := range records {
		lead, err := Lead(r)
		if err != nil {
			skipped++
			continue
		}
		leads = append(leads, lead)
	}
	return leads, skipped
}

// CompanyID resolves the owning company from a raw lead record: a flat
// company reference first, then the branch relation the upstream nests it
// under on detail endpoints. Zero means unresolvable.
func CompanyID(r Record) int64 {
	if id, ok := Int64(r, "company", "company_id"); ok {
		return id
	}
	if branch, ok := Sub(r, "branch"); ok {
		if id, ok := Int64(branch, "company", "company_id"); ok {
			return id
		}
	}
	return 0
}

func phones(r Record) []domain.PhoneNumber {
	raw := List(r, "phones", "phone_numbers")
	if len(raw) == 0 {
		// Single-phone records from the webhook ingestion path.
		if number := Str(r, "phone", "phone_number"); number != "" {
			return []domain.PhoneNumber{{Number: number, IsPrimary: true}}
		}
		return nil
	}

	out := make([]domain.PhoneNumber, 0, len(raw))
	primarySeen := false
	for _, p := range raw {
		phoneID, _ := Int64(p, "id")
		entry := domain.PhoneNumber{
			ID:        phoneID,
			Number:    Str(p, "phone", "number", "phone_number"),
			Type:      Str(p, "phone_type", "type"),
			IsPrimary: Bool(p, "is_primary", "isPrimary"),
		}
		// The invariant allows at most one primary; keep the first.
		if entry.IsPrimary {
			if primarySeen {
				entry.IsPrimary = false
			}
			primarySeen = true
		}
		out = append(out, entry)
	}
	return out
}

func leadType(raw string) domain.LeadType {
	switch domain.LeadType(raw) {
	case domain.LeadTypeFresh, domain.LeadTypeCold, domain.LeadTypeRotated:
		return domain.LeadType(raw)
	case "":
		return domain.LeadTypeOther
	default:
		return domain.LeadTypeOther
	}
}

func priority(raw string) domain.Priority {
	switch domain.Priority(raw) {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
		return domain.Priority(raw)
	default:
		return domain.PriorityUnset
	}
}

func leadSource(raw string) domain.LeadSource {
	switch domain.LeadSource(raw) {
	case domain.SourceMetaLeadForm, domain.SourceWhatsApp, domain.SourceTikTok:
		return domain.LeadSource(raw)
	default:
		return domain.SourceManual
	}
}

// Status maps a raw status record. Statuses are configuration owned by the
// upstream; records missing an id are dropped by StatusBatch.
func Status(r Record) (domain.Status, error) {
	id, ok := Int64(r, "id", "status_id")
	if !ok {
		return domain.Status{}, fmt.Errorf("%w: status id missing", ErrMalformedRecord)
	}
	return domain.Status{
		ID:       id,
		Name:     Str(r, "name", "status_name"),
		Color:    Str(r, "color", "colour"),
		IsHidden: Bool(r, "is_hidden", "hidden"),
	}, nil
}

// StatusBatch normalizes the configured status set, skipping malformed rows.
func StatusBatch(records []Record) domain.StatusSet {
	out := make(domain.StatusSet, 0, len(records))
	for _, r := range records {
		status, err := Status(r)
		if err != nil {
			continue
		}
		out = append(out, status)
	}
	return out
}
