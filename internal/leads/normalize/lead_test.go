package normalize

import (
	"errors"
	"testing"

	"leaddesk_backend/internal/leads/domain"
)

func TestLead_AlternativeKeysAndDefaults(t *testing.T) {
	raw := Record{
		"lead_id":    "42",
		"lead_name":  "Dina Said",
		"budget":     "1500.50",
		"lead_type":  "fresh",
		"priority":   "high",
		"created_at": "2026-01-10T09:30:00Z",
		"assigned_to_name": "Omar",
		"assigned_to_id":   float64(7),
		"company_id":       float64(3),
	}

	lead, err := Lead(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ID != 42 {
		t.Fatalf("expected id 42 from lead_id key, got %d", lead.ID)
	}
	if lead.Name != "Dina Said" {
		t.Fatalf("expected name from lead_name key, got %q", lead.Name)
	}
	if lead.Budget != 1500.50 {
		t.Fatalf("expected coerced budget 1500.50, got %v", lead.Budget)
	}
	if lead.Type != domain.LeadTypeFresh {
		t.Fatalf("expected type fresh, got %q", lead.Type)
	}
	if lead.AssignedTo == nil || lead.AssignedTo.Name != "Omar" || lead.AssignedTo.ID != 7 {
		t.Fatalf("expected flat assignee fields resolved, got %+v", lead.AssignedTo)
	}
	if lead.CompanyID != 3 {
		t.Fatalf("expected company 3, got %d", lead.CompanyID)
	}
	if lead.Source != domain.SourceManual {
		t.Fatalf("expected default source manual, got %q", lead.Source)
	}
	if lead.Priority != domain.PriorityHigh {
		t.Fatalf("expected priority high, got %q", lead.Priority)
	}
}

func TestLead_NonNumericBudgetIsZero(t *testing.T) {
	lead, err := Lead(Record{"id": float64(1), "budget": "a lot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Budget != 0 {
		t.Fatalf("expected non-numeric budget to coerce to 0, got %v", lead.Budget)
	}
}

func TestLead_NameMarkupStripped(t *testing.T) {
	lead, err := Lead(Record{"id": float64(1), "name": "<b>Ahmed</b> &amp; Sons"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Name != "Ahmed & Sons" {
		t.Fatalf("expected markup stripped from name, got %q", lead.Name)
	}
}

func TestLead_MissingIDIsMalformed(t *testing.T) {
	cases := []Record{
		{"name": "no id"},
		{"id": "not-a-number"},
		{"id": nil},
	}
	for _, raw := range cases {
		if _, err := Lead(raw); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord for %v, got %v", raw, err)
		}
	}
}

func TestLead_NestedAssigneeAndCompany(t *testing.T) {
	raw := Record{
		"id": float64(5),
		"assigned_to": map[string]any{"id": float64(9), "name": "Sara"},
		"branch":      map[string]any{"company": float64(11)},
	}

	lead, err := Lead(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.AssignedTo == nil || lead.AssignedTo.ID != 9 || lead.AssignedTo.Name != "Sara" {
		t.Fatalf("expected nested assignee resolved, got %+v", lead.AssignedTo)
	}
	if lead.CompanyID != 11 {
		t.Fatalf("expected company resolved through branch, got %d", lead.CompanyID)
	}
}

func TestLead_PhoneCollectionKeepsSinglePrimary(t *testing.T) {
	raw := Record{
		"id": float64(1),
		"phones": []any{
			map[string]any{"id": float64(1), "phone": "0100", "is_primary": true},
			map[string]any{"id": float64(2), "number": "0111", "is_primary": true},
			map[string]any{"id": float64(3), "phone_number": "0122"},
		},
	}

	lead, err := Lead(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lead.Phones) != 3 {
		t.Fatalf("expected 3 phones, got %d", len(lead.Phones))
	}
	primaries := 0
	for _, p := range lead.Phones {
		if p.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary, got %d", primaries)
	}
	if lead.PrimaryPhone() != "0100" {
		t.Fatalf("expected first primary kept, got %q", lead.PrimaryPhone())
	}
	if lead.Phones[1].Number != "0111" || lead.Phones[2].Number != "0122" {
		t.Fatalf("expected alternative phone keys resolved, got %+v", lead.Phones)
	}
}

func TestLeadBatch_SkipsMalformedWithoutAborting(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "ok"},
		{"name": "broken"},
		{"id": float64(2), "name": "also ok"},
	}

	leads, skipped := LeadBatch(records)
	if skipped != 1 {
		t.Fatalf("expected 1 skipped record, got %d", skipped)
	}
	if len(leads) != 2 || leads[0].ID != 1 || leads[1].ID != 2 {
		t.Fatalf("expected surviving leads in input order, got %+v", leads)
	}
}

func TestStatusBatch(t *testing.T) {
	statuses := StatusBatch([]Record{
		{"id": float64(1), "name": "Touched", "color": "#0f0"},
		{"name": "no id"},
		{"id": float64(2), "name": "Archived", "is_hidden": true},
	})

	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[1].Name != "Archived" || !statuses[1].IsHidden {
		t.Fatalf("expected hidden flag preserved, got %+v", statuses[1])
	}
	if len(statuses.Visible()) != 1 {
		t.Fatalf("expected one visible status, got %d", len(statuses.Visible()))
	}
}

func TestMillis_AcceptsSecondsMillisAndRFC3339(t *testing.T) {
	cases := []struct {
		name string
		r    Record
		want int64
	}{
		{"millis", Record{"created_at": float64(1700000000000)}, 1700000000000},
		{"seconds", Record{"created_at": float64(1700000000)}, 1700000000000},
		{"rfc3339", Record{"created_at": "2023-11-14T22:13:20Z"}, 1700000000000},
		{"absent", Record{}, 0},
		{"garbage", Record{"created_at": "soon"}, 0},
	}
	for _, tc := range cases {
		if got := Millis(tc.r, "created_at"); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}
