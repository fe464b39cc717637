package filter

import (
	"reflect"
	"testing"
	"time"

	"leaddesk_backend/internal/leads/domain"
)

func statusID(id int64) *int64 { return &id }

var testStatuses = domain.StatusSet{
	{ID: 1, Name: "Untouched"},
	{ID: 2, Name: "Touched"},
	{ID: 3, Name: "Closed", IsHidden: true},
}

func sampleLeads() []domain.Lead {
	return []domain.Lead{
		{
			ID: 1, Name: "Ahmed Ali", Type: domain.LeadTypeFresh, Priority: domain.PriorityHigh,
			Budget: 500, StatusID: statusID(1),
			Phones:    []domain.PhoneNumber{{Number: "01001234567", IsPrimary: true}},
			CreatedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, Name: "Mona Hassan", Type: domain.LeadTypeCold, Priority: domain.PriorityLow,
			Budget: 2000, StatusID: statusID(2),
			AssignedTo: &domain.UserRef{ID: 7, Name: "Omar"},
			Phones:     []domain.PhoneNumber{{Number: "01119876543", IsPrimary: true}},
			CreatedAt:  time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			ID: 3, Name: "Khaled Samir", Type: domain.LeadTypeFresh, Priority: domain.PriorityMedium,
			Budget: 750, StatusID: statusID(2),
			AssignedTo: &domain.UserRef{ID: 8, Name: "Sara"},
			CreatedAt:  time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC),
		},
		{
			ID: 4, Name: "Laila Fouad", Type: domain.LeadTypeRotated, Priority: domain.PriorityHigh,
			Budget: 0, // status unresolved on purpose
			CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestComputeVisible_TypeScenario(t *testing.T) {
	lead := domain.Lead{ID: 1, Type: domain.LeadTypeFresh, Priority: domain.PriorityHigh, Budget: 500}
	leads := []domain.Lead{lead}

	got := ComputeVisible(leads, domain.FilterCriteria{Type: "fresh"}, nil, "")
	if len(got.Visible) != 1 || got.Visible[0].ID != 1 {
		t.Fatalf("expected fresh lead visible with type=fresh, got %+v", got.Visible)
	}

	got = ComputeVisible(leads, domain.FilterCriteria{Type: "cold"}, nil, "")
	if len(got.Visible) != 0 {
		t.Fatalf("expected fresh lead absent with type=cold, got %+v", got.Visible)
	}
}

func TestComputeVisible_SubsetOrderAndPurity(t *testing.T) {
	leads := sampleLeads()
	criteria := domain.FilterCriteria{Search: "a"}

	first := ComputeVisible(leads, criteria, testStatuses, "")
	second := ComputeVisible(leads, criteria, testStatuses, "")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input")
	}

	// Visible must be a subsequence of the input.
	idx := 0
	for _, lead := range first.Visible {
		found := false
		for ; idx < len(leads); idx++ {
			if leads[idx].ID == lead.ID {
				found = true
				idx++
				break
			}
		}
		if !found {
			t.Fatalf("visible set reordered or fabricated lead %d", lead.ID)
		}
	}
}

func TestComputeVisible_CountsSumConsistency(t *testing.T) {
	leads := sampleLeads()
	result := ComputeVisible(leads, domain.FilterCriteria{}, testStatuses, "")

	sum := 0
	for _, n := range result.CountsByStatus {
		sum += n
	}
	if sum != len(leads) {
		t.Fatalf("expected counts to sum to %d, got %d (%v)", len(leads), sum, result.CountsByStatus)
	}
	if result.CountsByStatus["Touched"] != 2 {
		t.Fatalf("expected 2 Touched leads, got %d", result.CountsByStatus["Touched"])
	}
	// Unresolved status counts under the empty key.
	if result.CountsByStatus[""] != 1 {
		t.Fatalf("expected 1 unresolved-status lead, got %d", result.CountsByStatus[""])
	}
}

func TestComputeVisible_CountsIgnoreTabSelection(t *testing.T) {
	leads := sampleLeads()

	untouchedTab := ComputeVisible(leads, domain.FilterCriteria{ActiveTab: "Untouched"}, testStatuses, "")
	touchedTab := ComputeVisible(leads, domain.FilterCriteria{ActiveTab: "Touched"}, testStatuses, "")

	if !reflect.DeepEqual(untouchedTab.CountsByStatus, touchedTab.CountsByStatus) {
		t.Fatalf("switching tabs changed counts: %v vs %v", untouchedTab.CountsByStatus, touchedTab.CountsByStatus)
	}
	if len(untouchedTab.Visible) != 1 || untouchedTab.Visible[0].ID != 1 {
		t.Fatalf("expected only the Untouched lead on its tab, got %+v", untouchedTab.Visible)
	}
}

func TestComputeVisible_ExplicitStatusBeatsTab(t *testing.T) {
	leads := sampleLeads()
	result := ComputeVisible(leads, domain.FilterCriteria{Status: "Touched", ActiveTab: "Untouched"}, testStatuses, "")

	if len(result.Visible) != 2 {
		t.Fatalf("expected explicit status filter to win over tab, got %+v", result.Visible)
	}
	for _, lead := range result.Visible {
		if lead.StatusID == nil || *lead.StatusID != 2 {
			t.Fatalf("expected only Touched leads, got lead %d", lead.ID)
		}
	}
}

func TestComputeVisible_Scopes(t *testing.T) {
	leads := sampleLeads()

	cases := []struct {
		scope domain.PageScope
		user  string
		want  []int64
	}{
		{domain.ScopeFresh, "", []int64{1, 3}},
		{domain.ScopeCold, "", []int64{2}},
		{domain.ScopeRotated, "", []int64{4}},
		{domain.ScopeMine, "Omar", []int64{2}},
		{domain.ScopeMine, "Nobody", nil},
	}
	for _, tc := range cases {
		result := ComputeVisible(leads, domain.FilterCriteria{PageScope: tc.scope}, testStatuses, tc.user)
		got := make([]int64, 0, len(result.Visible))
		for _, lead := range result.Visible {
			got = append(got, lead.ID)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("scope %q: expected %v, got %v", tc.scope, tc.want, got)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("scope %q: expected %v, got %v", tc.scope, tc.want, got)
			}
		}
	}
}

func TestComputeVisible_BudgetAndDateBounds(t *testing.T) {
	leads := sampleLeads()

	result := ComputeVisible(leads, domain.FilterCriteria{BudgetMin: "600", BudgetMax: "2000"}, testStatuses, "")
	if len(result.Visible) != 2 || result.Visible[0].ID != 2 || result.Visible[1].ID != 3 {
		t.Fatalf("expected budget range to keep leads 2 and 3, got %+v", result.Visible)
	}

	// The "to" date is inclusive through end of day.
	result = ComputeVisible(leads, domain.FilterCriteria{CreatedFrom: "2026-01-15", CreatedTo: "2026-01-15"}, testStatuses, "")
	if len(result.Visible) != 2 || result.Visible[0].ID != 2 || result.Visible[1].ID != 3 {
		t.Fatalf("expected both Jan-15 leads inside the inclusive bound, got %+v", result.Visible)
	}

	// Unparsable bounds are ignored, not rejected.
	result = ComputeVisible(leads, domain.FilterCriteria{BudgetMin: "cheap", CreatedTo: "someday"}, testStatuses, "")
	if len(result.Visible) != len(leads) {
		t.Fatalf("expected unparsable bounds ignored, got %d visible", len(result.Visible))
	}
}

func TestComputeVisible_SearchNameOrPhone(t *testing.T) {
	leads := sampleLeads()

	result := ComputeVisible(leads, domain.FilterCriteria{Search: "mona"}, testStatuses, "")
	if len(result.Visible) != 1 || result.Visible[0].ID != 2 {
		t.Fatalf("expected case-insensitive name match, got %+v", result.Visible)
	}

	result = ComputeVisible(leads, domain.FilterCriteria{Search: "0100"}, testStatuses, "")
	if len(result.Visible) != 1 || result.Visible[0].ID != 1 {
		t.Fatalf("expected phone substring match, got %+v", result.Visible)
	}
}

func TestComputeVisible_AllValueIsUnconstrained(t *testing.T) {
	leads := sampleLeads()
	result := ComputeVisible(leads, domain.FilterCriteria{Type: domain.AllValue, Priority: domain.AllValue, Status: domain.AllValue}, testStatuses, "")
	if len(result.Visible) != len(leads) {
		t.Fatalf("expected All to leave dimensions unconstrained, got %d visible", len(result.Visible))
	}
}
