// Package filter implements the layered lead visibility pipeline: page
// scope, field filters, free-text search, and the status dimension, in that
// fixed order. The pipeline is referentially pure; identical inputs always
// yield the identical visible sequence, in input order.
package filter

import (
	"strconv"
	"strings"
	"time"

	"leaddesk_backend/internal/leads/domain"
)

// Result holds the visible subset plus per-status tab counts. Counts are
// computed before the status dimension is applied, so switching tabs never
// changes the other tabs' counts within the same filter state. Leads whose
// status cannot be resolved against the configured set are counted under the
// empty key.
type Result struct {
	Visible        []domain.Lead
	CountsByStatus map[string]int
}

// ComputeVisible narrows leads through the four stages. currentUser is the
// display name matched by the assigned-to-me page scope. Unparsable numeric
// bounds and dates are treated as absent.
func ComputeVisible(leads []domain.Lead, c domain.FilterCriteria, statuses domain.StatusSet, currentUser string) Result {
	scoped := applyScope(leads, c.PageScope, currentUser)
	fielded := applyFieldFilters(scoped, c)
	searched := applySearch(fielded, c.Search)

	counts := make(map[string]int, len(statuses))
	for _, lead := range searched {
		counts[statusName(lead, statuses)]++
	}

	// Explicit status filter takes priority over the active tab selection.
	wanted := ""
	switch {
	case c.HasStatus():
		wanted = c.Status
	case c.HasActiveTab():
		wanted = c.ActiveTab
	default:
		return Result{Visible: searched, CountsByStatus: counts}
	}

	visible := make([]domain.Lead, 0, len(searched))
	for _, lead := range searched {
		if statusName(lead, statuses) == wanted {
			visible = append(visible, lead)
		}
	}
	return Result{Visible: visible, CountsByStatus: counts}
}

func applyScope(leads []domain.Lead, scope domain.PageScope, currentUser string) []domain.Lead {
	if scope == domain.ScopeNone {
		return append([]domain.Lead(nil), leads...)
	}

	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		switch scope {
		case domain.ScopeFresh:
			if lead.Type == domain.LeadTypeFresh {
				out = append(out, lead)
			}
		case domain.ScopeCold:
			if lead.Type == domain.LeadTypeCold {
				out = append(out, lead)
			}
		case domain.ScopeRotated:
			if lead.Type == domain.LeadTypeRotated {
				out = append(out, lead)
			}
		case domain.ScopeMine:
			if lead.AssignedTo != nil && lead.AssignedTo.Name == currentUser {
				out = append(out, lead)
			}
		}
	}
	return out
}

func applyFieldFilters(leads []domain.Lead, c domain.FilterCriteria) []domain.Lead {
	budgetMin, hasMin := parseBound(c.BudgetMin)
	budgetMax, hasMax := parseBound(c.BudgetMax)
	createdFrom, hasFrom := parseDate(c.CreatedFrom)
	createdTo, hasTo := parseDate(c.CreatedTo)
	if hasTo {
		createdTo = endOfDay(createdTo)
	}

	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if c.HasType() && string(lead.Type) != c.Type {
			continue
		}
		if c.HasPriority() && string(lead.Priority) != c.Priority {
			continue
		}
		if c.HasAssignedTo() {
			if lead.AssignedTo == nil || lead.AssignedTo.Name != c.AssignedTo {
				continue
			}
		}
		if c.HasCommunicationWay() && lead.CommunicationWay != c.CommunicationWay {
			continue
		}
		if hasMin && lead.Budget < budgetMin {
			continue
		}
		if hasMax && lead.Budget > budgetMax {
			continue
		}
		if hasFrom && lead.CreatedAt.Before(createdFrom) {
			continue
		}
		if hasTo && lead.CreatedAt.After(createdTo) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func applySearch(leads []domain.Lead, search string) []domain.Lead {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return leads
	}

	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if strings.Contains(strings.ToLower(lead.Name), term) || phoneMatches(lead, term) {
			out = append(out, lead)
		}
	}
	return out
}

func phoneMatches(lead domain.Lead, term string) bool {
	for _, p := range lead.Phones {
		if strings.Contains(strings.ToLower(p.Number), term) {
			return true
		}
	}
	return false
}

func statusName(lead domain.Lead, statuses domain.StatusSet) string {
	if lead.StatusID == nil {
		return ""
	}
	if status, ok := statuses.ByID(*lead.StatusID); ok {
		return status.Name
	}
	return ""
}

func parseBound(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == domain.AllValue {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// endOfDay extends the inclusive "to" bound through 23:59:59.999 of that day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, t.Location())
}
