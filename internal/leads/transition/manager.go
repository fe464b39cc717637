// Package transition drives the guarded status-update workflow for leads.
// At most one transition may be in flight per lead id; transitions for
// different leads are independent and may overlap.
package transition

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/internal/leads/normalize"
	"leaddesk_backend/internal/leads/ports"
)

var (
	// ErrUnknownStatus means the target status id is not part of the
	// configured status set.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrMissingCompany means the lead's owning company could not be
	// resolved. This is a data-integrity precondition, not recoverable
	// by retry.
	ErrMissingCompany = errors.New("lead has no resolvable company")
	// ErrTransitionFailed wraps an upstream rejection of the update. The
	// lead's previously displayed status stays untouched.
	ErrTransitionFailed = errors.New("status transition failed")
	// ErrTransitionInFlight means a transition for this lead is already
	// running. Callers must wait for it to resolve; requests are never
	// queued or processed concurrently.
	ErrTransitionInFlight = errors.New("a transition for this lead is already in flight")
)

// Manager serializes status transitions per lead. The guard is a plain
// lead-id set behind one mutex; no other shared mutable state exists, so no
// broader locking is needed.
type Manager struct {
	updater ports.LeadUpdater

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// New creates a Manager on top of the external mutation service.
func New(updater ports.LeadUpdater) *Manager {
	return &Manager{
		updater:  updater,
		inFlight: make(map[int64]struct{}),
	}
}

// InFlight reports whether a transition for the lead is currently running.
func (m *Manager) InFlight(leadID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, running := m.inFlight[leadID]
	return running
}

// Request validates and applies a status transition for the lead.
//
// It acquires the lead's guard, resolves the target status against the known
// set, resolves the owning company, then sends an update payload that keeps
// every other mutable field unchanged. The phone collection is included only
// when non-empty; an omitted collection signals "no change" to the upstream,
// not "clear". On success the server-confirmed lead is returned; on failure
// the error wraps the cause and no state is mutated. There is no automatic
// retry and no way to cancel an in-flight request.
func (m *Manager) Request(ctx context.Context, lead domain.Lead, targetStatusID int64, statuses domain.StatusSet) (domain.Lead, error) {
	if !m.acquire(lead.ID) {
		return domain.Lead{}, ErrTransitionInFlight
	}
	defer m.release(lead.ID)

	if _, ok := statuses.ByID(targetStatusID); !ok {
		return domain.Lead{}, fmt.Errorf("%w: id %d", ErrUnknownStatus, targetStatusID)
	}

	if lead.CompanyID == 0 {
		return domain.Lead{}, ErrMissingCompany
	}

	raw, err := m.updater.UpdateLead(ctx, lead.ID, buildPayload(lead, targetStatusID))
	if err != nil {
		return domain.Lead{}, fmt.Errorf("%w: %w", ErrTransitionFailed, err)
	}

	updated, err := normalize.Lead(raw)
	if err != nil {
		// The mutation succeeded but the confirmation record is unusable.
		// Fall back to the local lead with the new status applied so the
		// caller still observes the confirmed state.
		updated = lead
		updated.StatusID = &targetStatusID
	}
	return updated, nil
}

// buildPayload preserves every mutable field of the lead and swaps in the
// new status plus the resolved company.
func buildPayload(lead domain.Lead, targetStatusID int64) ports.UpdateLeadPayload {
	payload := ports.UpdateLeadPayload{
		Name:             lead.Name,
		Budget:           lead.Budget,
		Type:             string(lead.Type),
		CommunicationWay: lead.CommunicationWay,
		Priority:         string(lead.Priority),
		Status:           targetStatusID,
		Company:          lead.CompanyID,
	}

	if lead.AssignedTo != nil {
		assignee := lead.AssignedTo.ID
		payload.AssignedTo = &assignee
	}

	if len(lead.Phones) > 0 {
		payload.Phones = make([]ports.PhonePayload, len(lead.Phones))
		for i, p := range lead.Phones {
			payload.Phones[i] = ports.PhonePayload{
				ID:        p.ID,
				Number:    p.Number,
				Type:      p.Type,
				IsPrimary: p.IsPrimary,
			}
		}
	}

	return payload
}

func (m *Manager) acquire(leadID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.inFlight[leadID]; running {
		return false
	}
	m.inFlight[leadID] = struct{}{}
	return true
}

func (m *Manager) release(leadID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, leadID)
}
