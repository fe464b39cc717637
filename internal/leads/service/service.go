// Package service orchestrates the lead view subsystem: it pulls raw records
// from the upstream source, normalizes them, runs the filter pipeline and
// timeline aggregation, and drives guarded status transitions.
package service

import (
	"context"
	"errors"
	"strconv"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/internal/leads/filter"
	"leaddesk_backend/internal/leads/normalize"
	"leaddesk_backend/internal/leads/ports"
	"leaddesk_backend/internal/leads/timeline"
	"leaddesk_backend/internal/leads/transition"
	"leaddesk_backend/internal/leads/transport"
	"leaddesk_backend/internal/upstream"
	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/logger"
	"leaddesk_backend/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

// ErrLeadNotFound is returned when the upstream does not know the lead id.
var ErrLeadNotFound = errors.New("lead not found")

// Service wires the pipeline components behind one API used by the handlers.
type Service struct {
	source     ports.LeadSource
	statuses   ports.StatusProvider
	translator ports.Translator
	aggregator *timeline.Aggregator
	manager    *transition.Manager
	log        *logger.Logger
}

// New creates the service.
func New(source ports.LeadSource, statuses ports.StatusProvider, translator ports.Translator, aggregator *timeline.Aggregator, manager *transition.Manager, log *logger.Logger) *Service {
	return &Service{
		source:     source,
		statuses:   statuses,
		translator: translator,
		aggregator: aggregator,
		manager:    manager,
		log:        log,
	}
}

// ListView fetches and normalizes the lead set, then computes the visible
// subset and per-status tab counts for the given criteria. currentUser is
// the caller's display name, matched by the assigned-to-me scope.
func (s *Service) ListView(ctx context.Context, req transport.ListLeadsRequest, currentUser string) (transport.LeadListResponse, error) {
	records, err := s.source.FetchLeads(ctx, map[string]string{"scope": req.Scope})
	if err != nil {
		return transport.LeadListResponse{}, s.upstreamError("list leads", err)
	}

	leads, skipped := normalize.LeadBatch(records)
	if skipped > 0 {
		s.log.SkippedRecords("lead", skipped)
	}

	statuses, err := s.statuses.Statuses(ctx)
	if err != nil {
		return transport.LeadListResponse{}, s.upstreamError("fetch statuses", err)
	}

	criteria := domain.FilterCriteria{
		PageScope:        domain.PageScope(req.Scope),
		Search:           req.Search,
		Type:             req.Type,
		Priority:         req.Priority,
		AssignedTo:       req.AssignedTo,
		CommunicationWay: req.CommunicationWay,
		BudgetMin:        req.BudgetMin,
		BudgetMax:        req.BudgetMax,
		CreatedFrom:      req.CreatedFrom,
		CreatedTo:        req.CreatedTo,
		Status:           req.Status,
		ActiveTab:        req.Tab,
	}

	result := filter.ComputeVisible(leads, criteria, statuses, currentUser)

	items := make([]transport.LeadResponse, len(result.Visible))
	for i, lead := range result.Visible {
		items[i] = toLeadResponse(lead, statuses)
	}

	return transport.LeadListResponse{
		Items:          items,
		CountsByStatus: result.CountsByStatus,
		Total:          len(items),
		Skipped:        skipped,
	}, nil
}

// Timeline fetches the four event streams for a lead concurrently and merges
// them into one descending-ordered feed.
func (s *Service) Timeline(ctx context.Context, leadID int64) (transport.TimelineResponse, error) {
	kinds := []ports.EventKind{
		ports.EventKindActions,
		ports.EventKindCalls,
		ports.EventKindAudit,
		ports.EventKindSMS,
	}
	// Each goroutine writes only its own slot.
	streams := make([][]normalize.Record, len(kinds))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		group.Go(func() error {
			records, err := s.source.FetchEvents(groupCtx, kind, leadID)
			if err != nil {
				return err
			}
			streams[i] = records
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return transport.TimelineResponse{}, s.upstreamError("fetch events", err)
	}

	entries := s.aggregator.Build(streams[0], streams[1], streams[2], streams[3])

	out := make([]transport.TimelineEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = toTimelineEntryResponse(entry)
	}
	return transport.TimelineResponse{Entries: out, Total: len(out)}, nil
}

// Statuses returns the transition menu: the configured statuses minus the
// hidden ones, in configuration order.
func (s *Service) Statuses(ctx context.Context) ([]transport.StatusResponse, error) {
	statuses, err := s.statuses.Statuses(ctx)
	if err != nil {
		return nil, s.upstreamError("fetch statuses", err)
	}

	visible := statuses.Visible()
	out := make([]transport.StatusResponse, len(visible))
	for i, status := range visible {
		out[i] = transport.StatusResponse{ID: status.ID, Name: status.Name, Color: status.Color}
	}
	return out, nil
}

// Transition applies a guarded status change to the lead and returns the
// server-confirmed record. On any failure the previously displayed status
// is left untouched and the error carries a display-ready message.
func (s *Service) Transition(ctx context.Context, leadID int64, req transport.TransitionRequest) (transport.LeadResponse, error) {
	lead, err := s.fetchLead(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	statuses, err := s.statuses.Statuses(ctx)
	if err != nil {
		return transport.LeadResponse{}, s.upstreamError("fetch statuses", err)
	}

	updated, err := s.manager.Request(ctx, lead, req.StatusID, statuses)
	if err != nil {
		s.log.TransitionEvent(leadID, req.StatusID, false, err.Error())
		return transport.LeadResponse{}, s.transitionError(err)
	}

	s.log.TransitionEvent(leadID, req.StatusID, true, "")
	return toLeadResponse(updated, statuses), nil
}

// fetchLead resolves a single lead through the collection endpoint.
func (s *Service) fetchLead(ctx context.Context, leadID int64) (domain.Lead, error) {
	records, err := s.source.FetchLeads(ctx, map[string]string{"id": strconv.FormatInt(leadID, 10)})
	if err != nil {
		return domain.Lead{}, s.upstreamError("fetch lead", err)
	}

	leads, _ := normalize.LeadBatch(records)
	for _, lead := range leads {
		if lead.ID == leadID {
			return lead, nil
		}
	}
	return domain.Lead{}, apperr.Wrap(apperr.KindNotFound, s.lookupOr("lead_not_found", "lead not found"), ErrLeadNotFound)
}

// transitionError maps transition failures onto typed errors with a
// display-ready message. An upstream error key is preferred over the raw
// transport message; raw messages are stripped of control and escape noise
// before display.
func (s *Service) transitionError(err error) error {
	switch {
	case errors.Is(err, transition.ErrTransitionInFlight):
		return apperr.Wrap(apperr.KindConflict, err.Error(), err)
	case errors.Is(err, transition.ErrUnknownStatus), errors.Is(err, transition.ErrMissingCompany):
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	default:
		return apperr.Wrap(apperr.KindBadRequest, s.displayMessage(err), err)
	}
}

// displayMessage picks the user-facing text for an upstream rejection.
func (s *Service) displayMessage(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorKey != "" {
			if text, ok := s.translator.Lookup(apiErr.ErrorKey); ok {
				return text
			}
		}
		return sanitize.ErrorMessage(apiErr.Message)
	}
	return s.lookupOr("update_failed", "the lead could not be updated")
}

func (s *Service) upstreamError(op string, err error) error {
	return apperr.Wrap(apperr.KindUnavailable, op+" failed", err)
}

func (s *Service) lookupOr(key, fallback string) string {
	if text, ok := s.translator.Lookup(key); ok {
		return text
	}
	return fallback
}

func toLeadResponse(lead domain.Lead, statuses domain.StatusSet) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:               lead.ID,
		Name:             lead.Name,
		Phones:           make([]transport.PhoneResponse, len(lead.Phones)),
		StatusID:         lead.StatusID,
		Type:             string(lead.Type),
		Priority:         string(lead.Priority),
		Budget:           lead.Budget,
		Source:           string(lead.Source),
		CommunicationWay: lead.CommunicationWay,
		CreatedAt:        lead.CreatedAt,
	}

	for i, p := range lead.Phones {
		resp.Phones[i] = transport.PhoneResponse{
			ID:        p.ID,
			Number:    p.Number,
			Type:      p.Type,
			IsPrimary: p.IsPrimary,
		}
	}

	if lead.StatusID != nil {
		if status, ok := statuses.ByID(*lead.StatusID); ok {
			resp.StatusName = status.Name
			resp.StatusColor = status.Color
		}
	}

	if lead.AssignedTo != nil {
		resp.AssignedTo = &transport.UserRefResponse{ID: lead.AssignedTo.ID, Name: lead.AssignedTo.Name}
	}
	if lead.Campaign != nil {
		resp.Campaign = &transport.CampaignResponse{ID: lead.Campaign.ID, Name: lead.Campaign.Name}
	}

	return resp
}

func toTimelineEntryResponse(entry domain.TimelineEntry) transport.TimelineEntryResponse {
	return transport.TimelineEntryResponse{
		Kind:         string(entry.Kind),
		ID:           entry.ID,
		Timestamp:    entry.Timestamp,
		ActorName:    entry.ActorName,
		Summary:      entry.Summary,
		Detail:       entry.Detail,
		ColorHint:    entry.ColorHint,
		StageLabel:   entry.StageLabel,
		MethodLabel:  entry.MethodLabel,
		CallTime:     entry.CallTime,
		FollowUpTime: entry.FollowUpTime,
		OldValue:     entry.OldValue,
		NewValue:     entry.NewValue,
		PhoneTo:      entry.PhoneTo,
	}
}
