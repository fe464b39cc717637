// Package timeline merges the four per-lead event streams (stage actions,
// call logs, status/assignment audit events, outbound messages) into one
// chronologically ordered activity feed.
package timeline

import (
	"fmt"
	"sort"
	"strings"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/internal/leads/normalize"
	"leaddesk_backend/internal/leads/ports"
	"leaddesk_backend/platform/sanitize"
)

// Translation keys with their literal fallbacks.
const (
	keyUnassigned   = "unassigned"
	keyTo           = "to"
	keyAssignedTo   = "assigned_to"
	keyBulkAssigned = "bulk_assigned_to"
	keyCallDefault  = "call_method_default"

	fallbackUnassigned   = "Unassigned"
	fallbackTo           = "to"
	fallbackAssignedTo   = "Assigned to"
	fallbackBulkAssigned = "Bulk assigned to"
	fallbackCallDefault  = "Call"
)

// bulkMarker flags bulk assignments inside the audit note free text.
const bulkMarker = "bulk"

// Aggregator formats raw event records into timeline entries. It holds the
// configured call-method names by id and the translator used for stage
// labels and phrasing tokens.
type Aggregator struct {
	translator  ports.Translator
	callMethods map[int64]string
}

// New creates an aggregator. callMethods may be nil when no method
// configuration is available; records then fall back to their embedded label.
func New(translator ports.Translator, callMethods map[int64]string) *Aggregator {
	return &Aggregator{translator: translator, callMethods: callMethods}
}

// Build normalizes every record of the four source collections and merges
// them into one sequence sorted by timestamp descending. The sort is stable,
// so simultaneous events keep their concatenation order. The result is
// recomputed from scratch on every call; records without a usable id are
// skipped rather than aborting the batch.
func (a *Aggregator) Build(actions, calls, statusEvents, smsMessages []normalize.Record) []domain.TimelineEntry {
	entries := make([]domain.TimelineEntry, 0, len(actions)+len(calls)+len(statusEvents)+len(smsMessages))

	for _, r := range actions {
		if entry, ok := a.action(r); ok {
			entries = append(entries, entry)
		}
	}
	for _, r := range calls {
		if entry, ok := a.call(r); ok {
			entries = append(entries, entry)
		}
	}
	for _, r := range statusEvents {
		if entry, ok := a.statusEvent(r); ok {
			entries = append(entries, entry)
		}
	}
	for _, r := range smsMessages {
		if entry, ok := a.sms(r); ok {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries
}

// action formats a stage-change action. The stage label resolves through the
// translator and falls back to the raw label when no mapping exists.
func (a *Aggregator) action(r normalize.Record) (domain.TimelineEntry, bool) {
	id, ok := normalize.Int64(r, "id", "action_id")
	if !ok {
		return domain.TimelineEntry{}, false
	}

	rawLabel := normalize.Str(r, "stage_name", "stage", "label")
	label := a.lookupOr(rawLabel, rawLabel)

	return domain.TimelineEntry{
		Kind:       domain.EntryKindAction,
		ID:         fmt.Sprintf("action-%d", id),
		Timestamp:  normalize.Millis(r, "created_at", "timestamp"),
		ActorName:  actorName(r),
		Summary:    label,
		Detail:     sanitize.Text(normalize.Str(r, "note", "notes")),
		ColorHint:  normalize.Str(r, "color"),
		StageLabel: label,
	}, true
}

// call formats a call log entry. The primary timestamp is the recorded call
// time when present, otherwise the record's creation time. The method name
// resolves by id against the configured set, then the record's own embedded
// label, then a generic default.
func (a *Aggregator) call(r normalize.Record) (domain.TimelineEntry, bool) {
	id, ok := normalize.Int64(r, "id", "call_id")
	if !ok {
		return domain.TimelineEntry{}, false
	}

	callTime := normalize.Millis(r, "call_time", "time_of_call")
	timestamp := callTime
	if timestamp == 0 {
		timestamp = normalize.Millis(r, "created_at", "timestamp")
	}

	method := ""
	if methodID, ok := normalize.Int64(r, "call_method", "method_id"); ok {
		method = a.callMethods[methodID]
	}
	if method == "" {
		method = normalize.Str(r, "call_method_name", "method_name")
	}
	if method == "" {
		method = a.lookupOr(keyCallDefault, fallbackCallDefault)
	}

	return domain.TimelineEntry{
		Kind:         domain.EntryKindCall,
		ID:           fmt.Sprintf("call-%d", id),
		Timestamp:    timestamp,
		ActorName:    actorName(r),
		Summary:      method,
		Detail:       sanitize.Text(normalize.Str(r, "note", "notes", "summary")),
		MethodLabel:  method,
		CallTime:     callTime,
		FollowUpTime: normalize.Millis(r, "follow_up_time", "followup_at"),
	}, true
}

// statusEvent formats one audit event. The event_type discriminates the
// phrasing; unknown kinds pass their raw kind and note through unmodified.
func (a *Aggregator) statusEvent(r normalize.Record) (domain.TimelineEntry, bool) {
	id, ok := normalize.Int64(r, "id", "event_id")
	if !ok {
		return domain.TimelineEntry{}, false
	}

	eventType := normalize.Str(r, "event_type", "type")
	oldValue := normalize.Str(r, "old_value", "from")
	newValue := normalize.Str(r, "new_value", "to")
	note := sanitize.Text(normalize.Str(r, "note", "notes", "description"))

	entry := domain.TimelineEntry{
		Kind:      domain.EntryKindStatusEvent,
		ID:        fmt.Sprintf("status-%d", id),
		Timestamp: normalize.Millis(r, "created_at", "timestamp"),
		ActorName: actorName(r),
		Summary:   eventType,
		OldValue:  oldValue,
		NewValue:  newValue,
	}

	switch eventType {
	case "status_change":
		entry.Detail = fmt.Sprintf("%s %s %s",
			a.displayValue(oldValue),
			a.lookupOr(keyTo, fallbackTo),
			a.displayValue(newValue),
		)
	case "assignment":
		entry.Detail = a.assignmentDetail(oldValue, newValue, note)
	case "edit":
		entry.Detail = note
	default:
		entry.Detail = note
	}

	return entry, true
}

// assignmentDetail distinguishes bulk assignment (marker substring in the
// note) from a single reassignment, and names the previous assignee only
// when it actually changed.
func (a *Aggregator) assignmentDetail(oldValue, newValue, note string) string {
	if strings.Contains(strings.ToLower(note), bulkMarker) {
		return fmt.Sprintf("%s %s", a.lookupOr(keyBulkAssigned, fallbackBulkAssigned), a.displayValue(newValue))
	}
	if oldValue != "" && oldValue != newValue {
		return fmt.Sprintf("%s %s %s",
			a.displayValue(oldValue),
			a.lookupOr(keyTo, fallbackTo),
			a.displayValue(newValue),
		)
	}
	return fmt.Sprintf("%s %s", a.lookupOr(keyAssignedTo, fallbackAssignedTo), a.displayValue(newValue))
}

// sms formats an outbound message: the detail is the message body and the
// destination number rides along as a secondary label.
func (a *Aggregator) sms(r normalize.Record) (domain.TimelineEntry, bool) {
	id, ok := normalize.Int64(r, "id", "sms_id", "message_id")
	if !ok {
		return domain.TimelineEntry{}, false
	}

	return domain.TimelineEntry{
		Kind:      domain.EntryKindSMS,
		ID:        fmt.Sprintf("sms-%d", id),
		Timestamp: normalize.Millis(r, "created_at", "sent_at", "timestamp"),
		ActorName: actorName(r),
		Summary:   a.lookupOr("sms", "SMS"),
		Detail:    sanitize.Text(normalize.Str(r, "body", "message", "text")),
		PhoneTo:   normalize.Str(r, "phone", "to_phone", "destination"),
	}, true
}

// displayValue renders one side of a from/to pair, with unresolved or empty
// values shown as the configured Unassigned marker.
func (a *Aggregator) displayValue(value string) string {
	if strings.TrimSpace(value) == "" || value == "null" {
		return a.lookupOr(keyUnassigned, fallbackUnassigned)
	}
	return value
}

func (a *Aggregator) lookupOr(key, fallback string) string {
	if a.translator != nil {
		if text, ok := a.translator.Lookup(key); ok {
			return text
		}
	}
	return fallback
}

func actorName(r normalize.Record) string {
	if user, ok := normalize.Sub(r, "user", "created_by", "actor"); ok {
		if name := normalize.Str(user, "name", "username", "full_name"); name != "" {
			return name
		}
	}
	return normalize.Str(r, "user_name", "created_by_name", "actor_name")
}
