// Package upstream provides the HTTP client for the external CRM data
// source. It implements the lead source and lead updater ports; raw records
// are passed through undecoded beyond JSON so the normalizer owns all shape
// tolerance.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"leaddesk_backend/internal/leads/normalize"
	"leaddesk_backend/internal/leads/ports"
	"leaddesk_backend/platform/config"
	"leaddesk_backend/platform/logger"
)

const (
	leadsPath    = "/api/leads/"
	statusesPath = "/api/statuses/"
)

// eventPaths maps each event stream to its upstream collection endpoint.
var eventPaths = map[ports.EventKind]string{
	ports.EventKindActions: "/api/lead-actions/",
	ports.EventKindCalls:   "/api/calls/",
	ports.EventKindAudit:   "/api/lead-events/",
	ports.EventKindSMS:     "/api/sms/",
}

// APIError is a failure reported by the upstream service. ErrorKey is the
// optional machine-readable key the service attaches to validation errors;
// display code prefers it over the raw message.
type APIError struct {
	StatusCode int
	ErrorKey   string
	Message    string
}

func (e *APIError) Error() string {
	if e.ErrorKey != "" {
		return fmt.Sprintf("upstream error %d (%s): %s", e.StatusCode, e.ErrorKey, e.Message)
	}
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the upstream CRM API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates an upstream client from configuration.
func New(cfg config.UpstreamConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.GetUpstreamBaseURL(),
		token:      cfg.GetUpstreamAPIToken(),
		httpClient: &http.Client{Timeout: cfg.GetUpstreamTimeout()},
		log:        log,
	}
}

// FetchLeads retrieves the raw lead collection. filters are forwarded as
// query parameters untouched; server-side narrowing is an upstream concern
// and the view pipeline refilters locally anyway.
func (c *Client) FetchLeads(ctx context.Context, filters map[string]string) ([]normalize.Record, error) {
	query := url.Values{}
	for k, v := range filters {
		if v != "" {
			query.Set(k, v)
		}
	}
	return c.getRecords(ctx, leadsPath, query)
}

// FetchStatuses retrieves the configured status set.
func (c *Client) FetchStatuses(ctx context.Context) ([]normalize.Record, error) {
	return c.getRecords(ctx, statusesPath, nil)
}

// FetchEvents retrieves one of the four raw event streams for a lead.
func (c *Client) FetchEvents(ctx context.Context, kind ports.EventKind, leadID int64) ([]normalize.Record, error) {
	path, ok := eventPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	query := url.Values{}
	if leadID != 0 {
		query.Set("lead", strconv.FormatInt(leadID, 10))
	}
	return c.getRecords(ctx, path, query)
}

// UpdateLead applies a mutation to a lead and returns the server-confirmed
// raw record.
func (c *Client) UpdateLead(ctx context.Context, id int64, payload ports.UpdateLeadPayload) (normalize.Record, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s%s%d/", c.baseURL, leadsPath, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("update_lead", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		c.log.UpstreamError("update_lead", apiErr)
		return nil, apiErr
	}

	var record normalize.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode update response: %w", err)
	}
	return record, nil
}

func (c *Client) getRecords(ctx context.Context, path string, query url.Values) ([]normalize.Record, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("fetch "+path, err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		c.log.UpstreamError("fetch "+path, apiErr)
		return nil, apiErr
	}

	return decodeRecords(raw)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// decodeRecords tolerates both envelope shapes the upstream serves: a bare
// array and a paginated {"results": [...]} wrapper.
func decodeRecords(raw []byte) ([]normalize.Record, error) {
	var list []normalize.Record
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope struct {
		Results []normalize.Record `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode collection response: %w", err)
	}
	return envelope.Results, nil
}

// decodeAPIError extracts the optional error key and message from a failure
// body. Non-JSON bodies become the raw message.
func decodeAPIError(statusCode int, raw []byte) *APIError {
	var body struct {
		ErrorKey  string `json:"error_key"`
		ErrorKey2 string `json:"errorKey"`
		Message   string `json:"message"`
		Detail    string `json:"detail"`
		ErrorMsg  string `json:"error"`
	}

	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.ErrorKey = body.ErrorKey
		if apiErr.ErrorKey == "" {
			apiErr.ErrorKey = body.ErrorKey2
		}
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Detail != "":
			apiErr.Message = body.Detail
		case body.ErrorMsg != "":
			apiErr.Message = body.ErrorMsg
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = string(raw)
	}
	return apiErr
}
