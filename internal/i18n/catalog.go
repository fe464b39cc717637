// Package i18n provides the message catalog consumed as a pure
// lookup(key) -> text service. Rendering and locale negotiation are owned by
// the frontend; this catalog only resolves the keys the lead subsystem
// needs for synthesized copy and error display.
package i18n

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// defaultMessages seeds the catalog. Deployments can override any entry via
// the redis hash without a redeploy.
var defaultMessages = map[string]string{
	"unassigned":          "Unassigned",
	"to":                  "to",
	"assigned_to":         "Assigned to",
	"bulk_assigned_to":    "Bulk assigned to",
	"sms":                 "SMS",
	"call_method_default": "Call",
	"lead_locked":         "This lead is being edited by someone else. Try again shortly.",
	"lead_not_found":      "Lead not found.",
	"update_failed":       "The lead could not be updated.",
}

// Catalog is a concurrency-safe key-to-text map. Lookup returns ok=false for
// unmapped keys so callers can fall back to a literal.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]string
}

// NewCatalog creates a catalog seeded with the built-in defaults.
func NewCatalog() *Catalog {
	messages := make(map[string]string, len(defaultMessages))
	for k, v := range defaultMessages {
		messages[k] = v
	}
	return &Catalog{messages: messages}
}

// Lookup resolves key to its text. The boolean is false when no mapping
// exists.
func (c *Catalog) Lookup(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.messages[key]
	return text, ok
}

// Set adds or replaces one mapping. Used by tests and by catalog warming.
func (c *Catalog) Set(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages[key] = text
}

// WarmFromRedis merges overrides from the given redis hash into the catalog.
// A missing hash or redis failure leaves the defaults in place.
func (c *Catalog) WarmFromRedis(ctx context.Context, client *redis.Client, hashKey string) error {
	overrides, err := client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range overrides {
		if v != "" {
			c.messages[k] = v
		}
	}
	return nil
}
