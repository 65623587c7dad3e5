package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache handles Redis operations for transient conversation state:
// duplicate-delivery markers for transport events and the id of the last
// prompt sent to a respondent. Losing either is harmless; the durable
// profile carries everything correctness depends on.
type SessionCache interface {
	// MarkEvent records an event id and reports whether it was seen for
	// the first time.
	MarkEvent(ctx context.Context, eventID string) (bool, error)
	// ClearEvent drops the marker so a failed event can be redelivered.
	ClearEvent(ctx context.Context, eventID string) error

	SetLastPrompt(ctx context.Context, respondentID, promptID string) error
	GetLastPrompt(ctx context.Context, respondentID string) (string, error)
	ClearLastPrompt(ctx context.Context, respondentID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// Key helpers
func (c *sessionCache) eventKey(eventID string) string {
	return fmt.Sprintf("event:%s", eventID)
}

func (c *sessionCache) promptKey(respondentID string) string {
	return fmt.Sprintf("resp:%s:lastPrompt", respondentID)
}

func (c *sessionCache) MarkEvent(ctx context.Context, eventID string) (bool, error) {
	return c.client.SetNX(ctx, c.eventKey(eventID), 1, c.ttl).Result()
}

func (c *sessionCache) ClearEvent(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, c.eventKey(eventID)).Err()
}

func (c *sessionCache) SetLastPrompt(ctx context.Context, respondentID, promptID string) error {
	return c.client.Set(ctx, c.promptKey(respondentID), promptID, c.ttl).Err()
}

func (c *sessionCache) GetLastPrompt(ctx context.Context, respondentID string) (string, error) {
	val, err := c.client.Get(ctx, c.promptKey(respondentID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *sessionCache) ClearLastPrompt(ctx context.Context, respondentID string) error {
	return c.client.Del(ctx, c.promptKey(respondentID)).Err()
}
