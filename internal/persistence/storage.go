package persistence

import (
	"context"

	"valeod/internal/models"
)

// Storage is the single durable-state capability: load and replace the full
// chat-mapping set. LoadAll fails soft; a missing or unreadable source
// yields an empty set and a log line, never an error the caller must handle.
// SaveAll has full-replace semantics: a chat absent from the given set is
// deleted from durable state.
type Storage interface {
	LoadAll(ctx context.Context) map[string]*models.ChatMapping
	SaveAll(ctx context.Context, mappings map[string]*models.ChatMapping) error
	Backend() string
}
