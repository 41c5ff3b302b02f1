package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/dungeonforge/crawl-engine/pkg/game"
)

// Storage persists game sessions between tool calls.
type Storage interface {
	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error

	// Close releases the connection to the backing store.
	Close() error

	// SaveSession writes a session. Each write refreshes the TTL.
	SaveSession(ctx context.Context, s *game.Session) error

	// LoadSession reads a session by ID. Returns (nil, nil) when the
	// session does not exist or has expired.
	LoadSession(ctx context.Context, id uuid.UUID) (*game.Session, error)

	// DeleteSession removes a session. Deleting a missing session is not
	// an error.
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
