// Package store provides the persistence collaborator consumed by the
// realtime layer. The relay hands forwarded chat messages to a
// ChatArchive; delivery to peers never waits on it.
package store

import (
	"context"
	"sync"

	"github.com/teleclinic/rtc/internal/domain"
)

type ChatArchive interface {
	Save(ctx context.Context, msg domain.ChatMessage) error
	Close()
}

// NopArchive discards everything. Used when no database is configured.
type NopArchive struct{}

func (NopArchive) Save(ctx context.Context, msg domain.ChatMessage) error { return nil }
func (NopArchive) Close()                                                 {}

// MemoryArchive keeps messages in memory, for tests.
type MemoryArchive struct {
	mu   sync.Mutex
	msgs []domain.ChatMessage
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{}
}

func (a *MemoryArchive) Save(ctx context.Context, msg domain.ChatMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
	return nil
}

func (a *MemoryArchive) Close() {}

func (a *MemoryArchive) Messages() []domain.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ChatMessage, len(a.msgs))
	copy(out, a.msgs)
	return out
}
