package event

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus_FanOut(t *testing.T) {
	bus := NewBus()
	first, unsubFirst := bus.Subscribe()
	second, unsubSecond := bus.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	bus.Publish(New(TypeUserRegistered, "alice12", nil))

	for _, ch := range []<-chan Event{first, second} {
		select {
		case e := <-ch:
			assert.Equal(t, TypeUserRegistered, e.Type)
			assert.Equal(t, "alice12", e.Username)
			assert.NotEmpty(t, e.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestInMemoryBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	_, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(New(TypeFavoriteAdded, "alice12", nil))
	}
	assert.Equal(t, int64(5), bus.Dropped())
}

func TestInMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	bus.Publish(New(TypeUserDeleted, "alice12", nil))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestAuditLogger_Run(t *testing.T) {
	var out syncBuffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	bus := NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	audit := NewAuditLogger(logger)
	go func() {
		audit.Run(ctx, bus)
		close(done)
	}()

	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	bus.Publish(New(TypeFavoriteAdded, "alice12", map[string]string{"movie_id": "tt1375666"}))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "favorite.added")
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "movie_id=tt1375666")
	assert.Contains(t, out.String(), "component=audit")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("audit logger did not stop")
	}
}
