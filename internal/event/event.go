package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserRegistered  Type = "user.registered"
	TypeUserUpdated     Type = "user.updated"
	TypeUserDeleted     Type = "user.deleted"
	TypeFavoriteAdded   Type = "favorite.added"
	TypeFavoriteRemoved Type = "favorite.removed"
)

type Event struct {
	ID        string            `json:"id"`
	Type      Type              `json:"type"`
	Username  string            `json:"username"`
	Payload   map[string]string `json:"payload,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func New(t Type, username string, payload map[string]string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Username:  username,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
