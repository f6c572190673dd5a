// README: Thread is the persisted unit of one planning conversation.
package thread

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/ai"
	"wayfarer/internal/modules/budget"
	"wayfarer/internal/modules/trip"
)

var (
	ErrNotFound  = errors.New("thread not found")
	ErrInvalidID = errors.New("invalid thread id")
)

// Flags records which workflow stages have run. Each one only ever goes from
// false to true.
type Flags struct {
	FlightSearched     bool `json:"flight_searched"`
	HotelSearched      bool `json:"hotel_searched"`
	ActivitiesSearched bool `json:"activities_searched"`
	DirectionsSearched bool `json:"directions_searched"`
}

type Thread struct {
	ID        string            `json:"id"`
	Trip      trip.Record       `json:"trip"`
	Flags     Flags             `json:"flags"`
	Budget    budget.Assessment `json:"budget"`
	Messages  []ai.Message      `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New creates an empty thread. An empty id gets a fresh UUID.
func New(id string, now time.Time) *Thread {
	if id == "" {
		id = uuid.NewString()
	}
	now = now.UTC()
	return &Thread{
		ID:        id,
		Messages:  []ai.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds messages to the end of the log.
func (t *Thread) Append(msgs ...ai.Message) {
	t.Messages = append(t.Messages, msgs...)
}

// Last returns the most recent message, if any.
func (t *Thread) Last() (ai.Message, bool) {
	if len(t.Messages) == 0 {
		return ai.Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// Store loads and saves thread state. Load returns ErrNotFound for unknown ids.
type Store interface {
	Load(ctx context.Context, id string) (*Thread, error)
	Save(ctx context.Context, t *Thread) error
}

func validID(id string) error {
	if id == "" || len(id) > 128 {
		return ErrInvalidID
	}
	return nil
}
