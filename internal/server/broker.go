package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/varsonalia/internal/game"
)

const (
	EventStateUpdated = "state_updated"
	EventGameReset    = "game_reset"
)

// Event is published after every successful change to the game state.
// TeamID is zero when the change is not limited to one team.
type Event struct {
	Type   string      `json:"type"`
	TeamID game.TeamID `json:"teamId,omitempty"`
	Team   *game.Team  `json:"team,omitempty"`
}

// Broker is an in-process pub/sub for live game updates.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to all subscribers.
func (b *Broker) Publish(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
