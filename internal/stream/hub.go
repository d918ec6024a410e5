package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// Event mirrors the attribute set the core logs on every successful
// operation, broadcast to websocket subscribers for external indexing.
type Event struct {
	Type     string            `json:"type"`
	MarketID string            `json:"market_id"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Time     time.Time         `json:"time"`
}

const (
	EventMarketCreated   = "market_created"
	EventBetPlaced       = "bet_placed"
	EventMarketUpdated   = "market_updated"
	EventOddsUpdated     = "odds_updated"
	EventMarketScored    = "market_scored"
	EventMarketCancelled = "market_cancelled"
	EventWinningsClaimed = "winnings_claimed"
)

type Hub struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   map[chan Event]struct{}{},
		logger: logger,
	}
}

// Publish fans the event out without blocking: a subscriber that cannot keep
// up drops events rather than stalling settlement calls.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) subscribe() chan Event {
	ch := make(chan Event, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// Serve pumps events over an accepted websocket connection until the client
// goes away or ctx ends.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn) {
	if h == nil || conn == nil {
		return
	}
	ch := h.subscribe()
	defer h.unsubscribe(ch)

	// Discard inbound frames; the stream is one-way.
	readCtx := conn.CloseRead(ctx)

	for {
		select {
		case <-readCtx.Done():
			return
		case ev := <-ch:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			writeCtx, cancel := context.WithTimeout(readCtx, 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				if h.logger != nil {
					h.logger.Debug("stream write failed", zap.Error(err))
				}
				return
			}
		}
	}
}
