package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisChannel carries session events between processes.
const RedisChannel = "journey:session"

type EventType string

const (
	EventSignedIn    EventType = "signed_in"
	EventInvalidated EventType = "invalidated"
)

// Event is delivered to every subscriber of a Hub.
type Event struct {
	Type EventType `json:"type"`
	// Origin identifies the hub that published the event.
	Origin string `json:"origin"`
}

// Hub fans session events out to in-process subscribers and, when a Redis
// client is given, to other processes sharing the same Redis.
type Hub struct {
	id     string
	redis  *redis.Client
	pubsub *redis.PubSub

	mu      sync.RWMutex
	nextID  int
	subs    map[int]chan Event
	closed  bool
	stopped chan struct{}
}

// ConnectRedis returns a client for addr, or nil when addr is empty.
func ConnectRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

// NewHub creates a hub. A nil redisClient keeps events in-process.
// If the Redis subscription cannot be established the hub still works locally.
func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		subs:    map[int]chan Event{},
		stopped: make(chan struct{}),
	}

	if redisClient == nil {
		close(h.stopped)
		return h
	}

	ctx := context.Background()
	pubsub := redisClient.Subscribe(ctx, RedisChannel)
	// Wait for the subscription confirmation so no event published after
	// NewHub returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session broadcast disabled, redis subscribe failed: %v\n", err)
		pubsub.Close()
		h.redis = nil
		close(h.stopped)
		return h
	}
	h.pubsub = pubsub
	go h.subscribeRedis()
	return h
}

// ID returns the origin tag this hub stamps on its events.
func (h *Hub) ID() string {
	return h.id
}

// Subscribe returns a channel of events and a function that cancels the subscription.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers an event locally and to Redis.
func (h *Hub) Publish(ctx context.Context, t EventType) {
	ev := Event{Type: t, Origin: h.id}
	h.deliver(ev)

	if h.redis != nil {
		payload, err := json.Marshal(ev)
		if err != nil {
			return
		}
		if err := h.redis.Publish(ctx, RedisChannel, payload).Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: redis publish error: %v\n", err)
		}
	}
}

func (h *Hub) deliver(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	defer close(h.stopped)
	for msg := range h.pubsub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			continue
		}
		if ev.Origin == h.id {
			continue
		}
		h.deliver(ev)
	}
}

// Close stops the Redis subscription and closes every subscriber channel.
func (h *Hub) Close() error {
	var err error
	if h.pubsub != nil {
		err = h.pubsub.Close()
	}
	<-h.stopped

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		for id, ch := range h.subs {
			delete(h.subs, id)
			close(ch)
		}
	}
	return err
}
