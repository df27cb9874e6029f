package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic identifies one source stream of change events
type Topic string

const (
	TopicRelationships Topic = "relationships"
	TopicReactions     Topic = "reactions"
	TopicComments      Topic = "comments"
	TopicPosts         Topic = "posts"
)

// Event is a single change emitted by a mutating service. ID is the
// dedup key for at-least-once delivery downstream.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ActorID      uint      `json:"actor_id"`
	ReceiverID   uint      `json:"receiver_id,omitempty"` // addressed receiver; zero for broadcast topics
	PostID       string    `json:"post_id,omitempty"`
	CommentID    uint      `json:"comment_id,omitempty"`
	ReactionType string    `json:"reaction_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEvent builds an event with a fresh dedup ID.
func NewEvent(eventType string, actorID uint) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}
}

// Subscription is one consumer's live view of a topic. Events arrive on C
// in publish order. Close stops delivery; no event is delivered after
// Close returns.
type Subscription struct {
	C      chan Event
	topic  Topic
	filter func(Event) bool
	bus    *Bus
	once   sync.Once
}

// Close cancels the subscription and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs[s.topic], s)
		close(s.C)
		s.bus.mu.Unlock()
	})
}

// Bus is an in-process change-event bus. Delivery is per-topic FIFO to
// each subscription; a full subscriber buffer drops the live event rather
// than blocking publishers (consumers re-derive state from the store).
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic]map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[*Subscription]struct{})}
}

// Subscribe registers a consumer on a topic. A nil filter receives every
// event on the topic.
func (b *Bus) Subscribe(topic Topic, filter func(Event) bool) *Subscription {
	sub := &Subscription{
		C:      make(chan Event, 64),
		topic:  topic,
		filter: filter,
		bus:    b,
	}
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish fans an event out to every matching subscription on the topic.
func (b *Bus) Publish(topic Topic, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[topic] {
		if sub.filter != nil && !sub.filter(e) {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
}
