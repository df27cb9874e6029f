package events

import (
	"testing"
	"time"
)

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicRelationships, nil)
	defer sub.Close()

	for i := 0; i < 5; i++ {
		e := NewEvent("friend_request", uint(i+1))
		bus.Publish(TopicRelationships, e)
	}

	for i := 0; i < 5; i++ {
		select {
		case e := <-sub.C:
			if e.ActorID != uint(i+1) {
				t.Fatalf("event %d: expected actor %d, got %d", i, i+1, e.ActorID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestBusFilterExcludesEvents(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicRelationships, func(e Event) bool { return e.ReceiverID == 7 })
	defer sub.Close()

	miss := NewEvent("friend_request", 1)
	miss.ReceiverID = 8
	hit := NewEvent("friend_request", 2)
	hit.ReceiverID = 7
	bus.Publish(TopicRelationships, miss)
	bus.Publish(TopicRelationships, hit)

	select {
	case e := <-sub.C:
		if e.ReceiverID != 7 {
			t.Fatalf("filter let through event for receiver %d", e.ReceiverID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for filtered event")
	}
	select {
	case e, ok := <-sub.C:
		if ok {
			t.Fatalf("unexpected extra event: %+v", e)
		}
	default:
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicPosts, nil)
	sub.Close()
	sub.Close() // idempotent

	bus.Publish(TopicPosts, NewEvent("post_created", 1))

	if _, ok := <-sub.C; ok {
		t.Fatal("expected closed channel after Close")
	}
}

func TestPublishDoesNotBlockOnSlowConsumer(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicReactions, nil)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			bus.Publish(TopicReactions, NewEvent("reaction", 1))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow consumer")
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	bus := NewBus()
	rel := bus.Subscribe(TopicRelationships, nil)
	defer rel.Close()

	bus.Publish(TopicComments, NewEvent("comment", 3))

	select {
	case e := <-rel.C:
		t.Fatalf("relationship subscriber received comment event: %+v", e)
	default:
	}
}
