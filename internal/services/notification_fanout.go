package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unilink/backend/internal/events"
	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
)

// deliverTimeout bounds the store lookups behind a single event delivery.
const deliverTimeout = 5 * time.Second

// LivePusher delivers a payload to a connected viewer's live stream.
// Implemented by the websocket hub.
type LivePusher interface {
	SendToUser(userID uint, payload interface{})
}

// PushSink is the fire-and-forget side-effect sink (FCM push). The fanout
// never awaits or retries it.
type PushSink interface {
	Send(ctx context.Context, token, title, body string) error
}

// LiveNotification is the payload pushed on a viewer's live stream
type LiveNotification struct {
	Kind         string               `json:"kind"` // "notification" or "unread_posts"
	Notification *models.Notification `json:"notification,omitempty"`
	Actor        *models.UserCompact  `json:"actor,omitempty"`
	UnreadPosts  int64                `json:"unread_posts,omitempty"`
}

// NotificationFanout consumes change events and materializes per-receiver
// notification records. Delivery from the bus is at-least-once; the
// event_id unique index dedups redelivery, and side effects fire only when
// the record was actually inserted.
type NotificationFanout struct {
	bus           *events.Bus
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	relationships repositories.RelationshipRepository
	live          LivePusher
	sink          PushSink
}

// NewNotificationFanout creates a new NotificationFanout. live and sink
// may be nil (no live stream / no push delivery).
func NewNotificationFanout(
	bus *events.Bus,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	relationships repositories.RelationshipRepository,
	live LivePusher,
	sink PushSink,
) *NotificationFanout {
	return &NotificationFanout{
		bus:           bus,
		notifications: notifications,
		users:         users,
		relationships: relationships,
		live:          live,
		sink:          sink,
	}
}

// ViewerSubscription is one viewer's live fanout session. Close tears down
// every underlying stream; no event is processed for the viewer afterwards.
// A caller switching viewer identity must Close the old subscription before
// opening a new one.
type ViewerSubscription struct {
	viewerID uint
	subs     []*events.Subscription
	wg       sync.WaitGroup

	mu          sync.Mutex
	unreadPosts int64
	friends     map[uint]bool
}

func (v *ViewerSubscription) isFriend(userID uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.friends[userID]
}

func (v *ViewerSubscription) addFriend(userID uint) {
	v.mu.Lock()
	v.friends[userID] = true
	v.mu.Unlock()
}

// UnreadPosts returns the count of new posts from connections since the
// subscription started (or since the last reset).
func (v *ViewerSubscription) UnreadPosts() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unreadPosts
}

// ResetUnreadPosts clears the unread-post counter, typically when the
// viewer opens their feed.
func (v *ViewerSubscription) ResetUnreadPosts() {
	v.mu.Lock()
	v.unreadPosts = 0
	v.mu.Unlock()
}

// Close cancels all underlying streams and waits for in-flight handlers.
func (v *ViewerSubscription) Close() {
	for _, s := range v.subs {
		s.Close()
	}
	v.wg.Wait()
}

// SubscribeViewer attaches a viewer to the upstream streams: relationship
// events addressed to them, reaction/comment events on their own content,
// and new posts from their accepted connections (counter only). The friend
// set starts from the current edges and grows as accept events involving
// the viewer arrive. Per-topic delivery preserves source order; there is
// no ordering guarantee across topics.
func (f *NotificationFanout) SubscribeViewer(ctx context.Context, viewerID uint) (*ViewerSubscription, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}

	friendIDs, err := f.relationships.AcceptedNeighborIDs(ctx, viewerID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	friends := make(map[uint]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}

	addressedToViewer := func(e events.Event) bool { return e.ReceiverID == viewerID }

	v := &ViewerSubscription{viewerID: viewerID, friends: friends}
	relSub := f.bus.Subscribe(events.TopicRelationships, addressedToViewer)
	reactSub := f.bus.Subscribe(events.TopicReactions, addressedToViewer)
	commentSub := f.bus.Subscribe(events.TopicComments, addressedToViewer)
	postSub := f.bus.Subscribe(events.TopicPosts, func(e events.Event) bool {
		return v.isFriend(e.ActorID)
	})
	// Connections accepted mid-session feed the unread-post counter too:
	// accept events involving the viewer in either role extend the set.
	friendSub := f.bus.Subscribe(events.TopicRelationships, func(e events.Event) bool {
		return e.Type == models.NotificationRequestAccepted &&
			(e.ActorID == viewerID || e.ReceiverID == viewerID)
	})
	v.subs = []*events.Subscription{relSub, reactSub, commentSub, postSub, friendSub}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		for e := range friendSub.C {
			other := e.ActorID
			if other == viewerID {
				other = e.ReceiverID
			}
			v.addFriend(other)
		}
	}()

	for _, sub := range []*events.Subscription{relSub, reactSub, commentSub} {
		v.wg.Add(1)
		go func(sub *events.Subscription) {
			defer v.wg.Done()
			for e := range sub.C {
				if err := f.deliver(viewerID, e); err != nil {
					log.Printf("notification fanout: deliver event %s to user %d: %v", e.ID, viewerID, err)
				}
			}
		}(sub)
	}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		for range postSub.C {
			v.mu.Lock()
			v.unreadPosts++
			count := v.unreadPosts
			v.mu.Unlock()
			if f.live != nil {
				f.live.SendToUser(viewerID, LiveNotification{Kind: "unread_posts", UnreadPosts: count})
			}
		}
	}()

	return v, nil
}

// deliver materializes one event into a notification record and fires side
// effects exactly once. A duplicate event_id means the event was already
// delivered (redelivery after reconnect): the record is kept and side
// effects are skipped.
func (f *NotificationFanout) deliver(viewerID uint, e events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	actor, err := f.users.GetUserByID(ctx, e.ActorID)
	if err != nil {
		return mapStoreError(err)
	}

	n := &models.Notification{
		EventID:      e.ID,
		Type:         e.Type,
		SenderID:     e.ActorID,
		ReceiverID:   viewerID,
		RefPostID:    e.PostID,
		RefCommentID: e.CommentID,
		Message:      composeMessage(actor.Name, e),
		CreatedAt:    e.CreatedAt,
	}

	created, err := f.notifications.CreateIfAbsent(ctx, n)
	if err != nil {
		return mapStoreError(err)
	}
	if !created {
		return nil
	}

	if f.live != nil {
		compact := actor.ToCompact()
		f.live.SendToUser(viewerID, LiveNotification{
			Kind:         "notification",
			Notification: n,
			Actor:        &compact,
		})
	}
	if f.sink != nil {
		receiver, err := f.users.GetUserByID(ctx, viewerID)
		if err == nil && receiver.FCMToken != "" {
			if err := f.sink.Send(ctx, receiver.FCMToken, "UniLink", n.Message); err != nil {
				log.Printf("notification fanout: push to user %d: %v", viewerID, err)
			}
		}
	}
	return nil
}

func composeMessage(actorName string, e events.Event) string {
	switch e.Type {
	case models.NotificationFriendRequest:
		return fmt.Sprintf("%s sent you a friend request", actorName)
	case models.NotificationRequestAccepted:
		return fmt.Sprintf("%s accepted your friend request", actorName)
	case models.NotificationReaction:
		if e.CommentID != 0 {
			return fmt.Sprintf("%s reacted %s to your comment", actorName, e.ReactionType)
		}
		return fmt.Sprintf("%s reacted %s to your post", actorName, e.ReactionType)
	case models.NotificationComment:
		return fmt.Sprintf("%s commented on your post", actorName)
	default:
		return fmt.Sprintf("%s: %s", actorName, e.Type)
	}
}

// List returns the viewer's materialized notification list, newest first.
func (f *NotificationFanout) List(ctx context.Context, viewerID uint, page, limit int) ([]models.Notification, int64, error) {
	if viewerID == 0 {
		return nil, 0, ErrUnauthenticated
	}
	list, total, err := f.notifications.GetByReceiverID(ctx, viewerID, page, limit)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return list, total, nil
}

// UnreadCount returns the viewer's unread notification count.
func (f *NotificationFanout) UnreadCount(ctx context.Context, viewerID uint) (int64, error) {
	if viewerID == 0 {
		return 0, ErrUnauthenticated
	}
	count, err := f.notifications.GetUnreadCount(ctx, viewerID)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return count, nil
}

// MarkRead flips the read flag on one notification. Only the receiver may
// mark it; the mutation never re-triggers fanout.
func (f *NotificationFanout) MarkRead(ctx context.Context, caller, notificationID uint) error {
	if caller == 0 {
		return ErrUnauthenticated
	}
	n, err := f.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return mapStoreError(err)
	}
	if n.ReceiverID != caller {
		return ErrPermissionDenied
	}
	if _, err := f.notifications.MarkAsRead(ctx, notificationID, caller); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// MarkAllRead flips the read flag on every unread notification of the caller.
func (f *NotificationFanout) MarkAllRead(ctx context.Context, caller uint) error {
	if caller == 0 {
		return ErrUnauthenticated
	}
	return mapStoreError(f.notifications.MarkAllAsRead(ctx, caller))
}
