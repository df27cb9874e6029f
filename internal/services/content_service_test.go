package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unilink/backend/internal/events"
	"github.com/unilink/backend/internal/models"
)

func newContentFixture() (*ContentService, *fakePostRepo, *events.Bus) {
	posts := newFakePostRepo()
	bus := events.NewBus()
	return NewContentService(posts, newFakeCommentRepo(), bus), posts, bus
}

func TestCreatePostAnnouncesPublicOnly(t *testing.T) {
	svc, _, bus := newContentFixture()
	ctx := context.Background()
	sub := bus.Subscribe(events.TopicPosts, nil)
	defer sub.Close()

	public, err := svc.CreatePost(ctx, 1, "hello", models.VisibilityPublic)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreatePost(ctx, 1, "secret", models.VisibilityPrivate); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreatePost(ctx, 1, "masked", models.VisibilityIncognito); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	select {
	case e := <-sub.C:
		if e.PostID != public.ID.Hex() || e.ActorID != 1 {
			t.Fatalf("unexpected post event: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an announcement for the public post")
	}
	select {
	case e := <-sub.C:
		t.Fatalf("private or incognito post was announced: %+v", e)
	default:
	}
}

func TestUpdateAndDeletePostAuthorOnly(t *testing.T) {
	svc, _, _ := newContentFixture()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 1, "hello", models.VisibilityPublic)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.Hex()

	if _, err := svc.UpdatePost(ctx, 2, id, "hacked"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-author edit: expected ErrPermissionDenied, got %v", err)
	}
	updated, err := svc.UpdatePost(ctx, 1, id, "edited")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != "edited" {
		t.Fatalf("unexpected content: %q", updated.Content)
	}

	if err := svc.DeletePost(ctx, 2, id); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-author delete: expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.DeletePost(ctx, 1, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetPost(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateCommentBumpsCountAndNotifiesAuthor(t *testing.T) {
	svc, posts, bus := newContentFixture()
	ctx := context.Background()
	sub := bus.Subscribe(events.TopicComments, nil)
	defer sub.Close()

	post, err := svc.CreatePost(ctx, 1, "hello", models.VisibilityPublic)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.Hex()

	comment, err := svc.CreateComment(ctx, 2, id, "nice")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	// Own comment must not notify
	if _, err := svc.CreateComment(ctx, 1, id, "thanks"); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	stored, err := posts.GetPostByID(ctx, id)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if stored.CommentsCount != 2 {
		t.Fatalf("expected comment count 2, got %d", stored.CommentsCount)
	}

	select {
	case e := <-sub.C:
		if e.ReceiverID != 1 || e.ActorID != 2 || e.CommentID != comment.ID {
			t.Fatalf("unexpected comment event: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a comment event to the post author")
	}
	select {
	case e := <-sub.C:
		t.Fatalf("self-comment emitted an event: %+v", e)
	default:
	}
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	svc, _, _ := newContentFixture()
	ctx := context.Background()

	post, _ := svc.CreatePost(ctx, 1, "hello", models.VisibilityPublic)
	comment, err := svc.CreateComment(ctx, 2, post.ID.Hex(), "nice")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	if _, err := svc.UpdateComment(ctx, 1, comment.ID, "hacked"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-author edit: expected ErrPermissionDenied, got %v", err)
	}
	updated, err := svc.UpdateComment(ctx, 2, comment.ID, "edited")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != "edited" {
		t.Fatalf("unexpected content: %q", updated.Content)
	}
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	svc, posts, _ := newContentFixture()
	ctx := context.Background()

	post, _ := svc.CreatePost(ctx, 1, "hello", models.VisibilityPublic)
	id := post.ID.Hex()
	comment, err := svc.CreateComment(ctx, 2, id, "nice")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	if err := svc.DeleteComment(ctx, 3, comment.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-author delete: expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.DeleteComment(ctx, 2, comment.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	stored, _ := posts.GetPostByID(ctx, id)
	if stored.CommentsCount != 0 {
		t.Fatalf("expected comment count back to 0, got %d", stored.CommentsCount)
	}
	comments, _ := svc.GetComments(ctx, id)
	if len(comments) != 0 {
		t.Fatalf("expected no comments, got %d", len(comments))
	}
}
