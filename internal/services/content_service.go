package services

import (
	"context"

	"github.com/unilink/backend/internal/events"
	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
)

// ContentService owns post and comment mutations and emits the change
// events the fanout consumes.
type ContentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	bus      *events.Bus
}

// NewContentService creates a new ContentService
func NewContentService(posts repositories.PostRepository, comments repositories.CommentRepository, bus *events.Bus) *ContentService {
	return &ContentService{posts: posts, comments: comments, bus: bus}
}

// CreatePost persists a post and announces it on the posts topic. The
// announcement carries only the author and post reference; followers use it
// for the unread-post counter, not for full notification records.
// Incognito posts are announced with a zero actor so the author identity
// does not leak through the event stream.
func (s *ContentService) CreatePost(ctx context.Context, authorID uint, content string, visibility models.PostVisibility) (*models.Post, error) {
	if authorID == 0 {
		return nil, ErrUnauthenticated
	}
	post := &models.Post{
		AuthorID:   authorID,
		Content:    content,
		Visibility: visibility,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, mapStoreError(err)
	}

	if visibility != models.VisibilityIncognito && visibility != models.VisibilityPrivate {
		e := events.NewEvent("post_created", authorID)
		e.PostID = post.ID.Hex()
		s.bus.Publish(events.TopicPosts, e)
	}
	return post, nil
}

// GetPost retrieves a single post.
func (s *ContentService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return post, nil
}

// ListPostsByAuthor returns a page of one user's posts, newest first.
func (s *ContentService) ListPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	posts, err := s.posts.GetPostsByAuthor(ctx, authorID, skip, limit)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return posts, nil
}

// UpdatePost edits a post's content. Author only.
func (s *ContentService) UpdatePost(ctx context.Context, callerID uint, id, content string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if post.AuthorID != callerID {
		return nil, ErrPermissionDenied
	}
	post.Content = content
	if err := s.posts.UpdatePost(ctx, id, post); err != nil {
		return nil, mapStoreError(err)
	}
	return post, nil
}

// DeletePost removes a post. Author only.
func (s *ContentService) DeletePost(ctx context.Context, callerID uint, id string) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return mapStoreError(err)
	}
	if post.AuthorID != callerID {
		return ErrPermissionDenied
	}
	return mapStoreError(s.posts.DeletePost(ctx, id))
}

// CreateComment persists a comment, bumps the post's comment count, and
// emits a comment event addressed to the post author (unless the author is
// commenting on their own post).
func (s *ContentService) CreateComment(ctx context.Context, userID uint, postID, content string) (*models.Comment, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.posts.IncrementCommentsCount(ctx, postID); err != nil {
		return nil, mapStoreError(err)
	}

	if post.AuthorID != userID {
		e := events.NewEvent(models.NotificationComment, userID)
		e.ReceiverID = post.AuthorID
		e.PostID = postID
		e.CommentID = comment.ID
		s.bus.Publish(events.TopicComments, e)
	}
	return comment, nil
}

// GetComments returns a post's comments in creation order.
func (s *ContentService) GetComments(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return comments, nil
}

// UpdateComment edits a comment's content. Comment author only.
func (s *ContentService) UpdateComment(ctx context.Context, callerID, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if comment.UserID != callerID {
		return nil, ErrPermissionDenied
	}
	comment.Content = content
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, mapStoreError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment and decrements the post's comment count.
// Comment author only.
func (s *ContentService) DeleteComment(ctx context.Context, callerID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return mapStoreError(err)
	}
	if comment.UserID != callerID {
		return ErrPermissionDenied
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return mapStoreError(err)
	}
	return mapStoreError(s.posts.DecrementCommentsCount(ctx, comment.PostID))
}
