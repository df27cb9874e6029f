package services

import (
	"context"
	"strconv"

	"github.com/unilink/backend/internal/events"
	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
)

// ReactionService enforces at-most-one reaction per (user, target) and
// keeps the aggregate always derivable from the record set.
type ReactionService struct {
	reactions repositories.ReactionRepository
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	bus       *events.Bus
}

// NewReactionService creates a new ReactionService
func NewReactionService(reactions repositories.ReactionRepository, posts repositories.PostRepository, comments repositories.CommentRepository, bus *events.Bus) *ReactionService {
	return &ReactionService{reactions: reactions, posts: posts, comments: comments, bus: bus}
}

// parseTarget validates the target tag at the boundary; malformed shapes
// are rejected instead of defaulting.
func parseTarget(targetType string) (models.ReactionTarget, error) {
	switch models.ReactionTarget(targetType) {
	case models.TargetPost:
		return models.TargetPost, nil
	case models.TargetComment:
		return models.TargetComment, nil
	default:
		return "", ErrNotFound
	}
}

// React toggles the user's reaction on a post or comment. Repeating the
// same type removes it; a different type replaces it in place. The content
// author gets a reaction event on add/replace, never on toggle-off and
// never for reacting to their own content.
func (s *ReactionService) React(ctx context.Context, userID uint, targetType, targetID, kind string) (models.ReactionResult, error) {
	if userID == 0 {
		return models.ReactionResult{}, ErrUnauthenticated
	}
	target, err := parseTarget(targetType)
	if err != nil {
		return models.ReactionResult{}, err
	}

	authorID, postID, commentID, err := s.resolveTarget(ctx, target, targetID)
	if err != nil {
		return models.ReactionResult{}, err
	}

	result, err := s.reactions.Toggle(ctx, userID, target, targetID, kind)
	if err != nil {
		return models.ReactionResult{}, mapStoreError(err)
	}

	if !result.Removed && authorID != userID {
		e := events.NewEvent(models.NotificationReaction, userID)
		e.ReceiverID = authorID
		e.PostID = postID
		e.CommentID = commentID
		e.ReactionType = result.Type
		s.bus.Publish(events.TopicReactions, e)
	}

	return result, nil
}

// Summary returns the aggregate (count, by_type) for a target, grouped from
// live reaction records.
func (s *ReactionService) Summary(ctx context.Context, targetType, targetID string) (models.ReactionSummary, error) {
	target, err := parseTarget(targetType)
	if err != nil {
		return models.ReactionSummary{}, err
	}
	summary, err := s.reactions.Summary(ctx, target, targetID)
	if err != nil {
		return models.ReactionSummary{}, mapStoreError(err)
	}
	return summary, nil
}

// resolveTarget verifies the target exists and returns its author plus the
// reference IDs carried on the emitted event.
func (s *ReactionService) resolveTarget(ctx context.Context, target models.ReactionTarget, targetID string) (authorID uint, postID string, commentID uint, err error) {
	switch target {
	case models.TargetPost:
		post, perr := s.posts.GetPostByID(ctx, targetID)
		if perr != nil {
			return 0, "", 0, mapStoreError(perr)
		}
		return post.AuthorID, targetID, 0, nil
	default:
		id, perr := strconv.ParseUint(targetID, 10, 32)
		if perr != nil {
			return 0, "", 0, ErrNotFound
		}
		comment, cerr := s.comments.GetCommentByID(ctx, uint(id))
		if cerr != nil {
			return 0, "", 0, mapStoreError(cerr)
		}
		return comment.UserID, comment.PostID, comment.ID, nil
	}
}
