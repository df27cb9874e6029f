package services

import (
	"context"
	"sort"
	"time"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
)

// newPostWindow is the recency window for the "only new" feed filter.
const newPostWindow = 24 * time.Hour

// anonymousAuthor replaces the author identity on incognito posts for
// every viewer. Identity is never revealed once published.
var anonymousAuthor = models.UserCompact{Name: "Anonymous"}

// FeedOptions controls which partition of the candidate set a call returns
type FeedOptions struct {
	OnlyNew    bool // restrict to posts newer than 24h
	ShowHidden bool // return the hidden complement instead of the default feed
}

// FeedPost is a candidate post enriched for display
type FeedPost struct {
	models.Post
	Author    models.UserCompact     `json:"author"`
	Reactions models.ReactionSummary `json:"reactions"`
	IsHidden  bool                   `json:"is_hidden,omitempty"`
}

// FeedService computes the ordered, filtered list of posts a viewer may
// see. The default feed and the hidden feed are two deterministic
// partitions of the same candidate set: their union is the candidate set
// and their intersection is empty.
type FeedService struct {
	posts         repositories.PostRepository
	relationships repositories.RelationshipRepository
	hidden        repositories.HiddenRepository
	users         repositories.UserRepository
	reactions     repositories.ReactionRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(
	posts repositories.PostRepository,
	relationships repositories.RelationshipRepository,
	hidden repositories.HiddenRepository,
	users repositories.UserRepository,
	reactions repositories.ReactionRepository,
) *FeedService {
	return &FeedService{
		posts:         posts,
		relationships: relationships,
		hidden:        hidden,
		users:         users,
		reactions:     reactions,
	}
}

// GetFeed returns the viewer's feed partition selected by opts, newest
// first with stable tie order.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint, opts FeedOptions) ([]FeedPost, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}

	friendIDs, err := s.relationships.AcceptedNeighborIDs(ctx, viewerID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	var since *time.Time
	if opts.OnlyNew {
		cutoff := time.Now().Add(-newPostWindow)
		since = &cutoff
	}

	candidates, err := s.posts.GetCandidatePosts(ctx, viewerID, friendIDs, since)
	if err != nil {
		return nil, mapStoreError(err)
	}

	hiddenPosts, err := s.hidden.HiddenPostIDs(ctx, viewerID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	hiddenUsers, err := s.hidden.HiddenUserIDs(ctx, viewerID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	selected := make([]models.Post, 0, len(candidates))
	for _, p := range candidates {
		isHidden := hiddenPosts[p.ID.Hex()] || hiddenUsers[p.AuthorID]
		if isHidden == opts.ShowHidden {
			selected = append(selected, p)
		}
	}

	// The store already orders results; re-assert here so the contract
	// holds whatever snapshot the store handed back. Stable sort keeps
	// insertion order for equal timestamps across repeated calls.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].CreatedAt.After(selected[j].CreatedAt)
	})

	return s.enrich(ctx, selected, opts.ShowHidden)
}

// GetHiddenFeed returns exactly the complement of the default feed: the
// candidate posts suppressed by the viewer's hidden sets.
func (s *FeedService) GetHiddenFeed(ctx context.Context, viewerID uint, opts FeedOptions) ([]FeedPost, error) {
	opts.ShowHidden = true
	return s.GetFeed(ctx, viewerID, opts)
}

// HidePost adds a post to the viewer's suppression set. Idempotent.
func (s *FeedService) HidePost(ctx context.Context, viewerID uint, postID string) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	return mapStoreError(s.hidden.HidePost(ctx, viewerID, postID))
}

// UnhidePost removes a post from the viewer's suppression set.
func (s *FeedService) UnhidePost(ctx context.Context, viewerID uint, postID string) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	return mapStoreError(s.hidden.UnhidePost(ctx, viewerID, postID))
}

// HideUser suppresses all of another user's posts for the viewer. Idempotent.
func (s *FeedService) HideUser(ctx context.Context, viewerID, hiddenUserID uint) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	if viewerID == hiddenUserID {
		return ErrSelfReference
	}
	return mapStoreError(s.hidden.HideUser(ctx, viewerID, hiddenUserID))
}

// UnhideUser reverses HideUser.
func (s *FeedService) UnhideUser(ctx context.Context, viewerID, hiddenUserID uint) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	return mapStoreError(s.hidden.UnhideUser(ctx, viewerID, hiddenUserID))
}

// enrich attaches author profiles and reaction aggregates, anonymizing
// incognito posts for every viewer.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post, hidden bool) ([]FeedPost, error) {
	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for _, p := range posts {
		if p.Visibility == models.VisibilityIncognito {
			continue
		}
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, mapStoreError(err)
	}
	authorMap := make(map[uint]models.UserCompact, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u.ToCompact()
	}

	feed := make([]FeedPost, len(posts))
	for i, p := range posts {
		fp := FeedPost{Post: p, IsHidden: hidden}
		if p.Visibility == models.VisibilityIncognito {
			fp.AuthorID = 0 // identity must not leak through the embedded post
			fp.Author = anonymousAuthor
		} else {
			fp.Author = authorMap[p.AuthorID]
		}
		summary, err := s.reactions.Summary(ctx, models.TargetPost, p.ID.Hex())
		if err != nil {
			return nil, mapStoreError(err)
		}
		fp.Reactions = summary
		feed[i] = fp
	}
	return feed, nil
}
