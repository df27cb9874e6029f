package services

import (
	"context"
	"sort"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
)

// Suggestion score weights: sharing a career counts double a shared semester.
const (
	careerMatchScore   = 2
	semesterMatchScore = 1
)

// SuggestionService ranks candidate users to suggest as friends. Users with
// any live edge to the requester (pending or accepted) are excluded.
// Mutual-friend counts are attached for display only and do not influence
// ranking; candidates with equal score keep stable relative order.
type SuggestionService struct {
	users         repositories.UserRepository
	relationships repositories.RelationshipRepository
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(users repositories.UserRepository, relationships repositories.RelationshipRepository) *SuggestionService {
	return &SuggestionService{users: users, relationships: relationships}
}

// Suggest returns up to limit ranked friend candidates for the user.
func (s *SuggestionService) Suggest(ctx context.Context, userID uint, limit int) ([]models.Suggestion, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 10
	}

	me, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	relatedIDs, err := s.relationships.RelatedUserIDs(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	excluded := make(map[uint]bool, len(relatedIDs)+1)
	excluded[userID] = true
	for _, id := range relatedIDs {
		excluded[id] = true
	}

	all, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}

	candidates := make([]models.User, 0, len(all))
	for _, u := range all {
		if !excluded[u.ID] {
			candidates = append(candidates, u)
		}
	}

	mutual, err := s.mutualCounts(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		score := 0
		if me.Career != "" && c.Career == me.Career {
			score += careerMatchScore
		}
		if me.Semester != "" && c.Semester == me.Semester {
			score += semesterMatchScore
		}
		suggestions = append(suggestions, models.Suggestion{
			User:               c.ToCompact(),
			Score:              score,
			MutualFriendsCount: mutual[c.ID],
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// mutualCounts computes, per candidate, how many users are accepted-connected
// to both the requester and the candidate.
func (s *SuggestionService) mutualCounts(ctx context.Context, userID uint, candidates []models.User) (map[uint]int, error) {
	counts := make(map[uint]int, len(candidates))
	if len(candidates) == 0 {
		return counts, nil
	}

	myFriendIDs, err := s.relationships.AcceptedNeighborIDs(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	myFriends := make(map[uint]bool, len(myFriendIDs))
	for _, id := range myFriendIDs {
		myFriends[id] = true
	}

	candidateIDs := make([]uint, len(candidates))
	isCandidate := make(map[uint]bool, len(candidates))
	for i, c := range candidates {
		candidateIDs[i] = c.ID
		isCandidate[c.ID] = true
	}

	edges, err := s.relationships.AcceptedEdgesInvolving(ctx, candidateIDs)
	if err != nil {
		return nil, mapStoreError(err)
	}
	for _, e := range edges {
		if isCandidate[e.SenderID] && myFriends[e.ReceiverID] {
			counts[e.SenderID]++
		}
		if isCandidate[e.ReceiverID] && myFriends[e.SenderID] {
			counts[e.ReceiverID]++
		}
	}
	return counts, nil
}
