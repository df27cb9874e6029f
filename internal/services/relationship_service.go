package services

import (
	"context"
	"errors"

	"github.com/unilink/backend/internal/events"
	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
)

// RelationshipService runs the per-pair state machine:
// none -> pending -> {accepted | none}. All transitions go through the
// store's atomic primitives; a uniqueness race on request creation is
// absorbed into the idempotent return, never surfaced as an error.
type RelationshipService struct {
	edges repositories.RelationshipRepository
	bus   *events.Bus
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(edges repositories.RelationshipRepository, bus *events.Bus) *RelationshipService {
	return &RelationshipService{edges: edges, bus: bus}
}

// SendRequest creates a pending edge from one user to another. When a
// pending or accepted edge already exists for the pair, including one
// created by a concurrent request, the existing edge is returned and no
// event is emitted.
func (s *RelationshipService) SendRequest(ctx context.Context, from, to uint) (*models.RelationshipEdge, error) {
	if from == 0 {
		return nil, ErrUnauthenticated
	}
	if from == to {
		return nil, ErrSelfReference
	}

	edge := &models.RelationshipEdge{
		SenderID:   from,
		ReceiverID: to,
		Status:     models.RelationshipPending,
	}
	created, err := s.edges.CreateIfAbsent(ctx, edge)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !created {
		existing, err := s.edges.GetByPair(ctx, from, to)
		if err != nil {
			// The conflicting edge vanished between insert and refetch
			if errors.Is(mapStoreError(err), ErrNotFound) {
				return nil, ErrConflict
			}
			return nil, mapStoreError(err)
		}
		return existing, nil
	}

	e := events.NewEvent(models.NotificationFriendRequest, from)
	e.ReceiverID = to
	s.bus.Publish(events.TopicRelationships, e)

	return edge, nil
}

// Respond accepts or rejects a pending request. Only the receiver of the
// edge may respond. Accepting makes the relationship queryable from both
// directions through the pair key; no second accept is ever required.
// Rejecting deletes the edge and returns a nil edge.
func (s *RelationshipService) Respond(ctx context.Context, caller, edgeID uint, accept bool) (*models.RelationshipEdge, error) {
	if caller == 0 {
		return nil, ErrUnauthenticated
	}
	edge, err := s.edges.GetByID(ctx, edgeID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if edge.ReceiverID != caller {
		return nil, ErrPermissionDenied
	}
	if edge.Status == models.RelationshipAccepted {
		if accept {
			return edge, nil
		}
		return nil, ErrConflict
	}

	if !accept {
		if err := s.edges.Delete(ctx, edge.ID); err != nil {
			return nil, mapStoreError(err)
		}
		return nil, nil
	}

	if err := s.edges.UpdateStatus(ctx, edge.ID, models.RelationshipAccepted); err != nil {
		return nil, mapStoreError(err)
	}
	edge.Status = models.RelationshipAccepted

	e := events.NewEvent(models.NotificationRequestAccepted, caller)
	e.ReceiverID = edge.SenderID
	s.bus.Publish(events.TopicRelationships, e)

	return edge, nil
}

// Cancel withdraws a pending request. Only the original sender may cancel.
func (s *RelationshipService) Cancel(ctx context.Context, caller, edgeID uint) error {
	if caller == 0 {
		return ErrUnauthenticated
	}
	edge, err := s.edges.GetByID(ctx, edgeID)
	if err != nil {
		return mapStoreError(err)
	}
	if edge.SenderID != caller {
		return ErrPermissionDenied
	}
	if edge.Status != models.RelationshipPending {
		return ErrConflict
	}
	return mapStoreError(s.edges.Delete(ctx, edge.ID))
}

// Unfollow removes any edge between the caller and the other user,
// regardless of status. Either party of an accepted relationship may call it.
func (s *RelationshipService) Unfollow(ctx context.Context, caller, otherID uint) error {
	if caller == 0 {
		return ErrUnauthenticated
	}
	if caller == otherID {
		return ErrSelfReference
	}
	rows, err := s.edges.DeleteByPair(ctx, caller, otherID)
	if err != nil {
		return mapStoreError(err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// IsConnected reports whether two users share an accepted edge, in either
// direction.
func (s *RelationshipService) IsConnected(ctx context.Context, a, b uint) (bool, error) {
	edge, err := s.edges.GetByPair(ctx, a, b)
	if err != nil {
		if errors.Is(mapStoreError(err), ErrNotFound) {
			return false, nil
		}
		return false, mapStoreError(err)
	}
	return edge.Status == models.RelationshipAccepted, nil
}

// FriendIDs returns the IDs of everyone connected to the user.
func (s *RelationshipService) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.edges.AcceptedNeighborIDs(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return ids, nil
}

// PendingIncoming returns pending requests addressed to the user.
func (s *RelationshipService) PendingIncoming(ctx context.Context, userID uint) ([]models.RelationshipEdge, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	edges, err := s.edges.PendingIncoming(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return edges, nil
}
