package repositories

import (
	"context"

	"github.com/unilink/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationshipRepository defines the interface for relationship edge operations.
// The pair_key unique index is the source of truth for the one-edge-per-pair
// invariant; creation goes through an atomic insert-if-absent, never a
// client-side existence check.
type RelationshipRepository interface {
	CreateIfAbsent(ctx context.Context, edge *models.RelationshipEdge) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.RelationshipEdge, error)
	GetByPair(ctx context.Context, a, b uint) (*models.RelationshipEdge, error)
	UpdateStatus(ctx context.Context, id uint, status models.RelationshipStatus) error
	Delete(ctx context.Context, id uint) error
	DeleteByPair(ctx context.Context, a, b uint) (int64, error)
	PendingIncoming(ctx context.Context, userID uint) ([]models.RelationshipEdge, error)
	AcceptedNeighborIDs(ctx context.Context, userID uint) ([]uint, error)
	RelatedUserIDs(ctx context.Context, userID uint) ([]uint, error)
	AcceptedEdgesInvolving(ctx context.Context, userIDs []uint) ([]models.RelationshipEdge, error)
}

// PostgresRelationshipRepository implements RelationshipRepository for PostgreSQL
type PostgresRelationshipRepository struct {
	db *gorm.DB
}

// NewPostgresRelationshipRepository creates a new PostgresRelationshipRepository
func NewPostgresRelationshipRepository(db *gorm.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

// CreateIfAbsent inserts the edge unless one already exists for the pair.
// Returns true when the row was inserted, false when the pair already had
// a live edge.
func (r *PostgresRelationshipRepository) CreateIfAbsent(ctx context.Context, edge *models.RelationshipEdge) (bool, error) {
	edge.PairKey = models.PairKeyFor(edge.SenderID, edge.ReceiverID)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pair_key"}}, DoNothing: true}).
		Create(edge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresRelationshipRepository) GetByID(ctx context.Context, id uint) (*models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if err := r.db.WithContext(ctx).First(&edge, id).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetByPair retrieves the live edge for an unordered pair of users
func (r *PostgresRelationshipRepository) GetByPair(ctx context.Context, a, b uint) (*models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if err := r.db.WithContext(ctx).Where("pair_key = ?", models.PairKeyFor(a, b)).First(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *PostgresRelationshipRepository) UpdateStatus(ctx context.Context, id uint, status models.RelationshipStatus) error {
	return r.db.WithContext(ctx).Model(&models.RelationshipEdge{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostgresRelationshipRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RelationshipEdge{}, id).Error
}

// DeleteByPair removes any edge between the pair regardless of status and
// reports how many rows went away.
func (r *PostgresRelationshipRepository) DeleteByPair(ctx context.Context, a, b uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("pair_key = ?", models.PairKeyFor(a, b)).Delete(&models.RelationshipEdge{})
	return res.RowsAffected, res.Error
}

// PendingIncoming retrieves pending requests addressed to the user
func (r *PostgresRelationshipRepository) PendingIncoming(ctx context.Context, userID uint) ([]models.RelationshipEdge, error) {
	var edges []models.RelationshipEdge
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.RelationshipPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

// AcceptedNeighborIDs returns the IDs of users connected to userID,
// regardless of which side sent the original request.
func (r *PostgresRelationshipRepository) AcceptedNeighborIDs(ctx context.Context, userID uint) ([]uint, error) {
	var edges []models.RelationshipEdge
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.RelationshipAccepted).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.Other(userID))
	}
	return ids, nil
}

// RelatedUserIDs returns the IDs of users with any live edge (pending or
// accepted) to userID.
func (r *PostgresRelationshipRepository) RelatedUserIDs(ctx context.Context, userID uint) ([]uint, error) {
	var edges []models.RelationshipEdge
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.Other(userID))
	}
	return ids, nil
}

// AcceptedEdgesInvolving returns accepted edges touching any of the given
// users, used to compute mutual-friend counts in one query.
func (r *PostgresRelationshipRepository) AcceptedEdgesInvolving(ctx context.Context, userIDs []uint) ([]models.RelationshipEdge, error) {
	var edges []models.RelationshipEdge
	if len(userIDs) == 0 {
		return edges, nil
	}
	err := r.db.WithContext(ctx).
		Where("(sender_id IN ? OR receiver_id IN ?) AND status = ?", userIDs, userIDs, models.RelationshipAccepted).
		Find(&edges).Error
	return edges, err
}
