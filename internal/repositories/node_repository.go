package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "waylit/internal/models/db_models"
)

type NodeRepository interface {
	GetById(ctx context.Context, nodeID uuid.UUID) (*dbm.TravelNode, error)
	Update(ctx context.Context, node *dbm.TravelNode) error

	// SaveChange persists a change transition atomically: the original flips
	// to changed_original and the replacement is inserted alongside it.
	SaveChange(ctx context.Context, original, replacement *dbm.TravelNode) error
}

type nodeRepository struct {
	db *gorm.DB
}

func NewNodeRepository(db *gorm.DB) NodeRepository {
	return &nodeRepository{db: db}
}

func (r *nodeRepository) GetById(ctx context.Context, nodeID uuid.UUID) (*dbm.TravelNode, error) {
	var node dbm.TravelNode
	err := r.db.WithContext(ctx).
		Where("id = ?", nodeID).
		First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *nodeRepository) Update(ctx context.Context, node *dbm.TravelNode) error {
	return r.db.WithContext(ctx).Save(node).Error
}

func (r *nodeRepository) SaveChange(ctx context.Context, original, replacement *dbm.TravelNode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(original).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
}
