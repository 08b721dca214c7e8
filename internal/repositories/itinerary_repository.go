package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "waylit/internal/models/db_models"
)

type ItineraryRepository interface {
	GetByTripId(ctx context.Context, tripID uuid.UUID) (*dbm.Itinerary, error)
	GetNodes(ctx context.Context, itineraryID uuid.UUID) ([]dbm.TravelNode, error)

	// Update saves the itinerary row only; node rows are untouched.
	Update(ctx context.Context, itinerary *dbm.Itinerary) error

	// ReplaceForTrip deletes any prior itinerary (and its nodes) for the trip
	// and inserts the new one with its node set, in one transaction.
	ReplaceForTrip(ctx context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode) error

	// ReplaceNodes keeps the itinerary row (persisting its updated preference
	// log) and swaps the node set wholesale, in one transaction, so readers
	// never observe a partially replaced set.
	ReplaceNodes(ctx context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode) error
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) GetByTripId(ctx context.Context, tripID uuid.UUID) (*dbm.Itinerary, error) {
	var it dbm.Itinerary
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// Node ordering is derived here, never stored as a sequence.
func (r *itineraryRepository) GetNodes(ctx context.Context, itineraryID uuid.UUID) ([]dbm.TravelNode, error) {
	var nodes []dbm.TravelNode
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ?", itineraryID).
		Order("day_index ASC, sort_order ASC").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *itineraryRepository) Update(ctx context.Context, itinerary *dbm.Itinerary) error {
	return r.db.WithContext(ctx).Save(itinerary).Error
}

func (r *itineraryRepository) ReplaceForTrip(ctx context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subPrior := tx.Model(&dbm.Itinerary{}).
			Select("id").
			Where("trip_id = ?", itinerary.TripID)

		if err := tx.Where("itinerary_id IN (?)", subPrior).
			Delete(&dbm.TravelNode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", itinerary.TripID).
			Delete(&dbm.Itinerary{}).Error; err != nil {
			return err
		}

		if err := tx.Create(itinerary).Error; err != nil {
			return err
		}
		for i := range nodes {
			nodes[i].ItineraryID = itinerary.ID
		}
		if len(nodes) > 0 {
			if err := tx.Create(&nodes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *itineraryRepository) ReplaceNodes(ctx context.Context, itinerary *dbm.Itinerary, nodes []dbm.TravelNode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(itinerary).Error; err != nil {
			return err
		}
		if err := tx.Where("itinerary_id = ?", itinerary.ID).
			Delete(&dbm.TravelNode{}).Error; err != nil {
			return err
		}
		for i := range nodes {
			nodes[i].ItineraryID = itinerary.ID
		}
		if len(nodes) > 0 {
			if err := tx.Create(&nodes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
