package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/obcq/quoter-api/internal/domain"
	"gorm.io/gorm"
)

// listLimit caps the dashboard quote list
const listLimit = 100

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create inserts a quote together with its cost items and flight segments
func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("CostItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("cost_items.created_at")
		}).
		Preload("FlightSegments", func(db *gorm.DB) *gorm.DB {
			return db.Order("flight_segments.created_at")
		}).
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// List returns quotes newest first, capped at the dashboard limit
func (r *QuoteRepository) List(ctx context.Context) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&quotes).Error
	return quotes, err
}

// Replace performs a full update of an existing quote. Child cost items
// and flight segments are deleted and reinserted from the given snapshot
// inside one transaction; the caller must always supply the complete
// current set, never a delta.
func (r *QuoteRepository) Replace(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Quote{}).
			Where("id = ?", quote.ID).
			Select("*").
			Omit("id", "created_at", "CostItems", "FlightSegments").
			Updates(quote)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.CostItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.FlightSegment{}).Error; err != nil {
			return err
		}

		for i := range quote.CostItems {
			quote.CostItems[i].ID = uuid.Nil
			quote.CostItems[i].QuoteID = quote.ID
			if err := tx.Create(&quote.CostItems[i]).Error; err != nil {
				return err
			}
		}
		for i := range quote.FlightSegments {
			quote.FlightSegments[i].ID = uuid.Nil
			quote.FlightSegments[i].QuoteID = quote.ID
			if err := tx.Create(&quote.FlightSegments[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&domain.CostItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", id).Delete(&domain.FlightSegment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Quote{}, "id = ?", id).Error
	})
}
