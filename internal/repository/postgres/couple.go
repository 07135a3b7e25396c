package postgres

import (
	"context"
	"errors"
	"fmt"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"gorm.io/gorm"
)

// coupleScoped lists every table whose rows are owned by a couple.
var coupleScoped = []any{
	&models.LoveMessage{},
	&models.DiaryEntry{},
	&models.Place{},
	&models.BucketListItem{},
	&models.Event{},
	&models.Expense{},
}

// CoupleRepository handles database operations for couples
type CoupleRepository struct {
	table[models.Couple]
}

// NewCoupleRepository creates a new couple repository
func NewCoupleRepository(db *gorm.DB) *CoupleRepository {
	return &CoupleRepository{table[models.Couple]{db: db, name: "couple"}}
}

// Create inserts the couple and both membership rows in one transaction.
// The couple_members primary key rejects a user joining a second couple.
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(couple).Error; err != nil {
			return err
		}
		members := []models.CoupleMember{
			{UserID: couple.User1ID, CoupleID: couple.ID},
			{UserID: couple.User2ID, CoupleID: couple.ID},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return r.wrap("create", err)
	}
	return nil
}

// GetByID retrieves a couple by ID
func (r *CoupleRepository) GetByID(ctx context.Context, id string) (*models.Couple, error) {
	return r.get(ctx, id)
}

// GetByUserID retrieves the couple where the user occupies either slot
func (r *CoupleRepository) GetByUserID(ctx context.Context, userID string) (*models.Couple, error) {
	var couple models.Couple
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		First(&couple).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("couple for user %s: %w", userID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get couple by user id: %w", err)
	}
	return &couple, nil
}

// UserHasCouple checks if a user is already in a couple
func (r *CoupleRepository) UserHasCouple(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CoupleMember{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check if user has couple: %w", err)
	}
	return count > 0, nil
}

// Update saves every column of the couple
func (r *CoupleRepository) Update(ctx context.Context, couple *models.Couple) error {
	return r.save(ctx, couple)
}

// Delete removes the couple together with its members and shared records
func (r *CoupleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range coupleScoped {
			if err := tx.Where("couple_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete couple data: %w", err)
			}
		}
		if err := tx.Where("couple_id = ?", id).Delete(&models.CoupleMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete couple members: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Couple{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete couple: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("couple %s: %w", id, repository.ErrNotFound)
		}
		return nil
	})
}
