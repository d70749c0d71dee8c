package repository

import (
	"context"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"

	"gorm.io/gorm"
)

// EyeRepository is the durable time-series store of confirmed measurements.
// Rows are append-only; there is no update path.
type EyeRepository struct {
	db *gorm.DB
}

// NewEyeRepository creates a new eye repository
func NewEyeRepository(db *gorm.DB) *EyeRepository {
	return &EyeRepository{db: db}
}

// Append inserts exactly one measurement. A single-record create is atomic,
// so a failed confirm can never leave a partial write behind.
func (r *EyeRepository) Append(ctx context.Context, eye *domain.Eye) error {
	if err := r.db.WithContext(ctx).Create(eye).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ListBySide returns the healing curve for one (injury, side) pair, sorted
// ascending by date. The query joins eye -> injury and constrains the
// injury's owner, so rows of another patient are unreachable even with a
// guessed injury ID.
func (r *EyeRepository) ListBySide(ctx context.Context, patientID, injuryID uint, side domain.EyeSide) ([]domain.HealingPoint, error) {
	var points []domain.HealingPoint
	err := r.db.WithContext(ctx).
		Model(&domain.Eye{}).
		Select("eyes.date, eyes.percentage").
		Joins("JOIN injuries ON injuries.id = eyes.injury_id").
		Where("injuries.patient_id = ? AND eyes.injury_id = ? AND eyes.side = ?", patientID, injuryID, side).
		Order("eyes.date ASC").
		Scan(&points).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return points, nil
}

// ListByInjury returns every measurement of an injury regardless of side.
func (r *EyeRepository) ListByInjury(ctx context.Context, injuryID uint) ([]domain.Eye, error) {
	var eyes []domain.Eye
	if err := r.db.WithContext(ctx).
		Where("injury_id = ?", injuryID).
		Order("date ASC").
		Find(&eyes).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return eyes, nil
}

// CountByInjury reports the number of stored measurements for an injury.
func (r *EyeRepository) CountByInjury(ctx context.Context, injuryID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Eye{}).
		Where("injury_id = ?", injuryID).
		Count(&count).Error; err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}
	return count, nil
}
