package repository

import (
	"context"
	"errors"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"

	"gorm.io/gorm"
)

// InjuryRepository handles injury data operations
type InjuryRepository struct {
	db *gorm.DB
}

// NewInjuryRepository creates a new injury repository
func NewInjuryRepository(db *gorm.DB) *InjuryRepository {
	return &InjuryRepository{db: db}
}

// Create inserts a new injury record
func (r *InjuryRepository) Create(ctx context.Context, injury *domain.Injury) error {
	if err := r.db.WithContext(ctx).Create(injury).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// GetByID returns the injury with the given ID
func (r *InjuryRepository) GetByID(ctx context.Context, id uint) (*domain.Injury, error) {
	var injury domain.Injury
	if err := r.db.WithContext(ctx).First(&injury, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.CodeInjuryNotFound, "injury", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &injury, nil
}

// GetOwned returns the injury only if it belongs to the given patient.
// A guessed injury ID owned by another patient reads as not found.
func (r *InjuryRepository) GetOwned(ctx context.Context, patientID, injuryID uint) (*domain.Injury, error) {
	var injury domain.Injury
	err := r.db.WithContext(ctx).
		Where("id = ? AND patient_id = ?", injuryID, patientID).
		First(&injury).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.CodeInjuryNotFound, "injury", injuryID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &injury, nil
}

// ListByPatient returns all injuries recorded for a patient
func (r *InjuryRepository) ListByPatient(ctx context.Context, patientID uint) ([]domain.Injury, error) {
	var injuries []domain.Injury
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("id").
		Find(&injuries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return injuries, nil
}

// Delete removes an injury and all its eye measurements in one transaction.
func (r *InjuryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var injury domain.Injury
		if err := tx.First(&injury, id).Error; err != nil {
			return err
		}
		if err := tx.Where("injury_id = ?", id).Delete(&domain.Eye{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Injury{}, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(apperrors.CodeInjuryNotFound, "injury", id)
	}
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}
