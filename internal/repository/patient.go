package repository

import (
	"context"
	"errors"
	"strings"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"

	"gorm.io/gorm"
)

// PatientRepository handles patient data operations
type PatientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create inserts a new patient record
func (r *PatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrorTypeValidation, apperrors.CodeDuplicateLogin,
				"login is already taken").WithContext("login", patient.Login)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// GetByID returns the patient with the given ID
func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*domain.Patient, error) {
	var patient domain.Patient
	if err := r.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.CodePatientNotFound, "patient", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &patient, nil
}

// GetByLogin returns the patient with the given login
func (r *PatientRepository) GetByLogin(ctx context.Context, login string) (*domain.Patient, error) {
	var patient domain.Patient
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrorTypeNotFound, apperrors.CodePatientNotFound,
				"patient not found").WithContext("login", login)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &patient, nil
}

// List returns all patients
func (r *PatientRepository) List(ctx context.Context) ([]domain.Patient, error) {
	var patients []domain.Patient
	if err := r.db.WithContext(ctx).Order("id").Find(&patients).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return patients, nil
}

// Update persists changes to an existing patient
func (r *PatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	if err := r.db.WithContext(ctx).Save(patient).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrorTypeValidation, apperrors.CodeDuplicateLogin,
				"login is already taken").WithContext("login", patient.Login)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// Delete removes a patient together with all owned injuries and eye
// measurements. Ownership is explicit here: children go first, inside one
// transaction, so no orphaned injury or eye row can survive.
func (r *PatientRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient domain.Patient
		if err := tx.First(&patient, id).Error; err != nil {
			return err
		}
		if err := tx.Where("injury_id IN (?)",
			tx.Model(&domain.Injury{}).Select("id").Where("patient_id = ?", id),
		).Delete(&domain.Eye{}).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", id).Delete(&domain.Injury{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Patient{}, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(apperrors.CodePatientNotFound, "patient", id)
	}
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// isUniqueViolation matches the duplicate-key wording of both postgres and
// the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
