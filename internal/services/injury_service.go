package services

import (
	"context"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/repository"
)

// InjuryService handles injury record operations
type InjuryService struct {
	injuries *repository.InjuryRepository
	patients *repository.PatientRepository
}

var _ domain.InjuryService = (*InjuryService)(nil)

// NewInjuryService creates a new injury service
func NewInjuryService(injuries *repository.InjuryRepository, patients *repository.PatientRepository) *InjuryService {
	return &InjuryService{injuries: injuries, patients: patients}
}

// AddToPatient records a new injury event for an existing patient.
func (s *InjuryService) AddToPatient(ctx context.Context, patientID uint, diagnosis string) (*domain.Injury, error) {
	if diagnosis == "" {
		return nil, apperrors.NewValidationError("diagnosis", "must not be empty")
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	injury := &domain.Injury{
		Diagnosis: diagnosis,
		PatientID: patientID,
	}
	if err := s.injuries.Create(ctx, injury); err != nil {
		return nil, err
	}
	return injury, nil
}

// ListByPatient returns all injuries of a patient
func (s *InjuryService) ListByPatient(ctx context.Context, patientID uint) ([]domain.Injury, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.injuries.ListByPatient(ctx, patientID)
}

// Delete removes an injury and its measurements
func (s *InjuryService) Delete(ctx context.Context, id uint) error {
	return s.injuries.Delete(ctx, id)
}
