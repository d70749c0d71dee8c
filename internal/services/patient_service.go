package services

import (
	"context"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// PatientService handles patient account operations
type PatientService struct {
	patients *repository.PatientRepository
}

var _ domain.PatientService = (*PatientService)(nil)

// NewPatientService creates a new patient service
func NewPatientService(patients *repository.PatientRepository) *PatientService {
	return &PatientService{patients: patients}
}

// Register creates a new patient account with a bcrypt-hashed password.
func (s *PatientService) Register(ctx context.Context, login, password string) (*domain.Patient, error) {
	if login == "" {
		return nil, apperrors.NewValidationError("login", "must not be empty")
	}
	if password == "" {
		return nil, apperrors.NewValidationError("password", "must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "HASH", "failed to hash password")
	}

	patient := &domain.Patient{
		Login:    login,
		Password: string(hash),
		Enabled:  true,
		Roles:    "USER",
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetByID returns one patient
func (s *PatientService) GetByID(ctx context.Context, id uint) (*domain.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// List returns all patients
func (s *PatientService) List(ctx context.Context) ([]domain.Patient, error) {
	return s.patients.List(ctx)
}

// UpdateLogin changes a patient's login name
func (s *PatientService) UpdateLogin(ctx context.Context, id uint, login string) (*domain.Patient, error) {
	if login == "" {
		return nil, apperrors.NewValidationError("login", "must not be empty")
	}
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patient.Login = login
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes a patient and, through the repository, every injury and
// measurement the patient owns.
func (s *PatientService) Delete(ctx context.Context, id uint) error {
	return s.patients.Delete(ctx, id)
}
