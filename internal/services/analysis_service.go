package services

import (
	"context"
	"math"
	"time"

	"hyphema-tracker/internal/detector"
	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/logger"
	"hyphema-tracker/internal/repository"
	"hyphema-tracker/internal/storage"
	"hyphema-tracker/internal/utils"
)

// AnalysisService orchestrates the analysis pipeline: store the photo, run
// the detector, parse the payload, and hand the caller a provisional
// result. Persisting a measurement is a separate, explicit Confirm step so
// a clinician can discard a bad detection without it ever reaching the
// healing curve.
type AnalysisService struct {
	photos   *storage.PhotoStore
	runner   domain.DetectorRunner
	injuries *repository.InjuryRepository
	eyes     *repository.EyeRepository
}

var _ domain.AnalysisService = (*AnalysisService)(nil)

// NewAnalysisService creates a new analysis service
func NewAnalysisService(photos *storage.PhotoStore, runner domain.DetectorRunner, injuries *repository.InjuryRepository, eyes *repository.EyeRepository) *AnalysisService {
	return &AnalysisService{
		photos:   photos,
		runner:   runner,
		injuries: injuries,
		eyes:     eyes,
	}
}

// Analyze runs one detection for a photo submission and returns the
// provisional result. Nothing is written to the time series here.
func (s *AnalysisService) Analyze(ctx context.Context, patientID, injuryID uint, side domain.EyeSide, date time.Time, photo []byte, fileName string) (*domain.ProvisionalResult, error) {
	if len(photo) == 0 {
		return nil, apperrors.NewValidationError("photo", "must not be empty")
	}

	if _, err := s.injuries.GetOwned(ctx, patientID, injuryID); err != nil {
		return nil, err
	}

	storedName, absPath, err := s.photos.Save(fileName, photo)
	if err != nil {
		return nil, err
	}

	raw, err := s.runner.Run(ctx, absPath)
	if err != nil {
		logger.Error("Detector invocation failed", apperrors.LogFields(err)...)
		return nil, err
	}

	result, err := detector.ParseResult(raw)
	if err != nil {
		return nil, err
	}

	logger.Info("Analysis completed",
		"patient_id", patientID,
		"injury_id", injuryID,
		"side", side,
		"photo", storedName,
		"percentage", result.Percentage)

	return &domain.ProvisionalResult{
		PatientID:  patientID,
		InjuryID:   injuryID,
		Side:       side,
		Date:       date,
		PhotoPath:  "/uploads/" + storedName,
		Percentage: result.Percentage,
	}, nil
}

// Confirm validates a clinician-approved result and appends it to the time
// series. This is the only write path into the healing curve.
func (s *AnalysisService) Confirm(ctx context.Context, patientID, injuryID uint, rawSide, rawDate string, percentage int) (*domain.Eye, error) {
	side, err := domain.ParseEyeSide(rawSide)
	if err != nil {
		return nil, apperrors.NewValidationError("eye", "must be LEFT or RIGHT")
	}

	date, err := utils.ParseISODate(rawDate)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "must be an ISO-8601 calendar date")
	}

	if percentage < 0 || percentage > 100 {
		return nil, apperrors.NewValidationError("percentageOfEyeAffectedByHyphema", "must be between 0 and 100")
	}

	if _, err := s.injuries.GetOwned(ctx, patientID, injuryID); err != nil {
		return nil, err
	}

	eye := &domain.Eye{
		Side:       side,
		Date:       date,
		Percentage: percentage,
		InjuryID:   injuryID,
	}
	if err := s.eyes.Append(ctx, eye); err != nil {
		return nil, err
	}

	logger.Info("Measurement confirmed",
		"injury_id", injuryID,
		"side", side,
		"date", rawDate,
		"percentage", percentage)

	return eye, nil
}

// HealingCurve returns the chronologically ordered measurements for one
// (injury, side) pair, scoped to the owning patient.
func (s *AnalysisService) HealingCurve(ctx context.Context, patientID, injuryID uint, side domain.EyeSide) ([]domain.HealingPoint, error) {
	return s.eyes.ListBySide(ctx, patientID, injuryID, side)
}

// ListByInjury returns all measurements of an injury regardless of side.
func (s *AnalysisService) ListByInjury(ctx context.Context, injuryID uint) ([]domain.Eye, error) {
	if _, err := s.injuries.GetByID(ctx, injuryID); err != nil {
		return nil, err
	}
	return s.eyes.ListByInjury(ctx, injuryID)
}

// RoundPercentage converts the detector's floating percentage into the
// integer persisted on confirm, matching what clients display.
func RoundPercentage(p float64) int {
	return int(math.Round(p))
}
