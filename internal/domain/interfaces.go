package domain

import (
	"context"
	"time"
)

// PatientService handles patient account operations
type PatientService interface {
	Register(ctx context.Context, login, password string) (*Patient, error)
	GetByID(ctx context.Context, id uint) (*Patient, error)
	List(ctx context.Context) ([]Patient, error)
	UpdateLogin(ctx context.Context, id uint, login string) (*Patient, error)
	Delete(ctx context.Context, id uint) error
}

// InjuryService handles injury record operations
type InjuryService interface {
	AddToPatient(ctx context.Context, patientID uint, diagnosis string) (*Injury, error)
	ListByPatient(ctx context.Context, patientID uint) ([]Injury, error)
	Delete(ctx context.Context, id uint) error
}

// AnalysisService orchestrates the two-phase analyze/confirm pipeline
type AnalysisService interface {
	Analyze(ctx context.Context, patientID, injuryID uint, side EyeSide, date time.Time, photo []byte, fileName string) (*ProvisionalResult, error)
	Confirm(ctx context.Context, patientID, injuryID uint, rawSide, rawDate string, percentage int) (*Eye, error)
	HealingCurve(ctx context.Context, patientID, injuryID uint, side EyeSide) ([]HealingPoint, error)
	ListByInjury(ctx context.Context, injuryID uint) ([]Eye, error)
}

// DetectorRunner invokes the external detector once per call and returns
// its raw standard output. It never interprets the payload.
type DetectorRunner interface {
	Run(ctx context.Context, photoPath string) ([]byte, error)
}
