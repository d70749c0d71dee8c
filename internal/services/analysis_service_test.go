package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hyphema-tracker/internal/database"
	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/repository"
	"hyphema-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubRunner stands in for the external detector process.
type stubRunner struct {
	output []byte
	err    error
	calls  int
}

func (r *stubRunner) Run(ctx context.Context, photoPath string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.output, nil
}

type fixture struct {
	svc     *AnalysisService
	runner  *stubRunner
	eyes    *repository.EyeRepository
	db      *gorm.DB
	patient *domain.Patient
	injury  *domain.Injury
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	patients := repository.NewPatientRepository(db)
	injuries := repository.NewInjuryRepository(db)
	eyes := repository.NewEyeRepository(db)

	// Fixed IDs keep the assertions readable.
	patient := &domain.Patient{ID: 7, Login: "anna", Password: "hash"}
	require.NoError(t, patients.Create(ctx, patient))
	injury := &domain.Injury{ID: 42, Diagnosis: "hyphema after blunt trauma", PatientID: 7}
	require.NoError(t, injuries.Create(ctx, injury))

	photos, err := storage.NewPhotoStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	runner := &stubRunner{}
	return &fixture{
		svc:     NewAnalysisService(photos, runner, injuries, eyes),
		runner:  runner,
		eyes:    eyes,
		db:      db,
		patient: patient,
		injury:  injury,
	}
}

func (f *fixture) eyeRowCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&domain.Eye{}).Count(&count).Error)
	return count
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAnalyze_ReturnsProvisionalResultWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	f.runner.output = []byte(`{"hyphema_area_percentage": 15}`)

	result, err := f.svc.Analyze(context.Background(), 7, 42, domain.SideLeft,
		mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.NoError(t, err)

	assert.Equal(t, uint(7), result.PatientID)
	assert.Equal(t, uint(42), result.InjuryID)
	assert.Equal(t, domain.SideLeft, result.Side)
	assert.InDelta(t, 15.0, result.Percentage, 1e-9)
	assert.Contains(t, result.PhotoPath, "/uploads/eye_")
	assert.Equal(t, 1, f.runner.calls)

	// Analyze is a dry run: the time series must stay empty.
	assert.Zero(t, f.eyeRowCount(t))
}

func TestAnalyzeThenConfirm_LandsInHealingCurve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.runner.output = []byte(`{"hyphema_area_percentage": 15}`)

	result, err := f.svc.Analyze(ctx, 7, 42, domain.SideLeft, mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 7, 42, "LEFT", "2024-12-06", RoundPercentage(result.Percentage))
	require.NoError(t, err)

	// Second observation, out of order on purpose.
	f.runner.output = []byte(`{"hyphema_area_percentage": 12}`)
	_, err = f.svc.Analyze(ctx, 7, 42, domain.SideLeft, mustDate("2024-12-10"), []byte("jpeg"), "eye.jpg")
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, 7, 42, "LEFT", "2024-12-10", 12)
	require.NoError(t, err)

	curve, err := f.svc.HealingCurve(ctx, 7, 42, domain.SideLeft)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.Equal(t, "2024-12-06", curve[0].Date.Format("2006-01-02"))
	assert.Equal(t, 15, curve[0].Percentage)
	assert.Equal(t, "2024-12-10", curve[1].Date.Format("2006-01-02"))
	assert.Equal(t, 12, curve[1].Percentage)
}

func TestAnalyze_UnknownInjury(t *testing.T) {
	f := newFixture(t)
	f.runner.output = []byte(`{"hyphema_area_percentage": 15}`)

	_, err := f.svc.Analyze(context.Background(), 7, 999, domain.SideLeft,
		mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
	// The detector must not run for a submission that fails validation.
	assert.Zero(t, f.runner.calls)
}

func TestAnalyze_InjuryOfAnotherPatientReadsAsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &domain.Patient{ID: 8, Login: "bob", Password: "hash"}
	require.NoError(t, repository.NewPatientRepository(f.db).Create(ctx, other))

	_, err := f.svc.Analyze(ctx, 8, 42, domain.SideLeft, mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestAnalyze_DetectorFailureCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.runner.err = apperrors.New(apperrors.ErrorTypeDetector, apperrors.CodeDetectorExit, "detector exited with code 1")

	_, err := f.svc.Analyze(context.Background(), 7, 42, domain.SideLeft,
		mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDetector, apperrors.TypeOf(err))
	assert.Zero(t, f.eyeRowCount(t))
}

func TestAnalyze_InBandDetectorError(t *testing.T) {
	f := newFixture(t)
	f.runner.output = []byte(`{"error": "No circle found."}`)

	_, err := f.svc.Analyze(context.Background(), 7, 42, domain.SideLeft,
		mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAnalysisFailed, appErr.Code)
	assert.Zero(t, f.eyeRowCount(t))
}

func TestAnalyze_MalformedDetectorOutput(t *testing.T) {
	f := newFixture(t)
	f.runner.output = []byte(`garbage not json`)

	_, err := f.svc.Analyze(context.Background(), 7, 42, domain.SideLeft,
		mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeParse, apperrors.TypeOf(err))
	assert.Zero(t, f.eyeRowCount(t))
}

func TestConfirm_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		side       string
		date       string
		percentage int
	}{
		{"side token unknown", "BOTH", "2024-12-06", 15},
		{"side token empty", "", "2024-12-06", 15},
		{"date malformed", "LEFT", "06.12.2024", 15},
		{"date empty", "LEFT", "", 15},
		{"percentage above range", "LEFT", "2024-12-06", 101},
		{"percentage negative", "LEFT", "2024-12-06", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.eyeRowCount(t)
			_, err := f.svc.Confirm(ctx, 7, 42, tt.side, tt.date, tt.percentage)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
			// A rejected confirm must leave the table untouched.
			assert.Equal(t, before, f.eyeRowCount(t))
		})
	}
}

func TestConfirm_BoundaryPercentagesAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, pct := range []int{0, 100} {
		day := mustDate("2024-12-06").AddDate(0, 0, i)
		eye, err := f.svc.Confirm(ctx, 7, 42, "RIGHT", day.Format("2006-01-02"), pct)
		require.NoError(t, err)
		assert.Equal(t, pct, eye.Percentage)
	}
}

func TestConfirm_UnknownInjury(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Confirm(context.Background(), 7, 999, "LEFT", "2024-12-06", 15)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
	assert.Zero(t, f.eyeRowCount(t))
}

func TestRoundPercentage(t *testing.T) {
	assert.Equal(t, 15, RoundPercentage(15.0))
	assert.Equal(t, 13, RoundPercentage(12.5))
	assert.Equal(t, 12, RoundPercentage(12.4))
}

// Errors from the runner must pass through unchanged so callers can tell
// a timeout from an abnormal exit.
func TestAnalyze_PreservesRunnerErrorType(t *testing.T) {
	f := newFixture(t)
	f.runner.err = apperrors.New(apperrors.ErrorTypeTimeout, apperrors.CodeDetectorTimeout, "detector did not finish within 30s")

	_, err := f.svc.Analyze(context.Background(), 7, 42, domain.SideLeft,
		mustDate("2024-12-06"), []byte("jpeg"), "eye.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeTimeout, apperrors.TypeOf(err))

	var target *apperrors.AppError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, apperrors.CodeDetectorTimeout, target.Code)
}
