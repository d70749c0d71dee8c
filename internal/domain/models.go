package domain

import (
	"fmt"
	"strings"
	"time"
)

// EyeSide identifies which eye a measurement belongs to.
type EyeSide string

const (
	SideLeft  EyeSide = "LEFT"
	SideRight EyeSide = "RIGHT"
)

// ParseEyeSide validates a raw side token. Only LEFT and RIGHT exist,
// there is no "both" or "unspecified" at this layer.
func ParseEyeSide(s string) (EyeSide, error) {
	switch EyeSide(strings.ToUpper(strings.TrimSpace(s))) {
	case SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	default:
		return "", fmt.Errorf("unknown eye side %q", s)
	}
}

// Patient represents a registered patient account
type Patient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Login     string    `json:"login" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	Enabled   bool      `json:"enabled" gorm:"default:true"`
	Roles     string    `json:"roles" gorm:"default:USER"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Injury represents one injury event of a patient
type Injury struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Diagnosis string    `json:"diagnosis" gorm:"type:text;not null"`
	PatientID uint      `json:"patientId" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Eye is a single confirmed measurement, one point of the healing curve.
// Rows are append-only facts; corrections append superseding records
// rather than editing in place.
type Eye struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Side       EyeSide   `json:"side" gorm:"type:varchar(8);not null"`
	Date       time.Time `json:"date" gorm:"not null"`
	Percentage int       `json:"percentageOfEyeAffectedByHyphema" gorm:"not null"`
	InjuryID   uint      `json:"injuryId" gorm:"index;not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProvisionalResult is the outcome of an analysis that has not been
// confirmed yet. It is never persisted.
type ProvisionalResult struct {
	PatientID  uint      `json:"patientId"`
	InjuryID   uint      `json:"injuryId"`
	Side       EyeSide   `json:"eye"`
	Date       time.Time `json:"date"`
	PhotoPath  string    `json:"processedImage"`
	Percentage float64   `json:"percentageOfEyeAffectedByHyphema"`
}

// HealingPoint is one (date, percentage) pair of a healing curve.
type HealingPoint struct {
	Date       time.Time `json:"date"`
	Percentage int       `json:"percentageOfEyeAffectedByHyphema"`
}
