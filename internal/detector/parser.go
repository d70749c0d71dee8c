package detector

import (
	"encoding/json"
	"fmt"

	apperrors "hyphema-tracker/internal/errors"
)

// Result is a successfully decoded detector payload.
type Result struct {
	Percentage float64
	ImagePath  string
}

// payload pins the detector's stdout contract: on success a single JSON
// object {"image": "<path>", "hyphema_area_percentage": <number>}, on an
// in-band failure {"error": "<message>"}.
type payload struct {
	Image      string   `json:"image"`
	Percentage *float64 `json:"hyphema_area_percentage"`
	Error      string   `json:"error"`
}

// ParseResult decodes the detector's raw stdout. An in-band "error" field
// is reported as a detector failure, anything malformed as a parse failure;
// the two must stay distinguishable for callers. No fallback value is ever
// synthesized.
func ParseResult(raw []byte) (*Result, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeParse, apperrors.CodeParse,
			"detector output is not valid JSON")
	}

	if p.Error != "" {
		return nil, apperrors.New(apperrors.ErrorTypeDetector, apperrors.CodeAnalysisFailed, p.Error)
	}

	if p.Percentage == nil {
		return nil, apperrors.New(apperrors.ErrorTypeParse, apperrors.CodeParse,
			"detector output is missing hyphema_area_percentage")
	}

	pct := *p.Percentage
	if pct < 0 || pct > 100 {
		return nil, apperrors.New(apperrors.ErrorTypeParse, apperrors.CodeParse,
			fmt.Sprintf("detector reported percentage %v outside [0,100]", pct))
	}

	return &Result{Percentage: pct, ImagePath: p.Image}, nil
}
