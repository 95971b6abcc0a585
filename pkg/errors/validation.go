package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePointID validates a drill point identifier.
// Identifiers end up in SVG id attributes, DXF layer text and CLI arguments,
// so the rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No quotes or angle brackets
//   - Maximum length of 128 characters
func ValidatePointID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPoint, "point id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPoint, "point id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPoint, "point id contains whitespace or control characters")
		}
	}

	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidPoint, "point id contains invalid characters: %q", id)
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for the named field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	return nil
}

// ValidatePositive rejects non-positive or non-finite values for the named field.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidSettings, "%s must be positive, got %g", field, v)
	}
	return nil
}

// ValidateNonNegative rejects negative or non-finite values for the named field.
func ValidateNonNegative(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidSettings, "%s cannot be negative, got %g", field, v)
	}
	return nil
}

// ValidateAngles checks optional survey angles. Azimuth must lie in [0, 360)
// and dip in [0, 90]; a nil pointer means the angle is absent and is accepted.
func ValidateAngles(azimuth, dip *float64) error {
	if azimuth != nil {
		if err := ValidateFinite("azimuth", *azimuth); err != nil {
			return err
		}
		if *azimuth < 0 || *azimuth >= 360 {
			return New(ErrCodeInvalidPoint, "azimuth must be in [0, 360), got %g", *azimuth)
		}
	}
	if dip != nil {
		if err := ValidateFinite("dip", *dip); err != nil {
			return err
		}
		if *dip < 0 || *dip > 90 {
			return New(ErrCodeInvalidPoint, "dip must be in [0, 90], got %g", *dip)
		}
	}
	return nil
}
