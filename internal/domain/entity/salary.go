package entity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

// salaryPattern accepts plain decimal notation with an optional exponent.
// Hex floats, underscores, "Inf" and "NaN" are rejected even though strconv accepts them.
var salaryPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseSalary validates and converts a textual salary
func ParseSalary(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidSalary)
	}

	if !salaryPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidSalary, raw)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidSalary, err.Error())
	}

	if err := ValidateSalary(value); err != nil {
		return 0, err
	}
	return value, nil
}

// ValidateSalary checks that a numeric salary is finite and not negative
func ValidateSalary(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: value is not finite", errs.ErrInvalidSalary)
	}
	if value < 0 {
		return errs.ErrNegativeSalary
	}
	return nil
}

// FormatSalary renders a salary with the shortest exact representation
func FormatSalary(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
