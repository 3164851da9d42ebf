package dataset

import (
	"math"

	"github.com/apex/log"
)

// AgeGroup is the ordinal bucket of the AGE column.
type AgeGroup string

const (
	AgeUpTo35  AgeGroup = "<=35 years"
	Age35To70  AgeGroup = "35-70 years"
	AgeOver70  AgeGroup = ">=70 years"
	AgeUnknown AgeGroup = "unknown"
)

// AgeGroups lists the buckets in ascending order.
var AgeGroups = []AgeGroup{AgeUpTo35, Age35To70, AgeOver70}

// ageEdges are right-inclusive: (0,35], (35,70], (70,100].
var ageEdges = []float64{0, 35, 70, 100}

// BucketOptions controls how values outside (0, 100] are handled.
type BucketOptions struct {
	// Unknown maps out-of-range values to AgeUnknown instead of failing.
	Unknown bool
}

// AssignAgeGroup returns the bucket for v or an error if v is outside (0, 100].
func AssignAgeGroup(v float64) (AgeGroup, error) {
	if math.IsNaN(v) || v <= ageEdges[0] || v > ageEdges[len(ageEdges)-1] {
		return AgeUnknown, &OutOfRangeError{Column: ColAge, Row: -1, Value: v}
	}
	for i := 1; i < len(ageEdges); i++ {
		if v <= ageEdges[i] {
			return AgeGroups[i-1], nil
		}
	}
	return AgeUnknown, &OutOfRangeError{Column: ColAge, Row: -1, Value: v}
}

// Bucketize assigns every value to exactly one age group.
func Bucketize(values []float64, opt BucketOptions) ([]AgeGroup, error) {
	out := make([]AgeGroup, len(values))
	unknown := 0
	for i, v := range values {
		g, err := AssignAgeGroup(v)
		if err != nil {
			if !opt.Unknown {
				return nil, &OutOfRangeError{Column: ColAge, Row: i, Value: v}
			}
			unknown++
		}
		out[i] = g
	}
	if unknown > 0 {
		log.WithField("rows", unknown).Warn("age values outside (0, 100] mapped to unknown")
	}
	return out, nil
}
