package dataset

import (
	"errors"
	"math"
	"testing"
)

func TestAssignAgeGroup_Boundaries(t *testing.T) {
	cases := []struct {
		in   float64
		want AgeGroup
	}{
		{0.1, AgeUpTo35},
		{2.9, AgeUpTo35},
		{35, AgeUpTo35},
		{35.0001, Age35To70},
		{70, Age35To70},
		{70.5, AgeOver70},
		{100, AgeOver70},
	}
	for _, c := range cases {
		got, err := AssignAgeGroup(c.in)
		if err != nil {
			t.Errorf("AssignAgeGroup(%v): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("AssignAgeGroup(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAssignAgeGroup_OutOfRange(t *testing.T) {
	for _, v := range []float64{0, -1, 100.5, math.NaN(), math.Inf(1)} {
		g, err := AssignAgeGroup(v)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("AssignAgeGroup(%v): expected OutOfRangeError, got %v", v, err)
		}
		if g != AgeUnknown {
			t.Errorf("AssignAgeGroup(%v) = %q, want unknown", v, g)
		}
	}
}

func TestBucketize_PartitionIsExhaustive(t *testing.T) {
	var values []float64
	for v := 0.5; v <= 100; v += 0.5 {
		values = append(values, v)
	}
	groups, err := Bucketize(values, BucketOptions{})
	if err != nil {
		t.Fatalf("Bucketize: %v", err)
	}
	counts := map[AgeGroup]int{}
	for _, g := range groups {
		counts[g]++
	}
	if counts[AgeUnknown] != 0 {
		t.Fatalf("unexpected unknown labels: %d", counts[AgeUnknown])
	}
	total := 0
	for _, g := range AgeGroups {
		total += counts[g]
	}
	if total != len(values) {
		t.Fatalf("buckets cover %d of %d values", total, len(values))
	}
	// (0,35] holds 0.5..35 in 0.5 steps
	if counts[AgeUpTo35] != 70 || counts[Age35To70] != 70 || counts[AgeOver70] != 60 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestBucketize_StrictAndLenient(t *testing.T) {
	values := []float64{12, 0, 88}
	_, err := Bucketize(values, BucketOptions{})
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if oor.Row != 1 || oor.Value != 0 {
		t.Fatalf("unexpected error detail: %+v", oor)
	}

	groups, err := Bucketize(values, BucketOptions{Unknown: true})
	if err != nil {
		t.Fatalf("lenient Bucketize: %v", err)
	}
	want := []AgeGroup{AgeUpTo35, AgeUnknown, AgeOver70}
	for i := range want {
		if groups[i] != want[i] {
			t.Fatalf("groups[%d] = %q, want %q", i, groups[i], want[i])
		}
	}
}
