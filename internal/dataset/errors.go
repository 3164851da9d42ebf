package dataset

import "fmt"

// DataLoadError indicates the dataset could not be fetched, read or parsed.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e == nil {
		return "data load failed"
	}
	return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SchemaError indicates an expected column is missing or has the wrong type.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: column %s: %s", e.Column, e.Reason)
}

// OutOfRangeError indicates a value outside the bucketing domain.
type OutOfRangeError struct {
	Column string
	Row    int
	Value  float64
}

func (e *OutOfRangeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s value %v is outside (0, 100]", e.Column, e.Value)
	}
	return fmt.Sprintf("%s value %v at row %d is outside (0, 100]", e.Column, e.Value, e.Row)
}
