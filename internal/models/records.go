package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// DefaultLabelField is the record key that carries the x-axis label.
const DefaultLabelField = "date"

// LabelDateLayout is used when a label field holds a time.Time.
const LabelDateLayout = "2006-01-02"

// ErrMalformedRecord indicates a record is missing a field or holds a value
// that cannot be plotted.
var ErrMalformedRecord = errors.New("malformed record")

// RecordError identifies the offending record and field.
type RecordError struct {
	Index int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d field %q: %v", e.Index, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func newRecordError(index int, field string, format string, args ...interface{}) *RecordError {
	return &RecordError{
		Index: index,
		Field: field,
		Err:   fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...)),
	}
}

// MetricRecord is one dashboard sample, e.g.
// {"date": "2024-01-01", "usage": 5.2, "produced": 3.1}.
type MetricRecord map[string]interface{}

// Float returns the numeric value stored under field. Numeric strings are
// accepted; missing, non-numeric (booleans included), NaN and infinite
// values are not.
func (r MetricRecord) Float(field string) (float64, error) {
	raw, ok := r[field]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
	}
	if _, isBool := raw.(bool); isBool {
		return 0, fmt.Errorf("%w: field %q is a boolean, not a number", ErrMalformedRecord, field)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q is not numeric: %v", ErrMalformedRecord, field, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: field %q is not finite", ErrMalformedRecord, field)
	}
	return v, nil
}

// Label returns the x-axis label stored under field.
func (r MetricRecord) Label(field string) (string, error) {
	raw, ok := r[field]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
	}
	switch v := raw.(type) {
	case time.Time:
		return v.Format(LabelDateLayout), nil
	case *time.Time:
		if v == nil {
			return "", fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
		}
		return v.Format(LabelDateLayout), nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: field %q is not a label: %v", ErrMalformedRecord, field, err)
	}
	return s, nil
}

// Column extracts field from every record, preserving order. The first bad
// record aborts the extraction.
func Column(records []MetricRecord, field string) ([]float64, error) {
	values := make([]float64, len(records))
	for i, rec := range records {
		v, err := rec.Float(field)
		if err != nil {
			return nil, &RecordError{Index: i, Field: field, Err: err}
		}
		values[i] = v
	}
	return values, nil
}

// Labels extracts the label field from every record, preserving order.
func Labels(records []MetricRecord, field string) ([]string, error) {
	if field == "" {
		field = DefaultLabelField
	}
	labels := make([]string, len(records))
	for i, rec := range records {
		l, err := rec.Label(field)
		if err != nil {
			return nil, &RecordError{Index: i, Field: field, Err: err}
		}
		labels[i] = l
	}
	return labels, nil
}

// ValidateScores rejects values that cannot be encoded in a chart config.
func ValidateScores(scores []float64) error {
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return newRecordError(i, "", "score %v is not finite", s)
		}
	}
	return nil
}
