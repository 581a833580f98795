package fetchers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"homedash/internal/charts"
	"homedash/internal/models"
)

type inputDocument struct {
	Records []models.MetricRecord `json:"records"`
	Scores  []float64             `json:"scores"`
}

// DecodeInput accepts {"records": [...], "scores": [...]}, a bare array of
// numbers (scores) or a bare array of objects (records). Empty data is an
// empty input.
func DecodeInput(data []byte) (charts.Input, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return charts.Input{}, nil
	}

	switch data[0] {
	case '{':
		var doc inputDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return charts.Input{}, fmt.Errorf("%w: %v", charts.ErrInvalidInput, err)
		}
		return charts.Input{Records: doc.Records, Scores: doc.Scores}, nil
	case '[':
		var scores []float64
		if err := json.Unmarshal(data, &scores); err == nil {
			return charts.Input{Scores: scores}, nil
		}
		var records []models.MetricRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return charts.Input{}, fmt.Errorf("%w: input must be an array of numbers or objects: %v", charts.ErrInvalidInput, err)
		}
		return charts.Input{Records: records}, nil
	default:
		return charts.Input{}, fmt.Errorf("%w: input must be a JSON object or array", charts.ErrInvalidInput)
	}
}
