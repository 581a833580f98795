package charts

import (
	"fmt"
	"math"
)

// Bucket is one of the three score ranges.
type Bucket int

const (
	BucketLow Bucket = iota
	BucketMid
	BucketHigh
)

func (b Bucket) String() string {
	switch b {
	case BucketLow:
		return "low"
	case BucketMid:
		return "mid"
	case BucketHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Thresholds are the two cut points of the score color rule. A score equal
// to a cut point falls in the upper bucket.
type Thresholds struct {
	Low  float64 `json:"low" mapstructure:"low"`
	High float64 `json:"high" mapstructure:"high"`
}

// Cut points observed on the dashboard's two dart games.
var (
	Darts501Thresholds      = Thresholds{Low: 34.5, High: 49.5}
	ScoreTrainingThresholds = Thresholds{Low: 39.5, High: 59.5}
)

// Validate requires finite cut points with Low <= High.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.Low) || math.IsNaN(t.High) || math.IsInf(t.Low, 0) || math.IsInf(t.High, 0) {
		return fmt.Errorf("%w: thresholds must be finite", ErrInvalidInput)
	}
	if t.Low > t.High {
		return fmt.Errorf("%w: low threshold %v above high threshold %v", ErrInvalidInput, t.Low, t.High)
	}
	return nil
}

// Bucket classifies a score.
func (t Thresholds) Bucket(score float64) Bucket {
	switch {
	case score < t.Low:
		return BucketLow
	case score < t.High:
		return BucketMid
	default:
		return BucketHigh
	}
}

// ScorePalette maps buckets to bar colors.
type ScorePalette struct {
	Low  RGBA
	Mid  RGBA
	High RGBA
}

// DefaultScorePalette is warning red, caution yellow and success green at
// 0.8 opacity.
func DefaultScorePalette() ScorePalette {
	return ScorePalette{
		Low:  Red500.WithAlpha(0.8),
		Mid:  Yellow500.WithAlpha(0.8),
		High: Green500.WithAlpha(0.8),
	}
}

// IsZero reports whether no color was set.
func (p ScorePalette) IsZero() bool {
	return p == ScorePalette{}
}

// Color returns the palette entry for b.
func (p ScorePalette) Color(b Bucket) RGBA {
	switch b {
	case BucketLow:
		return p.Low
	case BucketMid:
		return p.Mid
	default:
		return p.High
	}
}

// ScoreColors colors every score, preserving order.
func ScoreColors(scores []float64, t Thresholds, p ScorePalette) Colors {
	colors := make(Colors, len(scores))
	for i, s := range scores {
		colors[i] = p.Color(t.Bucket(s))
	}
	return colors
}
