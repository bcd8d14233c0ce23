package stats

import (
	"github.com/montanaflynn/stats"
)

// Health interpretation thresholds on the NDVI scale.
const (
	PoorBelow     = 0.3
	ExcellentFrom = 0.6
)

type HealthClass int

const (
	HealthPoor HealthClass = iota
	HealthModerate
	HealthExcellent
)

func (c HealthClass) String() string {
	switch c {
	case HealthPoor:
		return "poor"
	case HealthModerate:
		return "moderate"
	case HealthExcellent:
		return "excellent"
	}
	return "unknown"
}

// Classify maps an NDVI value onto the three-bucket health scale.
func Classify(value float64) HealthClass {
	switch {
	case value < PoorBelow:
		return HealthPoor
	case value < ExcellentFrom:
		return HealthModerate
	default:
		return HealthExcellent
	}
}

type HealthBucket struct {
	Count int     `json:"count" bson:"count"`
	Pct   float64 `json:"pct" bson:"pct"`
}

type Histogram struct {
	Poor      HealthBucket `json:"poor" bson:"poor"`
	Moderate  HealthBucket `json:"moderate" bson:"moderate"`
	Excellent HealthBucket `json:"excellent" bson:"excellent"`
}

// Summary holds the reduced statistics over the valid pixel set. The
// pointer fields stay nil when there are no valid pixels, so "no data"
// never renders as a legitimate zero NDVI.
type Summary struct {
	PixelCount int       `json:"pixel_count" bson:"pixel_count"`
	Mean       *float64  `json:"mean_ndvi" bson:"mean_ndvi"`
	Median     *float64  `json:"median_ndvi" bson:"median_ndvi"`
	Min        *float64  `json:"min_ndvi" bson:"min_ndvi"`
	Max        *float64  `json:"max_ndvi" bson:"max_ndvi"`
	StdDev     *float64  `json:"std_dev_ndvi" bson:"std_dev_ndvi"`
	P10        *float64  `json:"percentile_10" bson:"percentile_10"`
	P90        *float64  `json:"percentile_90" bson:"percentile_90"`
	Histogram  Histogram `json:"histogram" bson:"histogram"`
}

// Defined reports whether the summary carries real statistics.
func (s Summary) Defined() bool {
	return s.PixelCount > 0
}

// Aggregate reduces a sequence of NDVI values. Median averages the two
// middle values for even counts. An empty input yields an undefined
// summary with a zero pixel count, which is a valid result.
func Aggregate(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, nil
	}

	data := stats.Float64Data(values)

	mean, err := data.Mean()
	if err != nil {
		return Summary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, err
	}
	min, err := data.Min()
	if err != nil {
		return Summary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return Summary{}, err
	}
	stdDev, err := data.StandardDeviation()
	if err != nil {
		return Summary{}, err
	}
	// Percentile interpolation is undefined for small samples; nearest
	// rank works for any n >= 1.
	p10, err := data.PercentileNearestRank(10)
	if err != nil {
		return Summary{}, err
	}
	p90, err := data.PercentileNearestRank(90)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		PixelCount: len(values),
		Mean:       &mean,
		Median:     &median,
		Min:        &min,
		Max:        &max,
		StdDev:     &stdDev,
		P10:        &p10,
		P90:        &p90,
		Histogram:  buildHistogram(values),
	}
	return summary, nil
}

func buildHistogram(values []float64) Histogram {
	var h Histogram
	for _, v := range values {
		switch Classify(v) {
		case HealthPoor:
			h.Poor.Count++
		case HealthModerate:
			h.Moderate.Count++
		case HealthExcellent:
			h.Excellent.Count++
		}
	}

	total := float64(len(values))
	h.Poor.Pct = float64(h.Poor.Count) / total * 100
	h.Moderate.Pct = float64(h.Moderate.Count) / total * 100
	h.Excellent.Pct = float64(h.Excellent.Count) / total * 100
	return h
}
