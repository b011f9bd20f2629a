package weather

import (
	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/util"
)

const (
	DefaultWaveHeight = 2.0
	DefaultStormRisk  = 0.0
)

// Sample weather conditions of one bucket. WaveDirection is nil when unknown.
type Sample struct {
	WaveHeight    float64  `json:"wave_height"`
	WaveDirection *float64 `json:"wave_dir,omitempty"`
	StormRisk     float64  `json:"storm_risk"`
}

func DefaultSample() Sample {
	return Sample{WaveHeight: DefaultWaveHeight, WaveDirection: nil, StormRisk: DefaultStormRisk}
}

// BucketKey coordinate rounded to the field precision.
type BucketKey struct {
	Lat float64
	Lon float64
}

func NewBucketKey(lat, lon float64, precision uint) BucketKey {
	return BucketKey{Lat: util.RoundFloat(lat, precision), Lon: util.RoundFloat(lon, precision)}
}

// WeatherField read-only weather grid. Lookups round to Precision decimals; a bucket that
// is not present resolves to DefaultSample.
type WeatherField struct {
	precision uint
	data      map[BucketKey]Sample
}

func NewWeatherField(data map[BucketKey]Sample, precision uint) *WeatherField {
	if data == nil {
		data = make(map[BucketKey]Sample)
	}
	return &WeatherField{precision: precision, data: data}
}

func (w *WeatherField) Precision() uint {
	return w.precision
}

func (w *WeatherField) Len() int {
	return len(w.data)
}

func (w *WeatherField) Sample(c datastructure.Coordinate) Sample {
	s, ok := w.data[NewBucketKey(c.Lat, c.Lon, w.precision)]
	if !ok {
		return DefaultSample()
	}
	return s
}

func (w *WeatherField) WaveHeight(c datastructure.Coordinate) float64 {
	return w.Sample(c).WaveHeight
}

func (w *WeatherField) WaveDirection(c datastructure.Coordinate) *float64 {
	return w.Sample(c).WaveDirection
}

func (w *WeatherField) StormRisk(c datastructure.Coordinate) float64 {
	return w.Sample(c).StormRisk
}

// Buckets copy of the underlying samples, used when persisting the field.
func (w *WeatherField) Buckets() map[BucketKey]Sample {
	out := make(map[BucketKey]Sample, len(w.data))
	for k, v := range w.data {
		out[k] = v
	}
	return out
}
