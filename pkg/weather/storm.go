package weather

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/util"
)

var ErrInvalidStormCatalogue = errors.New("weather: invalid storm catalogue")

var stormHeader = []string{"storm_id", "latitude", "longitude", "radius_km", "intensity", "status", "name", "description"}

// Storm circular storm cell. Risk falls off quadratically from the center.
type Storm struct {
	ID        string
	Name      string
	Center    datastructure.Coordinate
	RadiusKm  float64
	Intensity float64
}

// ReadStormCatalogue parse the storm csv and keep rows whose status is "active".
func ReadStormCatalogue(r io.Reader) ([]Storm, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStormCatalogue, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range stormHeader[:6] {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidStormCatalogue, h)
		}
	}

	storms := []Storm{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidStormCatalogue, line, err)
		}
		if strings.ToLower(strings.TrimSpace(row[col["status"]])) != "active" {
			continue
		}

		vals := [4]float64{}
		for i, h := range []string{"latitude", "longitude", "radius_km", "intensity"} {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(row[col[h]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %v", ErrInvalidStormCatalogue, line, h, err)
			}
		}
		if vals[2] <= 0 {
			return nil, fmt.Errorf("%w: line %d: radius must be positive", ErrInvalidStormCatalogue, line)
		}

		s := Storm{
			ID:        row[col["storm_id"]],
			Center:    datastructure.NewCoordinate(vals[0], vals[1]),
			RadiusKm:  vals[2],
			Intensity: vals[3],
		}
		if i, ok := col["name"]; ok && i < len(row) {
			s.Name = row[i]
		}
		storms = append(storms, s)
	}
	return storms, nil
}

// Risk storm risk contributed by s at c, in [0,1].
func (s Storm) Risk(c datastructure.Coordinate) float64 {
	d := c.DistanceKm(s.Center)
	if d >= s.RadiusKm {
		return 0
	}
	normalized := d / s.RadiusKm
	return util.Clamp((1.0-normalized*normalized)*s.Intensity, 0, 1)
}

// GridSpec extent and resolution of a generated weather grid. Max bounds are exclusive.
type GridSpec struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
	Resolution     float64
	Precision      uint
}

// BuildWeatherField synthesise a weather grid from a storm catalogue. Base sea state
// grows with latitude, storms add risk and extra wave height. When several grid cells
// round into the same bucket the sample with the highest risk wins.
func BuildWeatherField(spec GridSpec, storms []Storm, progress func()) *WeatherField {
	data := make(map[BucketKey]Sample)
	nLat := int((spec.LatMax - spec.LatMin) / spec.Resolution)
	nLon := int((spec.LonMax - spec.LonMin) / spec.Resolution)

	for i := 0; i < nLat; i++ {
		lat := spec.LatMin + float64(i)*spec.Resolution
		for j := 0; j < nLon; j++ {
			lon := spec.LonMin + float64(j)*spec.Resolution
			c := datastructure.NewCoordinate(lat, lon)

			waveH := 1.5 + 1.2*math.Abs(math.Sin(lat*math.Pi/180))
			waveDir := math.Mod(lon*2, 360)
			if waveDir < 0 {
				waveDir += 360
			}

			risk := 0.0
			for _, s := range storms {
				risk = math.Max(risk, s.Risk(c))
			}
			if risk > 0.1 {
				waveH += 5.0 * risk
			}

			key := NewBucketKey(lat, lon, spec.Precision)
			if existing, ok := data[key]; ok && existing.StormRisk >= risk {
				continue
			}
			dir := waveDir
			data[key] = Sample{WaveHeight: waveH, WaveDirection: &dir, StormRisk: risk}
		}
		if progress != nil {
			progress()
		}
	}
	return NewWeatherField(data, spec.Precision)
}

// StormPoints number of buckets with noticeable storm risk, for reporting.
func (w *WeatherField) StormPoints(threshold float64) int {
	n := 0
	for _, s := range w.data {
		if s.StormRisk > threshold {
			n++
		}
	}
	return n
}
