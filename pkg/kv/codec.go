package kv

import (
	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/weather"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// NodeRecord navigable lattice node as stored in one h3 shard.
type NodeRecord struct {
	Lat float64
	Lon float64
}

// WeatherRecord one weather bucket. HasDirection is false when the bucket has no wave direction.
type WeatherRecord struct {
	Lat           float64
	Lon           float64
	WaveHeight    float64
	HasDirection  bool
	WaveDirection float64
	StormRisk     float64
}

type weatherManifest struct {
	Precision uint64
	Cells     []string
}

func newNodeRecord(c datastructure.Coordinate) NodeRecord {
	return NodeRecord{Lat: c.Lat, Lon: c.Lon}
}

func (n NodeRecord) toCoordinate() datastructure.Coordinate {
	return datastructure.NewCoordinate(n.Lat, n.Lon)
}

func newWeatherRecord(key weather.BucketKey, s weather.Sample) WeatherRecord {
	rec := WeatherRecord{
		Lat:        key.Lat,
		Lon:        key.Lon,
		WaveHeight: s.WaveHeight,
		StormRisk:  s.StormRisk,
	}
	if s.WaveDirection != nil {
		rec.HasDirection = true
		rec.WaveDirection = *s.WaveDirection
	}
	return rec
}

func (w WeatherRecord) toSample() (weather.BucketKey, weather.Sample) {
	s := weather.Sample{WaveHeight: w.WaveHeight, StormRisk: w.StormRisk}
	if w.HasDirection {
		dir := w.WaveDirection
		s.WaveDirection = &dir
	}
	return weather.BucketKey{Lat: w.Lat, Lon: w.Lon}, s
}

func Encode[T any](v T) ([]byte, error) {
	return binary.Marshal(v)
}

func Decode[T any](bb []byte) (T, error) {
	var v T
	err := binary.Unmarshal(bb, &v)
	return v, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
