package kv_test

import (
	"testing"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/kv"
	"lintang/searoute/pkg/weather"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *kv.KVDB {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	k := kv.NewKVDB(db, nil)
	t.Cleanup(func() { k.Close() })
	return k
}

func TestNavigableNodesRoundTrip(t *testing.T) {
	k := openMem(t)

	// spread over several h3 shards
	nodes := []datastructure.Coordinate{
		datastructure.NewCoordinate(-6.25, 106.75),
		datastructure.NewCoordinate(-6.25, 107),
		datastructure.NewCoordinate(1.25, 103.75),
		datastructure.NewCoordinate(35.5, 139.75),
		datastructure.NewCoordinate(51, 1.5),
	}
	require.NoError(t, k.SaveNavigableNodes(nodes))

	got, err := k.LoadNavigableNodes()
	require.NoError(t, err)
	assert.ElementsMatch(t, nodes, got)
}

func TestWeatherFieldRoundTrip(t *testing.T) {
	k := openMem(t)

	dir := 135.0
	data := map[weather.BucketKey]weather.Sample{
		weather.NewBucketKey(10.1, 120.3, 1): {WaveHeight: 6.5, WaveDirection: &dir, StormRisk: 0.9},
		weather.NewBucketKey(10.2, 120.3, 1): {WaveHeight: 3.1, StormRisk: 0.4},
		weather.NewBucketKey(-33.9, 18.4, 1): {WaveHeight: 2.2},
	}
	require.NoError(t, k.SaveWeatherField(weather.NewWeatherField(data, 1)))

	field, err := k.LoadWeatherField()
	require.NoError(t, err)
	assert.Equal(t, uint(1), field.Precision())
	assert.Equal(t, 3, field.Len())

	s := field.Sample(datastructure.NewCoordinate(10.1, 120.3))
	assert.Equal(t, 6.5, s.WaveHeight)
	require.NotNil(t, s.WaveDirection)
	assert.Equal(t, 135.0, *s.WaveDirection)
	assert.Equal(t, 0.9, s.StormRisk)

	assert.Nil(t, field.WaveDirection(datastructure.NewCoordinate(10.2, 120.3)))
	assert.Equal(t, 0.4, field.StormRisk(datastructure.NewCoordinate(10.2, 120.3)))
	assert.Equal(t, weather.DefaultSample(), field.Sample(datastructure.NewCoordinate(0, 0)))
}

func TestLoadEmptyStore(t *testing.T) {
	k := openMem(t)

	_, err := k.LoadNavigableNodes()
	assert.ErrorIs(t, err, kv.ErrNoNavigableNodes)

	_, err = k.LoadWeatherField()
	assert.ErrorIs(t, err, kv.ErrNoWeatherField)
}

func TestCompression(t *testing.T) {
	raw, err := kv.Encode([]kv.NodeRecord{{Lat: 1.25, Lon: 2.5}, {Lat: 1.5, Lon: 2.5}})
	require.NoError(t, err)

	compressed, err := kv.Compress(raw)
	require.NoError(t, err)
	back, err := kv.Decompress(compressed)
	require.NoError(t, err)

	recs, err := kv.Decode[[]kv.NodeRecord](back)
	require.NoError(t, err)
	assert.Equal(t, []kv.NodeRecord{{Lat: 1.25, Lon: 2.5}, {Lat: 1.5, Lon: 2.5}}, recs)
}
