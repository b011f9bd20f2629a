package kv

import (
	"errors"
	"fmt"
	"io"

	"lintang/searoute/pkg/concurrent"
	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/weather"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/uber/h3-go/v4"
	"golang.org/x/exp/slices"
)

const (
	// h3 resolution of a storage shard, roughly 12k km2 per cell
	ShardResolution = 3

	nodePrefix      = "node/"
	weatherPrefix   = "weather/"
	nodeIndexKey    = "meta/node-cells"
	weatherIndexKey = "meta/weather-cells"

	saveWorkers = 4
)

var (
	ErrNoNavigableNodes = errors.New("kv: navigable nodes not found in store")
	ErrNoWeatherField   = errors.New("kv: weather field not found in store")
)

type KVDB struct {
	db       *pebble.DB
	progress io.Writer
}

// NewKVDB wrap an open pebble db. Progress bars go to progress; nil silences them.
func NewKVDB(db *pebble.DB, progress io.Writer) *KVDB {
	if progress == nil {
		progress = io.Discard
	}
	return &KVDB{db: db, progress: progress}
}

// OpenKVDB open (or create) the pebble store in dir with progress bars on the terminal.
func OpenKVDB(dir string) (*KVDB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", dir, err)
	}
	return NewKVDB(db, ansi.NewAnsiStdout()), nil
}

func (k *KVDB) newBar(n int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(k.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func shardCell(lat, lon float64) string {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), ShardResolution).String()
}

type shardJobItem struct {
	Key   string
	Value []byte
}

// SaveNavigableNodes group nodes into h3 shards and write them through the worker pool.
func (k *KVDB) SaveNavigableNodes(nodes []datastructure.Coordinate) error {
	bar := k.newBar(len(nodes), "[cyan][1/2][reset] sharding navigable nodes by h3 cell...")
	shards := make(map[string][]NodeRecord)
	for _, n := range nodes {
		cell := shardCell(n.Lat, n.Lon)
		shards[cell] = append(shards[cell], newNodeRecord(n))
		bar.Add(1)
	}

	encoded := make(map[string][]byte, len(shards))
	for cell, recs := range shards {
		val, err := Encode(recs)
		if err != nil {
			return fmt.Errorf("kv: encode node shard %s: %w", cell, err)
		}
		encoded[cell] = val
	}
	cells, err := k.saveShards(nodePrefix, encoded, "[cyan][2/2][reset] saving navigable nodes to pebble db...")
	if err != nil {
		return err
	}

	index, err := Encode(cells)
	if err != nil {
		return fmt.Errorf("kv: encode node index: %w", err)
	}
	return k.db.Set([]byte(nodeIndexKey), index, pebble.Sync)
}

func (k *KVDB) LoadNavigableNodes() ([]datastructure.Coordinate, error) {
	cells, err := k.loadIndex(nodeIndexKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNoNavigableNodes
	} else if err != nil {
		return nil, err
	}

	nodes := []datastructure.Coordinate{}
	for _, cell := range cells {
		recs, err := getShard[[]NodeRecord](k, nodePrefix+cell)
		if err != nil {
			return nil, fmt.Errorf("kv: node shard %s: %w", cell, err)
		}
		for _, r := range recs {
			nodes = append(nodes, r.toCoordinate())
		}
	}
	return nodes, nil
}

// SaveWeatherField persist every bucket of w together with its precision.
func (k *KVDB) SaveWeatherField(w *weather.WeatherField) error {
	buckets := w.Buckets()
	bar := k.newBar(len(buckets), "[cyan][1/2][reset] sharding weather buckets by h3 cell...")
	shards := make(map[string][]WeatherRecord)
	for key, s := range buckets {
		cell := shardCell(key.Lat, key.Lon)
		shards[cell] = append(shards[cell], newWeatherRecord(key, s))
		bar.Add(1)
	}

	encoded := make(map[string][]byte, len(shards))
	for cell, recs := range shards {
		// map order is random; keep shard contents stable
		slices.SortFunc(recs, func(a, b WeatherRecord) int {
			return compareLatLon(a.Lat, a.Lon, b.Lat, b.Lon)
		})
		val, err := Encode(recs)
		if err != nil {
			return fmt.Errorf("kv: encode weather shard %s: %w", cell, err)
		}
		encoded[cell] = val
	}
	cells, err := k.saveShards(weatherPrefix, encoded, "[cyan][2/2][reset] saving weather grid to pebble db...")
	if err != nil {
		return err
	}

	index, err := Encode(weatherManifest{Precision: uint64(w.Precision()), Cells: cells})
	if err != nil {
		return fmt.Errorf("kv: encode weather index: %w", err)
	}
	return k.db.Set([]byte(weatherIndexKey), index, pebble.Sync)
}

func compareLatLon(latA, lonA, latB, lonB float64) int {
	switch {
	case latA < latB:
		return -1
	case latA > latB:
		return 1
	case lonA < lonB:
		return -1
	case lonA > lonB:
		return 1
	}
	return 0
}

func (k *KVDB) LoadWeatherField() (*weather.WeatherField, error) {
	val, err := k.get(weatherIndexKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNoWeatherField
	} else if err != nil {
		return nil, err
	}
	manifest, err := Decode[weatherManifest](val)
	if err != nil {
		return nil, fmt.Errorf("kv: weather index: %w", err)
	}

	data := make(map[weather.BucketKey]weather.Sample)
	for _, cell := range manifest.Cells {
		recs, err := getShard[[]WeatherRecord](k, weatherPrefix+cell)
		if err != nil {
			return nil, fmt.Errorf("kv: weather shard %s: %w", cell, err)
		}
		for _, r := range recs {
			key, s := r.toSample()
			data[key] = s
		}
	}
	return weather.NewWeatherField(data, uint(manifest.Precision)), nil
}

// saveShards compress and write every shard with the worker pool. Returns the shard
// cells in sorted order.
func (k *KVDB) saveShards(prefix string, shards map[string][]byte, description string) ([]string, error) {
	cells := make([]string, 0, len(shards))
	for cell := range shards {
		cells = append(cells, cell)
	}
	slices.Sort(cells)

	bar := k.newBar(len(cells), description)
	workers := concurrent.NewWorkerPool[shardJobItem, error](saveWorkers, len(cells))
	for _, cell := range cells {
		workers.AddJob(shardJobItem{Key: prefix + cell, Value: shards[cell]})
	}
	workers.Close()

	workers.Start(func(item shardJobItem) error {
		err := k.saveShard(item)
		bar.Add(1)
		return err
	})
	workers.Wait()
	fmt.Fprintln(k.progress)

	for err := range workers.CollectResults() {
		if err != nil {
			return nil, err
		}
	}
	return cells, nil
}

func (k *KVDB) saveShard(item shardJobItem) error {
	val, err := Compress(item.Value)
	if err != nil {
		return fmt.Errorf("kv: compress %s: %w", item.Key, err)
	}
	if err := k.db.Set([]byte(item.Key), val, pebble.NoSync); err != nil {
		return fmt.Errorf("kv: write %s: %w", item.Key, err)
	}
	return nil
}

// get copy of the value at key; pebble only guarantees it until the closer runs.
func (k *KVDB) get(key string) ([]byte, error) {
	val, closer, err := k.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func (k *KVDB) loadIndex(key string) ([]string, error) {
	val, err := k.get(key)
	if err != nil {
		return nil, err
	}
	return Decode[[]string](val)
}

func getShard[T any](k *KVDB, key string) (T, error) {
	var zero T
	val, err := k.get(key)
	if err != nil {
		return zero, err
	}
	bb, err := Decompress(val)
	if err != nil {
		return zero, err
	}
	return Decode[T](bb)
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
