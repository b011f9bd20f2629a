package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"lintang/searoute/pkg/config"
	"lintang/searoute/pkg/grid"
	"lintang/searoute/pkg/kv"
	"lintang/searoute/pkg/weather"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

var (
	dbDir            = flag.String("db", "searouteDB", "pebble directory to write")
	nodeFile         = flag.String("nodes", "valid_nodes.csv", "lat,lon list of navigable lattice nodes")
	stormFile        = flag.String("storms", "", "storm catalogue csv, empty builds a calm weather grid")
	gridResolution   = flag.Float64("grid-res", config.DefaultGridResolution, "lattice resolution in degrees")
	weatherRes       = flag.Float64("weather-res", 0.25, "weather grid resolution in degrees")
	weatherPrecision = flag.Uint("weather-precision", config.DefaultWeatherPrecision, "decimal places of a weather bucket key")
	latMin           = flag.Float64("lat-min", -10, "weather grid southern bound")
	latMax           = flag.Float64("lat-max", 80, "weather grid northern bound (exclusive)")
	lonMin           = flag.Float64("lon-min", 25, "weather grid western bound")
	lonMax           = flag.Float64("lon-max", 180, "weather grid eastern bound (exclusive)")
)

func main() {
	flag.Parse()

	f, err := os.Open(*nodeFile)
	if err != nil {
		log.Fatal(err)
	}
	nodes, err := grid.ReadNodeList(f, *gridResolution)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("read %d navigable nodes from %s\n", len(nodes), *nodeFile)

	storms := []weather.Storm{}
	if *stormFile != "" {
		sf, err := os.Open(*stormFile)
		if err != nil {
			log.Fatal(err)
		}
		storms, err = weather.ReadStormCatalogue(sf)
		sf.Close()
		if err != nil {
			log.Fatal(err)
		}
	}
	for i, s := range storms {
		fmt.Printf("  %d. %s %v radius %.0f km intensity %.2f\n", i+1, s.Name, s.Center, s.RadiusKm, s.Intensity)
	}

	spec := weather.GridSpec{
		LatMin: *latMin, LatMax: *latMax,
		LonMin: *lonMin, LonMax: *lonMax,
		Resolution: *weatherRes,
		Precision:  *weatherPrecision,
	}
	rows := int((spec.LatMax - spec.LatMin) / spec.Resolution)
	bar := progressbar.NewOptions(rows,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]building weather grid...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	field := weather.BuildWeatherField(spec, storms, func() { bar.Add(1) })
	fmt.Printf("\nweather grid: %d buckets, %d with storm risk > 0.3\n", field.Len(), field.StormPoints(0.3))

	kvDB, err := kv.OpenKVDB(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer kvDB.Close()

	if err := kvDB.SaveNavigableNodes(nodes); err != nil {
		log.Fatal(err)
	}
	if err := kvDB.SaveWeatherField(field); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\npreprocessing done, data written to %s\n", *dbDir)
}
