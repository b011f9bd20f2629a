package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"lintang/searoute/pkg/canal"
	"lintang/searoute/pkg/config"
	"lintang/searoute/pkg/grid"
	"lintang/searoute/pkg/kv"
	"lintang/searoute/pkg/planner"
	"lintang/searoute/pkg/server/rest"
	"lintang/searoute/pkg/server/rest/service"
	"lintang/searoute/pkg/weather"

	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/k0kubun/go-ansi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
)

var (
	listenAddr       = flag.String("listenaddr", ":5000", "server listen address")
	dbDir            = flag.String("db", "searouteDB", "pebble directory written by cmd/preprocessing")
	canalFile        = flag.String("canals", "", "json canal registry, empty uses panama and suez")
	gridResolution   = flag.Float64("grid-res", config.DefaultGridResolution, "lattice resolution in degrees")
	vesselSpeed      = flag.Float64("speed", config.DefaultVesselSpeedKmph, "vessel top speed in km/h")
	goalThreshold    = flag.Float64("goal-threshold", config.DefaultGoalThresholdKm, "distance in km at which the search counts the goal as reached")
	maxExpansions    = flag.Int("max-expansions", config.DefaultMaxExpansions, "node expansion cap per search")
	weatherPrecision = flag.Uint("weather-precision", config.DefaultWeatherPrecision, "bucket precision used when the store has no weather grid")
	debug            = flag.Bool("debug", false, "show a search progress spinner")
)

func main() {
	flag.Parse()

	cfg := config.PlannerConfig{
		GridResolution:  *gridResolution,
		VesselSpeedKmph: *vesselSpeed,
		GoalThresholdKm: *goalThreshold,
		MaxExpansions:   *maxExpansions,
	}

	kvDB, err := kv.OpenKVDB(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer kvDB.Close()

	nodes, err := kvDB.LoadNavigableNodes()
	if err != nil {
		log.Fatal(err)
	}
	navigable := grid.NewNavigableSet(nodes)
	fmt.Printf("loaded %d navigable nodes\n", navigable.Len())

	field, err := kvDB.LoadWeatherField()
	if err != nil {
		log.Printf("no weather grid in %s (%v), using calm defaults", *dbDir, err)
		field = weather.NewWeatherField(nil, *weatherPrecision)
	}
	fmt.Printf("loaded %d weather buckets (precision %d)\n", field.Len(), field.Precision())

	registry := canal.DefaultRegistry()
	if *canalFile != "" {
		f, err := os.Open(*canalFile)
		if err != nil {
			log.Fatal(err)
		}
		registry, err = canal.LoadRegistry(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	opts := []planner.Option{}
	if *debug {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
			progressbar.OptionSetDescription("[cyan]searching[reset]"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSpinnerType(14))
		opts = append(opts, planner.WithSearchProgress(1000, func(expansions int) {
			bar.Describe(fmt.Sprintf("[cyan]searching[reset] %d nodes expanded", expansions))
			bar.Add(1)
		}))
	}

	routePlanner, err := planner.NewRoutePlanner(navigable, field, registry, cfg, opts...)
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	navigatorSvc := service.NewNavigationService(routePlanner)
	rest.NavigatorRouter(r, navigatorSvc, m)

	fmt.Printf("server started at %s\n", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
