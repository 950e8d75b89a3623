// Command geomgbuild is the composition root: it wires a GeoTIFF
// elevation raster (and optional land-cover raster and legend) through
// the hydrology engine and tile codec to produce a single GEOMG
// container, the way the teacher's geotiff2pmtiles command wired COG
// inputs through tile generation into a PMTiles archive.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terrageo/geomg/internal/geomg"
	"github.com/terrageo/geomg/internal/geotiff"
	"github.com/terrageo/geomg/internal/hydrology"
	"github.com/terrageo/geomg/internal/landcover"
	"github.com/terrageo/geomg/internal/metrics"
	"github.com/terrageo/geomg/internal/raster"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	var (
		demPath       = flag.String("dem", "", "path to the elevation GeoTIFF (required)")
		landcoverPath = flag.String("landcover", "", "path to a land-cover GeoTIFF, same extent as -dem (optional)")
		legendPath    = flag.String("legend", "", "path to the land-cover legend file (required if -landcover is set)")
		outPath       = flag.String("out", "", "output .geomg container path (required)")
		frag          = flag.Int("frag", 256, "tile edge length in pixels")
		seaLevel      = flag.Float64("sea-level", 0, "elevation at or below which a cell is sea")
		riverLimit    = flag.Float64("river-limit", 1000, "drainage threshold above which a cell enters the river mask")
		riverPower    = flag.Float64("river-power", 0.5, "exponent relating drainage to channel half-width")
		maxRiverHdiff = flag.Float64("max-river-hdiff", 50, "maximum height above a river cell that its cross arms may climb")
		seed          = flag.Int64("seed", 1, "RNG seed for flood-fill tie-breaking jitter")
		metricsAddr   = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) while building")
		showVersion   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("geomgbuild %s (%s)\n", version, commit)
		return
	}
	if *demPath == "" || *outPath == "" {
		log.Fatalf("usage: geomgbuild -dem <path> -out <path> [flags]")
	}
	if *landcoverPath != "" && *legendPath == "" {
		log.Fatalf("-legend is required when -landcover is set")
	}

	reg := prometheus.NewRegistry()
	sink := metrics.NewSink(reg)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			log.Printf("serving metrics on %s/metrics", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	start := time.Now()

	log.Printf("opening elevation raster %s", *demPath)
	demProvider, err := geotiff.Open(*demPath)
	if err != nil {
		log.Fatalf("opening DEM: %v", err)
	}
	defer demProvider.Close()

	demRaster, err := raster.ToRaster(demProvider)
	if err != nil {
		log.Fatalf("reading DEM: %v", err)
	}
	log.Printf("DEM: %dx%d, element type %v", demRaster.Width, demRaster.Height, demRaster.Type)

	hm, err := hydrology.FromRaster(demRaster)
	if err != nil {
		log.Fatalf("building heightmap: %v", err)
	}

	rng := hydrology.NewRNG(*seed)
	engine, err := hydrology.NewEngine(hm, *seaLevel, rng)
	if err != nil {
		log.Fatalf("constructing hydrology engine: %v", err)
	}

	log.Printf("finding start points and building flow forest (sea_level=%.3f)", *seaLevel)
	if err := engine.BuildFlow(); err != nil {
		log.Fatalf("building flow forest: %v", err)
	}
	sink.StartPoints.Set(float64(len(engine.Roots())))
	log.Printf("%d start points", len(engine.Roots()))

	maxWater, err := engine.Accumulate()
	if err != nil {
		log.Fatalf("accumulating drainage: %v", err)
	}
	sink.MaxDrainage.Set(float64(maxWater))
	log.Printf("max observed drainage: %d", maxWater)

	mask, err := engine.RiverMask(*riverLimit, *riverPower, *maxRiverHdiff)
	if err != nil {
		log.Fatalf("rasterizing rivers: %v", err)
	}
	riverRaster := maskToRaster(mask, demRaster)

	specs := []geomg.LayerSpec{
		{Type: geomg.LayerHeightmap, Raster: demRaster},
		{Type: geomg.LayerRivers, Raster: riverRaster},
	}

	if *landcoverPath != "" {
		log.Printf("opening land-cover raster %s", *landcoverPath)
		lcProvider, err := geotiff.Open(*landcoverPath)
		if err != nil {
			log.Fatalf("opening land-cover raster: %v", err)
		}
		defer lcProvider.Close()

		lcRaster, err := raster.ToRaster(lcProvider)
		if err != nil {
			log.Fatalf("reading land-cover raster: %v", err)
		}

		legendFile, err := os.Open(*legendPath)
		if err != nil {
			log.Fatalf("opening legend: %v", err)
		}
		legend, err := landcover.Load(legendFile)
		legendFile.Close()
		if err != nil {
			log.Fatalf("parsing legend: %v", err)
		}

		specs = append(specs, geomg.LayerSpec{
			Type:     geomg.LayerLandCover,
			Raster:   lcRaster,
			Metadata: legend.Metadata(),
		})
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("creating output file: %v", err)
	}
	defer out.Close()

	log.Printf("writing container (frag=%d, %d layers) to %s", *frag, len(specs), *outPath)
	err = geomg.WriteContainer(out, *frag, demRaster.Width, demRaster.Height, demRaster.Projection, demRaster.Geotransform, specs)
	if err != nil {
		log.Fatalf("writing container: %v", err)
	}
	tilesX := (demRaster.Width + *frag - 1) / *frag
	tilesY := (demRaster.Height + *frag - 1) / *frag
	sink.TilesWritten.Add(float64(tilesX * tilesY * len(specs)))

	if fi, statErr := out.Stat(); statErr == nil {
		sink.BytesWritten.Add(float64(fi.Size()))
	}

	log.Printf("done in %s", time.Since(start).Round(time.Millisecond))
}

// maskToRaster packs a boolean river mask into an 8-bit unsigned raster
// layer, 1 where the mask is set and 0 elsewhere, sharing the DEM's
// geospatial framing since rivers and elevation share one tile grid.
func maskToRaster(mask []bool, like *raster.Raster) *raster.Raster {
	data := make([]byte, len(mask))
	for i, v := range mask {
		if v {
			data[i] = 1
		}
	}
	return &raster.Raster{
		Width:        like.Width,
		Height:       like.Height,
		Type:         raster.U8,
		Data:         data,
		Geotransform: like.Geotransform,
		Projection:   like.Projection,
	}
}
