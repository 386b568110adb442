package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/saferide/bikerouter/pkg/api"
	"github.com/saferide/bikerouter/pkg/crime"
	"github.com/saferide/bikerouter/pkg/graph"
	"github.com/saferide/bikerouter/pkg/planner"
	"github.com/saferide/bikerouter/pkg/routing"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph binary")
	crimeXLSXPath := flag.String("crime-data", "", "Path to the crime-point xlsx dataset (optional)")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if os.Getenv("MAPS_API_KEY") == "" {
		log.Println("warning: MAPS_API_KEY is not set; the projection-based snapper is used regardless, but downstream map-tile integrations may be degraded")
	}

	start := time.Now()

	log.Printf("Loading graph from %s...", *graphPath)
	g, err := graph.Load(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	log.Println("Building spatial index...")
	graph.BuildIndex(g)

	crimeIdx := crime.Empty()
	if *crimeXLSXPath != "" {
		log.Printf("Loading crime data from %s...", *crimeXLSXPath)
		crimeIdx, err = crime.Load(*crimeXLSXPath)
		if err != nil {
			log.Fatalf("Failed to load crime data: %v", err)
		}
		log.Printf("Loaded %d crime points", crimeIdx.Len())
	}

	asm := routing.NewAssembler(g, crimeIdx, planner.GreedyPolicy)

	// Reclaim memory from init-time temporaries. Without this, Go's heap
	// retains peak RSS from index construction.
	runtime.GC()
	debug.FreeOSMemory()

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(asm, cfg)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv, addr); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
