// Scout is a terminal client for the gateway: it takes a viewport, runs the
// query controller once per feed, and prints what a map at that view would
// render.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/tkaczmarek/geoscope/internal/pkg/geospatial"
	"github.com/tkaczmarek/geoscope/pkg/viewport"
)

func main() {
	var (
		gateway = flag.String("gateway", "http://localhost:8080", "aggregation gateway base URL")
		lat     = flag.Float64("lat", 40.7128, "viewport center latitude")
		lon     = flag.Float64("lon", -74.006, "viewport center longitude")
		radius  = flag.Float64("radius", 20000, "viewport radius in meters")
		zoom    = flag.Int("zoom", 12, "zoom level")
	)
	flag.Parse()

	south, west, north, east := geospatial.SearchBox(*lat, *lon, *radius)

	ctrl := viewport.NewController(viewport.NewClient(*gateway))
	ctrl.MoveEnd(viewport.View{
		BBox: viewport.BoundingBox{South: south, West: west, North: north, East: east},
		Lat:  *lat, Lon: *lon, Zoom: *zoom,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	flights, err := ctrl.Aviation(ctx)
	if err != nil {
		log.Printf("aviation: %v", err)
	}
	// Nearest first; every record past the plottability filter has coords.
	sort.Slice(flights, func(i, j int) bool {
		return geospatial.Haversine(*lat, *lon, *flights[i].Latitude, *flights[i].Longitude) <
			geospatial.Haversine(*lat, *lon, *flights[j].Latitude, *flights[j].Longitude)
	})
	fmt.Printf("aviation      %4d aircraft\n", len(flights))
	for i, f := range flights {
		if i == 5 {
			fmt.Println("              ...")
			break
		}
		callsign := "(none)"
		if f.Callsign != nil {
			callsign = *f.Callsign
		}
		km := geospatial.Haversine(*lat, *lon, *f.Latitude, *f.Longitude) / 1000
		fmt.Printf("              %s %-8s %-20s %5.1f km\n", f.Icao24, callsign, f.OriginCountry, km)
	}

	articles, err := ctrl.Wikipedia(ctx)
	if err != nil {
		log.Printf("wikipedia: %v", err)
	}
	fmt.Printf("wikipedia     %4d articles\n", len(articles))

	cameras, err := ctrl.Surveillance(ctx)
	if err != nil {
		log.Printf("surveillance: %v", err)
	}
	fmt.Printf("surveillance  %4d cameras (zoom gate %d)\n", len(cameras), viewport.SurveillanceMinZoom)

	installations, err := ctrl.Military(ctx)
	if err != nil {
		log.Printf("military: %v", err)
	}
	fmt.Printf("military      %4d installations (zoom gate %d)\n", len(installations), viewport.MilitaryMinZoom)

	hazards, err := ctrl.Hazards(ctx)
	if err != nil {
		log.Printf("hazards: %v", err)
	}
	fmt.Printf("hazards       %4d events\n", len(hazards))

	gdacs, err := ctrl.GDACS(ctx)
	if err != nil {
		log.Printf("gdacs: %v", err)
	}
	fmt.Printf("gdacs         %4d alerts\n", len(gdacs.Features))

	cables, err := ctrl.Cables(ctx)
	if err != nil {
		log.Printf("cables: %v", err)
	}
	fmt.Printf("cables        %4d segments\n", len(cables.Features))

	states, err := viewport.NewClient(*gateway).Health(ctx)
	if err != nil {
		log.Printf("health: %v", err)
	}
	fmt.Printf("health        %s", viewport.AggregateHealth(states))
	for feed, state := range states {
		if state != "green" {
			fmt.Printf("  %s=%s", feed, state)
		}
	}
	fmt.Println()
}
