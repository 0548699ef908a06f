// cmd/fmc-core/main.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"

	"github.com/openfms/fmc-core/fms"
	"github.com/openfms/fmc-core/geo"
	"github.com/openfms/fmc-core/log"
	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/route"
	"github.com/openfms/fmc-core/wmm"
)

func main() {
	navdbDir := flag.String("navdb", "", "navigation database directory (Airports.txt etc.)")
	cachePath := flag.String("cache", "", "optional sqlite navdb parse cache")
	wmmEpoch := flag.Float64("wmm-epoch", 2025, "magnetic model epoch (decimal year)")
	year := flag.Float64("year", 2026, "decimal year for magnetic variation")
	perfPath := flag.String("perf", "", "aircraft performance file")
	loadPath := flag.String("load", "", "route snapshot to load (.msgpack.zst)")
	dumpPath := flag.String("dump", "", "write route snapshot (.msgpack.zst)")
	geojsonPath := flag.String("geojson", "", "write joined trajectory as GeoJSON")
	natsURL := flag.String("nats", "", "NATS server URL for route-changed notifications")
	logLevel := flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir := flag.String("logdir", "", "directory for rotated log files")

	dep := flag.String("dep", "", "departure airport ICAO")
	depRwy := flag.String("dep-rwy", "", "departure runway id")
	arr := flag.String("arr", "", "arrival airport ICAO")
	sid := flag.String("sid", "", "SID name")
	sidTrans := flag.String("sid-trans", "", "SID transition name")
	star := flag.String("star", "", "STAR name")
	starTrans := flag.String("star-trans", "", "STAR transition name")
	appr := flag.String("appr", "", "approach name")
	apprTrans := flag.String("appr-trans", "", "approach transition name")
	flag.Parse()

	if *navdbDir == "" {
		fmt.Printf("usage: fmc-core -navdb <dir> [options]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)

	var cache *navdb.Cache
	if *cachePath != "" {
		var err error
		cache, err = navdb.OpenCache(*cachePath)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		defer cache.Close()
	}

	start := time.Now()
	db, hit, err := navdb.LoadCached(*navdbDir, cache)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	src := "parsed"
	if hit {
		src = "cache hit"
	}
	lg.Info("navdb open", "cycle", db.Cycle.Cycle, "source", src,
		"elapsed", time.Since(start))
	if !db.Cycle.IsCurrent(time.Now()) {
		fmt.Printf("warning: AIRAC cycle %s is out of date\n", db.Cycle.Cycle)
	}

	mag, err := wmm.NewConstant(*wmmEpoch, *year)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	h := fms.New(db, mag, *year)
	if *perfPath != "" {
		if err := h.LoadPerf(*perfPath); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	}

	if *loadPath != "" {
		data, err := readSnapshot(*loadPath)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		if err := h.LoadRoute(data); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		lg.Info("route loaded", "path", *loadPath)
	}

	var notifier *fms.RouteNotifier
	if *natsURL != "" {
		notifier, err = h.PublishRouteChanges(*natsURL)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		defer notifier.Close()
		lg.Info("publishing route changes", "subject", notifier.Subject())
	}

	edit := func(op string, e route.ErrCode) {
		if !e.Ok() {
			fmt.Printf("%s: %s\n", op, e)
			os.Exit(1)
		}
		lg.Info("route edit", "op", op)
	}
	if *dep != "" {
		edit("set departure "+*dep, h.Route.SetDepArpt(*dep))
	}
	if *depRwy != "" {
		edit("set departure runway "+*depRwy, h.Route.SetDepRwy(*depRwy))
	}
	if *arr != "" {
		edit("set arrival "+*arr, h.Route.SetArrArpt(*arr))
	}
	if *sid != "" {
		edit("set SID "+*sid, h.Route.SetSID(*sid))
	}
	if *sidTrans != "" {
		edit("set SID transition "+*sidTrans, h.Route.SetSIDTrans(*sidTrans))
	}
	if *star != "" {
		edit("set STAR "+*star, h.Route.SetSTAR(*star))
	}
	if *starTrans != "" {
		edit("set STAR transition "+*starTrans, h.Route.SetSTARTrans(*starTrans))
	}
	if *appr != "" {
		edit("set approach "+*appr, h.Route.SetAppr(*appr))
	}
	if *apprTrans != "" {
		edit("set approach transition "+*apprTrans, h.Route.SetApprTrans(*apprTrans))
	}

	h.Route.BuildTrajectory()

	fmt.Printf("route: %s leg groups, %s legs, %s segments, trajectory %s nm\n",
		humanize.Comma(int64(len(h.Route.LegGroups))),
		humanize.Comma(int64(len(h.Route.Legs))),
		humanize.Comma(int64(len(h.Route.Segs))),
		humanize.FormatFloat("#,###.#", trajectoryNM(h.Route.Segs)))

	if *dumpPath != "" {
		data, err := h.DumpRoute()
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		if err := writeSnapshot(*dumpPath, data); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s)\n", *dumpPath, humanize.Bytes(uint64(len(data))))
	}

	if *geojsonPath != "" {
		fc := h.Route.GeoJSON()
		data, err := fc.MarshalJSON()
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*geojsonPath, data, 0o644); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *geojsonPath)
	}

	// With a NATS bridge up, stay alive so subscribers keep receiving
	// notifications until interrupted.
	if notifier != nil {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
	}
}

// trajectoryNM sums the lengths of the joined trajectory's segments.
// Arcs are measured along the chord; at transition-arc radii the
// difference is well under the RNP values anyone would read this
// summary for.
func trajectoryNM(segs []route.Seg) float64 {
	var m float64
	for _, s := range segs {
		m += geo.GreatCircleDistance(s.Start, s.End)
	}
	return geo.MetersToNM(m)
}

func readSnapshot(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func writeSnapshot(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
