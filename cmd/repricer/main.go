package main

import (
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/repricer/internal/app"
	"github.com/phenrril/repricer/internal/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := app.LoadConfig()

	zerolog.TimeFieldFormat = time.RFC3339
	var console io.Writer = os.Stdout
	if cfg.IsDev() {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			zlog.Fatal().Err(err).Str("file", cfg.LogFile).Msg("failed to open log file")
		}
		defer f.Close()
		console = zerolog.MultiLevelWriter(console, f)
	}
	zlog.Logger = zlog.Output(console)

	var (
		listing  = flag.String("listing", "", "listing export (CSV, ';' separated)")
		keepa    = flag.String("keepa", "", "comma-separated Keepa files (.csv or .xlsx)")
		costs    = flag.String("costs", "", "purchase cost CSV")
		fees     = flag.String("fees", "", "category fee CSV")
		feePct   = flag.Float64("fee-pct", cfg.DefaultFeePct, "global marketplace fee in percent")
		rows     = flag.String("rows", "", "rows for the bulk operation: all, negative, unmatched or 0,3,5-8 (none by default)")
		scale    = flag.Float64("scale", 0, "lower the selected prices by this amount")
		scalePct = flag.Float64("scale-pct", 0, "lower the selected prices by this percentage")
		align    = flag.Float64("align", 0, "set the selected prices to the buy box minus this amount")
		alignPct = flag.Float64("align-pct", 0, "set the selected prices to the buy box minus this percentage")
		out      = flag.String("out", "", "output file (default OUTPUT_DIR/<listing>_aggiornato.csv)")
		asins    = flag.Bool("asins", false, "print the listed ASINs per locale")
		report   = flag.String("report", "", "write the working table with its metrics to this CSV")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var ops []usecase.Operation
	if set["scale"] {
		ops = append(ops, usecase.ScaleByAmount(*scale))
	}
	if set["scale-pct"] {
		ops = append(ops, usecase.ScaleByPercent(*scalePct))
	}
	if set["align"] {
		ops = append(ops, usecase.AlignToReference(*align, false))
	}
	if set["align-pct"] {
		ops = append(ops, usecase.AlignToReference(*alignPct, true))
	}
	if len(ops) > 1 {
		zlog.Fatal().Msg("use only one of -scale, -scale-pct, -align, -align-pct")
	}

	opts := app.Options{
		Listing: *listing,
		Costs:   *costs,
		Fees:    *fees,
		FeePct:  feePct,
		Rows:    *rows,
		Output:  *out,
		Report:  *report,
		Asins:   *asins,
	}
	for _, k := range strings.Split(*keepa, ",") {
		if k = strings.TrimSpace(k); k != "" {
			opts.Keepa = append(opts.Keepa, k)
		}
	}
	if len(ops) == 1 {
		opts.Op = &ops[0]
	}

	application := app.New(cfg)
	res, err := application.Run(opts)
	if err != nil {
		zlog.Fatal().Err(err).Msg("run failed")
	}
	ev := zlog.Info().
		Int("rows", res.Process.ListingRows).
		Int("matched", res.Process.Matched).
		Int("negative_margin", res.Process.NegativeMargin).
		Str("output", res.Output)
	if res.Bulk != nil {
		ev = ev.Int("mutated", res.Bulk.Mutated).Int("skipped", len(res.Bulk.Skipped))
	}
	ev.Msg("done")
}
