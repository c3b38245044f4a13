// Command scanfile runs the detection pipeline once over a CSV feed and
// writes the result tables to an XLSX workbook or to stdout as CSV.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/internal/export"
	"github.com/savegress/mobitrace/internal/logger"
	"github.com/savegress/mobitrace/internal/scan"
)

func main() {
	var (
		input      = flag.String("input", "", "path to the transaction feed CSV")
		output     = flag.String("output", "", "path of the XLSX workbook to write (omit for CSV on stdout)")
		table      = flag.String("table", export.TableScoredChains, "table to print when writing CSV to stdout")
		configPath = flag.String("config", "", "optional YAML config path")
		profile    = flag.String("profile", "", "scoring weight profile override (base or escalated)")
	)
	flag.Parse()

	log := logger.New()

	if *input == "" {
		log.Fatal().Msg("no file supplied: -input is required")
	}

	cfg := loadConfig(*configPath)
	if *profile != "" {
		cfg.Scoring.Profile = *profile
	}

	engine, err := scan.NewEngine(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure scan engine")
	}

	feed, err := os.Open(*input)
	if err != nil {
		log.Fatal().Err(err).Str("path", *input).Msg("failed to open feed")
	}
	defer feed.Close()

	result, err := engine.Run(context.Background(), feed)
	if err != nil {
		log.Fatal().Err(err).Msg("scan failed")
	}

	if result.TotalFindings() == 0 {
		log.Info().Msg("no suspicious scenarios detected")
	}

	if *output == "" {
		t, ok := export.Find(result, *table)
		if !ok {
			log.Fatal().Str("table", *table).Msg("unknown table")
		}
		if err := export.WriteCSV(os.Stdout, t); err != nil {
			log.Fatal().Err(err).Msg("failed to write CSV")
		}
		return
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatal().Err(err).Str("path", *output).Msg("failed to create workbook")
	}
	defer out.Close()

	if err := export.WriteWorkbook(out, result); err != nil {
		log.Fatal().Err(err).Msg("failed to write workbook")
	}
	log.Info().Str("path", *output).Int("findings", result.TotalFindings()).Msg("workbook written")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.LoadFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Str("path", path).Msg("failed to load config file")
	}
	return cfg
}
