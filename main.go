package main

import (
	"context"
	"flag"
	"os"
	"time"

	"yinsh/config"
	"yinsh/experiments"
	"yinsh/experiments/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("config", "", "Path to the config file (default $"+config.EnvPath+" or the XDG config dir)")
	games := flag.Int("games", 0, "Number of playouts, overrides the config")
	workers := flag.Int("workers", 0, "Number of goroutines running playouts, overrides the config")
	seed := flag.Uint64("seed", 0, "Seed of the first playout, overrides the config")
	out := flag.String("out", "", "Directory for the CSV records, overrides the config")
	writeConfig := flag.Bool("write-config", false, "Save the effective config to the XDG config dir and exit")
	flag.Parse()

	cfg, err := config.Find(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.Log)

	if *games > 0 {
		cfg.Experiment.Games = *games
	}
	if *workers > 0 {
		cfg.Experiment.Workers = *workers
	}
	if *seed > 0 {
		cfg.Experiment.Seed = *seed
	}
	if *out != "" {
		cfg.Experiment.OutputDir = *out
	}

	if *writeConfig {
		saved, err := cfg.Save()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to save config")
		}
		log.Info().Msgf("saved config to %s", saved)
		return
	}

	if err := runExperiment(cfg); err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Msgf("unknown log level %q, using info", cfg.Level)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func runExperiment(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Experiment.Timeout)
	defer cancel()

	res, err := experiments.RunPlayouts(ctx, &cfg.Rules, cfg.Experiment)
	if err != nil {
		return err
	}

	writer, err := metrics.NewWriter(cfg.Experiment.OutputDir, cfg.Experiment.Name)
	if err != nil {
		return err
	}
	if err := writer.WriteGameRecords(res.Games); err != nil {
		return err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteInputRecords(res.Inputs); err != nil {
		return err
	}
	log.Info().Msgf("stored input records in %s", writer.Dir())
	return nil
}
