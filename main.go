package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/maferozuone/Proyecto-Walker-ML-Agents/experiment"
)

func main() {
	configPath := flag.String("config", "", "experiment configuration "+
		"YAML file, defaults are used if empty")
	output := flag.String("output", "", "directory to write tracked data "+
		"to, overrides the configuration")
	flag.Parse()

	c, err := experiment.Load(*configPath)
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	if *output != "" {
		c.Output = *output
	}

	level, _ := c.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))
	logger.Info("starting experiment",
		slog.Uint64("seed", c.Seed),
		slog.Uint64("max_steps", uint64(c.MaxSteps)),
		slog.String("policy", string(c.Policy.Type)),
		slog.Any("environment", c.EnvConf),
	)

	exp, err := c.CreateExp(logger)
	if err != nil {
		logger.Error("could not create experiment", "error", err)
		os.Exit(1)
	}
	if err := exp.Run(); err != nil {
		logger.Error("experiment failed", "error", err)
		os.Exit(1)
	}
	if err := exp.Save(); err != nil {
		logger.Error("could not save tracked data", "error", err)
		os.Exit(1)
	}
	logger.Info("experiment finished", slog.String("output", c.Output))
}
