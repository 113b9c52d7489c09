package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/user/lora_analyzer_go/internal/config"
)

var (
	configPath = flag.String("config", "", "Path to analyzer configuration file, defaults are used when empty")
	outputDir  = flag.String("output", "", "Overwrite the output directory of the configuration")
	charts     = flag.String("charts", "", "Comma separated chart names to produce, all when empty")
	verbosity  = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
)

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch *verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	flag.Parse()
	setupLogging()

	cfg, err := loadConfiguration()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := NewApp(cfg)
	app.Startup(ctx)
	run, err := app.GenerateReport()
	if err != nil {
		if run != nil {
			log.Errorf("%d of %d charts failed", run.Failed, len(run.Results))
		}
		stop()
		log.Fatal(err)
	}
}

func loadConfiguration() (config.AnalyzerConfiguration, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.ReadConfigurationFile(*configPath); err != nil {
			return cfg, err
		}
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *charts != "" {
		names := strings.Split(*charts, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		if err := cfg.SelectCharts(names); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}
