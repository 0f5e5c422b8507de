package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimmur/synthlog/reporter"
	"github.com/Shimmur/synthlog/synth"
	director "github.com/relistan/go-director"
	"github.com/relistan/rubberneck"
	log "github.com/sirupsen/logrus"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal(err.Error())
	}
	rubberneck.Print(*config)

	err = configureLogging(log.StandardLogger(), config.LogLevel, config.RelayAddress)
	if err != nil {
		log.Fatal(err.Error())
	}

	console := NewConsole(os.Stdout)
	console.Notice("Starting synthetic log generation...")

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := synth.NewGenerator(rand.New(rand.NewSource(seed)))

	tracker := reporter.NewThroughputReporter(config.ReportEvery)
	if config.StatsURL != "" {
		publisher := reporter.NewStatsPublisher(
			config.StatsURL, config.StatsAPIKey, config.StatsInterval, tracker,
		)
		publisher.Run()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// A second signal kills us outright
		<-ctx.Done()
		stop()
	}()

	emitter := NewEmitter(
		config, config.Dialer(), gen, console, tracker,
		director.NewFreeLooper(director.FOREVER, make(chan error)),
	)

	err = emitter.Run(ctx)
	stop()

	code := ExitCode(err)
	if code == 0 {
		console.Notice("\nShutting down gracefully...")
	} else {
		log.Errorf("Exiting: %s", err)
	}

	os.Exit(code)
}
