package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

// Config is read from MONITOR_* first; flags override it
type Config struct {
	Container string        `envconfig:"CONTAINER" default:"fluentd"`
	Tail      int           `envconfig:"TAIL" default:"100"`
	Port      int           `envconfig:"PORT" default:"5140"`
	LogFile   string        `envconfig:"LOG_FILE"`
	AgentURL  string        `envconfig:"AGENT_URL"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
	Docker    string        `envconfig:"DOCKER" default:"docker"`
	JSON      bool          `envconfig:"JSON" default:"false"`
	Debug     bool          `envconfig:"DEBUG" default:"false"`
}

func parseConfig(args []string) (*Config, error) {
	var config Config
	err := envconfig.Process("monitor", &config)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	flagSet := pflag.NewFlagSet("collector-monitor", pflag.ContinueOnError)
	flagSet.StringVarP(&config.Container, "container", "c", config.Container, "name of the collector container")
	flagSet.IntVarP(&config.Tail, "tail", "n", config.Tail, "number of recent log lines to inspect")
	flagSet.IntVarP(&config.Port, "port", "p", config.Port, "port the collector should be listening on")
	flagSet.StringVar(&config.LogFile, "log-file", config.LogFile, "read this file instead of the container logs")
	flagSet.StringVar(&config.AgentURL, "agent-url", config.AgentURL, "fluentd monitor_agent base URL, e.g. http://localhost:24220")
	flagSet.DurationVar(&config.Timeout, "timeout", config.Timeout, "timeout for each check")
	flagSet.StringVar(&config.Docker, "docker", config.Docker, "docker binary to invoke")
	flagSet.BoolVar(&config.JSON, "json", config.JSON, "print only the metrics as JSON")
	flagSet.BoolVarP(&config.Debug, "debug", "d", config.Debug, "log diagnostic detail to stderr")

	err = flagSet.Parse(args)
	if err != nil {
		return nil, err
	}

	if config.Tail < 1 {
		return nil, fmt.Errorf("tail must be at least 1, got %d", config.Tail)
	}

	if config.Container == "" {
		return nil, fmt.Errorf("container name is required")
	}

	return &config, nil
}
