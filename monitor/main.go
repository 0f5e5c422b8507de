package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Monitor runs the checks against one collector container
type Monitor struct {
	config    *Config
	container *Container
	source    LineSource
	agent     *AgentClient
	now       func() time.Time
}

func NewMonitor(config *Config, runner CommandRunner) *Monitor {
	container := NewContainer(config.Container, config.Docker, runner)

	m := &Monitor{
		config:    config,
		container: container,
		source:    container,
		now:       time.Now,
	}

	if config.LogFile != "" {
		m.source = &FileSource{Path: config.LogFile}
	}

	if config.AgentURL != "" {
		m.agent = NewAgentClient(config.AgentURL, config.Timeout, config.Debug)
	}

	return m
}

// Run prints the report and returns the process exit code
func (m *Monitor) Run(ctx context.Context, out io.Writer) int {
	if !m.config.JSON {
		fmt.Fprintf(out, "\n=== Collector Monitoring (%s) ===\n\n", m.config.Container)
	}

	checkCtx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	running, err := m.container.IsRunning(checkCtx)
	cancel()
	if err != nil {
		log.Warnf("Unable to list containers: %s", err)
	}

	if !running {
		fmt.Fprintf(out, "%s Container %s is not running!\n", mark(false), m.config.Container)
		return 1
	}

	checkCtx, cancel = context.WithTimeout(ctx, m.config.Timeout)
	listening := m.container.PortListening(checkCtx, m.config.Port)
	cancel()

	checkCtx, cancel = context.WithTimeout(ctx, m.config.Timeout)
	metrics := CollectMetrics(checkCtx, m.source, m.config.Tail, m.now())
	cancel()

	if m.agent != nil && metrics.Error == "" {
		checkCtx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		plugins, err := m.agent.Plugins(checkCtx)
		cancel()

		if err != nil {
			log.Warnf("Unable to query monitor agent: %s", err)
		} else {
			metrics.Plugins = plugins
		}
	}

	if m.config.JSON {
		err = PrintJSON(out, metrics)
	} else {
		err = PrintReport(out, &Report{
			Container:     m.config.Container,
			Port:          m.config.Port,
			PortListening: listening,
			Metrics:       metrics,
		})
	}
	if err != nil {
		log.Error(err.Error())
		return 1
	}

	return 0
}

func main() {
	log.SetOutput(os.Stderr)

	config, err := parseConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatal(err.Error())
	}

	if config.Debug {
		log.SetLevel(log.DebugLevel)
	}

	os.Exit(NewMonitor(config, nil).Run(context.Background(), os.Stdout))
}
