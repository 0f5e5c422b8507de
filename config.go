package main

import (
	"fmt"
	"time"

	"github.com/Shimmur/synthlog/syslog"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	CollectorHost string        `envconfig:"COLLECTOR_HOST" default:"rsyslog"`
	CollectorPort int           `envconfig:"COLLECTOR_PORT" default:"514"`
	Facility      string        `envconfig:"FACILITY" default:"local0"`
	Tag           string        `envconfig:"TAG" default:"SyntheticLogs"`
	Framing       string        `envconfig:"FRAMING" default:"nul"`
	RetryCount    int           `envconfig:"RETRY_COUNT" default:"5"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"5s"`
	DialTimeout   time.Duration `envconfig:"DIAL_TIMEOUT" default:"0s"`
	WriteTimeout  time.Duration `envconfig:"WRITE_TIMEOUT" default:"0s"`
	MinDelay      time.Duration `envconfig:"MIN_DELAY" default:"100ms"`
	MaxDelay      time.Duration `envconfig:"MAX_DELAY" default:"2s"`
	ReportEvery   int           `envconfig:"REPORT_EVERY" default:"100"`
	Seed          int64         `envconfig:"SEED" default:"0"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	RelayAddress  string        `envconfig:"RELAY_ADDRESS"`
	StatsURL      string        `envconfig:"STATS_URL"`
	StatsAPIKey   string        `envconfig:"STATS_API_KEY"`
	StatsInterval time.Duration `envconfig:"STATS_INTERVAL" default:"1m"`
}

// LoadConfig reads the environment, e.g. SYNTHLOG_COLLECTOR_HOST
func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("synthlog", &config)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate catches settings we can't run with
func (c *Config) Validate() error {
	if c.CollectorHost == "" {
		return fmt.Errorf("collector host is required")
	}

	if c.CollectorPort < 1 || c.CollectorPort > 65535 {
		return fmt.Errorf("invalid collector port %d", c.CollectorPort)
	}

	if c.RetryCount < 1 {
		return fmt.Errorf("retry count must be at least 1, got %d", c.RetryCount)
	}

	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("invalid delay range [%s, %s]", c.MinDelay, c.MaxDelay)
	}

	if c.ReportEvery < 1 {
		return fmt.Errorf("report interval must be at least 1, got %d", c.ReportEvery)
	}

	if _, err := syslog.ParseFacility(c.Facility); err != nil {
		return err
	}

	if _, err := syslog.ParseFraming(c.Framing); err != nil {
		return err
	}

	return nil
}

// Dialer builds the collector dialer described by the config
func (c *Config) Dialer() *syslog.TCPDialer {
	// Validate has already vetted the framing
	framing, _ := syslog.ParseFraming(c.Framing)

	dialer := syslog.NewTCPDialer(c.CollectorHost, c.CollectorPort, framing)
	dialer.DialTimeout = c.DialTimeout
	dialer.WriteTimeout = c.WriteTimeout

	return dialer
}
