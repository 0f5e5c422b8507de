package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

// A StatsPublisher periodically posts throughput events to an HTTP
// collector. Only the sends since the last successful publish are reported
// as Sent, alongside the running totals.
type StatsPublisher struct {
	client  *http.Client
	URL     string
	APIKey  string
	Looper  director.Looper
	tracker *ThroughputReporter

	lastSent       uint64
	lastReconnects uint64
	hostname       string
}

// NewStatsPublisher returns a publisher that reports every interval
func NewStatsPublisher(url, apiKey string, interval time.Duration, tracker *ThroughputReporter) *StatsPublisher {
	hostname, err := os.Hostname()
	if err != nil {
		log.Warnf("Unable to determine hostname: %s", err)
		hostname = "unknown"
	}

	return &StatsPublisher{
		client:   cleanhttp.DefaultClient(),
		URL:      url,
		APIKey:   apiKey,
		Looper:   director.NewTimedLooper(director.FOREVER, interval, make(chan error)),
		tracker:  tracker,
		hostname: hostname,
	}
}

// Run starts up a background goroutine that publishes on each tick
func (p *StatsPublisher) Run() {
	log.Infof("Publishing throughput stats to %s", p.URL)

	go p.Looper.Loop(func() error {
		total := p.tracker.Total()
		reconnects := p.tracker.Reconnects()

		delta := total - p.lastSent
		if delta == 0 && reconnects == p.lastReconnects {
			return nil
		}

		err := p.sendEvent(delta, reconnects-p.lastReconnects, p.tracker.Snapshot())
		// We _don't_ want to exit on error, the next tick will include these
		if err != nil {
			log.Errorf("Error publishing stats: %s", err)
			return nil
		}

		p.lastSent = total
		p.lastReconnects = reconnects

		return nil
	})
}

// sendEvent serializes JSON and posts it to the stats endpoint
func (p *StatsPublisher) sendEvent(sent, reconnects uint64, summary Summary) error {
	data, err := json.Marshal(struct {
		Time       string
		Hostname   string
		Sent       uint64
		Reconnects uint64
		Total      uint64
		Rate       float64
		EventType  string `json:"eventType"`
	}{
		Time:       time.Now().UTC().Format(time.RFC3339),
		Hostname:   p.hostname,
		Sent:       sent,
		Reconnects: reconnects,
		Total:      summary.Count,
		Rate:       summary.Rate(),
		EventType:  "SyntheticLogThroughput",
	})
	if err != nil {
		return fmt.Errorf("unable to encode JSON event: %w", err)
	}

	req, err := http.NewRequest("POST", p.URL, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("unable to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Add("X-Api-Key", p.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed making HTTP request to %s: %w", p.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := ioutil.ReadAll(resp.Body)
		return fmt.Errorf("bad response from stats endpoint: %s", string(body))
	}

	return nil
}
