package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	loghttp "github.com/motemen/go-loghttp"
	log "github.com/sirupsen/logrus"
)

// PluginStats is one entry from fluentd's monitor_agent
type PluginStats struct {
	PluginID              string `json:"plugin_id"`
	Category              string `json:"plugin_category"`
	Type                  string `json:"type"`
	OutputPlugin          bool   `json:"output_plugin"`
	BufferQueueLength     *int   `json:"buffer_queue_length,omitempty"`
	BufferTotalQueuedSize *int64 `json:"buffer_total_queued_size,omitempty"`
	RetryCount            *int   `json:"retry_count,omitempty"`
}

// An AgentClient talks to fluentd's monitor_agent HTTP API
type AgentClient struct {
	BaseURL string
	Timeout time.Duration

	client *http.Client
}

// NewAgentClient returns a client with a timeout. With debug on, every
// request and response is logged.
func NewAgentClient(baseURL string, timeout time.Duration, debug bool) *AgentClient {
	client := cleanhttp.DefaultClient()
	client.Timeout = timeout

	if debug {
		client.Transport = &loghttp.Transport{
			LogRequest: func(req *http.Request) {
				log.Debugf("--> %s %s", req.Method, req.URL)
			},
			LogResponse: func(resp *http.Response) {
				log.Debugf("<-- %d %s", resp.StatusCode, resp.Request.URL)
			},
			Transport: cleanhttp.DefaultTransport(),
		}
	}

	return &AgentClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		client:  client,
	}
}

// Plugins fetches the current per-plugin stats
func (a *AgentClient) Plugins(ctx context.Context) ([]PluginStats, error) {
	url := a.BaseURL + "/api/plugins.json"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create http request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from monitor agent '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 || resp.StatusCode < 200 {
		return nil, fmt.Errorf("got unexpected response code from %s: %d", url, resp.StatusCode)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read monitor agent response body: %w", err)
	}

	var decoded struct {
		Plugins []PluginStats `json:"plugins"`
	}
	err = json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("unable to decode response from monitor agent: %w", err)
	}

	return decoded.Plugins, nil
}
