package main

import (
	"context"
	"strings"
	"time"
)

const recentBufferStats = 5

// Metrics summarize the collector's recent output
type Metrics struct {
	Timestamp       string        `json:"timestamp"`
	TotalErrors     int           `json:"total_errors"`
	LastError       *string       `json:"last_error"`
	EventsProcessed int           `json:"events_processed"`
	BufferStats     []string      `json:"buffer_stats"`
	Plugins         []PluginStats `json:"plugins,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// ScanLines counts errors, processed events, and buffer activity. A line
// may count towards more than one of them.
func ScanLines(lines []string, now time.Time) *Metrics {
	metrics := &Metrics{
		Timestamp:   now.Format(time.RFC3339),
		BufferStats: []string{},
	}

	var buffers []string
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "error") {
			metrics.TotalErrors++
			last := line
			metrics.LastError = &last
		}

		if strings.Contains(line, "events processed") {
			metrics.EventsProcessed++
		}

		if strings.Contains(line, "buffer") {
			buffers = append(buffers, line)
		}
	}

	if len(buffers) > recentBufferStats {
		buffers = buffers[len(buffers)-recentBufferStats:]
	}
	metrics.BufferStats = append(metrics.BufferStats, buffers...)

	return metrics
}

// CollectMetrics reads from the source and scans it. Failures are reported
// in the Metrics rather than returned, so the summary can still print.
func CollectMetrics(ctx context.Context, source LineSource, count int, now time.Time) *Metrics {
	lines, err := source.Lines(ctx, count)
	if err != nil {
		return &Metrics{
			Timestamp:   now.Format(time.RFC3339),
			BufferStats: []string{},
			Error:       err.Error(),
		}
	}

	return ScanLines(lines, now)
}
