package main

import (
	"encoding/json"
	"fmt"
	"io"
)

// A Report is everything one monitor run found out
type Report struct {
	Container     string
	Port          int
	PortListening bool
	Metrics       *Metrics
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// PrintJSON writes just the metrics, indented
func PrintJSON(w io.Writer, metrics *Metrics) error {
	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode metrics: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintReport writes the human-readable summary
func PrintReport(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "Port %d listening: %s\n", r.Port, mark(r.PortListening))

	fmt.Fprintln(w, "\nMetrics:")
	if err := PrintJSON(w, r.Metrics); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nStatus Summary:")
	if r.Metrics.Error != "" {
		fmt.Fprintf(w, "%s Error getting metrics: %s\n", mark(false), r.Metrics.Error)
		return nil
	}

	fmt.Fprintf(w, "Total Errors: %d\n", r.Metrics.TotalErrors)
	fmt.Fprintf(w, "Events Processed: %d\n", r.Metrics.EventsProcessed)
	if r.Metrics.LastError != nil {
		fmt.Fprintf(w, "\nLast Error: %s\n", *r.Metrics.LastError)
	}

	fmt.Fprintln(w, "\nRecent Buffer Stats:")
	for _, stat := range r.Metrics.BufferStats {
		fmt.Fprintf(w, "  %s\n", stat)
	}

	if len(r.Metrics.Plugins) > 0 {
		fmt.Fprintln(w, "\nPlugin Buffers:")
		for _, p := range r.Metrics.Plugins {
			if !p.OutputPlugin {
				continue
			}
			fmt.Fprintf(w, "  %s (%s): queue=%s size=%s retries=%s\n",
				p.PluginID, p.Type, intOrDash(p.BufferQueueLength),
				int64OrDash(p.BufferTotalQueuedSize), intOrDash(p.RetryCount),
			)
		}
	}

	return nil
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func int64OrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
