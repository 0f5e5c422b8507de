package main

import (
	"context"
	"fmt"

	"github.com/nxadm/tail"
	log "github.com/sirupsen/logrus"
)

// A LineSource supplies the recent collector output we analyze
type LineSource interface {
	Lines(ctx context.Context, count int) ([]string, error)
}

// A FileSource reads the collector's output from a log file on disk, for
// when the collector writes to a mounted volume.
type FileSource struct {
	Path string
}

// Lines reads the file once, without following, and keeps the last count
// lines.
func (f *FileSource) Lines(ctx context.Context, count int) ([]string, error) {
	tailed, err := tail.TailFile(f.Path, tail.Config{
		Follow: false, MustExist: true, Logger: log.StandardLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer tailed.Cleanup()

	recent := make([]string, 0, count)
	for {
		select {
		case <-ctx.Done():
			_ = tailed.Stop()
			return nil, ctx.Err()
		case line, ok := <-tailed.Lines:
			if !ok {
				return recent, nil
			}
			if line.Err != nil {
				return nil, fmt.Errorf("failed reading %s: %w", f.Path, line.Err)
			}

			if len(recent) == count {
				recent = append(recent[:0], recent[1:]...)
			}
			recent = append(recent, line.Text)
		}
	}
}
