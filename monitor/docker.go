package main

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// A CommandRunner runs an external command and returns what it printed
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	log.Debugf("Running: %s %s", name, strings.Join(args, " "))

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("'%s %s' failed: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// A Container inspects one named container through the docker CLI
type Container struct {
	Name   string
	Docker string

	runner CommandRunner
}

func NewContainer(name, docker string, runner CommandRunner) *Container {
	if runner == nil {
		runner = execRunner{}
	}
	return &Container{Name: name, Docker: docker, runner: runner}
}

// IsRunning reports whether a running container has exactly our name
func (c *Container) IsRunning(ctx context.Context) (bool, error) {
	out, err := c.runner.Run(ctx, c.Docker, "ps", "--filter", "name="+c.Name, "--format", "{{.Names}}")
	if err != nil {
		return false, err
	}

	for _, name := range splitLines(string(out)) {
		if strings.TrimSpace(name) == c.Name {
			return true, nil
		}
	}

	return false, nil
}

// PortListening checks netstat inside the container. Any failure to run
// the check counts as not listening.
func (c *Container) PortListening(ctx context.Context, port int) bool {
	out, err := c.runner.Run(ctx, c.Docker, "exec", c.Name, "netstat", "-tulpn")
	if err != nil {
		log.Debugf("Port check failed: %s", err)
		return false
	}

	listening := regexp.MustCompile(`:` + strconv.Itoa(port) + `\s`)
	return listening.Match(out)
}

// Lines returns the container's most recent output
func (c *Container) Lines(ctx context.Context, count int) ([]string, error) {
	out, err := c.runner.Run(ctx, c.Docker, "logs", c.Name, "--tail", strconv.Itoa(count))
	if err != nil {
		return nil, err
	}

	return splitLines(string(out)), nil
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
