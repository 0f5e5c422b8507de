package main

import (
	"fmt"
	"os"

	"github.com/Nitro/sidecar-executor/loghooks"
	log "github.com/sirupsen/logrus"
)

// configureLogging sets the level and, when an address is given, relays
// our own operational logs as JSON over UDP. We relay with UDP so a dead
// relay never holds up the emitter.
func configureLogging(logger *log.Logger, level string, relayAddress string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(parsed)

	if relayAddress == "" {
		return nil
	}

	hook, err := loghooks.NewUDPHook(relayAddress)
	if err != nil {
		return fmt.Errorf("unable to relay logs to %s: %w", relayAddress, err)
	}
	logger.Hooks.Add(hook)

	hostname, _ := os.Hostname()
	logger.WithField("Hostname", hostname).Infof("Relaying operational logs to %s", relayAddress)

	return nil
}
