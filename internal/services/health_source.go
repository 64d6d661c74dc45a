package services

import (
	"context"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/errors"
)

// HealthSource runs the external walrus health tool and captures its output.
// The tool interleaves log lines with its JSON document, so stdout and stderr
// are captured together and handed to the parser as-is.
type HealthSource struct {
	command []string
	timeout time.Duration
	logger  *logrus.Logger
}

func NewHealthSource(command []string, timeout time.Duration, logger *logrus.Logger) *HealthSource {
	return &HealthSource{
		command: command,
		timeout: timeout,
		logger:  logger,
	}
}

// Collect invokes the health tool once and returns its combined output.
// A failed start or abnormal exit is a SubprocessError, fatal to the cycle.
func (hs *HealthSource) Collect(ctx context.Context) (string, error) {
	if len(hs.command) == 0 {
		return "", apperrors.Wrap(apperrors.ErrSubprocess, "no health command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, hs.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, hs.command[0], hs.command[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		hs.logger.WithFields(logrus.Fields{
			"command":  hs.command[0],
			"duration": time.Since(start).String(),
			"error":    err.Error(),
		}).Error("Health tool invocation failed")
		return "", apperrors.Wrapf(apperrors.ErrSubprocess, "running %s: %v", hs.command[0], err)
	}

	hs.logger.WithFields(logrus.Fields{
		"command":      hs.command[0],
		"duration":     time.Since(start).String(),
		"output_bytes": len(output),
	}).Debug("Health tool invocation completed")

	return string(output), nil
}
