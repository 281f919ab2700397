// Package logging builds the service logger and provides helpers for keeping
// credentials out of log output.
package logging

import (
	"go.uber.org/zap"
)

// New constructs the service logger. Local environments get the development
// config (console encoder, DEBUG); everything else gets production JSON at
// INFO.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
