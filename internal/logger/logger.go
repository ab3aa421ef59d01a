package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/config"
)

// New returns a JSON production logger in production and a human-readable
// development logger everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
