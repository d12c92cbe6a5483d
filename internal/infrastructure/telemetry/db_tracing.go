package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound query variables in span statements
	LogFullSQL bool
	DBSystem   string
}

// RegisterDBTracing installs the otelgorm plugin so every query becomes a child
// span of the request span carried by the statement context.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	system := cfg.DBSystem
	if system == "" {
		system = "postgresql"
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(system)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	logger.Info("database tracing enabled", zap.String("db_system", system))
	return nil
}
