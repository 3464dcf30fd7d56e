package bootstrap

import (
	"room-booking/internal/pkg/config"

	"go.uber.org/fx"
)

// ConfigModule supplies an already loaded config; storage selection needs it
// before the graph is built.
func ConfigModule(cfg config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
