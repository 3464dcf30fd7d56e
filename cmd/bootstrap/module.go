package bootstrap

import (
	"room-booking/cmd/bootstrap/components"
	"room-booking/internal/pkg/config"

	"go.uber.org/fx"
)

func Module(cfg config.Config) fx.Option {
	return fx.Options(
		ConfigModule(cfg),
		LoggerModule,
		JWTModule,
		StorageModule(cfg.Storage.Type),
		components.CacheModule,
		components.MessagingModule,
		components.UseCaseModule,
		components.HandlerModule,
	)
}

// StorageModule picks the store implementation behind the persistence ports.
func StorageModule(storageType string) fx.Option {
	if storageType == config.StorageTypeMemory {
		return components.MemoryPersistenceModule
	}
	return fx.Options(
		DBModule,
		components.PersistenceModule,
	)
}
