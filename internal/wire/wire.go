//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(appSet)
	return nil, nil, nil
}

// InitializeMigrator skips caches, brokers and handlers.
func InitializeMigrator() (*Migrator, func(), error) {
	wire.Build(migrateSet)
	return nil, nil, nil
}
