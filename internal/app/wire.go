//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/vocabbook/internal/adapter/web"
	"github.com/eslsoft/vocabbook/internal/infrastructure/config"
	"github.com/eslsoft/vocabbook/internal/infrastructure/database"
	"github.com/eslsoft/vocabbook/internal/infrastructure/server"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewDB,
)

var repositorySet = wire.NewSet(
	provideVocabRepository,
)

var usecaseSet = wire.NewSet(
	provideScorer,
	provideVocabUsecase,
	provideArchiveService,
)

var webSet = wire.NewSet(
	web.NewHandler,
	provideRouter,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		webSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
