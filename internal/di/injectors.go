//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"valeod/internal"
	"valeod/internal/alerts"
	"valeod/internal/controllers"
	"valeod/internal/format"
	"valeod/internal/jobs"
	"valeod/internal/ofday"
	"valeod/internal/onlymonster"
	"valeod/internal/persistence"
	"valeod/internal/providers"
	"valeod/internal/services"
	"valeod/internal/sink"
	"valeod/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		persistence.NewZstdCompressor,
		persistence.NewStorage,
		ofday.NewCalendar,
		onlymonster.NewClient,
		alerts.NewDeduper,
		sink.NewTelegramSink,
		format.NewFormatter,
		services.NewRegistryService,
		services.NewReportService,
		jobs.NewScheduler,
		controllers.NewChatController,
		controllers.NewReportController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
