package api

import (
	"os"

	"staylink/channelsync/internal/common"
	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/jobs"
	"staylink/channelsync/internal/logging"
	"staylink/channelsync/internal/metrics"
	"staylink/channelsync/internal/providers"
	"staylink/channelsync/internal/services"
)

type Repositories struct {
	Keys         repositories.KeysRepo
	Property     *repositories.PropertyRepo
	Integration  *repositories.IntegrationRepo
	PricingRule  *repositories.PricingRuleRepo
	SyncLog      *repositories.SyncLogRepo
	SyncLogStats *repositories.SyncLogStatsRepo
	Booking      *repositories.BookingRepo
}

type Services struct {
	Cache       common.CacheInterface
	Calendar    *services.CalendarStore
	Pricing     *services.PricingService
	Booking     *services.BookingService
	Integration *services.IntegrationService
	SyncQueue   *common.SyncQueueService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Registry *providers.ClientRegistry
	SyncJob  *jobs.ChannelSyncJob
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Keys:         *repositories.NewApiKeysRepo(db.DB),
		Property:     repositories.NewPropertyRepo(db.PgDB),
		Integration:  repositories.NewIntegrationRepo(db.PgDB),
		PricingRule:  repositories.NewPricingRuleRepo(db.PgDB),
		SyncLog:      repositories.NewSyncLogRepo(db.PgDB),
		SyncLogStats: repositories.NewSyncLogStatsRepo(db.DB),
		Booking:      repositories.NewBookingRepo(db.PgDB),
	}

	// Redis is optional: with REDIS_HOST set the cache and the sync
	// queue go through it, otherwise the in-memory cache serves and
	// sync triggers run inline.
	var cacheSvc common.CacheInterface
	var syncQueue *common.SyncQueueService
	if os.Getenv("REDIS_HOST") != "" {
		client := common.NewRedisClient()
		redisCache, err := common.NewRedisCacheService(client)
		if err != nil {
			logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err.Error())
			cacheSvc = common.NewCacheService(60, 600)
		} else {
			cacheSvc = redisCache
			syncQueue = common.NewSyncQueueService(client)
		}
	} else {
		cacheSvc = common.NewCacheService(60, 600)
	}

	calendarStore := services.NewCalendarStore(db.PgDB)
	pricingSvc := services.NewPricingService(repos.PricingRule, repos.Property, cacheSvc)
	bookingSvc := services.NewBookingService(repos.Booking, repos.Property, calendarStore)
	integrationSvc := services.NewIntegrationService(repos.Integration, repos.Property)

	registry := providers.NewClientRegistry()
	for _, platform := range constants.KnownPlatforms {
		registry.Register(providers.NewRESTChannelClient(platform))
	}

	syncJob := jobs.NewChannelSyncJob(
		repos.Integration,
		repos.Property,
		repos.SyncLog,
		calendarStore,
		pricingSvc,
		bookingSvc,
		registry,
		metricsReg,
	)

	svcs := &Services{
		Cache:       cacheSvc,
		Calendar:    calendarStore,
		Pricing:     pricingSvc,
		Booking:     bookingSvc,
		Integration: integrationSvc,
		SyncQueue:   syncQueue,
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Registry: registry,
		SyncJob:  syncJob,
	}, nil
}
