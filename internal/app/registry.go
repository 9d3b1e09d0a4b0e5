package app

import (
	"net/http"

	"churchops/internal/attendance"
	"churchops/internal/cache"
	"churchops/internal/events"
	"churchops/internal/hierarchy"
	"churchops/internal/importer"
	"churchops/internal/messaging/kafka"
	"churchops/internal/metrics"
	"churchops/internal/middleware"
	"churchops/internal/person"
	"churchops/internal/rbac"
	"churchops/internal/rbac/infra"
	"churchops/internal/report"
	"churchops/internal/roster"
	"churchops/internal/schedule"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type registry struct {
	infra *Infra

	rbacService rbac.Service

	rbacHandler       *rbac.Handler
	hierarchyHandler  *hierarchy.Handler
	personHandler     *person.Handler
	scheduleHandler   *schedule.Handler
	attendanceHandler *attendance.Handler
	rosterHandler     *roster.Handler
	importHandler     *importer.Handler
	reportHandler     *report.Handler
}

// outboxFor returns the outbox only when a broker is configured. Without
// one, change signals are handled in-process by the notifier alone.
func outboxFor(i *Infra) kafka.OutboxRepository {
	if i.Config.Kafka.Broker == "" {
		return nil
	}
	return kafka.NewOutboxRepository(i.GormDB)
}

func newRegistry(i *Infra) (*registry, error) {
	cfg := i.Config
	logger := i.Logger

	// --- Repositories ---
	hierarchyRepo := hierarchy.NewRepository(i.GormDB)
	personRepo := person.NewRepository(i.GormDB)
	scheduleRepo := schedule.NewRepository(i.GormDB)
	attendanceRepo := attendance.NewRepository(i.GormDB)
	reportRepo := report.NewRepository(i.GormDB)
	outboxRepo := outboxFor(i)

	notifier := events.Fanout(cache.NewInvalidator(i.Redis, logger))

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.Auth.RBACModelPath, cfg.Auth.RBACPolicyPath)
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	hierarchyService := hierarchy.NewCachedService(
		hierarchy.NewService(i.DB, hierarchyRepo, outboxRepo, notifier, logger),
		i.Redis, cfg.Redis.CacheTTL, logger,
	)
	personService := person.NewService(i.DB, personRepo, hierarchyRepo, outboxRepo, notifier, logger)
	scheduleService := schedule.NewService(i.DB, scheduleRepo, outboxRepo, notifier, logger)
	attendanceService := attendance.NewService(i.DB, attendanceRepo, scheduleRepo, outboxRepo, notifier, logger)
	rosterService := roster.NewService(personService, hierarchyService, attendanceService, scheduleService, logger)
	importService := importer.NewService(i.DB, personRepo, hierarchyRepo, outboxRepo, notifier, cfg.Import.MaxRows, logger)
	reportService := report.NewService(reportRepo, scheduleRepo, i.Redis, cfg.Redis.CacheTTL, logger)

	return &registry{
		infra:       i,
		rbacService: rbacService,

		// --- Handlers ---
		rbacHandler:       rbac.NewHandler(rbacService, logger),
		hierarchyHandler:  hierarchy.NewHandler(hierarchyService, logger),
		personHandler:     person.NewHandler(personService, logger),
		scheduleHandler:   schedule.NewHandler(scheduleService, logger),
		attendanceHandler: attendance.NewHandler(attendanceService, logger),
		rosterHandler:     roster.NewHandler(rosterService, logger),
		importHandler:     importer.NewHandlerWithRedis(importService, i.Redis, cfg.Import.MaxRows, cfg.Import.MaxUploadSize, logger),
		reportHandler:     report.NewHandler(reportService, logger),
	}, nil
}

func (m *registry) register(router *gin.Engine) {
	cfg := m.infra.Config

	router.Use(middleware.RequestID())
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// --- Routes Registration ---
	api := router.Group("/api/v1",
		middleware.AuthMiddleware(cfg.Auth.JWTSecret),
		middleware.ContextLogger(m.infra.Logger),
	)
	{
		rbac.RegisterRoutes(api, m.rbacHandler)
		hierarchy.RegisterRoutes(api, m.hierarchyHandler, m.rbacService)
		person.RegisterRoutes(api, m.personHandler, m.rbacService)
		schedule.RegisterRoutes(api, m.scheduleHandler, m.rbacService)
		attendance.RegisterRoutes(api, m.attendanceHandler, m.rbacService)
		roster.RegisterRoutes(api, m.rosterHandler, m.rbacService)
		importer.RegisterRoutes(api, m.importHandler, m.rbacService,
			importer.Limits{Rate: rate.Limit(cfg.Auth.ImportRateLimit), Burst: cfg.Auth.ImportBurst},
			m.infra.Redis,
		)
		report.RegisterRoutes(api, m.reportHandler, m.rbacService)
	}
}
