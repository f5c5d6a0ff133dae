package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/insight"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/modules/content/entry"
	"github.com/mood-space/core/internal/modules/content/pet"
	"github.com/mood-space/core/internal/modules/content/profile"
	"github.com/mood-space/core/internal/modules/stats/insights"
	"github.com/mood-space/core/internal/pkg/response"
	"github.com/mood-space/core/internal/pkg/revision"
)

const (
	apiPrefix   = "/api/v2"
	metricsPath = "/metrics"
	healthPath  = apiPrefix + "/health"
)

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET(metricsPath, gin.WrapH(a.metrics.Handler()))

	appInfo := gin.H{
		"name":    "mood-space-core",
		"version": "1.0.0",
	}
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, appInfo) })

	api := r.Group(apiPrefix)
	api.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, appInfo) })
	api.GET("/health", a.health)

	revisions := revision.New(a.rc)

	profileSvc := profile.NewService(a.db, revisions, a.logger.Named("profile"))
	petSvc := pet.NewService(a.db)
	entrySvc := entry.NewService(a.db, profileSvc, petSvc, revisions, a.logger.Named("entry"))

	profile.NewHandler(profileSvc).RegisterRoutes(api, authMW)
	pet.NewHandler(petSvc).RegisterRoutes(api, authMW)
	entry.NewHandler(entrySvc, a.rc).RegisterRoutes(api, authMW)

	insights.NewHandler(entrySvc, profileSvc, insights.Options{
		Location: a.loc,
		Policy: insight.Policy{
			MonthDays: a.cfg.Insights.UnlockMonthDays,
			YearDays:  a.cfg.Insights.UnlockYearDays,
		},
		Cache:        a.rc,
		CacheTTL:     a.cfg.CacheTTL(),
		DisableCache: a.cfg.Insights.DisableCache,
		Revisions:    revisions,
		Metrics:      a.metrics,
		Logger:       a.logger.Named("insights"),
	}).RegisterRoutes(api, authMW)
}

func (a *App) health(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := false
	if sqlDB, err := a.db.DB(); err == nil {
		dbOK = sqlDB.PingContext(ctx) == nil
	}
	redisOK := a.rc.Raw().Ping(ctx).Err() == nil

	status := "ok"
	code := http.StatusOK
	if !dbOK || !redisOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":   status,
		"database": dbOK,
		"redis":    redisOK,
		"uptime":   humanizeDuration(time.Since(a.started)),
		"timezone": a.loc.String(),
	})
}
