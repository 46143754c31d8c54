package app

import (
	"github.com/gin-gonic/gin"

	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/modules/aimodel"
	"github.com/geoexplorer/core/internal/modules/auth"
	"github.com/geoexplorer/core/internal/modules/business"
	"github.com/geoexplorer/core/internal/modules/search"
	"github.com/geoexplorer/core/internal/modules/term"
	pkgredis "github.com/geoexplorer/core/internal/pkg/redis"
	"github.com/geoexplorer/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client, searchSvc *search.Service) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.RateLimit(rc.Raw()))

	api.GET("", a.apiRoot)
	api.GET("/hello", authMW, a.hello)

	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)
	business.NewHandler(business.NewService(db)).RegisterRoutes(api, authMW)
	aimodel.NewHandler(aimodel.NewService(db)).RegisterRoutes(api, authMW)
	search.NewHandler(searchSvc).RegisterRoutes(api, authMW)
	term.NewHandler(term.NewService(db)).RegisterRoutes(api, authMW)
	a.registerJobRoutes(api, authMW)
}

func (a *App) apiRoot(c *gin.Context) {
	response.OK(c, gin.H{
		"message": "GEOExplorer API",
		"endpoints": gin.H{
			"auth": gin.H{
				"register":   "/api/auth/register",
				"login":      "/api/auth/login",
				"refresh":    "/api/auth/refresh",
				"user":       "/api/auth/user",
				"logout":     "/api/auth/logout",
				"logout_all": "/api/auth/logout-all",
			},
			"business": gin.H{
				"profile":           "/api/business/profile",
				"onboarding_status": "/api/business/onboarding-status",
			},
			"monitoring": gin.H{
				"search_terms":     "/api/search-terms",
				"ai_models":        "/api/ai-models",
				"run_ai_search":    "/api/run-ai-search",
				"search_logs":      "/api/search-logs",
				"search_analytics": "/api/search-analytics",
			},
		},
		"status": "running",
	})
}

func (a *App) hello(c *gin.Context) {
	response.OK(c, gin.H{"message": "Hello World!"})
}

func (a *App) registerJobRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobs := rg.Group("/jobs", authMW)

	jobs.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	jobs.GET("/:name", func(c *gin.Context) {
		result, err := a.sched.GetTask(c.Param("name"))
		if err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, result)
	})
	jobs.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"message": "job triggered"})
	})
}
