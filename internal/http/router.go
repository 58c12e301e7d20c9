package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/nodetree-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nodetree-backend/internal/http/middleware"
	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	CaptchaHandler   *httpH.CaptchaHandler
	NodeHandler      *httpH.NodeHandler
	ProjectHandler   *httpH.ProjectHandler
	PNTGHandler      *httpH.PNTGHandler
	StateCodeHandler *httpH.StateCodeHandler

	CORSOrigins []string
	// APIAuthRequired puts the node, project, pntg and statecode routes behind a bearer token.
	APIAuthRequired bool
	RequestTimeout  time.Duration
	// TracingService enables otelgin spans under this service name.
	TracingService string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.AttachRequestContext(cfg.RequestTimeout))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.RespondStatus(c, http.StatusNotFound, "not_found", "Not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.RespondStatus(c, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")

	if cfg.CaptchaHandler != nil {
		api.GET("/captcha", cfg.CaptchaHandler.Get)
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	}

	if cfg.AuthMiddleware != nil {
		protected := api.Group("/")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			protected.GET("/user/info", cfg.UserHandler.Info)

			admin := protected.Group("/user")
			admin.Use(cfg.AuthMiddleware.RequireStaff())
			admin.POST("/create", cfg.UserHandler.Create)
			admin.GET("/get/:id", cfg.UserHandler.Get)
			admin.POST("/update/:id", cfg.UserHandler.Update)
			admin.DELETE("/delete/:id", cfg.UserHandler.Delete)
			admin.GET("/list", cfg.UserHandler.List)
			admin.GET("/projects/:id", cfg.UserHandler.GetProjects)
			admin.POST("/projects/:id", cfg.UserHandler.SetProjects)
		}
	}

	tree := api.Group("/")
	if cfg.AuthMiddleware != nil {
		if cfg.APIAuthRequired {
			tree.Use(cfg.AuthMiddleware.RequireAuth())
		} else {
			tree.Use(cfg.AuthMiddleware.OptionalAuth())
		}
	}

	// Nodes
	if h := cfg.NodeHandler; h != nil {
		tree.POST("/node/create", h.Create)
		tree.GET("/node/get/:id", h.Get)
		tree.POST("/node/update/:id", h.Update)
		tree.POST("/node/batch_update", h.BatchUpdate)
		tree.DELETE("/node/delete/:id", h.Delete)
		tree.GET("/node/tree/:id", h.Tree)
		tree.GET("/node/children/:id", h.Children)
	}

	// Projects
	if h := cfg.ProjectHandler; h != nil {
		tree.POST("/project/create", h.Create)
		tree.GET("/project/get/:id", h.Get)
		tree.POST("/project/update/:id", h.Update)
		tree.DELETE("/project/delete/:id", h.Delete)
		tree.GET("/project/list", h.List)
	}

	// Telegram notification configs
	if h := cfg.PNTGHandler; h != nil {
		tree.POST("/pntg/create", h.Create)
		tree.GET("/pntg/get/:id", h.Get)
		tree.POST("/pntg/update/:id", h.Update)
		tree.POST("/pntg/delete/:id", h.Delete)
		tree.DELETE("/pntg/delete/:id", h.Delete)
		tree.GET("/pntg/list", h.List)
	}

	// State codes
	if h := cfg.StateCodeHandler; h != nil {
		tree.POST("/statecode/create", h.Create)
		tree.GET("/statecode/get/:code", h.Get)
		tree.POST("/statecode/update/:code", h.Update)
		tree.POST("/statecode/delete/:code", h.Delete)
		tree.DELETE("/statecode/delete/:code", h.Delete)
		tree.GET("/statecode/list", h.List)
	}

	return r
}
