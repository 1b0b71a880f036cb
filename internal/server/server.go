package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/labelworks/internal/audit"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/config"
	"github.com/smallbiznis/labelworks/internal/customer"
	customerdomain "github.com/smallbiznis/labelworks/internal/customer/domain"
	"github.com/smallbiznis/labelworks/internal/labelspec"
	labeldomain "github.com/smallbiznis/labelworks/internal/labelspec/domain"
	"github.com/smallbiznis/labelworks/internal/material"
	materialdomain "github.com/smallbiznis/labelworks/internal/material/domain"
	"github.com/smallbiznis/labelworks/internal/observability"
	obsmiddleware "github.com/smallbiznis/labelworks/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/labelworks/internal/observability/metrics"
	obstracing "github.com/smallbiznis/labelworks/internal/observability/tracing"
	"github.com/smallbiznis/labelworks/internal/order"
	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
	"github.com/smallbiznis/labelworks/internal/providers"
	"github.com/smallbiznis/labelworks/internal/providers/pdf"
	"github.com/smallbiznis/labelworks/internal/report"
	reportdomain "github.com/smallbiznis/labelworks/internal/report/domain"
	"github.com/smallbiznis/labelworks/internal/supplier"
	supplierdomain "github.com/smallbiznis/labelworks/internal/supplier/domain"
	"github.com/smallbiznis/labelworks/internal/user"
	userdomain "github.com/smallbiznis/labelworks/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	audit.Module,
	customer.Module,
	labelspec.Module,
	material.Module,
	supplier.Module,
	user.Module,
	order.Module,
	report.Module,
	providers.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-Id", obsmiddleware.ActorHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && strings.TrimSpace(origins[0]) == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, cfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	clock       clock.Clock
	quality     *config.QualityConfigHolder
	auditSvc    auditdomain.Service
	customerSvc customerdomain.Service
	labelSvc    labeldomain.Service
	materialSvc materialdomain.Service
	supplierSvc supplierdomain.Service
	userSvc     userdomain.Service
	orderSvc    orderdomain.Service
	reportSvc   reportdomain.Service
	pdf         pdf.Provider
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Clock       clock.Clock
	Quality     *config.QualityConfigHolder
	AuditSvc    auditdomain.Service
	CustomerSvc customerdomain.Service
	LabelSvc    labeldomain.Service
	MaterialSvc materialdomain.Service
	SupplierSvc supplierdomain.Service
	UserSvc     userdomain.Service
	OrderSvc    orderdomain.Service
	ReportSvc   reportdomain.Service
	PDF         pdf.Provider
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		clock:       p.Clock,
		quality:     p.Quality,
		auditSvc:    p.AuditSvc,
		customerSvc: p.CustomerSvc,
		labelSvc:    p.LabelSvc,
		materialSvc: p.MaterialSvc,
		supplierSvc: p.SupplierSvc,
		userSvc:     p.UserSvc,
		orderSvc:    p.OrderSvc,
		reportSvc:   p.ReportSvc,
		pdf:         p.PDF,
		obsMetrics:  p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Label library --------
	api.GET("/label-library", s.ListLabelSpecs)
	api.POST("/label-library", s.CreateLabelSpec)
	api.GET("/label-library/:id", s.GetLabelSpecByID)
	api.PUT("/label-library/:id", s.UpdateLabelSpec)
	api.PATCH("/label-library/:id", s.UpdateLabelSpec)
	api.DELETE("/label-library/:id", s.DeleteLabelSpec)
	api.POST("/label-library/:id/duplicate", s.DuplicateLabelSpec)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/stats", s.GetOrderStats)
	api.GET("/orders/next-number", s.GetNextOrderNumber)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PATCH("/orders/:id", s.UpdateOrder)
	api.POST("/orders/:id/status", s.TransitionOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.GET("/orders/:id/sheet", s.RenderOrderSheet)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Materials --------
	api.GET("/materials", s.ListMaterials)
	api.POST("/materials", s.CreateMaterial)
	api.POST("/materials/search-by-specification", s.SearchMaterialsBySpecification)
	api.GET("/materials/:id", s.GetMaterialByID)
	api.PATCH("/materials/:id", s.UpdateMaterial)
	api.DELETE("/materials/:id", s.DeleteMaterial)

	// -------- Suppliers --------
	api.GET("/suppliers", s.ListSuppliers)
	api.POST("/suppliers", s.CreateSupplier)
	api.GET("/suppliers/:id", s.GetSupplierByID)
	api.PATCH("/suppliers/:id", s.UpdateSupplier)
	api.DELETE("/suppliers/:id", s.DeleteSupplier)
	api.POST("/suppliers/:id/approval", s.SetSupplierApproval)
	api.GET("/suppliers/:id/contacts", s.ListSupplierContacts)
	api.POST("/suppliers/:id/contacts", s.CreateSupplierContact)
	api.PATCH("/supplier-contacts/:id", s.UpdateSupplierContact)
	api.DELETE("/supplier-contacts/:id", s.DeleteSupplierContact)

	// -------- Users --------
	api.GET("/users", s.ListUsers)
	api.POST("/users", s.CreateUser)
	api.GET("/users/:id", s.GetUserByID)

	// -------- Reports --------
	api.GET("/reports", s.GetReport)

	// -------- Derivation --------
	api.POST("/derive/order-total", s.DeriveOrderTotal)
	api.POST("/derive/moq-price", s.DeriveMOQPrice)
	api.POST("/derive/tolerance", s.DeriveTolerance)
	api.POST("/derive/spot-colors", s.DeriveSpotColors)

	api.GET("/schema/enums", s.ListEnums)
	api.GET("/audit-logs", s.ListAuditLogs)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
