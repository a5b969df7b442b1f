package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/smallbiznis/vulca/internal/auth/domain"
	"github.com/smallbiznis/vulca/internal/auth/session"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	billrender "github.com/smallbiznis/vulca/internal/bill/render"
	companydomain "github.com/smallbiznis/vulca/internal/company/domain"
	"github.com/smallbiznis/vulca/internal/config"
	"github.com/smallbiznis/vulca/internal/observability"
	obsmiddleware "github.com/smallbiznis/vulca/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/vulca/internal/observability/metrics"
	obstracing "github.com/smallbiznis/vulca/internal/observability/tracing"
	"github.com/smallbiznis/vulca/internal/providers/pdf"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
	statsdomain "github.com/smallbiznis/vulca/internal/stats/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
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

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
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
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	genID      *snowflake.Node
	sessions   *session.Manager
	authsvc    authdomain.Service
	companySvc companydomain.Service
	schemaSvc  schemadomain.Service
	pricingSvc pricingdomain.Service
	billSvc    billdomain.Service
	renderSvc  *billrender.Service
	statsSvc   statsdomain.Service
	pdfSvc     pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	Sessions   *session.Manager
	Authsvc    authdomain.Service
	CompanySvc companydomain.Service
	SchemaSvc  schemadomain.Service
	PricingSvc pricingdomain.Service
	BillSvc    billdomain.Service
	RenderSvc  *billrender.Service
	StatsSvc   statsdomain.Service
	PDFSvc     pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		genID:      p.GenID,
		sessions:   p.Sessions,
		authsvc:    p.Authsvc,
		companySvc: p.CompanySvc,
		schemaSvc:  p.SchemaSvc,
		pricingSvc: p.PricingSvc,
		billSvc:    p.BillSvc,
		renderSvc:  p.RenderSvc,
		statsSvc:   p.StatsSvc,
		pdfSvc:     p.PDFSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPrintRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	api.GET("/companies", s.RequireRole(authdomain.RoleAdmin), s.ListCompanies)
	api.POST("/companies", s.RequireRole(authdomain.RoleSuperAdmin), s.CreateCompany)

	api.POST("/admin/users", s.RequireRole(authdomain.RoleSuperAdmin), s.CreateUser)
	api.POST("/admin/delete-user", s.RequireRole(authdomain.RoleSuperAdmin), s.DeleteUser)

	company := api.Group("/companies/:companyId")
	company.Use(s.CompanyContext())
	{
		company.GET("", s.RequireRole(authdomain.RoleCompanyUser), s.GetCompany)
		company.PUT("", s.RequireRole(authdomain.RoleCompanyAdmin), s.UpdateCompany)
		company.DELETE("", s.RequireRole(authdomain.RoleSuperAdmin), s.DeleteCompany)

		company.GET("/users", s.RequireRole(authdomain.RoleCompanyAdmin), s.ListMembers)
		company.POST("/users", s.RequireRole(authdomain.RoleCompanyAdmin), s.AddMember)

		company.GET("/schema", s.RequireRole(authdomain.RoleCompanyAdmin), s.GetSchema)
		company.PUT("/schema", s.RequireRole(authdomain.RoleCompanyAdmin), s.SaveSchema)
		company.POST("/schema/preview", s.RequireRole(authdomain.RoleCompanyAdmin), s.PreviewSchema)

		company.GET("/prices", s.RequireRole(authdomain.RoleCompanyAdmin), s.GetPrices)
		company.PUT("/prices", s.RequireRole(authdomain.RoleCompanyAdmin), s.SavePrices)

		company.GET("/form", s.RequireRole(authdomain.RoleCompanyUser), s.GetBillForm)
		company.POST("/bills", s.RequireRole(authdomain.RoleCompanyUser), s.SaveBill)
		company.GET("/bills", s.RequireRole(authdomain.RoleCompanyUser), s.ListBills)
		company.GET("/bills/:billId", s.RequireRole(authdomain.RoleCompanyUser), s.GetBill)
		company.DELETE("/bills/:billId", s.RequireRole(authdomain.RoleCompanyAdmin), s.DeleteBill)

		company.GET("/stats", s.RequireRole(authdomain.RoleCompanyAdmin), s.GetStats)

		company.GET("/settings/template", s.RequireRole(authdomain.RoleCompanyAdmin), s.GetTemplateSettings)
		company.PUT("/settings/template", s.RequireRole(authdomain.RoleCompanyAdmin), s.SelectTemplate)
	}
}

func (s *Server) registerPrintRoutes() {
	printable := s.engine.Group("/print/:companyId/:billId")
	printable.Use(s.AuthRequired(), s.CompanyContext(), s.RequireRole(authdomain.RoleCompanyUser))
	{
		printable.GET("", s.PrintBill)
		printable.GET("/pdf", s.PrintBillPDF)
	}
}
