package router

import (
	"time"

	"taller/internal/config"
	"taller/internal/handler"
	"taller/internal/infra"
	"taller/internal/middleware"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/service"
	"taller/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	contador := middleware.NewContadorRedis(rdb)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(contador, "api", 1000, time.Minute,
		"Demasiadas solicitudes. Intente nuevamente en un momento."))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)
	repuestoRepo := repository.NewRepuestoRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg, infra.NewRedisDenylist(rdb))
	clienteSvc := service.NewClienteService(clienteRepo)
	ordenSvc := service.NewOrdenService(ordenRepo, clienteRepo, usuarioRepo, cfg)
	documentoSvc := service.NewDocumentoService(ordenRepo, dispatcher, cfg)
	notificacionSvc := service.NewNotificacionService(ordenRepo, notificacionRepo, cfg)
	dashboardSvc := service.NewDashboardService(ordenRepo, clienteRepo, alertaRepo, repuestoRepo, rdb,
		time.Duration(cfg.DashboardCacheSeconds)*time.Second)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	ordenesH := handler.NewOrdenesHandler(ordenSvc)
	documentosH := handler.NewDocumentosHandler(documentoSvc)
	notificacionesH := handler.NewNotificacionesHandler(notificacionSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(contador), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Capability checks that depend on the order itself
	// (technician visibility) happen in the services.
	v1 := r.Group("/v1", middleware.JWTAuth(authSvc))
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/sesion", authH.Sesion)

		clientes := v1.Group("/clientes", middleware.RequireCapacidad(model.CapGestionarCliente))
		{
			clientes.GET("", clientesH.Buscar)
			clientes.POST("", clientesH.Crear)
			clientes.GET("/:id", clientesH.ObtenerPorID)
		}

		ordenes := v1.Group("/ordenes")
		{
			ordenes.POST("", middleware.RequireCapacidad(model.CapCrearOrden), ordenesH.Crear)
			ordenes.GET("", ordenesH.Listar)
			ordenes.GET("/:id", ordenesH.ObtenerPorID)
			ordenes.PATCH("/:id/estado", ordenesH.CambiarEstado)
			ordenes.PATCH("/:id/costos", ordenesH.ActualizarCostos)
			ordenes.PATCH("/:id/diagnostico", ordenesH.ActualizarDiagnostico)
			ordenes.PATCH("/:id/tecnico", ordenesH.AsignarTecnico)
			ordenes.PUT("/:id/firma-entrega", ordenesH.RegistrarFirmaEntrega)

			ordenes.GET("/:id/pdf", documentosH.OrdenPDF)
			ordenes.GET("/:id/contrato", documentosH.ContratoPDF)
			ordenes.POST("/:id/pdf/email", documentosH.EnviarEmail)

			ordenes.POST("/:id/whatsapp", notificacionesH.WhatsApp)
			ordenes.GET("/:id/notificaciones", notificacionesH.Historial)
		}

		v1.GET("/plantillas", notificacionesH.Plantillas)
		v1.POST("/firmas", handler.Firma)

		v1.GET("/dashboard", dashboardH.Obtener)
		v1.GET("/alertas", dashboardH.Alertas)
		v1.PATCH("/alertas/:id/leida", dashboardH.MarcarAlertaLeida)
		v1.GET("/inventario/bajo", dashboardH.StockBajo)

		usuarios := v1.Group("/usuarios", middleware.RequireCapacidad(model.CapGestionarUsuario))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
