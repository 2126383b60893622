package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/controllers"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/metrics"
	"github.com/kendall-kelly/dressmaker-orders-api/middleware"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
)

// Pinger reports database reachability for /database/status
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the handlers need
type Deps struct {
	Config  *config.Config
	Orders  *services.OrderService
	Members *services.MemberService
	Auth    *services.AdminAuthService
	Line    services.LineMessenger
	DB      Pinger
	// UploadDir enables GET /uploads/:filename; empty when images live in S3
	UploadDir string
}

// Setup builds the gin engine with every route
func Setup(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	requireAdmin, err := middleware.RequireAdmin(cfg)
	if err != nil {
		return nil, err
	}

	orders := controllers.NewOrderController(deps.Orders)
	members := controllers.NewMemberController(deps.Members)
	auth := controllers.NewAuthController(deps.Auth)
	confirm := controllers.NewConfirmController(deps.Orders)
	webhook := controllers.NewWebhookController(deps.Members, deps.Orders, deps.Line)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger.Z()))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus(deps.DB))

		v1.POST("/auth/verify", auth.Verify)
		v1.POST("/members/register", members.Register)
		v1.GET("/orders/confirm-received/:id", confirm.ConfirmReceived)
		v1.PUT("/orders/:id/tailor-status", orders.UpdateTailorStatus)
		v1.GET("/tailors/:lineUserId/jobs", orders.ListTailorJobs)
		v1.GET("/customers/:lineUserId/orders", orders.ListCustomerOrders)
		v1.POST("/webhook/line", middleware.LineWebhook(cfg.LineChannelSecret), webhook.HandleLine)

		if deps.UploadDir != "" {
			uploads := controllers.NewUploadController(deps.UploadDir)
			v1.GET("/uploads/:filename", uploads.GetUploadedImage)
		}

		admin := v1.Group("")
		admin.Use(requireAdmin)
		{
			admin.GET("/orders", orders.ListOrders)
			admin.POST("/orders", orders.CreateOrder)
			admin.GET("/orders/export", orders.ExportOrders)
			admin.GET("/orders/:id", orders.GetOrder)
			admin.PUT("/orders/:id", orders.UpdateOrder)
			admin.DELETE("/orders/:id", orders.DeleteOrder)
			admin.PUT("/orders/:id/status", orders.UpdateStatus)
			admin.POST("/orders/:id/assign-tailor", orders.AssignTailor)
			admin.POST("/orders/:id/image", orders.UploadImage)

			admin.GET("/members", members.ListMembers)
			admin.GET("/members/:id", members.GetMember)
			admin.PUT("/members/:id", members.UpdateMember)
			admin.DELETE("/members/:id", members.DeleteMember)
			admin.POST("/members/:id/promote", members.Promote)
			admin.POST("/members/:id/demote", members.Demote)
			admin.GET("/tailors", members.ListTailors)
		}
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dressmaker Orders API is running",
	})
}

// databaseStatus pings mongo
func databaseStatus(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Database not configured",
				},
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warnw("database_ping_failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
		})
	}
}
