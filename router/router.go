package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/controllers"
	"github.com/yogapratama/dinein-app/middlewares"
	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	// The floor hub reads occupancy through this shared handle.
	utils.InitDB(db)

	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Global limiter: 50 requests per second per IP. Must be installed
	// before any route is registered; gin snapshots the middleware chain
	// per route at registration time.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Services
	seatingSvc := services.NewSeatingService(db)
	sessionSvc := services.NewSessionService(db)
	orderSvc := services.NewOrderService(db, sessionSvc, seatingSvc)
	paymentSvc := services.NewPaymentService(db, seatingSvc)

	// Controllers
	authCtrl := controllers.NewAuthController(db)
	sessionCtrl := controllers.NewSessionController(db, sessionSvc)
	seatingCtrl := controllers.NewSeatingController(db, seatingSvc)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db, orderSvc)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc)
	adminSessionCtrl := controllers.NewAdminSessionController(db, seatingSvc)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC / GUEST ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/admin/login", authCtrl.AdminLogin)
	}

	api.POST("/sessions/guest", sessionCtrl.CreateGuestSession)

	guest := api.Group("/")
	guest.Use(middlewares.GuestTokenMiddleware())
	{
		guest.POST("/seating/assign", seatingCtrl.AssignTable)
		guest.POST("/seating/release", seatingCtrl.ReleaseTable)

		guest.POST("/orders", orderCtrl.CreateOrGetDraft)
		guest.POST("/orders/:order_id/items", orderCtrl.UpsertItem)
		guest.DELETE("/orders/items/:item_id", orderCtrl.RemoveItem)
		guest.POST("/orders/:order_id/place", orderCtrl.PlaceOrder)

		guest.POST("/payments/confirm", paymentCtrl.ConfirmPayment)
	}

	// Processor-initiated; authenticated by the processor's delivery, not a
	// guest token.
	api.POST("/payments/webhook", paymentCtrl.HandleWebhook)

	// Registry read is public: the guest seating page shows the floor.
	api.GET("/tables", tableCtrl.GetAllTables)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	admin := api.Group("/")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.GET("/tables/:table_id", tableCtrl.GetTableByID)
		admin.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		admin.GET("/admin/sessions", sessionCtrl.ListActiveSessions)
		admin.POST("/admin/sessions/:session_id/end", adminSessionCtrl.EndSession)

		admin.POST("/admin/orders/onsite", orderCtrl.CreateOnsiteOrder)

		admin.GET("/floor/ws", controllers.FloorHandler)
	}

	return r
}
