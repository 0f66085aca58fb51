package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/controllers"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

// Deps is everything the HTTP layer needs. RateLimiter may be nil.
type Deps struct {
	Services       *services.Services
	Tokens         *utils.TokenIssuer
	Hub            *realtime.Hub
	RateLimiter    *middlewares.RateLimiter
	CORSOrigin     string
	RestaurantName string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.SecurityHeaders())
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.RateLimit())
	}

	svc := d.Services
	authCtrl := controllers.NewAuthController(svc.Staff, d.Tokens)
	staffCtrl := controllers.NewStaffController(svc.Staff)
	tableCtrl := controllers.NewTableController(svc.Tables)
	menuCtrl := controllers.NewMenuController(svc.Menus)
	orderCtrl := controllers.NewOrderController(svc.Orders)
	paymentCtrl := controllers.NewPaymentController(svc.Payments, d.RestaurantName)
	reservationCtrl := controllers.NewReservationController(svc.Reservations)
	adminCtrl := controllers.NewAdminController(svc.Reports, svc.Activity)
	realtimeCtrl := controllers.NewRealtimeController(d.Hub)

	auth := middlewares.AuthMiddleware(d.Tokens)
	owner := middlewares.RoleCheck(models.RoleOwner)
	floor := middlewares.RoleCheck(models.RoleWaiter, models.RoleCashier, models.RoleOwner)
	kitchen := middlewares.RoleCheck(models.RoleCook, models.RoleOwner)
	cashier := middlewares.RoleCheck(models.RoleCashier, models.RoleOwner)

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})
	r.POST("/login", middlewares.NewStrictRateLimiter(), authCtrl.Login)
	r.GET("/ws", auth, realtimeCtrl.ServeWS)

	api := r.Group("/api", auth)
	{
		api.POST("/logout", authCtrl.Logout)
		api.GET("/me", authCtrl.Me)

		// Meja
		api.GET("/tables", tableCtrl.GetAllTables)
		api.GET("/tables/:id", tableCtrl.GetTable)
		api.POST("/tables", owner, tableCtrl.CreateTable)
		api.PATCH("/tables/:id/status", floor, tableCtrl.UpdateTableStatus)
		api.PATCH("/tables/:id/active", owner, tableCtrl.SetTableActive)

		// Menu & stok
		api.GET("/menus", menuCtrl.GetMenus)
		api.GET("/menus/low-stock", kitchen, menuCtrl.LowStock)
		api.GET("/menus/:id", menuCtrl.GetMenu)
		api.POST("/menus", owner, menuCtrl.CreateMenu)
		api.PUT("/menus/:id", owner, menuCtrl.UpdateMenu)
		api.PATCH("/menus/:id/stock", kitchen, menuCtrl.UpdateStock)
		api.GET("/menus/:id/ingredients", kitchen, menuCtrl.GetMenuIngredients)
		api.PUT("/menus/:id/ingredients", owner, menuCtrl.SetMenuIngredient)
		api.DELETE("/menus/:id/ingredients/:ingredient_id", owner, menuCtrl.DeleteMenuIngredient)
		api.GET("/ingredients", kitchen, menuCtrl.GetIngredients)
		api.POST("/ingredients", owner, menuCtrl.CreateIngredient)

		// Pesanan
		api.GET("/orders", orderCtrl.GetAllOrders)
		api.GET("/orders/:id", orderCtrl.GetOrder)
		api.POST("/orders", floor, orderCtrl.CreateOrder)
		api.POST("/orders/:id/details", floor, orderCtrl.AddDetail)
		api.DELETE("/order-details/:id", floor, orderCtrl.RemoveDetail)
		api.POST("/orders/:id/cancel", floor, orderCtrl.CancelOrder)
		api.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
		api.DELETE("/orders/:id", owner, orderCtrl.DeleteOrder)

		// Pembayaran
		payments := api.Group("/payments", cashier, middlewares.NoStore())
		{
			payments.POST("", paymentCtrl.Pay)
			payments.GET("", paymentCtrl.GetPayments)
			payments.GET("/:id", paymentCtrl.GetPayment)
			payments.GET("/:id/receipt.pdf", paymentCtrl.ReceiptPDF)
			payments.PATCH("/:id/failed", owner, paymentCtrl.MarkFailed)
		}

		// Reservasi
		api.GET("/reservations", floor, reservationCtrl.GetReservations)
		api.GET("/reservations/:id", floor, reservationCtrl.GetReservation)
		api.POST("/reservations", floor, reservationCtrl.CreateReservation)
		api.PATCH("/reservations/:id/status", floor, reservationCtrl.ChangeStatus)
		api.PATCH("/reservations/:id/table", floor, reservationCtrl.ReassignTable)
		api.PATCH("/reservations/:id/staff", floor, reservationCtrl.ReassignStaff)

		// Admin
		api.GET("/staff", owner, staffCtrl.ListStaff)
		api.POST("/staff", owner, staffCtrl.CreateStaff)
		api.PATCH("/staff/:id/active", owner, staffCtrl.SetStaffActive)
		api.GET("/reports/sales", owner, adminCtrl.SalesReport)
		api.GET("/reports/sales.png", owner, adminCtrl.SalesChart)
		api.GET("/activity", owner, adminCtrl.ActivityLog)
	}

	return r
}
