package routes

import (
	"os"
	"strings"

	"tandempro-backend/config"
	"tandempro-backend/controllers"
	"tandempro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{
		"https://www.mrtandempilot.example",
		"http://localhost:3000",
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Chat widget relay, open to unauthenticated visitors
	r.POST("/api/chat", controllers.Chat)

	bookingController := controllers.NewBookingController()

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.GET("", bookingController.GetBookings)
			bookings.PATCH("/:id", bookingController.UpdateBookingStatus)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
		}

		// Operator-only routes
		admin := api.Group("/admin")
		admin.Use(utils.RequireAdmin())
		{
			admin.GET("/bookings", bookingController.GetAllBookings)
			admin.GET("/dashboard", controllers.GetDashboardOverview)
			admin.DELETE("/invoices/:id", controllers.DeleteInvoice)

			// Customer CRM routes
			customers := admin.Group("/customers")
			{
				customers.POST("", controllers.CreateCustomer)
				customers.GET("", controllers.GetCustomers)
				customers.GET("/:id", controllers.GetCustomer)
				customers.PUT("/:id", controllers.UpdateCustomer)
				customers.DELETE("/:id", controllers.DeleteCustomer)
			}
		}
	}

	return r
}
