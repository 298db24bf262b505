package main

import (
	"fmt"
	"log"
	"os"

	"tandempro-backend/config"
	"tandempro-backend/models"
	"tandempro-backend/routes"
	"tandempro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Booking{},
		&models.Invoice{},
		&models.InvoiceSequence{},
		&models.Conversation{},
	)
}

func main() {

	services.NewScheduler(config.DB).Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
