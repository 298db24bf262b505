package controllers

import (
	"net/http"
	"time"

	"tandempro-backend/config"
	"tandempro-backend/models"
	"tandempro-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCustomers   int64            `json:"totalCustomers"`
	TotalBookings    int64            `json:"totalBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	MonthlyRevenue   float64          `json:"monthlyRevenue"`
	TotalInvoices    int64            `json:"totalInvoices"`
	InvoicesByStatus map[string]int64 `json:"invoicesByStatus"`
	UpcomingFlights  []UpcomingFlight `json:"upcomingFlights"`
}

type UpcomingFlight struct {
	TourName     string `json:"tourName"`
	CustomerName string `json:"customerName"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
}

// GetDashboardOverview summarizes the operation for the admin console
func GetDashboardOverview(c *gin.Context) {
	overview := DashboardOverview{
		BookingsByStatus: make(map[string]int64),
		InvoicesByStatus: make(map[string]int64),
	}

	config.DB.Model(&models.Customer{}).Count(&overview.TotalCustomers)
	config.DB.Model(&models.Booking{}).Count(&overview.TotalBookings)
	config.DB.Model(&models.Invoice{}).Count(&overview.TotalInvoices)

	// Bookings and invoices grouped by status
	type statusCount struct {
		Status string
		Count  int64
	}
	var bookingCounts []statusCount
	config.DB.Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&bookingCounts)
	for _, sc := range bookingCounts {
		overview.BookingsByStatus[sc.Status] = sc.Count
	}

	var invoiceCounts []statusCount
	config.DB.Model(&models.Invoice{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&invoiceCounts)
	for _, sc := range invoiceCounts {
		overview.InvoicesByStatus[sc.Status] = sc.Count
	}

	// This month's revenue from completed flights, keyed on the flight
	// date like the reminder and listing paths
	firstOfMonth, firstOfNext := utils.MonthBounds(time.Now())
	config.DB.Model(&models.Booking{}).
		Where("status = ? AND booking_date >= ? AND booking_date < ?",
			models.BookingStatusCompleted,
			firstOfMonth.Format("2006-01-02"), firstOfNext.Format("2006-01-02")).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&overview.MonthlyRevenue)

	// Next 7 confirmed flights
	today := time.Now().Format("2006-01-02")
	var flights []models.Booking
	config.DB.Where("booking_date >= ? AND status = ?",
		today, models.BookingStatusConfirmed).
		Order("booking_date asc, tour_start_time asc").
		Limit(7).
		Find(&flights)
	for _, b := range flights {
		overview.UpcomingFlights = append(overview.UpcomingFlights, UpcomingFlight{
			TourName:     b.TourName,
			CustomerName: b.CustomerName,
			Date:         b.BookingDate,
			StartTime:    b.TourStartTime,
			Adults:       b.Adults,
			Children:     b.Children,
		})
	}

	c.JSON(http.StatusOK, overview)
}
