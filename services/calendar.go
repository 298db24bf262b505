// services/calendar.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"tandempro-backend/models"
)

// CalendarClient mirrors confirmed bookings into the external calendar
// service. Every call is best-effort: the booking stays valid when the
// calendar is unreachable.
type CalendarClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewCalendarClient() *CalendarClient {
	return &CalendarClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: os.Getenv("CALENDAR_API_URL"),
		apiKey:  os.Getenv("CALENDAR_API_KEY"),
	}
}

type calendarEventRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	DurationMin int    `json:"durationMinutes"`
}

type calendarEventResponse struct {
	ID string `json:"id"`
}

// CreateEvent posts the booking to the calendar service and returns the
// external event id.
func (c *CalendarClient) CreateEvent(booking *models.Booking) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("CALENDAR_API_URL not set")
	}

	event := calendarEventRequest{
		Summary: fmt.Sprintf("%s - %s", booking.TourName, booking.CustomerName),
		Description: fmt.Sprintf("Adults: %d, Children: %d, Total: %.2f",
			booking.Adults, booking.Children, booking.TotalAmount),
		Date:        booking.BookingDate,
		StartTime:   booking.TourStartTime,
		DurationMin: booking.Duration,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/events", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errors.New("calendar API returned non-OK status: " + resp.Status)
	}

	var apiResp calendarEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}

	return apiResp.ID, nil
}
