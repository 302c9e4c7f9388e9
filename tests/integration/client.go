package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"perch/internal/models"
)

// TestClient provides typed access to the API for black-box tests.
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var value T
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return value
}

func (c *TestClient) requireStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("Expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(body))
	}
}

// RegenerateLayout rebuilds the seat grid.
func (c *TestClient) RegenerateLayout(t *testing.T, rows, cols int) *models.RegenerateLayoutResponse {
	resp := c.makeRequest(t, "POST", "/api/seats", models.RegenerateLayoutRequest{Rows: rows, Cols: cols})
	c.requireStatus(t, resp, http.StatusCreated)

	result := decodeBody[models.RegenerateLayoutResponse](t, resp)
	return &result
}

// ListSeats returns the full grid.
func (c *TestClient) ListSeats(t *testing.T) []models.SeatResponse {
	resp := c.makeRequest(t, "GET", "/api/seats", nil)
	c.requireStatus(t, resp, http.StatusOK)

	return decodeBody[[]models.SeatResponse](t, resp)
}

// UpdateSeatLabel renames a seat.
func (c *TestClient) UpdateSeatLabel(t *testing.T, seatID int64, label string) *models.SeatResponse {
	resp := c.makeRequest(t, "PUT", fmt.Sprintf("/api/seats/%d", seatID), models.UpdateSeatLabelRequest{Label: label})
	c.requireStatus(t, resp, http.StatusOK)

	result := decodeBody[models.SeatResponse](t, resp)
	return &result
}

// CreateBooking reserves one seat for one day.
func (c *TestClient) CreateBooking(t *testing.T, seatID int64, userName, date string) *models.BookingResponse {
	resp := c.makeRequest(t, "POST", "/api/bookings", models.CreateBookingRequest{
		SeatID:   seatID,
		UserName: userName,
		Date:     date,
	})
	c.requireStatus(t, resp, http.StatusCreated)

	result := decodeBody[models.BookingResponse](t, resp)
	return &result
}

// CreateBookingExpectConflict posts a single-day booking and asserts a 409.
func (c *TestClient) CreateBookingExpectConflict(t *testing.T, seatID int64, userName, date string) *models.ConflictResponse {
	resp := c.makeRequest(t, "POST", "/api/bookings", models.CreateBookingRequest{
		SeatID:   seatID,
		UserName: userName,
		Date:     date,
	})
	c.requireStatus(t, resp, http.StatusConflict)

	result := decodeBody[models.ConflictResponse](t, resp)
	return &result
}

// CreateRangeBooking reserves a seat for every day of an inclusive range.
func (c *TestClient) CreateRangeBooking(t *testing.T, seatID int64, userName, startDate, endDate string) *models.CreateRangeBookingResponse {
	resp := c.makeRequest(t, "POST", "/api/bookings", models.CreateBookingRequest{
		SeatID:    seatID,
		UserName:  userName,
		StartDate: startDate,
		EndDate:   endDate,
	})
	c.requireStatus(t, resp, http.StatusCreated)

	result := decodeBody[models.CreateRangeBookingResponse](t, resp)
	return &result
}

// CreateRangeBookingExpectConflict posts a range booking and asserts a 409.
func (c *TestClient) CreateRangeBookingExpectConflict(t *testing.T, seatID int64, userName, startDate, endDate string) *models.ConflictResponse {
	resp := c.makeRequest(t, "POST", "/api/bookings", models.CreateBookingRequest{
		SeatID:    seatID,
		UserName:  userName,
		StartDate: startDate,
		EndDate:   endDate,
	})
	c.requireStatus(t, resp, http.StatusConflict)

	result := decodeBody[models.ConflictResponse](t, resp)
	return &result
}

// ListBookingsByDate returns the day view.
func (c *TestClient) ListBookingsByDate(t *testing.T, date string) []models.BookingWithSeatResponse {
	resp := c.makeRequest(t, "GET", "/api/bookings?date="+date, nil)
	c.requireStatus(t, resp, http.StatusOK)

	return decodeBody[[]models.BookingWithSeatResponse](t, resp)
}

// ListBookingsInRange returns the dashboard range view.
func (c *TestClient) ListBookingsInRange(t *testing.T, startDate, endDate string) []models.BookingWithSeatResponse {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/api/bookings?startDate=%s&endDate=%s", startDate, endDate), nil)
	c.requireStatus(t, resp, http.StatusOK)

	return decodeBody[[]models.BookingWithSeatResponse](t, resp)
}

// UpdateBooking edits a booking.
func (c *TestClient) UpdateBooking(t *testing.T, id int64, req models.UpdateBookingRequest) *models.BookingResponse {
	resp := c.makeRequest(t, "PUT", fmt.Sprintf("/api/bookings/%d", id), req)
	c.requireStatus(t, resp, http.StatusOK)

	result := decodeBody[models.BookingResponse](t, resp)
	return &result
}

// DeleteBooking removes a booking.
func (c *TestClient) DeleteBooking(t *testing.T, id int64) {
	resp := c.makeRequest(t, "DELETE", fmt.Sprintf("/api/bookings/%d", id), nil)
	c.requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}
