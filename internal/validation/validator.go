package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"perch/internal/models"
)

// APIValidator smoke-checks a running server against the expected surface:
// layout regeneration, booking creation, the conflict path and cleanup.
type APIValidator struct {
	baseURL string
}

func NewAPIValidator(baseURL string) *APIValidator {
	return &APIValidator{baseURL: baseURL}
}

// ValidateAll walks every endpoint once against a live server.
func (v *APIValidator) ValidateAll() error {
	log.Println("Validating API endpoints...")

	if err := v.validateSeats(); err != nil {
		return fmt.Errorf("seats validation failed: %w", err)
	}

	if err := v.validateBookings(); err != nil {
		return fmt.Errorf("bookings validation failed: %w", err)
	}

	log.Println("All endpoints validated successfully")
	return nil
}

func (v *APIValidator) validateSeats() error {
	log.Println("Checking seats endpoints...")

	resp, err := v.makeRequest("POST", "/api/seats", models.RegenerateLayoutRequest{Rows: 2, Cols: 2})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /api/seats returned %d, expected 201", resp.StatusCode)
	}

	resp, err = v.makeRequest("GET", "/api/seats", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/seats returned %d, expected 200", resp.StatusCode)
	}

	var seats []models.SeatResponse
	if err := json.NewDecoder(resp.Body).Decode(&seats); err != nil {
		return fmt.Errorf("GET /api/seats returned invalid JSON: %w", err)
	}
	if len(seats) != 4 {
		return fmt.Errorf("expected 4 seats after 2x2 regeneration, got %d", len(seats))
	}

	return nil
}

func (v *APIValidator) validateBookings() error {
	log.Println("Checking bookings endpoints...")

	resp, err := v.makeRequest("GET", "/api/seats", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var seats []models.SeatResponse
	if err := json.NewDecoder(resp.Body).Decode(&seats); err != nil {
		return fmt.Errorf("failed to decode seats: %w", err)
	}
	if len(seats) == 0 {
		return fmt.Errorf("no seats available for booking validation")
	}
	seatID := seats[0].ID

	createReq := models.CreateBookingRequest{
		SeatID:   seatID,
		UserName: "validator",
		Date:     "2024-06-01",
	}
	resp, err = v.makeRequest("POST", "/api/bookings", createReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /api/bookings returned %d, expected 201", resp.StatusCode)
	}

	var booking models.BookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		return fmt.Errorf("POST /api/bookings returned invalid JSON: %w", err)
	}
	if booking.Date != "2024-06-01" {
		return fmt.Errorf("created booking has date %q, expected 2024-06-01", booking.Date)
	}

	// Same seat, same day must be rejected.
	resp, err = v.makeRequest("POST", "/api/bookings", createReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("duplicate booking returned %d, expected 409", resp.StatusCode)
	}

	resp, err = v.makeRequest("GET", "/api/bookings?date=2024-06-01", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/bookings?date= returned %d, expected 200", resp.StatusCode)
	}

	resp, err = v.makeRequest("DELETE", fmt.Sprintf("/api/bookings/%d", booking.ID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DELETE /api/bookings/:id returned %d, expected 200", resp.StatusCode)
	}

	return nil
}

func (v *APIValidator) makeRequest(method, path string, body interface{}) (*http.Response, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		req, err = http.NewRequest(method, v.baseURL+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, v.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	return resp, nil
}

// RunValidation runs the smoke checks against a local server.
func RunValidation() {
	baseURL := os.Getenv("VALIDATE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	validator := NewAPIValidator(baseURL)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
}
