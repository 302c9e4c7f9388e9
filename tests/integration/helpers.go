package integration

import (
	"net/http"
	"os"
	"testing"
	"time"
)

// These tests run against a live server; set API_BASE_URL to point at it.
func baseURL() string {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// requireServer skips the test when no server is reachable, so the suite is
// safe to run in environments without the full stack.
func requireServer(t *testing.T) *TestClient {
	t.Helper()

	client := NewTestClient(baseURL())

	httpClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := httpClient.Get(client.BaseURL + "/health")
	if err != nil {
		t.Skipf("Server not reachable at %s: %v", client.BaseURL, err)
	}
	resp.Body.Close()

	return client
}

// uniqueDate returns a date string far in the future, offset per call, so
// parallel test runs do not collide on the same (seat, day) pairs.
var dateCounter int

func uniqueDate(t *testing.T) string {
	t.Helper()
	dateCounter++
	return time.Now().AddDate(1, 0, dateCounter).Format("2006-01-02")
}
