package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolio/rental-engine/api"
	"github.com/hostfolio/rental-engine/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := api.NewRouter(api.NewHandler(store), api.RouterOptions{})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func createProperty(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/properties", map[string]any{
		"name":   name,
		"status": "active",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dto struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &dto)
	return dto.ID
}

func createBooking(t *testing.T, srv *httptest.Server, propertyID, checkIn, checkOut string, major float64, status string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]any{
		"property_id": propertyID,
		"guest_name":  "Fatou Ndiaye",
		"check_in":    checkIn,
		"check_out":   checkOut,
		"total_major": major,
		"total_minor": major * 2,
		"status":      status,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dto struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &dto)
	return dto.ID
}

func TestBookings_CRUD(t *testing.T) {
	srv := newTestServer(t)
	prop := createProperty(t, srv, "Villa Baobab")

	id := createBooking(t, srv, prop, "2024-01-10", "2024-01-15", 500, "confirmed")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/bookings/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		GuestName string `json:"guest_name"`
		Nights    int    `json:"nights"`
		Total     struct {
			Major string `json:"major"`
		} `json:"total"`
	}
	decodeBody(t, resp, &got)
	assert.Equal(t, "Fatou Ndiaye", got.GuestName)
	assert.Equal(t, 5, got.Nights)
	assert.Equal(t, "500.00", got.Total.Major)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/bookings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBookings_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	// Missing required fields
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]any{
		"guest_name": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Check-out not after check-in
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]any{
		"property_id": "p1",
		"guest_name":  "x",
		"check_in":    "2024-01-10",
		"check_out":   "2024-01-10",
		"total_major": 100,
		"status":      "confirmed",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown status
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]any{
		"property_id": "p1",
		"guest_name":  "x",
		"check_in":    "2024-01-10",
		"check_out":   "2024-01-12",
		"total_major": 100,
		"status":      "tentative",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDashboard_SummaryForPeriod(t *testing.T) {
	// GIVEN: One property, one fully-contained booking, one expense
	// WHEN: Requesting the dashboard for January 2024
	// THEN: Revenue, net profit and occupancy reflect that data

	srv := newTestServer(t)
	prop := createProperty(t, srv, "Villa Baobab")
	createBooking(t, srv, prop, "2024-01-10", "2024-01-20", 500, "confirmed")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"property_id":  prop,
		"date":         "2024-01-12",
		"amount_major": 100.0,
		"amount_minor": 200.0,
		"category":     "cleaning",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/dashboard?start=2024-01-01&end=2024-01-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dash struct {
		Revenue struct {
			Major string `json:"major"`
		} `json:"revenue"`
		NetProfit struct {
			Major string `json:"major"`
		} `json:"net_profit"`
		NightsBooked int    `json:"nights_booked"`
		Occupancy    string `json:"occupancy_pct"`
		Changes      struct {
			Revenue string `json:"revenue_pct"`
		} `json:"changes_vs_previous"`
	}
	decodeBody(t, resp, &dash)

	assert.Equal(t, "500.00", dash.Revenue.Major)
	assert.Equal(t, "400.00", dash.NetProfit.Major)
	assert.Equal(t, 10, dash.NightsBooked)
	assert.Equal(t, "32.26", dash.Occupancy)
	// Previous period (December) is empty, current has revenue.
	assert.Equal(t, "100.00", dash.Changes.Revenue)
}

func TestDashboard_InvalidPeriod(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard?start=2024-01-31&end=2024-01-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/dashboard?start=bogus&end=2024-01-31", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCalendar_MonthLayout(t *testing.T) {
	// GIVEN: Two overlapping bookings and one cancelled booking in January
	// WHEN: Requesting the January 2024 calendar
	// THEN: Overlapping stays land on separate rows, cancelled ones are absent

	srv := newTestServer(t)
	prop := createProperty(t, srv, "Villa Baobab")
	a := createBooking(t, srv, prop, "2024-01-08", "2024-01-12", 400, "confirmed")
	b := createBooking(t, srv, prop, "2024-01-10", "2024-01-14", 400, "confirmed")
	cancelled := createBooking(t, srv, prop, "2024-01-09", "2024-01-11", 400, "cancelled")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendar?year=2024&month=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cal struct {
		Weeks []struct {
			Start string `json:"start"`
			Rows  [][]struct {
				BookingID string `json:"booking_id"`
			} `json:"rows"`
		} `json:"weeks"`
	}
	decodeBody(t, resp, &cal)
	require.Len(t, cal.Weeks, 5)

	// Week of Jan 8-14 holds both confirmed bookings on separate rows.
	week := cal.Weeks[1]
	require.Equal(t, "2024-01-08", week.Start)
	require.Len(t, week.Rows, 2)
	assert.Equal(t, a, week.Rows[0][0].BookingID)
	assert.Equal(t, b, week.Rows[1][0].BookingID)

	for _, w := range cal.Weeks {
		for _, row := range w.Rows {
			for _, bar := range row {
				assert.NotEqual(t, cancelled, bar.BookingID)
			}
		}
	}
}

func TestCalendar_BadQuery(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{"", "year=2024", "year=2024&month=13", "year=x&month=1"} {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/calendar?%s", srv.URL, q), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		resp.Body.Close()
	}
}

func TestLedger_AppendBalanceReverse(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/ledger", map[string]any{
		"type":         "deposit",
		"at":           "2024-01-02",
		"amount_major": 1000.0,
		"amount_minor": 2000.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var entry struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &entry)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/ledger", map[string]any{
		"type":         "payout",
		"at":           "2024-01-05",
		"amount_major": 250.0,
		"amount_minor": 500.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/ledger", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ledger struct {
		Balance struct {
			Major string `json:"major"`
		} `json:"balance"`
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	decodeBody(t, resp, &ledger)
	assert.Equal(t, "750.00", ledger.Balance.Major)
	assert.Len(t, ledger.Entries, 2)

	// Reversal is allowed once, then conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/ledger/"+entry.ID+"/reverse", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/ledger/"+entry.ID+"/reverse", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/ledger/missing/reverse", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Reversal types cannot be appended directly.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/ledger", map[string]any{
		"type":         "reversal",
		"at":           "2024-01-06",
		"amount_major": 10.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCustomersAndTasks_CRUD(t *testing.T) {
	srv := newTestServer(t)
	prop := createProperty(t, srv, "Studio Plateau")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/customers", map[string]any{
		"name":  "Moussa Sarr",
		"phone": "+221770000000",
		"email": "moussa@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/customers", map[string]any{
		"name":  "Bad Email",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/tasks", map[string]any{
		"property_id": prop,
		"title":       "restock linens",
		"due_date":    "2024-02-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var task struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, resp, &task)
	assert.Equal(t, "open", task.Status)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/"+task.ID, map[string]any{
		"property_id": prop,
		"title":       "restock linens",
		"due_date":    "2024-02-01",
		"status":      "done",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks []struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Status)
}
