/*
handlers.go - HTTP handlers for the back office

PURPOSE:
  Exposes the store and the reporting engines over REST. Handlers parse
  and validate input, load snapshots from the store, call the pure
  engines, and serialize responses. No business math lives here.

ENDPOINTS:
  Bookings:
    GET    /api/bookings               List bookings
    POST   /api/bookings               Create booking
    GET    /api/bookings/{id}          Get booking
    PUT    /api/bookings/{id}          Update booking
    DELETE /api/bookings/{id}          Delete booking

  Properties, expenses, customers, tasks: same CRUD shape.

  Ledger:
    GET    /api/ledger                 Entries + running balance
    POST   /api/ledger                 Append entry
    POST   /api/ledger/{id}/reverse    Reverse entry

  Read models:
    GET    /api/dashboard?start&end    KPI summary + change vs previous
    GET    /api/calendar?year&month    Per-week row layout

ERROR HANDLING:
  Errors come back as a JSON envelope with appropriate status:
  400 invalid input, 404 missing, 409 conflict, 422 invalid period,
  500 internal.

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hostfolio/rental-engine/calendar"
	"github.com/hostfolio/rental-engine/metrics"
	"github.com/hostfolio/rental-engine/rental"
	"github.com/hostfolio/rental-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	validate *validator.Validate
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:    store,
		validate: validator.New(),
	}
}

// =============================================================================
// BOOKINGS
// =============================================================================

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Store.ListBookings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Store.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get booking", err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(*b))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	h.saveBooking(w, r, uuid.NewString())
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get booking", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	h.saveBooking(w, r, id)
}

func (h *Handler) saveBooking(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveBookingRequest
	if !h.decode(w, r, &req) {
		return
	}

	checkIn, _ := time.Parse(dayFormat, req.CheckIn)
	checkOut, _ := time.Parse(dayFormat, req.CheckOut)
	if !checkOut.After(checkIn) {
		writeError(w, http.StatusBadRequest, "check_out must be after check_in", nil)
		return
	}

	b := rental.Booking{
		ID:         id,
		PropertyID: req.PropertyID,
		GuestName:  req.GuestName,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Total:      rental.NewMoney(req.TotalMajor, req.TotalMinor),
		Status:     rental.BookingStatus(req.Status),
	}
	if err := h.Store.SaveBooking(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save booking", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingDTO(b))
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Store.DeleteBooking, "booking")
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.Store.ListProperties(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}

	dtos := make([]PropertyDTO, len(props))
	for i, p := range props {
		dtos[i] = PropertyDTO{ID: p.ID, Name: p.Name, Status: string(p.Status)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	h.saveProperty(w, r, uuid.NewString())
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	h.saveProperty(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveProperty(w http.ResponseWriter, r *http.Request, id string) {
	var req SavePropertyRequest
	if !h.decode(w, r, &req) {
		return
	}

	p := rental.Property{ID: id, Name: req.Name, Status: rental.PropertyStatus(req.Status)}
	if err := h.Store.SaveProperty(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save property", err)
		return
	}
	writeJSON(w, http.StatusCreated, PropertyDTO{ID: p.ID, Name: p.Name, Status: string(p.Status)})
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Store.DeleteProperty, "property")
}

// =============================================================================
// EXPENSES
// =============================================================================

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = ExpenseDTO{
			ID:         e.ID,
			PropertyID: e.PropertyID,
			Date:       e.Date.Format(dayFormat),
			Amount:     toMoneyDTO(e.Amount),
			Category:   e.Category,
			Note:       e.Note,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req SaveExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	date, _ := time.Parse(dayFormat, req.Date)
	e := rental.Expense{
		ID:         uuid.NewString(),
		PropertyID: req.PropertyID,
		Date:       date,
		Amount:     rental.NewMoney(req.AmountMajor, req.AmountMinor),
		Category:   req.Category,
		Note:       req.Note,
	}
	if err := h.Store.SaveExpense(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, ExpenseDTO{
		ID: e.ID, PropertyID: e.PropertyID, Date: req.Date,
		Amount: toMoneyDTO(e.Amount), Category: e.Category, Note: e.Note,
	})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Store.DeleteExpense, "expense")
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = CustomerDTO{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Note: c.Note}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.saveCustomer(w, r, uuid.NewString())
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	h.saveCustomer(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveCustomer(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := rental.Customer{ID: id, Name: req.Name, Phone: req.Phone, Email: req.Email, Note: req.Note}
	if err := h.Store.SaveCustomer(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, CustomerDTO{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Note: c.Note})
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Store.DeleteCustomer, "customer")
}

// =============================================================================
// TASKS
// =============================================================================

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Store.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = TaskDTO{
			ID:         t.ID,
			PropertyID: t.PropertyID,
			Title:      t.Title,
			DueDate:    t.DueDate.Format(dayFormat),
			Status:     string(t.Status),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	h.saveTask(w, r, uuid.NewString())
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	h.saveTask(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveTask(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	status := rental.TaskStatus(req.Status)
	if status == "" {
		status = rental.TaskOpen
	}
	due, _ := time.Parse(dayFormat, req.DueDate)
	t := rental.Task{ID: id, PropertyID: req.PropertyID, Title: req.Title, DueDate: due, Status: status}
	if err := h.Store.SaveTask(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}
	writeJSON(w, http.StatusCreated, TaskDTO{
		ID: t.ID, PropertyID: t.PropertyID, Title: t.Title,
		DueDate: req.DueDate, Status: string(t.Status),
	})
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Store.DeleteTask, "task")
}

// =============================================================================
// LEDGER
// =============================================================================

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}

	dto := LedgerDTO{
		Balance: toMoneyDTO(rental.LedgerBalance(entries)),
		Entries: make([]LedgerEntryDTO, len(entries)),
	}
	for i, e := range entries {
		dto.Entries[i] = LedgerEntryDTO{
			ID:          e.ID,
			Type:        string(e.Type),
			At:          e.At.Format(dayFormat),
			Amount:      toMoneyDTO(e.Amount),
			Note:        e.Note,
			ReferenceID: e.ReferenceID,
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) AppendLedgerEntry(w http.ResponseWriter, r *http.Request) {
	var req AppendEntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	at, _ := time.Parse(dayFormat, req.At)
	e := rental.LedgerEntry{
		ID:          uuid.NewString(),
		Type:        rental.LedgerEntryType(req.Type),
		At:          at,
		Amount:      rental.NewMoney(req.AmountMajor, req.AmountMinor),
		Note:        req.Note,
		ReferenceID: req.ReferenceID,
	}
	if err := h.Store.AppendEntry(r.Context(), e); err != nil {
		writeStoreError(w, err, "Failed to append ledger entry")
		return
	}
	writeJSON(w, http.StatusCreated, LedgerEntryDTO{
		ID: e.ID, Type: string(e.Type), At: req.At,
		Amount: toMoneyDTO(e.Amount), Note: e.Note, ReferenceID: e.ReferenceID,
	})
}

func (h *Handler) ReverseLedgerEntry(w http.ResponseWriter, r *http.Request) {
	reversal, err := h.Store.ReverseEntry(r.Context(), chi.URLParam(r, "id"), uuid.NewString(), rental.Today())
	if err != nil {
		writeStoreError(w, err, "Failed to reverse ledger entry")
		return
	}
	writeJSON(w, http.StatusCreated, LedgerEntryDTO{
		ID:          reversal.ID,
		Type:        string(reversal.Type),
		At:          reversal.At.Format(dayFormat),
		Amount:      toMoneyDTO(reversal.Amount),
		Note:        reversal.Note,
		ReferenceID: reversal.ReferenceID,
	})
}

// =============================================================================
// DASHBOARD - KPI read model
// =============================================================================

// GetDashboard computes the KPI summary for ?start=YYYY-MM-DD&end=YYYY-MM-DD
// (defaulting to the current month) plus percent changes against the
// previous equal-length period.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		if errors.Is(err, rental.ErrInvalidPeriod) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid period: end before start", err)
		} else {
			writeError(w, http.StatusBadRequest, "Invalid start/end date (use YYYY-MM-DD)", err)
		}
		return
	}

	ctx := r.Context()
	bookings, err := h.Store.ListBookings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load bookings", err)
		return
	}
	properties, err := h.Store.ListProperties(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load properties", err)
		return
	}
	expenses, err := h.Store.ListExpenses(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load expenses", err)
		return
	}

	current, err := metrics.Summarize(bookings, properties, expenses, period)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Failed to summarize period", err)
		return
	}
	previous, err := metrics.Summarize(bookings, properties, expenses, period.Previous())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize previous period", err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardDTO(current, metrics.Compare(current, previous)))
}

func parsePeriod(start, end string) (rental.Period, error) {
	if start == "" && end == "" {
		return rental.MonthPeriod(rental.MonthOf(rental.Today())), nil
	}
	from, err := time.Parse(dayFormat, start)
	if err != nil {
		return rental.Period{}, err
	}
	to, err := time.Parse(dayFormat, end)
	if err != nil {
		return rental.Period{}, err
	}
	return rental.NewPeriod(from, to)
}

// =============================================================================
// CALENDAR - Month layout read model
// =============================================================================

// GetCalendar lays out one month's bookings week by week. Cancelled
// bookings are filtered here - the layout engine itself is date-only.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month (1-12)", err)
		return
	}
	month := time.Month(monthNum)

	weeks := calendar.MonthWeeks(year, month, time.Monday)
	gridStart := weeks[0].Start
	gridEnd := weeks[len(weeks)-1].End

	loaded, err := h.Store.ListBookingsOverlapping(r.Context(), gridStart, gridEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load bookings", err)
		return
	}
	visible := make([]rental.Booking, 0, len(loaded))
	for _, b := range loaded {
		if b.Status != rental.StatusCancelled {
			visible = append(visible, b)
		}
	}

	dto := CalendarDTO{Year: year, Month: monthNum, Weeks: make([]WeekDTO, len(weeks))}
	for i, week := range weeks {
		dto.Weeks[i] = toWeekDTO(week, calendar.LayoutWeek(visible, week))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// decode parses and validates a JSON request body, writing the error
// response itself and returning false when the input is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error(), err)
		return false
	}
	return true
}

// deleteByID runs one of the store's delete functions against the {id}
// URL parameter and maps ErrNotFound to a 404.
func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) error, what string) {
	if err := del(r.Context(), chi.URLParam(r, "id")); err != nil {
		if rental.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "No such "+what, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete "+what, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case rental.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case rental.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]any{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
