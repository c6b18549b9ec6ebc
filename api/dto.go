/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract. Money values cross
  the wire as decimal strings so clients never see float artifacts;
  dates cross as YYYY-MM-DD day strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request structs carry go-playground/validator tags; handlers run the
  shared validator before touching the store.

SEE ALSO:
  - handlers.go: Uses these types
  - ../metrics/summary.go: Source of the dashboard figures
*/
package api

import (
	"github.com/hostfolio/rental-engine/calendar"
	"github.com/hostfolio/rental-engine/metrics"
	"github.com/hostfolio/rental-engine/rental"
)

const dayFormat = "2006-01-02"

// =============================================================================
// MONEY
// =============================================================================

// MoneyDTO carries both currency sides as decimal strings.
type MoneyDTO struct {
	Major string `json:"major"`
	Minor string `json:"minor"`
}

func toMoneyDTO(m rental.Money) MoneyDTO {
	return MoneyDTO{Major: m.Major.StringFixed(2), Minor: m.Minor.StringFixed(2)}
}

// =============================================================================
// BOOKINGS
// =============================================================================

type BookingDTO struct {
	ID         string   `json:"id"`
	PropertyID string   `json:"property_id"`
	GuestName  string   `json:"guest_name"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
	Total      MoneyDTO `json:"total"`
	Status     string   `json:"status"`
	Nights     int      `json:"nights"`
}

type SaveBookingRequest struct {
	PropertyID string  `json:"property_id" validate:"required"`
	GuestName  string  `json:"guest_name" validate:"required"`
	CheckIn    string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	TotalMajor float64 `json:"total_major" validate:"gte=0"`
	TotalMinor float64 `json:"total_minor" validate:"gte=0"`
	Status     string  `json:"status" validate:"required,oneof=inquiry confirmed checked_in checked_out cancelled"`
}

func toBookingDTO(b rental.Booking) BookingDTO {
	return BookingDTO{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		GuestName:  b.GuestName,
		CheckIn:    b.CheckIn.Format(dayFormat),
		CheckOut:   b.CheckOut.Format(dayFormat),
		Total:      toMoneyDTO(b.Total),
		Status:     string(b.Status),
		Nights:     b.Nights(),
	}
}

// =============================================================================
// PROPERTIES
// =============================================================================

type PropertyDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type SavePropertyRequest struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"required,oneof=active inactive maintenance"`
}

// =============================================================================
// EXPENSES
// =============================================================================

type ExpenseDTO struct {
	ID         string   `json:"id"`
	PropertyID string   `json:"property_id,omitempty"`
	Date       string   `json:"date"`
	Amount     MoneyDTO `json:"amount"`
	Category   string   `json:"category,omitempty"`
	Note       string   `json:"note,omitempty"`
}

type SaveExpenseRequest struct {
	PropertyID  string  `json:"property_id"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	AmountMajor float64 `json:"amount_major" validate:"gte=0"`
	AmountMinor float64 `json:"amount_minor" validate:"gte=0"`
	Category    string  `json:"category"`
	Note        string  `json:"note"`
}

// =============================================================================
// CUSTOMERS AND TASKS
// =============================================================================

type CustomerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Note  string `json:"note,omitempty"`
}

type SaveCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Note  string `json:"note"`
}

type TaskDTO struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	Title      string `json:"title"`
	DueDate    string `json:"due_date"`
	Status     string `json:"status"`
}

type SaveTaskRequest struct {
	PropertyID string `json:"property_id" validate:"required"`
	Title      string `json:"title" validate:"required"`
	DueDate    string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"omitempty,oneof=open done"`
}

// =============================================================================
// LEDGER
// =============================================================================

type LedgerEntryDTO struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	At          string   `json:"at"`
	Amount      MoneyDTO `json:"amount"`
	Note        string   `json:"note,omitempty"`
	ReferenceID string   `json:"reference_id,omitempty"`
}

type AppendEntryRequest struct {
	Type        string  `json:"type" validate:"required,oneof=deposit withdrawal receipt payout"`
	At          string  `json:"at" validate:"required,datetime=2006-01-02"`
	AmountMajor float64 `json:"amount_major" validate:"gt=0"`
	AmountMinor float64 `json:"amount_minor" validate:"gte=0"`
	Note        string  `json:"note"`
	ReferenceID string  `json:"reference_id"`
}

type LedgerDTO struct {
	Balance MoneyDTO         `json:"balance"`
	Entries []LedgerEntryDTO `json:"entries"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

type DashboardDTO struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	Revenue      MoneyDTO `json:"revenue"`
	Expenses     MoneyDTO `json:"expenses"`
	NetProfit    MoneyDTO `json:"net_profit"`
	NightsBooked int      `json:"nights_booked"`
	NightlyRate  MoneyDTO `json:"nightly_rate"`
	Occupancy    string   `json:"occupancy_pct"`
	ExpenseRatio string   `json:"expense_ratio_pct"`

	ADR              MoneyDTO `json:"adr"`
	RevPAR           MoneyDTO `json:"revpar"`
	AvgStayLength    string   `json:"avg_stay_length"`
	CancellationRate string   `json:"cancellation_rate_pct"`

	Changes ChangesDTO `json:"changes_vs_previous"`
}

type ChangesDTO struct {
	Revenue   string `json:"revenue_pct"`
	Expenses  string `json:"expenses_pct"`
	NetProfit string `json:"net_profit_pct"`
	Nights    string `json:"nights_pct"`
	Occupancy string `json:"occupancy_pct"`
}

func toDashboardDTO(s metrics.Summary, c metrics.Changes) DashboardDTO {
	return DashboardDTO{
		PeriodStart:      s.Period.Start.Format(dayFormat),
		PeriodEnd:        s.Period.End.Format(dayFormat),
		Revenue:          toMoneyDTO(s.Revenue),
		Expenses:         toMoneyDTO(s.Expenses),
		NetProfit:        toMoneyDTO(s.NetProfit),
		NightsBooked:     s.NightsBooked,
		NightlyRate:      toMoneyDTO(s.NightlyRate),
		Occupancy:        s.Occupancy.StringFixed(2),
		ExpenseRatio:     s.ExpenseRatio.StringFixed(2),
		ADR:              toMoneyDTO(s.ADR),
		RevPAR:           toMoneyDTO(s.RevPAR),
		AvgStayLength:    s.AvgStayLength.StringFixed(2),
		CancellationRate: s.CancellationRate.StringFixed(2),
		Changes: ChangesDTO{
			Revenue:   c.Revenue.StringFixed(2),
			Expenses:  c.Expenses.StringFixed(2),
			NetProfit: c.NetProfit.StringFixed(2),
			Nights:    c.Nights.StringFixed(2),
			Occupancy: c.Occupancy.StringFixed(2),
		},
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

type BarDTO struct {
	BookingID    string  `json:"booking_id"`
	GuestName    string  `json:"guest_name"`
	Status       string  `json:"status"`
	LeftPercent  float64 `json:"left_pct"`
	WidthPercent float64 `json:"width_pct"`
	IsStart      bool    `json:"is_start"`
	IsEnd        bool    `json:"is_end"`
}

type WeekDTO struct {
	Start string     `json:"start"`
	End   string     `json:"end"`
	Rows  [][]BarDTO `json:"rows"`
}

type CalendarDTO struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Weeks []WeekDTO `json:"weeks"`
}

func toWeekDTO(w calendar.Week, rows [][]calendar.Placement) WeekDTO {
	dto := WeekDTO{
		Start: w.Start.Format(dayFormat),
		End:   w.End.Format(dayFormat),
		Rows:  make([][]BarDTO, len(rows)),
	}
	for i, row := range rows {
		dto.Rows[i] = make([]BarDTO, len(row))
		for j, p := range row {
			dto.Rows[i][j] = BarDTO{
				BookingID:    p.Booking.ID,
				GuestName:    p.Booking.GuestName,
				Status:       string(p.Booking.Status),
				LeftPercent:  p.Bar.LeftPercent,
				WidthPercent: p.Bar.WidthPercent,
				IsStart:      p.Bar.IsStart,
				IsEnd:        p.Bar.IsEnd,
			}
		}
	}
	return dto
}
