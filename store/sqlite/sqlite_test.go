package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolio/rental-engine/rental"
	"github.com/hostfolio/rental-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBookings_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := rental.Booking{
		ID:         "bk-1",
		PropertyID: "prop-1",
		GuestName:  "Awa Diop",
		CheckIn:    rental.NewDate(2024, time.January, 29),
		CheckOut:   rental.NewDate(2024, time.February, 4),
		Total:      rental.NewMoney(600, 1200),
		Status:     rental.StatusConfirmed,
	}
	require.NoError(t, s.SaveBooking(ctx, b))

	got, err := s.GetBooking(ctx, "bk-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.CheckIn, got.CheckIn)
	assert.Equal(t, b.CheckOut, got.CheckOut)
	assert.Equal(t, "600", got.Total.Major.String())
	assert.Equal(t, "1200", got.Total.Minor.String())
	assert.Equal(t, rental.StatusConfirmed, got.Status)

	// Upsert: saving again with a new status updates in place.
	b.Status = rental.StatusCheckedIn
	require.NoError(t, s.SaveBooking(ctx, b))
	got, err = s.GetBooking(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, rental.StatusCheckedIn, got.Status)
}

func TestBookings_OverlappingWindowBoundary(t *testing.T) {
	// Same asymmetric boundary as the calendar: a booking checking out
	// exactly on the window start is excluded, one checking in exactly on
	// the window end is included.
	s := newTestStore(t)
	ctx := context.Background()

	outgoing := rental.Booking{
		ID: "outgoing", PropertyID: "p", GuestName: "g",
		CheckIn:  rental.NewDate(2023, time.December, 28),
		CheckOut: rental.NewDate(2024, time.January, 1),
		Total:    rental.NewMoney(100, 200), Status: rental.StatusConfirmed,
	}
	incoming := rental.Booking{
		ID: "incoming", PropertyID: "p", GuestName: "g",
		CheckIn:  rental.NewDate(2024, time.January, 7),
		CheckOut: rental.NewDate(2024, time.January, 10),
		Total:    rental.NewMoney(100, 200), Status: rental.StatusConfirmed,
	}
	require.NoError(t, s.SaveBooking(ctx, outgoing))
	require.NoError(t, s.SaveBooking(ctx, incoming))

	got, err := s.ListBookingsOverlapping(ctx,
		rental.NewDate(2024, time.January, 1), rental.NewDate(2024, time.January, 7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "incoming", got[0].ID)
}

func TestProperties_SaveListDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProperty(ctx, rental.Property{ID: "p1", Name: "Villa Baobab", Status: rental.PropertyActive}))
	require.NoError(t, s.SaveProperty(ctx, rental.Property{ID: "p2", Name: "Studio Plateau", Status: rental.PropertyMaintenance}))

	props, err := s.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, 1, rental.ActiveCount(props))

	require.NoError(t, s.DeleteProperty(ctx, "p2"))
	assert.ErrorIs(t, s.DeleteProperty(ctx, "p2"), rental.ErrNotFound)
}

func TestExpenses_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := rental.Expense{
		ID:       "ex-1",
		Date:     rental.NewDate(2024, time.January, 20),
		Amount:   rental.NewMoney(45.5, 91),
		Category: "cleaning",
		Note:     "post-checkout deep clean",
	}
	require.NoError(t, s.SaveExpense(ctx, e))

	got, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "45.5", got[0].Amount.Major.String())
	assert.Equal(t, e.Date, got[0].Date)
	assert.Equal(t, "cleaning", got[0].Category)
}

func TestTasks_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := rental.Task{
		ID:         "t-1",
		PropertyID: "p1",
		Title:      "fix water heater",
		DueDate:    rental.NewDate(2024, time.February, 1),
		Status:     rental.TaskOpen,
	}
	require.NoError(t, s.SaveTask(ctx, task))

	task.Status = rental.TaskDone
	require.NoError(t, s.SaveTask(ctx, task))

	got, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rental.TaskDone, got[0].Status)
}

// =============================================================================
// LEDGER - append-only semantics
// =============================================================================

func TestLedger_AppendAndBalance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendEntry(ctx, rental.LedgerEntry{
		ID: "e1", Type: rental.EntryDeposit,
		At: rental.NewDate(2024, time.January, 2), Amount: rental.NewMoney(1000, 2000),
	}))
	require.NoError(t, s.AppendEntry(ctx, rental.LedgerEntry{
		ID: "e2", Type: rental.EntryWithdrawal,
		At: rental.NewDate(2024, time.January, 5), Amount: rental.NewMoney(250, 500),
	}))

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "750", rental.LedgerBalance(entries).Major.String())
}

func TestLedger_DuplicateIDRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := rental.LedgerEntry{
		ID: "e1", Type: rental.EntryDeposit,
		At: rental.NewDate(2024, time.January, 2), Amount: rental.NewMoney(10, 20),
	}
	require.NoError(t, s.AppendEntry(ctx, e))
	assert.ErrorIs(t, s.AppendEntry(ctx, e), rental.ErrDuplicateID)
}

func TestLedger_ReverseEntryOnceOnly(t *testing.T) {
	// GIVEN: A receipt in the ledger
	// WHEN: Reversing it twice
	// THEN: First reversal zeroes the balance, second is rejected

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendEntry(ctx, rental.LedgerEntry{
		ID: "e1", Type: rental.EntryReceipt,
		At: rental.NewDate(2024, time.January, 2), Amount: rental.NewMoney(300, 600),
	}))

	rev, err := s.ReverseEntry(ctx, "e1", "e1-rev", rental.NewDate(2024, time.January, 3))
	require.NoError(t, err)
	assert.Equal(t, rental.EntryReversal, rev.Type)
	assert.Equal(t, "e1", rev.ReferenceID)

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.True(t, rental.LedgerBalance(entries).IsZero())

	_, err = s.ReverseEntry(ctx, "e1", "e1-rev2", rental.NewDate(2024, time.January, 4))
	assert.ErrorIs(t, err, rental.ErrEntryReversed)

	_, err = s.ReverseEntry(ctx, "missing", "x", rental.NewDate(2024, time.January, 4))
	assert.ErrorIs(t, err, rental.ErrNotFound)
}
