package rental

import "time"

// =============================================================================
// MOBILE-MONEY LEDGER - Append-only cash movements
// =============================================================================
// The back office tracks the mobile-money float alongside bookings. The
// ledger is APPEND-ONLY: entries are never updated or deleted, corrections
// are made by writing a reversal entry that points at the original.

type LedgerEntryType string

const (
	EntryDeposit    LedgerEntryType = "deposit"    // Cash into the float
	EntryWithdrawal LedgerEntryType = "withdrawal" // Cash out of the float
	EntryReceipt    LedgerEntryType = "receipt"    // Guest payment received
	EntryPayout     LedgerEntryType = "payout"     // Owner/vendor payout
	EntryReversal   LedgerEntryType = "reversal"   // Undo of a previous entry
)

type LedgerEntry struct {
	ID          string
	Type        LedgerEntryType
	At          time.Time
	Amount      Money
	Note        string
	ReferenceID string // booking ID for receipts, original entry ID for reversals
	CreatedAt   time.Time
}

// Signed returns the entry's contribution to the running balance.
// Deposits and receipts add, withdrawals and payouts subtract; a reversal
// carries the already-negated amount of the entry it undoes.
func (e LedgerEntry) Signed() Money {
	switch e.Type {
	case EntryWithdrawal, EntryPayout:
		return e.Amount.Neg()
	default:
		return e.Amount
	}
}

// LedgerBalance folds entries into the current float balance.
func LedgerBalance(entries []LedgerEntry) Money {
	balance := MoneyZero()
	for _, e := range entries {
		balance = balance.Add(e.Signed())
	}
	return balance
}
