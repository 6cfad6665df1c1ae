package models

import "time"

// MethodBreakdown splits a ledger bucket by payment method.
// Total is always Cash + Card. Minor currency units.
type MethodBreakdown struct {
	Cash  int64 `json:"cash"`
	Card  int64 `json:"card"`
	Total int64 `json:"total"`
}

// LedgerTotals is the reduction of a shift's ledger entries into buckets,
// one per entry type.
type LedgerTotals struct {
	CashIn      MethodBreakdown `json:"cash_in"`
	CashOut     MethodBreakdown `json:"cash_out"`
	Payouts     MethodBreakdown `json:"payouts"`
	Adjustments MethodBreakdown `json:"adjustments"`
}

// ShiftBalance is the current balance per payment method. Opening cash
// contributes to the CASH side only.
type ShiftBalance struct {
	Cash  int64 `json:"cash"`
	Card  int64 `json:"card"`
	Total int64 `json:"total"`
}

// PayoutSummary is a manager's compensation picture for one shift.
type PayoutSummary struct {
	ShiftID        int64 `json:"shift_id"`
	ShiftNumber    int64 `json:"shift_number"`
	RevenueTotal   int64 `json:"revenue_total"`
	ExpectedPayout int64 `json:"expected_payout"`
	PaidPayout     int64 `json:"paid_payout"`
	PendingPayout  int64 `json:"pending_payout"`
}

// ShiftSnapshot is the authoritative derived view of a shift: totals,
// balances and payout computed server-side in one place so the presentation
// layer never recomputes financial figures itself.
type ShiftSnapshot struct {
	Shift           Shift         `json:"shift"`
	Totals          LedgerTotals  `json:"totals"`
	Balance         ShiftBalance  `json:"balance"`
	Payout          PayoutSummary `json:"payout"`
	EntryCount      int           `json:"entry_count"`
	ClosingVariance *int64        `json:"closing_variance,omitempty"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// ManagerPayoutReport aggregates PayoutSummary rows across a manager's
// full shift history for profile reporting.
type ManagerPayoutReport struct {
	ManagerID     int64           `json:"manager_id"`
	ManagerName   string          `json:"manager_name"`
	Shifts        []PayoutSummary `json:"shifts"`
	TotalExpected int64           `json:"total_expected"`
	TotalPaid     int64           `json:"total_paid"`
	TotalPending  int64           `json:"total_pending"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
