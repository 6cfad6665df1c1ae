package services

import (
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// ErrManagerNotFound is returned when a manager assignment does not exist.
var ErrManagerNotFound = errors.New("manager assignment not found")

// ExpectedPayout derives a manager's expected compensation for one shift
// from the assignment's terms and the shift's revenue (sum of CASH_IN
// entries, both methods):
//
//	expected = shiftPay + floor(revenue × sharePct / 100) + bonus (if revenue ≥ threshold)
//
// Absent terms contribute zero. Integer division truncates, which equals
// floor here because revenue and percent are non-negative.
func ExpectedPayout(terms models.ManagerAssignment, revenueTotal int64) int64 {
	var expected int64
	if terms.ShiftPayAmount != nil {
		expected += *terms.ShiftPayAmount
	}
	if terms.RevenueSharePct != nil {
		expected += revenueTotal * *terms.RevenueSharePct / 100
	}
	if terms.BonusThreshold != nil && terms.BonusAmount != nil && revenueTotal >= *terms.BonusThreshold {
		expected += *terms.BonusAmount
	}
	return expected
}

// SummarizePayout builds the full per-shift compensation picture from
// aggregated ledger totals. Pending is clamped at zero: a manager can not
// owe the house through this mechanism.
func SummarizePayout(shift models.Shift, totals models.LedgerTotals, terms models.ManagerAssignment) models.PayoutSummary {
	revenue := totals.CashIn.Total
	expected := ExpectedPayout(terms, revenue)
	paid := totals.Payouts.Total
	pending := expected - paid
	if pending < 0 {
		pending = 0
	}
	return models.PayoutSummary{
		ShiftID:        shift.ID,
		ShiftNumber:    shift.Number,
		RevenueTotal:   revenue,
		ExpectedPayout: expected,
		PaidPayout:     paid,
		PendingPayout:  pending,
	}
}

// --- PayoutService Interface ---
type PayoutService interface {
	GetManagerPayoutReport(managerID int64) (*models.ManagerPayoutReport, error)
}

// --- payoutService Implementation ---
type payoutService struct {
	managerRepo repositories.ManagerRepository
	shiftRepo   repositories.ShiftRepository
	ledgerRepo  repositories.LedgerRepository
}

// NewPayoutService creates a new instance of PayoutService.
func NewPayoutService(mr repositories.ManagerRepository, sr repositories.ShiftRepository, lr repositories.LedgerRepository) PayoutService {
	return &payoutService{
		managerRepo: mr,
		shiftRepo:   sr,
		ledgerRepo:  lr,
	}
}

// GetManagerPayoutReport applies the per-shift payout formula across a
// manager's full shift history and sums the results for profile reporting.
func (s *payoutService) GetManagerPayoutReport(managerID int64) (*models.ManagerPayoutReport, error) {
	assignment, err := s.managerRepo.GetAssignmentByID(managerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to fetch manager assignment: %w", err)
	}

	shifts, err := s.shiftRepo.GetShiftsByManager(managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts for manager %d: %w", managerID, err)
	}

	report := &models.ManagerPayoutReport{
		ManagerID:   assignment.ID,
		ManagerName: assignment.ManagerName,
		Shifts:      make([]models.PayoutSummary, 0, len(shifts)),
		GeneratedAt: time.Now(),
	}
	for _, shift := range shifts {
		entries, err := s.ledgerRepo.GetEntriesByShift(shift.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch ledger entries for shift %d: %w", shift.ID, err)
		}
		summary := SummarizePayout(shift, AggregateEntries(entries), *assignment)
		report.Shifts = append(report.Shifts, summary)
		report.TotalExpected += summary.ExpectedPayout
		report.TotalPaid += summary.PaidPayout
		report.TotalPending += summary.PendingPayout
	}
	return report, nil
}
