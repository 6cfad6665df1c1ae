package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: "23505", Constraint: "rooms_hotel_id_label_key"}

	if !IsUniqueViolation(uniqueErr) {
		t.Error("23505 not recognized as unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("inserting: %w", uniqueErr)) {
		t.Error("wrapped 23505 not recognized")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("23503 misclassified as unique violation")
	}
	if IsUniqueViolation(errors.New("plain error")) {
		t.Error("non-pq error misclassified")
	}
}

func TestUniqueConstraint(t *testing.T) {
	err := fmt.Errorf("inserting: %w", &pq.Error{Code: "23505", Constraint: openShiftConstraint})
	if got := UniqueConstraint(err); got != openShiftConstraint {
		t.Errorf("UniqueConstraint = %q, want %q", got, openShiftConstraint)
	}
	if got := UniqueConstraint(&pq.Error{Code: "23503", Constraint: "some_fk"}); got != "" {
		t.Errorf("UniqueConstraint on FK violation = %q, want empty", got)
	}
	if got := UniqueConstraint(errors.New("plain error")); got != "" {
		t.Errorf("UniqueConstraint on plain error = %q, want empty", got)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pq.Error{Code: "23503", Constraint: "shifts_hotel_id_fkey"}

	if !IsForeignKeyViolation(fkErr) {
		t.Error("23503 not recognized as foreign-key violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("deleting: %w", fkErr)) {
		t.Error("wrapped 23503 not recognized")
	}
	if IsForeignKeyViolation(&pq.Error{Code: "23505"}) {
		t.Error("23505 misclassified as foreign-key violation")
	}
}

func TestTranslateShiftInsertError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "open-shift index means a lost open race",
			err:     &pq.Error{Code: "23505", Constraint: openShiftConstraint},
			wantErr: ErrDuplicateKey,
		},
		{
			name: "number collision is a retryable database error",
			// Two concurrent MAX(number)+1 inserts can pick the same
			// number; that is not an open-shift conflict.
			err:     &pq.Error{Code: "23505", Constraint: shiftNumberConstraint},
			wantErr: ErrDatabaseError,
		},
		{
			name:    "other failures wrap as database error",
			err:     errors.New("connection reset"),
			wantErr: ErrDatabaseError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateShiftInsertError(tt.err, 1)
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("translateShiftInsertError = %v, want %v", got, tt.wantErr)
			}
		})
	}
}
