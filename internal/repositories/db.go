package repositories

import "database/sql"

// Transaction is an in-flight database transaction. It executes statements
// like any SQLExecutor and must end with Commit or Rollback.
type Transaction interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// Database is the handle services hold: it runs single statements directly
// and opens transactions for multi-statement invariants (shift close, ledger
// append, check-in). Satisfied by *sql.DB through NewDatabase.
type Database interface {
	SQLExecutor
	Begin() (Transaction, error)
}

type sqlDatabase struct {
	*sql.DB
}

// NewDatabase wraps a *sql.DB as a Database.
func NewDatabase(db *sql.DB) Database {
	return sqlDatabase{DB: db}
}

func (d sqlDatabase) Begin() (Transaction, error) {
	tx, err := d.DB.Begin()
	if err != nil {
		return nil, err
	}
	return tx, nil
}
