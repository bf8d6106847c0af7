package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"io"
	"math/big"
)

const maxAccountNumberAttempts = 10

var (
	accountNumberMin  = big.NewInt(1_000_000_000_000_000) // 10^15
	accountNumberSpan = big.NewInt(9_000_000_000_000_000) // 10^16 - 10^15
)

// AccountNumberGenerator draws 16-digit account numbers and retries on
// collision with an existing account.
type AccountNumberGenerator struct {
	random io.Reader
	exists func(ctx context.Context, q querier, number string) (bool, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func NewAccountNumberGenerator() *AccountNumberGenerator {
	return &AccountNumberGenerator{random: rand.Reader, exists: accountNumberExists}
}

// Next returns a number in [10^15, 10^16) not held by any account visible to q.
func (g *AccountNumberGenerator) Next(ctx context.Context, q querier) (string, error) {
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		n, err := rand.Int(g.random, accountNumberSpan)
		if err != nil {
			return "", internalError("draw account number", err)
		}
		number := n.Add(n, accountNumberMin).String()

		taken, err := g.exists(ctx, q, number)
		if err != nil {
			return "", internalError("check account number", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", newError(ErrInternal, "could not allocate a unique account number")
}

func accountNumberExists(ctx context.Context, q querier, number string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`, number).Scan(&exists)
	return exists, err
}
