package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the part of pgx the profile source uses; *pgxpool.Pool and
// pgx.Tx both satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresProfiles reads profile records from the users table. Secret
// columns never leave the database.
type PostgresProfiles struct {
	db Querier
}

func NewPostgresProfiles(db Querier) *PostgresProfiles {
	return &PostgresProfiles{db: db}
}

// ConnectPostgres opens a pool and checks it is reachable.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping profile database: %w", err)
	}
	return pool, nil
}

const profileQuery = `SELECT to_jsonb(u) - 'password' - 'verification_token' FROM users u WHERE u.id::text = $1`

func (p *PostgresProfiles) FetchProfile(ctx context.Context, subjectID string) (map[string]any, error) {
	var raw []byte
	err := p.db.QueryRow(ctx, profileQuery, subjectID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", subjectID, err)
	}

	var profile map[string]any
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", subjectID, err)
	}
	return profile, nil
}
