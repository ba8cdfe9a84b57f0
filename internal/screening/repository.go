package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// SessionStore persists screening batches. Save is all-or-nothing across results.
type SessionStore interface {
	Save(ctx context.Context, results ...*contracts.ScreeningBatchResult) error
	Get(ctx context.Context, requestID string) (*contracts.ScreeningBatchResult, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS screening_sessions (
	session_id      UUID PRIMARY KEY,
	criteria        JSONB NOT NULL,
	total_symbols   INTEGER NOT NULL,
	passed_symbols  INTEGER NOT NULL,
	execution_time  DOUBLE PRECISION NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS screening_results (
	session_id      UUID NOT NULL REFERENCES screening_sessions(session_id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	symbol          VARCHAR(10) NOT NULL,
	name            TEXT NOT NULL,
	score           DOUBLE PRECISION NOT NULL,
	market_cap      DOUBLE PRECISION,
	pe_ratio        DOUBLE PRECISION,
	roe             DOUBLE PRECISION,
	debt_to_equity  DOUBLE PRECISION,
	current_ratio   DOUBLE PRECISION,
	meets_criteria  BOOLEAN NOT NULL,
	failed_criteria TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (session_id, position)
);
`

// Repository stores screening sessions in PostgreSQL
// ⭐ SSOT: screening session persistence lives here only
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new screening repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the session tables when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create screening schema: %w", err)
	}
	return nil
}

// Save writes every session row and its result items in one transaction
func (r *Repository) Save(ctx context.Context, results ...*contracts.ScreeningBatchResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, result := range results {
		if err := insertSession(ctx, tx, result); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertSession(ctx context.Context, tx pgx.Tx, result *contracts.ScreeningBatchResult) error {
	sessionID, err := uuid.Parse(result.RequestID)
	if err != nil {
		return fmt.Errorf("invalid request id %q: %w", result.RequestID, err)
	}

	criteriaJSON, err := json.Marshal(result.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO screening_sessions (
			session_id, criteria, total_symbols, passed_symbols, execution_time, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, criteriaJSON, result.TotalSymbols, result.PassedSymbols, result.ExecutionTime, result.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to insert screening session: %w", err)
	}

	batch := &pgx.Batch{}
	for i, item := range result.Results {
		failed := item.FailedCriteria
		if failed == nil {
			failed = []string{}
		}
		batch.Queue(`
			INSERT INTO screening_results (
				session_id, position, symbol, name, score,
				market_cap, pe_ratio, roe, debt_to_equity, current_ratio,
				meets_criteria, failed_criteria
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, sessionID, i, item.Symbol, item.Name, item.Score,
			item.MarketCap, item.PERatio, item.ROE, item.DebtToEquity, item.CurrentRatio,
			item.MeetsCriteria, failed)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert screening results: %w", err)
	}
	return nil
}

// Get loads a session with its items in stored order. Unknown ids are ErrNotFound.
func (r *Repository) Get(ctx context.Context, requestID string) (*contracts.ScreeningBatchResult, error) {
	sessionID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, contracts.ErrNotFound
	}

	result := &contracts.ScreeningBatchResult{RequestID: sessionID.String()}
	var criteriaJSON []byte

	err = r.pool.QueryRow(ctx, `
		SELECT criteria, total_symbols, passed_symbols, execution_time, created_at
		FROM screening_sessions
		WHERE session_id = $1
	`, sessionID).Scan(&criteriaJSON, &result.TotalSymbols, &result.PassedSymbols, &result.ExecutionTime, &result.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get screening session: %w", err)
	}

	if err := json.Unmarshal(criteriaJSON, &result.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT symbol, name, score, market_cap, pe_ratio, roe, debt_to_equity,
		       current_ratio, meets_criteria, failed_criteria
		FROM screening_results
		WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query screening results: %w", err)
	}
	defer rows.Close()

	result.Results = make([]contracts.ScreeningResultItem, 0)
	for rows.Next() {
		var item contracts.ScreeningResultItem
		if err := rows.Scan(
			&item.Symbol, &item.Name, &item.Score,
			&item.MarketCap, &item.PERatio, &item.ROE, &item.DebtToEquity, &item.CurrentRatio,
			&item.MeetsCriteria, &item.FailedCriteria,
		); err != nil {
			return nil, fmt.Errorf("failed to scan screening result: %w", err)
		}
		if len(item.FailedCriteria) == 0 {
			item.FailedCriteria = nil
		}
		result.Results = append(result.Results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate screening results: %w", err)
	}

	return result, nil
}
