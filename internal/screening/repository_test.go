package screening

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/config"
	"github.com/koboriakira/stock-investment-2025/pkg/database"
)

func TestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, &config.Config{Database: config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1}})
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	batch := &contracts.ScreeningBatchResult{
		RequestID:     uuid.NewString(),
		TotalSymbols:  3,
		PassedSymbols: 1,
		Criteria:      contracts.ScreeningCriteria{MaxPERatio: f(20)},
		Results: []contracts.ScreeningResultItem{
			{Symbol: "7203.T", Name: "Toyota", Score: 7.1, PERatio: f(9.2), MeetsCriteria: true},
			{Symbol: "AAPL", Name: "Apple Inc.", Score: 7.28, PERatio: f(28.5), FailedCriteria: []string{"max_pe_ratio"}},
		},
		ExecutionTime: 0.25,
		LastUpdated:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Save(ctx, batch))

	got, err := repo.Get(ctx, batch.RequestID)
	require.NoError(t, err)
	assert.Equal(t, batch.TotalSymbols, got.TotalSymbols)
	assert.Equal(t, batch.PassedSymbols, got.PassedSymbols)
	assert.Equal(t, batch.Criteria, got.Criteria)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "7203.T", got.Results[0].Symbol)
	assert.Equal(t, []string{"max_pe_ratio"}, got.Results[1].FailedCriteria)
	assert.Nil(t, got.Results[1].MarketCap)

	_, err = repo.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	// A bad session rolls back the whole call
	good := &contracts.ScreeningBatchResult{RequestID: uuid.NewString(), LastUpdated: time.Now().UTC()}
	bad := &contracts.ScreeningBatchResult{RequestID: "not-a-uuid"}
	require.Error(t, repo.Save(ctx, good, bad))
	_, err = repo.Get(ctx, good.RequestID)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestRepositorySaveNothing(t *testing.T) {
	assert.NoError(t, (&Repository{}).Save(context.Background()))
}

func TestRepositoryGetRejectsMalformedID(t *testing.T) {
	_, err := (&Repository{}).Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}
