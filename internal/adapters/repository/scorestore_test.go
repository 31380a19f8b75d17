package repository_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/okian/wordboard/internal/adapters/repository"
	"github.com/okian/wordboard/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreStore_ListOrdersDescending(t *testing.T) {
	ctx := context.Background()
	store := repository.NewScoreStore(newTestDB(t))

	for _, in := range []model.ScoreInput{
		{HighScore: 100, HighScorer: "Alice"},
		{HighScore: 500, HighScorer: "Bob"},
		{HighScore: 250, HighScorer: "Charlie"},
	} {
		_, err := store.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{500, 250, 100}, []int64{all[0].HighScore, all[1].HighScore, all[2].HighScore})

	top, err := store.Highest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), top.HighScore)
	assert.Equal(t, "Bob", top.HighScorer)
}

func TestScoreStore_RandomSetsStaySorted(t *testing.T) {
	ctx := context.Background()
	store := repository.NewScoreStore(newTestDB(t))
	rng := rand.New(rand.NewPCG(7, 11))

	maxScore := int64(-1 << 62)
	for i := 0; i < 200; i++ {
		v := rng.Int64N(2001) - 1000
		if v > maxScore {
			maxScore = v
		}
		_, err := store.Create(ctx, model.ScoreInput{HighScore: v, HighScorer: "player"})
		require.NoError(t, err)
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 200)
	for i := 1; i < len(all); i++ {
		require.GreaterOrEqual(t, all[i-1].HighScore, all[i].HighScore, "position %d", i)
	}

	top, err := store.Highest(ctx)
	require.NoError(t, err)
	assert.Equal(t, maxScore, top.HighScore)
	assert.Equal(t, all[0].HighScore, top.HighScore)
}

func TestScoreStore_HighestOnEmpty(t *testing.T) {
	store := repository.NewScoreStore(newTestDB(t))

	_, err := store.Highest(context.Background())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScoreStore_CreateAcceptsAnySign(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := repository.NewScoreStore(newTestDB(t), repository.WithClock(clock.Now))

	zero, err := store.Create(ctx, model.ScoreInput{HighScore: 0, HighScorer: "Zero"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), zero.HighScore)
	assert.True(t, zero.CreatedAt.Equal(clock.Now()))

	neg, err := store.Create(ctx, model.ScoreInput{HighScore: -50, HighScorer: "Negative"})
	require.NoError(t, err)
	assert.Equal(t, int64(-50), neg.HighScore)
	assert.Greater(t, neg.ID, zero.ID)

	top, err := store.Highest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Zero", top.HighScorer)
}

func TestScoreStore_DeleteByOwnerIgnoresCase(t *testing.T) {
	ctx := context.Background()
	store := repository.NewScoreStore(newTestDB(t))

	for _, name := range []string{"TestUser", "testuser", "TESTUSER"} {
		_, err := store.Create(ctx, model.ScoreInput{HighScore: 10, HighScorer: name})
		require.NoError(t, err)
	}

	n, err := store.DeleteByOwner(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestScoreStore_DeleteByOwnerKeepsOthers(t *testing.T) {
	ctx := context.Background()
	store := repository.NewScoreStore(newTestDB(t))

	_, err := store.Create(ctx, model.ScoreInput{HighScore: 100, HighScorer: "ToDelete"})
	require.NoError(t, err)
	_, err = store.Create(ctx, model.ScoreInput{HighScore: 200, HighScorer: "ToKeep"})
	require.NoError(t, err)

	n, err := store.DeleteByOwner(ctx, "todelete")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ToKeep", all[0].HighScorer)

	n, err = store.DeleteByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScoreStore_DeleteByOwnerMatchesWholeName(t *testing.T) {
	ctx := context.Background()
	store := repository.NewScoreStore(newTestDB(t))

	for _, name := range []string{"Bob", "Bobby", "bo"} {
		_, err := store.Create(ctx, model.ScoreInput{HighScore: 1, HighScorer: name})
		require.NoError(t, err)
	}

	n, err := store.DeleteByOwner(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestScoreStore_DeleteByOwnerFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	store := repository.NewScoreStore(newTestDB(t))

	for _, name := range []string{"Zoë", "ZOË", "zoë", "Zoe"} {
		_, err := store.Create(ctx, model.ScoreInput{HighScore: 7, HighScorer: name})
		require.NoError(t, err)
	}

	n, err := store.DeleteByOwner(ctx, "ZOË")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Zoe", all[0].HighScorer)
}
