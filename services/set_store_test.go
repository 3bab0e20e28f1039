package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

func TestSetStore_ListByMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered by number", func(t *testing.T) {
		repo := NewFakeSetRepository(&callTrace{})
		repo.Seed(
			models.Set{ID: 1, MatchID: testMatchID, Number: 3},
			models.Set{ID: 2, MatchID: testMatchID, Number: 1},
			models.Set{ID: 3, MatchID: testMatchID, Number: 2},
			models.Set{ID: 4, MatchID: 99, Number: 1},
		)

		sets, err := NewSetStore(repo).ListByMatch(ctx, testMatchID)
		require.NoError(t, err)
		require.Len(t, sets, 3)
		for i, set := range sets {
			assert.Equal(t, i+1, set.Number)
		}
	})

	t.Run("no sets is empty, not nil", func(t *testing.T) {
		sets, err := NewSetStore(NewFakeSetRepository(&callTrace{})).ListByMatch(ctx, testMatchID)
		require.NoError(t, err)
		assert.NotNil(t, sets)
		assert.Empty(t, sets)
	})

	t.Run("failure is reported", func(t *testing.T) {
		repo := NewFakeSetRepository(&callTrace{})
		repo.ListByMatchFunc = func(ctx context.Context, matchID int) ([]models.Set, error) {
			return nil, &apiclient.APIError{Err: apiclient.ErrTransient}
		}
		_, err := NewSetStore(repo).ListByMatch(ctx, testMatchID)
		assert.ErrorIs(t, err, apiclient.ErrTransient)
	})
}

func TestSetStore_CreateValidatesBeforeCalling(t *testing.T) {
	ctx := context.Background()
	trace := &callTrace{}
	store := NewSetStore(NewFakeSetRepository(trace))

	tests := []struct {
		name       string
		number     int
		home, away int
		field      string
	}{
		{name: "number too low", number: 0, field: "set_number"},
		{name: "number too high", number: 6, field: "set_number"},
		{name: "negative home", number: 1, home: -1, field: "points"},
		{name: "negative away", number: 1, away: -3, field: "points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, testMatchID, tt.number, tt.home, tt.away)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Zero(t, trace.Count("Sets.Create"))
}

func TestSetStore_CreateConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeSetRepository(&callTrace{})
	store := NewSetStore(repo)

	created, err := store.Create(ctx, testMatchID, 1, 0, 0)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = store.Create(ctx, testMatchID, 1, 0, 0)
	assert.ErrorIs(t, err, ErrSetConflict)
	assert.Len(t, repo.All(testMatchID), 1)
}

func TestSetStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeSetRepository(&callTrace{})
	repo.Seed(models.Set{ID: 10, MatchID: testMatchID, Number: 1})
	store := NewSetStore(repo)

	updated, err := store.Update(ctx, 10, 25, 21)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Number)
	assert.Equal(t, 25, updated.HomePoints)

	_, err = store.Update(ctx, 10, -1, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = store.Update(ctx, 404, 1, 1)
	assert.ErrorIs(t, err, ErrSetNotFound)

	require.NoError(t, store.Delete(ctx, 10))
	assert.ErrorIs(t, store.Delete(ctx, 10), ErrSetNotFound)
}

func TestActionLog_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeActionRepository(&callTrace{})
	log := NewActionLog(repo)

	var ids []int
	for pos := 1; pos <= 3; pos++ {
		a, err := log.Create(ctx, 100, 1, 1, models.ActorSelection{CourtPosition: pos})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}
	_, err := log.Create(ctx, 200, 1, 1, models.ActorSelection{CourtPosition: 1})
	require.NoError(t, err)

	actions, err := log.ListBySet(ctx, 100)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, []int{ids[2], ids[1], ids[0]}, []int{actions[0].ID, actions[1].ID, actions[2].ID})

	empty, err := log.ListBySet(ctx, 300)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestActionLog_CreateValidation(t *testing.T) {
	ctx := context.Background()
	trace := &callTrace{}
	log := NewActionLog(NewFakeActionRepository(trace))

	_, err := log.Create(ctx, 100, 0, 0, models.ActorSelection{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Zero(t, trace.Count("Actions.Create"))
}

func TestActionLog_DeleteMissing(t *testing.T) {
	log := NewActionLog(NewFakeActionRepository(&callTrace{}))
	err := log.Delete(context.Background(), 12)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestCatalogProvider_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("both catalogs", func(t *testing.T) {
		env := newTestEnv()
		catalog, err := NewCatalogProvider(env.catalog, testLogger()).Load(ctx)
		require.NoError(t, err)
		assert.Len(t, catalog.ActionTypes, 3)
		assert.Len(t, catalog.ActionResults, 3)

		remate, ok := catalog.ActionType(2)
		require.True(t, ok)
		assert.Equal(t, "Remate", remate.Name)
		_, ok = catalog.ActionResult(9)
		assert.False(t, ok)
	})

	t.Run("one catalog fails", func(t *testing.T) {
		env := newTestEnv()
		env.catalog.ListActionResultsFunc = func(ctx context.Context) ([]models.ActionResult, error) {
			return nil, errors.New("boom")
		}
		catalog, err := NewCatalogProvider(env.catalog, testLogger()).Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "action results")
		assert.Len(t, catalog.ActionTypes, 3, "the other catalog is still usable")
		assert.NotNil(t, catalog.ActionResults)
		assert.Empty(t, catalog.ActionResults)
	})
}
