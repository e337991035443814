package artifactservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momwise/momwise/internal/models"
	"github.com/momwise/momwise/internal/testutil"
)

// Regeneration against the real store appends a row and later reads see it.
func TestRegenerateAppendsRowInSQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	gen := &testutil.StubGenerator{Reply: dietPlanJSON(12, "First")}
	svc := New(db, gen)

	req := Request{UserID: "7", Week: 12, Kind: models.KindDietPlan}
	_, err := svc.GetOrGenerate(ctx, req)
	require.NoError(t, err)

	gen.Reply = dietPlanJSON(12, "Second")
	req.Force = true
	p, err := svc.GetOrGenerate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Second", p.(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)

	rows, err := svc.History(ctx, req)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, !rows[0].CreatedAt.Before(rows[1].CreatedAt), "history is newest first")

	req.Force = false
	p, err = svc.GetOrGenerate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Second", p.(models.DietPlanPayload).DailyPlans[0].Breakfast.Title)
	assert.Equal(t, 2, gen.Calls())
}

func TestCacheIsScopedPerUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	gen := &testutil.StubGenerator{Reply: dietPlanJSON(12, "x")}
	svc := New(db, gen)

	for _, user := range []string{"a", "b", "a"} {
		_, err := svc.GetOrGenerate(ctx, Request{UserID: user, Week: 12, Kind: models.KindDietPlan})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, gen.Calls())
}
