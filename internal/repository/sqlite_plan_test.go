package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExperience(t *testing.T, repo *SQLiteExperienceRepo) *domain.Experience {
	t.Helper()
	exp := testutil.NewTestExperience("Paris",
		testutil.WithItems(
			testutil.NewTestTemplateItem("t1", "Book flight", testutil.WithCostEstimate("500")),
			testutil.NewTestTemplateItem("t2", "Hotel", testutil.WithCostEstimate("300"), testutil.WithPlanningDays(14)),
		))
	require.NoError(t, repo.Create(context.Background(), exp))
	return exp
}

func TestPlanRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	exps := NewSQLiteExperienceRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	exp := seedExperience(t, exps)
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	plan := testutil.NewTestPlan(exp,
		testutil.WithPlannedDate(date),
		testutil.WithCollaborators("grace"),
		testutil.WithItemEdit("t1", func(i *domain.PlanItemInstance) {
			i.Complete = true
			i.Cost = decimal.RequireFromString("480.25")
		}))
	require.NoError(t, repo.Create(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, exp.ID, fetched.ExperienceID)
	assert.Equal(t, testutil.TestOwner, fetched.OwnerID)
	assert.Equal(t, []string{"grace"}, fetched.Collaborators)
	require.NotNil(t, fetched.PlannedDate)
	assert.Equal(t, "2026-05-01", fetched.PlannedDate.Format("2006-01-02"))

	require.Len(t, fetched.Items, 2)
	assert.Equal(t, plan.Items[0].ID, fetched.Items[0].ID)
	assert.Equal(t, domain.ID("t1"), fetched.Items[0].PlanItemID)
	assert.True(t, fetched.Items[0].Complete)
	assert.True(t, decimal.RequireFromString("480.25").Equal(fetched.Items[0].Cost))
	assert.False(t, fetched.Items[1].Complete)
	assert.Equal(t, 14, fetched.Items[1].PlanningDays)
}

func TestPlanRepo_Create_UnknownExperience(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)

	plan := testutil.NewTestPlan(testutil.NewTestExperience("Never stored"))
	assert.Error(t, repo.Create(context.Background(), plan))
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanRepo_ListForUser_IncludesShared(t *testing.T) {
	db := testutil.NewTestDB(t)
	exps := NewSQLiteExperienceRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	exp := seedExperience(t, exps)
	own := testutil.NewTestPlan(exp)
	shared := testutil.NewTestPlan(exp, testutil.WithPlanOwner("grace"), testutil.WithCollaborators(testutil.TestOwner))
	other := testutil.NewTestPlan(exp, testutil.WithPlanOwner("linus"))
	for _, p := range []*domain.Plan{own, shared, other} {
		require.NoError(t, repo.Create(ctx, p))
	}

	plans, err := repo.ListForUser(ctx, testutil.TestOwner)
	require.NoError(t, err)
	ids := []domain.ID{}
	for _, p := range plans {
		ids = append(ids, p.ID)
		assert.Len(t, p.Items, 2)
	}
	assert.ElementsMatch(t, []domain.ID{own.ID, shared.ID}, ids)

	byExp, err := repo.ListByExperience(ctx, exp.ID)
	require.NoError(t, err)
	assert.Len(t, byExp, 3)
}

func TestPlanRepo_ReplaceItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	exps := NewSQLiteExperienceRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan(seedExperience(t, exps))
	require.NoError(t, repo.Create(ctx, plan))

	kept := plan.Items[1]
	kept.Complete = true
	version, err := repo.ReplaceItems(ctx, plan.ID, plan.Version, []domain.PlanItemInstance{kept})
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, kept.ID, fetched.Items[0].ID)
	assert.True(t, fetched.Items[0].Complete)
	assert.Equal(t, int64(2), fetched.Version)

	_, err = repo.ReplaceItems(ctx, plan.ID, 1, nil)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestPlanRepo_UpdatePlannedDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	exps := NewSQLiteExperienceRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan(seedExperience(t, exps))
	require.NoError(t, repo.Create(ctx, plan))

	d := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	plan.PlannedDate = &d
	require.NoError(t, repo.UpdatePlannedDate(ctx, plan))
	assert.Equal(t, int64(2), plan.Version)

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.PlannedDate)
	assert.Equal(t, "2026-09-12", fetched.PlannedDate.Format("2006-01-02"))
}

func TestPlanRepo_Collaborators(t *testing.T) {
	db := testutil.NewTestDB(t)
	exps := NewSQLiteExperienceRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan(seedExperience(t, exps))
	require.NoError(t, repo.Create(ctx, plan))

	require.NoError(t, repo.AddCollaborator(ctx, plan.ID, "grace"))
	require.NoError(t, repo.AddCollaborator(ctx, plan.ID, "grace"))
	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"grace"}, fetched.Collaborators)

	require.NoError(t, repo.RemoveCollaborator(ctx, plan.ID, "grace"))
	fetched, err = repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Collaborators)
}

func TestPlanRepo_DeleteExperienceCascadesToPlans(t *testing.T) {
	db := testutil.NewTestDB(t)
	exps := NewSQLiteExperienceRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	exp := seedExperience(t, exps)
	plan := testutil.NewTestPlan(exp)
	require.NoError(t, repo.Create(ctx, plan))

	require.NoError(t, exps.Delete(ctx, exp.ID))
	_, err := repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanRepo_WorksInsideTransaction(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	exp := seedExperience(t, NewSQLiteExperienceRepo(database))
	plan := testutil.NewTestPlan(exp)
	require.NoError(t, NewSQLitePlanRepo(database).Create(ctx, plan))

	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: assert.AnError}
	err := failing.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := NewSQLitePlanRepo(tx).ReplaceItems(ctx, plan.ID, plan.Version, plan.Items)
		return err
	})
	require.ErrorIs(t, err, assert.AnError)

	// Rolled back: version unchanged and items intact.
	fetched, err := NewSQLitePlanRepo(database).GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Version)
	assert.Len(t, fetched.Items, 2)

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := NewSQLitePlanRepo(tx).ReplaceItems(ctx, plan.ID, plan.Version, plan.Items[:1])
		return err
	}))
	fetched, err = NewSQLitePlanRepo(database).GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.Version)
	assert.Len(t, fetched.Items, 1)
}
