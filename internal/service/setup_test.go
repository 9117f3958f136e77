package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/repository"
	"github.com/gokepelemo/biensperience/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) byName(name string) []UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	db       *sql.DB
	exps     *repository.SQLiteExperienceRepo
	plans    *repository.SQLitePlanRepo
	uow      db.UnitOfWork
	observer *recordingObserver

	experienceSvc ExperienceService
	planSvc       PlanService
	syncSvc       SyncService
	importSvc     ImportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:       database,
		exps:     repository.NewSQLiteExperienceRepo(database),
		plans:    repository.NewSQLitePlanRepo(database),
		uow:      testutil.NewTestUoW(database),
		observer: &recordingObserver{},
	}
	env.experienceSvc = NewExperienceService(env.exps, env.uow, env.observer)
	env.planSvc = NewPlanService(env.plans, env.exps, env.uow, env.observer)
	env.syncSvc = NewSyncService(env.plans, env.exps, env.uow, env.observer)
	env.importSvc = NewImportService(env.exps, env.uow, env.observer)
	return env
}

// seedParis stores the three-item Paris experience and returns it.
func (env *testEnv) seedParis(t *testing.T) *domain.Experience {
	t.Helper()
	exp := testutil.NewTestExperience("Paris",
		testutil.WithDestination("France"),
		testutil.WithItems(
			testutil.NewTestTemplateItem("t1", "Book flight", testutil.WithCostEstimate("500"), testutil.WithPlanningDays(30)),
			testutil.NewTestTemplateItem("t2", "Hotel", testutil.WithCostEstimate("300"), testutil.WithPlanningDays(14)),
			testutil.NewTestTemplateItem("t3", "Louvre tickets", testutil.WithParent("t2"), testutil.WithCostEstimate("22")),
		))
	require.NoError(t, env.exps.Create(context.Background(), exp))
	return exp
}

func (env *testEnv) seedPlan(t *testing.T, exp *domain.Experience, opts ...testutil.PlanOption) *domain.Plan {
	t.Helper()
	plan := testutil.NewTestPlan(exp, opts...)
	require.NoError(t, env.plans.Create(context.Background(), plan))
	return plan
}
