package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/gokepelemo/biensperience/internal/repository"
	"github.com/gokepelemo/biensperience/internal/service"
	"github.com/gokepelemo/biensperience/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

type cliEnv struct {
	app   *App
	exps  *repository.SQLiteExperienceRepo
	plans *repository.SQLitePlanRepo
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *cliEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	exps := repository.NewSQLiteExperienceRepo(database)
	plans := repository.NewSQLitePlanRepo(database)
	uow := testutil.NewTestUoW(database)

	return &cliEnv{
		app: &App{
			Experiences: service.NewExperienceService(exps, uow),
			Plans:       service.NewPlanService(plans, exps, uow),
			Sync:        service.NewSyncService(plans, exps, uow),
			Import:      service.NewImportService(exps, uow),
			User:        testutil.TestOwner,
		},
		exps:  exps,
		plans: plans,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdWithInput(t, app, "", args...)
}

func executeCmdWithInput(t *testing.T, app *App, input string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func (env *cliEnv) seedParis(t *testing.T) *domain.Experience {
	t.Helper()
	exp := testutil.NewTestExperience("Paris",
		testutil.WithDestination("France"),
		testutil.WithItems(
			testutil.NewTestTemplateItem("t1-flight", "Book flight", testutil.WithCostEstimate("500"), testutil.WithPlanningDays(30)),
			testutil.NewTestTemplateItem("t2-hotel", "Hotel", testutil.WithCostEstimate("300"), testutil.WithPlanningDays(14)),
			testutil.NewTestTemplateItem("t3-louvre", "Louvre tickets", testutil.WithParent("t2-hotel"), testutil.WithCostEstimate("22")),
		))
	require.NoError(t, env.exps.Create(context.Background(), exp))
	return exp
}

// drift changes t1's cost and adds an insurance item upstream.
func (env *cliEnv) drift(t *testing.T, exp *domain.Experience) {
	t.Helper()
	items := append([]domain.PlanItemTemplate(nil), exp.Items...)
	items[0].CostEstimate = decimal.NewFromInt(650)
	items = append(items, testutil.NewTestTemplateItem("t4-insurance", "Travel insurance", testutil.WithCostEstimate("60")))
	_, err := env.exps.ReplaceItems(context.Background(), exp.ID, exp.Version, items)
	require.NoError(t, err)
}

func TestExperienceCmd_CreateAddShow(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "experience", "create", "--name", "Lisbon", "--destination", "Portugal")
	require.NoError(t, err)
	assert.Contains(t, out, "Created experience Lisbon")

	exps, err := env.app.Experiences.List(context.Background())
	require.NoError(t, err)
	require.Len(t, exps, 1)
	id := exps[0].ID.String()

	_, err = executeCmd(t, env.app, "exp", "add-item", id[:8], "--text", "Castle", "--cost", "15", "--days", "2")
	require.NoError(t, err)
	_, err = executeCmd(t, env.app, "exp", "add-item", id, "--text", "Audio guide", "--parent", "1", "--cost", "4.5")
	require.NoError(t, err)

	out, err = executeCmd(t, env.app, "experience", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "LISBON")
	assert.Contains(t, out, "#1 Castle")
	assert.Contains(t, out, "└─ #2 Audio guide")
	assert.Contains(t, out, "19.50")

	out, err = executeCmd(t, env.app, "experience", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lisbon")
	assert.Contains(t, out, "Portugal")
}

func TestExperienceCmd_UpdateAndRemoveItem(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)

	_, err := executeCmd(t, env.app, "experience", "update-item", exp.ID.String(), "t1", "--cost", "610", "--text", "Book flights")
	require.NoError(t, err)

	out, err := executeCmd(t, env.app, "experience", "remove-item", exp.ID.String(), "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 item(s)")

	got, err := env.app.Experiences.GetByID(context.Background(), exp.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Book flights", got.Items[0].Text)
	assert.True(t, decimal.NewFromInt(610).Equal(got.Items[0].CostEstimate))
}

func TestExperienceCmd_OnlyOwnerEdits(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)

	_, err := executeCmd(t, env.app, "--user", "mallory", "experience", "add-item", exp.ID.String(), "--text", "Pickpocket tour")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExperienceCmd_ImportExportRoundTrip(t *testing.T) {
	env := testApp(t)

	src := filepath.Join(t.TempDir(), "kyoto.yaml")
	require.NoError(t, os.WriteFile(src, []byte(`experience:
  name: Kyoto
items:
  - ref: flight
    text: Flight
    cost_estimate: 812.50
    planning_days: 30
  - ref: seat
    parent_ref: flight
    text: Window seat
`), 0o644))

	out, err := executeCmd(t, env.app, "experience", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Kyoto")
	assert.Contains(t, out, "with 2 items")

	exps, err := env.app.Experiences.List(context.Background())
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, testutil.TestOwner, exps[0].OwnerID)

	out, err = executeCmd(t, env.app, "experience", "export", exps[0].ID.String(), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Kyoto"`)
	assert.Contains(t, out, `"parent_ref"`)

	dst := filepath.Join(t.TempDir(), "out.yaml")
	_, err = executeCmd(t, env.app, "experience", "export", exps[0].ID.String(), "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Kyoto")
}

func TestExperienceCmd_DeleteAsksForConfirmation(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)

	out, err := executeCmdWithInput(t, env.app, "n\n", "experience", "delete", exp.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	_, err = env.app.Experiences.GetByID(context.Background(), exp.ID)
	require.NoError(t, err)

	_, err = executeCmdWithInput(t, env.app, "y\n", "experience", "delete", exp.ID.String())
	require.NoError(t, err)
	_, err = env.app.Experiences.GetByID(context.Background(), exp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanCmd_Lifecycle(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)

	out, err := executeCmd(t, env.app, "plan", "create", exp.ID.String(), "--date", "2026-05-01")
	require.NoError(t, err)
	assert.Contains(t, out, "with 3 items")

	plans, err := env.app.Plans.ListForUser(context.Background(), testutil.TestOwner)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	planID := plans[0].ID.String()

	_, err = executeCmd(t, env.app, "plan", "complete", planID[:8], "1")
	require.NoError(t, err)
	out, err = executeCmd(t, env.app, "plan", "cost", planID, "2", "275.50")
	require.NoError(t, err)
	assert.Contains(t, out, "plan total 797.50")

	out, err = executeCmd(t, env.app, "plan", "show", planID)
	require.NoError(t, err)
	assert.Contains(t, out, "May 1, 2026")
	assert.Contains(t, out, " 33%")
	assert.Contains(t, out, "● DIVERGED", "an actual-cost edit counts as drift")

	out, err = executeCmd(t, env.app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris")

	_, err = executeCmd(t, env.app, "plan", "date", planID, "--clear")
	require.NoError(t, err)
	_, err = executeCmd(t, env.app, "plan", "date", planID)
	assert.Error(t, err)

	_, err = executeCmd(t, env.app, "plan", "share", planID, "grace")
	require.NoError(t, err)
	out, err = executeCmd(t, env.app, "--user", "grace", "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris")

	_, err = executeCmd(t, env.app, "plan", "unshare", planID, "grace")
	require.NoError(t, err)

	_, err = executeCmd(t, env.app, "plan", "delete", planID, "--yes")
	require.NoError(t, err)
	_, err = env.app.Plans.GetByID(context.Background(), plans[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncCmd_CheckPreviewApplyAll(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)
	plan := testutil.NewTestPlan(exp)
	require.NoError(t, env.plans.Create(context.Background(), plan))
	env.drift(t, exp)
	id := plan.ID.String()

	out, err := executeCmd(t, env.app, "sync", "check", id)
	require.NoError(t, err)
	assert.Contains(t, out, "● DIVERGED  plan v1  experience v2")

	out, err = executeCmd(t, env.app, "sync", "preview", id)
	require.NoError(t, err)
	assert.Contains(t, out, "[0] + Travel insurance")
	assert.Contains(t, out, "cost: 500.00 → 650.00")

	out, err = executeCmd(t, env.app, "sync", "apply", id, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "1 added, 0 removed, 1 modified")

	out, err = executeCmd(t, env.app, "sync", "check", id)
	require.NoError(t, err)
	assert.Contains(t, out, "● IN SYNC")

	out, err = executeCmd(t, env.app, "sync", "apply", id, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "in sync")
}

func TestSyncCmd_ApplySelected(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)
	plan := testutil.NewTestPlan(exp)
	require.NoError(t, env.plans.Create(context.Background(), plan))
	env.drift(t, exp)

	out, err := executeCmd(t, env.app, "sync", "preview", plan.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "--plan-version 1 --experience-version 2")

	out, err = executeCmd(t, env.app, "sync", "apply", plan.ID.String(), "--added", "0",
		"--plan-version", "1", "--experience-version", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "1 added, 0 removed, 0 modified")

	got, err := env.app.Plans.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 4)
	assert.True(t, decimal.NewFromInt(500).Equal(got.Items[0].Cost), "unselected modification left alone")
}

func TestSyncCmd_ApplyRejections(t *testing.T) {
	env := testApp(t)
	exp := env.seedParis(t)
	plan := testutil.NewTestPlan(exp)
	require.NoError(t, env.plans.Create(context.Background(), plan))
	env.drift(t, exp)
	id := plan.ID.String()

	_, err := executeCmd(t, env.app, "sync", "apply", id)
	assert.ErrorContains(t, err, "nothing selected")

	_, err = executeCmd(t, env.app, "sync", "apply", id, "--all", "--added", "0")
	assert.ErrorContains(t, err, "cannot be combined")

	_, err = executeCmd(t, env.app, "sync", "apply", id, "--modified", "5", "--plan-version", "1", "--experience-version", "2")
	assert.ErrorIs(t, err, reconcile.ErrInvalidSelection)

	_, err = executeCmd(t, env.app, "sync", "apply", id, "--added", "0")
	assert.ErrorContains(t, err, "--plan-version and --experience-version")

	_, err = executeCmd(t, env.app, "sync", "apply", id, "--all", "--plan-version", "1")
	assert.ErrorContains(t, err, "--plan-version and --experience-version")

	_, err = executeCmd(t, env.app, "--user", "mallory", "sync", "apply", id, "--all")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSyncCmd_ApplyIndicesRejectedAfterUpstreamChange(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	exp := env.seedParis(t)
	plan := testutil.NewTestPlan(exp)
	require.NoError(t, env.plans.Create(ctx, plan))
	env.drift(t, exp)

	out, err := executeCmd(t, env.app, "sync", "preview", plan.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "[0] + Travel insurance")

	// A new template lands at index 0 of added after the preview was read.
	current, err := env.exps.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	items := append([]domain.PlanItemTemplate{
		testutil.NewTestTemplateItem("t0-visa", "Visa fee", testutil.WithCostEstimate("999")),
	}, current.Items...)
	_, err = env.exps.ReplaceItems(ctx, exp.ID, current.Version, items)
	require.NoError(t, err)

	_, err = executeCmd(t, env.app, "sync", "apply", plan.ID.String(), "--added", "0",
		"--plan-version", "1", "--experience-version", "2")
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	got, err := env.app.Plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 3, "nothing applied")
}

func TestServeCmd_Unavailable(t *testing.T) {
	env := testApp(t)
	_, err := executeCmd(t, env.app, "serve")
	assert.ErrorContains(t, err, "not available")
}

func TestServeCmd_UsesAddrFlag(t *testing.T) {
	env := testApp(t)
	env.app.HTTPAddr = ":8080"
	var gotAddr string
	env.app.Serve = func(_ context.Context, addr string) error {
		gotAddr = addr
		return nil
	}

	out, err := executeCmd(t, env.app, "serve", "--addr", "127.0.0.1:9999")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", gotAddr)
	assert.Contains(t, out, "Listening on 127.0.0.1:9999")
}
