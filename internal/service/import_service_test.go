package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportService_ImportExperience_YAML(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.importSvc.ImportExperience(ctx, filepath.Join("..", "importer", "testdata", "kyoto.yaml"), "ada")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ItemCount)

	stored, err := env.exps.GetByID(ctx, result.Experience.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto in autumn", stored.Name)
	assert.Equal(t, "ada", stored.OwnerID)
	require.Len(t, stored.Items, 3)
	assert.Equal(t, stored.Items[0].ID, stored.Items[1].Parent)

	events := env.observer.byName(useCaseImportExperience)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, 3, events[0].Fields["item_count"])
}

func TestImportService_ValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	schema := &importer.ImportSchema{
		Items: []importer.ItemImport{{Ref: "a"}, {Ref: "a", Text: "dup"}},
	}
	_, err := env.importSvc.ImportExperienceFromSchema(ctx, schema, "ada")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "experience.name is required")
	assert.Contains(t, err.Error(), "items[0].text is required")

	list, err := env.exps.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImportService_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	schema := &importer.ImportSchema{Experience: importer.ExperienceImport{Name: "Nobody's"}}
	_, err := env.importSvc.ImportExperienceFromSchema(context.Background(), schema, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestImportService_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.importSvc.ImportExperience(context.Background(), filepath.Join(t.TempDir(), "nope.json"), "ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}

func TestImportService_ExportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	exp := env.seedParis(t)

	data, err := env.importSvc.ExportExperience(ctx, exp.ID, importer.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Paris")

	schema, err := importer.ParseImportSchema(data, importer.FormatYAML)
	require.NoError(t, err)
	result, err := env.importSvc.ImportExperienceFromSchema(ctx, schema, "grace")
	require.NoError(t, err)

	copied := result.Experience
	assert.NotEqual(t, exp.ID, copied.ID)
	assert.Equal(t, testTotal(exp), testTotal(copied))
	assert.Equal(t, copied.Items[1].ID, copied.Items[2].Parent)

	_, err = env.importSvc.ExportExperience(ctx, "missing", importer.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTotal(e *domain.Experience) string {
	return e.TotalCostEstimate().String()
}
