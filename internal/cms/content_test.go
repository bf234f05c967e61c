package cms

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemContent(t *testing.T) (*ContentService, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewContentService(NewFileStorage(fs, "/data/cms"), nil), fs
}

func TestContentService_LoadSeedsDefaults(t *testing.T) {
	svc, fs := newMemContent(t)

	items, err := svc.Load(context.Background(), CategoryRecipe)
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.Equal(t, "recipe_chicken", items[0].ID)

	exists, err := afero.Exists(fs, "/data/cms/nm_cms_content_recipe.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestContentService_CorruptDocumentFallsBackToDefaults(t *testing.T) {
	svc, fs := newMemContent(t)
	require.NoError(t, afero.WriteFile(fs, "/data/cms/nm_cms_content_home.json", []byte("{oops"), 0o644))

	items, err := svc.Load(context.Background(), CategoryHome)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "home_hero", items[0].Key)
}

func TestContentService_UnknownCategory(t *testing.T) {
	svc, _ := newMemContent(t)

	_, err := svc.Load(context.Background(), Category("blog"))
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestContentService_UpdateFieldAndImage(t *testing.T) {
	svc, _ := newMemContent(t)
	ctx := context.Background()

	it, err := svc.UpdateField(ctx, CategoryBrand, "brand_quality", "description", "zh_hant", "品質說明")
	require.NoError(t, err)
	assert.Equal(t, "品質說明", it.Description.ZhHant)
	assert.Equal(t, "", it.Description.EN)

	it, err = svc.UpdateField(ctx, CategoryBrand, "brand_quality", "ingredients", "en", "n/a")
	require.NoError(t, err)
	require.NotNil(t, it.Ingredients)
	assert.Equal(t, "n/a", it.Ingredients.EN)

	it, err = svc.SetImage(ctx, CategoryBrand, "brand_quality", "https://cdn.example.com/q.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/q.jpg"}, it.Images)

	items, err := svc.Load(ctx, CategoryBrand)
	require.NoError(t, err)
	assert.Equal(t, "品質說明", items[1].Description.ZhHant)

	_, err = svc.UpdateField(ctx, CategoryBrand, "missing", "title", "en", "x")
	assert.True(t, errors.Is(err, ErrContentNotFound))

	_, err = svc.UpdateField(ctx, CategoryBrand, "brand_quality", "title", "fr", "x")
	assert.Error(t, err)
}

func TestContentService_BackupAndRestore(t *testing.T) {
	svc, _ := newMemContent(t)
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	backup, err := svc.Backup(ctx, CategorySeries)
	require.NoError(t, err)
	assert.Equal(t, "nm_cms_series_backup_2026-05-04.json", backup.Filename)
	assert.Contains(t, string(backup.Data), "\n  {")

	_, err = svc.UpdateField(ctx, CategorySeries, "series_joint", "title", "en", "Changed")
	require.NoError(t, err)

	_, err = svc.Restore(ctx, CategorySeries, backup.Data, false)
	assert.True(t, errors.Is(err, ErrConfirmationRequired))

	restored, err := svc.Restore(ctx, CategorySeries, backup.Data, true)
	require.NoError(t, err)
	assert.Equal(t, "Joint Care Collection", restored[0].Title.EN)

	items, err := svc.Load(ctx, CategorySeries)
	require.NoError(t, err)
	assert.Equal(t, "Joint Care Collection", items[0].Title.EN)
}

func TestContentService_RestoreRejectsInvalidBackups(t *testing.T) {
	svc, _ := newMemContent(t)
	ctx := context.Background()

	cases := map[string]string{
		"not json":       "hello",
		"object":         `{"id":"x"}`,
		"empty array":    `[]`,
		"first lacks id": `[{"key":"a"}]`,
	}
	for name, data := range cases {
		_, err := svc.Restore(ctx, CategoryPet, []byte(data), true)
		assert.Truef(t, errors.Is(err, ErrInvalidBackup), "%s: got %v", name, err)
	}
}

func TestContentService_ImportMergesByKey(t *testing.T) {
	svc, _ := newMemContent(t)
	ctx := context.Background()

	_, err := svc.SetImage(ctx, CategoryBrand, "brand_texture", "https://cdn.example.com/old.jpg")
	require.NoError(t, err)

	items, err := svc.Import(ctx, CategoryBrand, []ContentItem{
		{
			Key:         "brand_texture",
			Title:       Text("", "新口感"),
			Description: Text("Imported body", ""),
		},
		{
			ID:     "new-id",
			Key:    "our-story",
			Title:  Text("Our Story", ""),
			Images: []string{"https://cdn.example.com/story.jpg"},
		},
	})
	require.NoError(t, err)
	require.Len(t, items, 7)

	texture := items[5]
	assert.Equal(t, "The Art of Texture", texture.Title.EN)
	assert.Equal(t, "新口感", texture.Title.ZhHant)
	assert.Equal(t, "Imported body", texture.Description.EN)
	assert.Equal(t, []string{"https://cdn.example.com/old.jpg"}, texture.Images)

	assert.Equal(t, "our-story", items[6].Key)
	assert.Equal(t, CategoryBrand, items[6].Category)
}

func TestContentItem_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Defaults(CategoryPet)[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "feeding_guide")
	assert.Contains(t, raw, "transition_guide")
	assert.NotContains(t, raw, "ingredients")
	assert.NotContains(t, raw, "group")
}
