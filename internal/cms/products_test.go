package cms

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducts(t *testing.T) *ProductService {
	t.Helper()
	store := NewFileStorage(afero.NewMemMapFs(), "/data/cms")
	svc := NewProductService(store, NewContentService(store, nil), nil)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}

func TestProductService_SeedsDemoProduct(t *testing.T) {
	svc := newTestProducts(t)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "DEMO-001", products[0].SKU)
	assert.Equal(t, "Premium Dog Food Chicken", products[0].Title.EN)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(199)))
	assert.Equal(t, CurrencyHKD, products[0].Currency)

	again, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, products[0].ID, again[0].ID)
}

func TestProductService_SaveGroupAssignsGroupAndDerives(t *testing.T) {
	svc := newTestProducts(t)
	ctx := context.Background()

	base := DefaultProduct()
	base.Flavor = Text("Chicken", "散養雞")
	small, big := base, base
	small.SizeWeight = "85g"
	big.SizeWeight = "85g x 12"

	saved, err := svc.SaveGroup(ctx, []Product{small, big})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.Regexp(t, regexp.MustCompile(`^GRP_[0-9A-F]{8}$`), saved[0].ItemGroupID)
	assert.Equal(t, saved[0].ItemGroupID, saved[1].ItemGroupID)
	assert.NotEmpty(t, saved[0].ID)
	assert.NotEqual(t, saved[0].ID, saved[1].ID)
	assert.Contains(t, saved[0].Ingredients.EN, "Free-range Chicken")
	assert.Equal(t, "Joint Care Collection", saved[1].Series.EN)
	assert.False(t, saved[0].UpdatedAt.IsZero())

	group, err := svc.Group(ctx, saved[0].ID)
	require.NoError(t, err)
	assert.Len(t, group, 2)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductService_SingleVariantHasNoGroup(t *testing.T) {
	svc := newTestProducts(t)

	p := DefaultProduct()
	p.ItemGroupID = "GRP_OLD00000"
	saved, err := svc.SaveGroup(context.Background(), []Product{p})
	require.NoError(t, err)
	assert.Empty(t, saved[0].ItemGroupID)

	_, err = svc.SaveGroup(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrVariantRequired))
}

func TestProductService_DerivedFieldsAreReadOnly(t *testing.T) {
	svc := newTestProducts(t)
	ctx := context.Background()

	p := DefaultProduct()
	p.Flavor = Text("Beef", "草飼牛")
	saved, err := svc.SaveGroup(ctx, []Product{p})
	require.NoError(t, err)

	edit := saved[0]
	edit.Ingredients = Text("tampered", "篡改")
	edit.Title = Text("Beef Pate", "牛肉醬")
	saved, err = svc.SaveGroup(ctx, []Product{edit})
	require.NoError(t, err)
	assert.Contains(t, saved[0].Ingredients.EN, "Grass-fed Beef")
	assert.Equal(t, "Beef Pate", saved[0].Title.EN)

	edit = saved[0]
	edit.Flavor = Text("Lamb", "放牧羊")
	saved, err = svc.SaveGroup(ctx, []Product{edit})
	require.NoError(t, err)
	assert.Contains(t, saved[0].Ingredients.EN, "Pasture-raised Lamb")
}

func TestProductService_NewProductIgnoresTypedDerivedFields(t *testing.T) {
	svc := newTestProducts(t)
	ctx := context.Background()

	typed := Text("hand-typed", "手寫")
	p := DefaultProduct()
	p.Flavor = Text("NoSuchRecipe", "")
	p.Ingredients = typed
	p.GuaranteedAnalysis = typed
	p.FeedingGuide = typed
	p.TransitionGuide = typed
	p.AnimalType = AnimalCat

	saved, err := svc.SaveGroup(ctx, []Product{p})
	require.NoError(t, err)
	assert.NotEqual(t, typed, saved[0].Ingredients)
	assert.NotEqual(t, typed, saved[0].GuaranteedAnalysis)
	assert.NotEqual(t, typed, saved[0].FeedingGuide)
	assert.NotEqual(t, typed, saved[0].TransitionGuide)

	imported, err := svc.Import(ctx, []Product{p})
	require.NoError(t, err)
	assert.True(t, imported[0].Ingredients.IsZero())
	assert.True(t, imported[0].GuaranteedAnalysis.IsZero())
}

func TestProductService_RejectsInvalidEnums(t *testing.T) {
	svc := newTestProducts(t)

	p := DefaultProduct()
	p.Currency = "USD"
	_, err := svc.SaveGroup(context.Background(), []Product{p})
	assert.Error(t, err)
}

func TestProductService_DeleteNeedsConfirmation(t *testing.T) {
	svc := newTestProducts(t)
	ctx := context.Background()

	products, err := svc.List(ctx)
	require.NoError(t, err)
	id := products[0].ID

	assert.True(t, errors.Is(svc.Delete(ctx, id, false), ErrConfirmationRequired))
	require.NoError(t, svc.Delete(ctx, id, true))
	assert.True(t, errors.Is(svc.Delete(ctx, id, true), ErrProductNotFound))

	_, err = svc.Get(ctx, id)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestProductService_BatchEdit(t *testing.T) {
	svc := newTestProducts(t)
	ctx := context.Background()

	p := DefaultProduct()
	p.Flavor = Text("Chicken", "")
	saved, err := svc.SaveGroup(ctx, []Product{p, p})
	require.NoError(t, err)

	price := decimal.RequireFromString("259.5")
	empty := ""
	cat := AnimalCat
	edited, err := svc.BatchEdit(ctx, []string{saved[0].ID}, ProductPatch{
		Price:      &price,
		Brand:      &empty,
		AnimalType: &cat,
	})
	require.NoError(t, err)
	require.Len(t, edited, 1)
	assert.True(t, edited[0].Price.Equal(price))
	assert.Equal(t, "NATURE MAGIC", edited[0].Brand)
	assert.Contains(t, edited[0].FeedingGuide.EN, "Feed adult cats")

	untouched, err := svc.Get(ctx, saved[1].ID)
	require.NoError(t, err)
	assert.True(t, untouched.Price.IsZero())
	assert.Equal(t, AnimalDog, untouched.AnimalType)
}

func TestProductService_RederiveAfterContentEdit(t *testing.T) {
	store := NewFileStorage(afero.NewMemMapFs(), "/data/cms")
	content := NewContentService(store, nil)
	svc := NewProductService(store, content, nil)
	ctx := context.Background()

	p := DefaultProduct()
	p.Flavor = Text("Lamb & Salmon", "")
	saved, err := svc.SaveGroup(ctx, []Product{p})
	require.NoError(t, err)

	_, err = content.UpdateField(ctx, CategoryRecipe, "recipe_lamb_salmon", "ingredients", "en", "Lamb, Salmon, Kelp.")
	require.NoError(t, err)

	products, err := svc.Rederive(ctx)
	require.NoError(t, err)
	for _, got := range products {
		if got.ID == saved[0].ID {
			assert.Equal(t, "Lamb, Salmon, Kelp.", got.Ingredients.EN)
			return
		}
	}
	t.Fatal("saved product missing after rederive")
}

func TestProductService_ImportUpserts(t *testing.T) {
	svc := newTestProducts(t)
	ctx := context.Background()

	p := DefaultProduct()
	p.SKU = "NM-CAT-01"
	p.AnimalType = AnimalCat
	imported, err := svc.Import(ctx, []Product{p})
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.NotEmpty(t, imported[0].ID)
	assert.Contains(t, imported[0].TransitionGuide.EN, "sensitive cats")

	imported[0].Origin = "New Zealand"
	_, err = svc.Import(ctx, imported)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "New Zealand", all[1].Origin)
}
