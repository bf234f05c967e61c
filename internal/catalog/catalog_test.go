package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/naturemagic/internal/apperr"
)

func TestNew_RejectsProductWithoutVariants(t *testing.T) {
	_, err := New([]Product{{ID: "empty"}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	p := Product{ID: "a", Variants: []Variant{{ID: "v", Price: decimal.NewFromInt(1)}}}
	_, err := New([]Product{p, p})
	require.Error(t, err)
}

func TestCatalog_Variant(t *testing.T) {
	c := Default()

	p, v, err := c.Variant("cat-joint-beef", "85g-12")
	require.NoError(t, err)
	assert.Equal(t, "Joint Care Beef", p.Name)
	assert.True(t, v.Price.Equal(decimal.NewFromInt(310)))

	_, _, err = c.Variant("cat-joint-beef", "nope")
	assert.True(t, errors.Is(err, ErrVariantNotFound))

	_, _, err = c.Variant("nope", "85g")
	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCatalog_Recommend(t *testing.T) {
	c := Default()
	inCart := map[string]bool{"cat-joint-beef": true}

	recs := c.Recommend(func(id string) bool { return inCart[id] }, 2)
	require.Len(t, recs, 2)
	assert.Equal(t, "cat-grain-lamb", recs[0].ID)
	assert.Equal(t, "dog-grain-salmon", recs[1].ID)

	all := map[string]bool{}
	for _, p := range c.Products() {
		all[p.ID] = true
	}
	assert.Empty(t, c.Recommend(func(id string) bool { return all[id] }, 2))
}

func TestProducts_ReturnsCopy(t *testing.T) {
	c := Default()
	ps := c.Products()
	ps[0].Name = "mutated"

	p, err := c.Product(ps[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", p.Name)
}
