package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/naturemagic/internal/apperr"
)

const (
	ErrMsgProductNotFound = "Product not found"
	ErrMsgVariantNotFound = "Variant not found"
)

var (
	ErrProductNotFound = apperr.NotFound(ErrMsgProductNotFound)
	ErrVariantNotFound = apperr.NotFound(ErrMsgVariantNotFound)
)

// Variant is a purchasable SKU (size or pack) of a Product.
type Variant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Tagline         string    `json:"tagline,omitempty"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	ParentCategory  string    `json:"parentCategory"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Features        []string  `json:"features,omitempty"`
	Variants        []Variant `json:"variants"`
	Ingredients     string    `json:"ingredients,omitempty"`
	TransitionGuide string    `json:"transitionGuide,omitempty"`
}

// Validate checks that the product can be sold: it needs an id and at least one variant.
func (p Product) Validate() error {
	if p.ID == "" {
		return apperr.Validation("Product ID is required")
	}
	if len(p.Variants) == 0 {
		return apperr.Validation(fmt.Sprintf("Product %s has no variants", p.ID))
	}
	return nil
}

// Variant returns the variant with the given id.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant is the first listed variant, used for quick adds and upsells.
func (p Product) DefaultVariant() Variant {
	return p.Variants[0]
}

// Catalog is ordered, immutable reference data.
type Catalog struct {
	products []Product
	index    map[string]int
}

// New builds a catalog, rejecting products without variants or duplicate ids.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, apperr.Validation(fmt.Sprintf("Duplicate product ID %s", p.ID))
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Product(id string) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// Variant resolves a (product id, variant id) pair.
func (c *Catalog) Variant(productID, variantID string) (Product, Variant, error) {
	p, err := c.Product(productID)
	if err != nil {
		return Product{}, Variant{}, err
	}
	v, ok := p.Variant(variantID)
	if !ok {
		return Product{}, Variant{}, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, productID, variantID)
	}
	return p, v, nil
}

// Recommend returns up to limit products, in catalog order, for which inCart is false.
func (c *Catalog) Recommend(inCart func(productID string) bool, limit int) []Product {
	var recs []Product
	for _, p := range c.products {
		if len(recs) >= limit {
			break
		}
		if inCart != nil && inCart(p.ID) {
			continue
		}
		recs = append(recs, p)
	}
	return recs
}
