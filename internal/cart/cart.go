package cart

import (
	"fmt"

	"github.com/matthieukhl/naturemagic/internal/catalog"
)

// Item is one cart line: a product snapshot, the chosen variant and a quantity >= 1.
type Item struct {
	Product  catalog.Product `json:"product"`
	Variant  catalog.Variant `json:"selectedVariant"`
	Quantity int             `json:"quantity"`
}

func (i Item) matches(productID, variantID string) bool {
	return i.Product.ID == productID && i.Variant.ID == variantID
}

// Cart is the ordered line list of one browsing session.
type Cart struct {
	Items []Item `json:"items"`
}

func New() *Cart {
	return &Cart{Items: []Item{}}
}

// Add increments the line for (product, variant) or appends a new line with quantity 1.
// It returns the index of the affected line.
func (c *Cart) Add(product catalog.Product, variant catalog.Variant) int {
	for i := range c.Items {
		if c.Items[i].matches(product.ID, variant.ID) {
			c.Items[i].Quantity++
			return i
		}
	}
	c.Items = append(c.Items, Item{Product: product, Variant: variant, Quantity: 1})
	return len(c.Items) - 1
}

// UpdateQuantity replaces the quantity at index. Quantities below 1 are rejected
// and leave the cart untouched; use Remove to delete a line.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Items[index].Quantity = quantity
	return nil
}

func (c *Cart) Remove(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return nil
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.Items) {
		return fmt.Errorf("%w: %d (cart has %d lines)", ErrIndexOutOfRange, index, len(c.Items))
	}
	return nil
}

// Len is the number of lines.
func (c *Cart) Len() int {
	return len(c.Items)
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Contains reports whether any line holds the product, whatever the variant.
func (c *Cart) Contains(productID string) bool {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep enough copy for snapshots: lines are copied, product data is shared.
func (c *Cart) Clone() *Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items}
}
