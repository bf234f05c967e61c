package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/naturemagic/internal/cart"
)

// MinorUnitPlaces is the number of decimal places money is rounded to.
const MinorUnitPlaces = 2

var hundred = decimal.NewFromInt(100)

// Policy holds the storefront's pricing constants.
type Policy struct {
	DiscountRate          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingCost          decimal.Decimal
	Currency              string
}

// DefaultPolicy is 20% off everything, free shipping from 200 after discount, 15 otherwise.
func DefaultPolicy() Policy {
	return Policy{
		DiscountRate:          decimal.RequireFromString("0.20"),
		FreeShippingThreshold: decimal.NewFromInt(200),
		ShippingCost:          decimal.NewFromInt(15),
		Currency:              "HKD",
	}
}

// NewPolicy builds a policy from configuration values.
func NewPolicy(discountRate, freeShippingThreshold, shippingCost float64, currency string) Policy {
	return Policy{
		DiscountRate:          decimal.NewFromFloat(discountRate),
		FreeShippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
		ShippingCost:          decimal.NewFromFloat(shippingCost),
		Currency:              currency,
	}
}

// Line is the display breakdown of one cart line.
type Line struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Snapshot is derived on every read and never stored on the cart.
type Snapshot struct {
	Currency                 string          `json:"currency"`
	ItemCount                int             `json:"itemCount"`
	OriginalSubtotal         decimal.Decimal `json:"originalSubtotal"`
	Discount                 decimal.Decimal `json:"discount"`
	FinalSubtotal            decimal.Decimal `json:"finalSubtotal"`
	IsFreeShipping           bool            `json:"isFreeShipping"`
	ShippingCost             decimal.Decimal `json:"shippingCost"`
	Total                    decimal.Decimal `json:"total"`
	RemainingForFreeShipping decimal.Decimal `json:"remainingForFreeShipping"`
	ShippingProgress         decimal.Decimal `json:"shippingProgress"`
	Lines                    []Line          `json:"lines"`
}

// Round applies the single rounding rule: half-up to the minor currency unit.
// decimal.Round rounds half away from zero, which is half-up for the non-negative
// amounts priced here.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// Shipping reports whether finalSubtotal earns free shipping and what shipping costs.
func (p Policy) Shipping(finalSubtotal decimal.Decimal) (bool, decimal.Decimal) {
	if finalSubtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return true, decimal.Zero
	}
	return false, p.ShippingCost
}

// Compute prices a list of cart lines. It is pure: the same items always give the
// same snapshot. Only the discount is rounded; every other figure is exact, so
// recomputing from the same cart cannot drift.
//
// An empty cart is not special-cased: it prices at zero with shipping charged.
// Callers that display an empty cart treat emptiness upstream.
func Compute(p Policy, items []cart.Item) Snapshot {
	s := Snapshot{
		Currency:         p.Currency,
		OriginalSubtotal: decimal.Zero,
		Lines:            make([]Line, 0, len(items)),
	}

	keep := decimal.NewFromInt(1).Sub(p.DiscountRate)
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		gross := item.Variant.Price.Mul(qty)
		s.OriginalSubtotal = s.OriginalSubtotal.Add(gross)
		s.ItemCount += item.Quantity
		s.Lines = append(s.Lines, Line{
			ProductID: item.Product.ID,
			VariantID: item.Variant.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.Variant.Price,
			LineTotal: Round(gross.Mul(keep)),
		})
	}

	s.Discount = Round(s.OriginalSubtotal.Mul(p.DiscountRate))
	s.FinalSubtotal = s.OriginalSubtotal.Sub(s.Discount)
	s.IsFreeShipping, s.ShippingCost = p.Shipping(s.FinalSubtotal)
	s.Total = s.FinalSubtotal.Add(s.ShippingCost)

	s.RemainingForFreeShipping = decimal.Max(decimal.Zero, p.FreeShippingThreshold.Sub(s.FinalSubtotal))
	s.ShippingProgress = decimal.NewFromInt(100)
	if p.FreeShippingThreshold.IsPositive() {
		s.ShippingProgress = decimal.Min(hundred, Round(s.FinalSubtotal.Div(p.FreeShippingThreshold).Mul(hundred)))
	}
	return s
}

// ComputeCart is Compute over a cart's lines.
func ComputeCart(p Policy, c *cart.Cart) Snapshot {
	if c == nil {
		return Compute(p, nil)
	}
	return Compute(p, c.Items)
}
