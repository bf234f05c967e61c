package catalog

import "github.com/shopspring/decimal"

// SeedProducts returns the storefront's launch range.
func SeedProducts() []Product {
	return []Product{
		{
			ID:             "cat-joint-beef",
			Name:           "Joint Care Beef",
			Tagline:        "Grass-fed vitality",
			Description:    "New Zealand grass-fed beef with added green lipped mussel for joint support. High protein, high energy.",
			Category:       "Cat Joint Care",
			ParentCategory: "Cat Magic",
			ImageURL:       "https://images.unsplash.com/photo-1591768793355-74d7c836038c?auto=format&fit=crop&q=80&w=800",
			Features:       []string{"High protein", "Joint support", "No grain"},
			Variants: []Variant{
				{ID: "85g", Name: "85g Single", Price: decimal.NewFromInt(28)},
				{ID: "85g-12", Name: "85g x 12 Cans", Price: decimal.NewFromInt(310)},
			},
		},
		{
			ID:             "cat-grain-lamb",
			Name:           "Grain Free Lamb",
			Tagline:        "Pure pasture lamb",
			Description:    "Classic New Zealand pasture-raised lamb. Rich in essential minerals for a vibrant feline life.",
			Category:       "Cat Grain-Free",
			ParentCategory: "Cat Magic",
			ImageURL:       "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?auto=format&fit=crop&q=80&w=800",
			Features:       []string{"Pasture Raised", "Gently Cooked", "Zero Fillers"},
			Variants: []Variant{
				{ID: "85g-lamb", Name: "85g Single", Price: decimal.NewFromInt(26)},
				{ID: "85g-lamb-12", Name: "85g x 12 Cans", Price: decimal.NewFromInt(295)},
			},
		},
		{
			ID:             "dog-grain-salmon",
			Name:           "Grain Free Salmon",
			Tagline:        "Ocean freshness",
			Description:    "Wild-caught New Zealand salmon for sensitive stomachs and shiny coats. Rich in Omega-3.",
			Category:       "Dog Grain-Free",
			ParentCategory: "Dog Magic",
			ImageURL:       "https://images.unsplash.com/photo-1583337130417-3346a1be7dee?auto=format&fit=crop&q=80&w=800",
			Features:       []string{"Omega-3 rich", "Hypoallergenic", "96% Meat"},
			Variants: []Variant{
				{ID: "175g", Name: "175g Single", Price: decimal.NewFromInt(32)},
				{ID: "175g-12", Name: "175g x 12 Cans", Price: decimal.NewFromInt(360)},
			},
		},
		{
			ID:             "dog-joint-venison",
			Name:           "Joint Care Venison",
			Tagline:        "Premium wild venison",
			Description:    "Ultra-premium wild venison combined with our signature Joint Care formula for senior mobility.",
			Category:       "Dog Joint Care",
			ParentCategory: "Dog Magic",
			ImageURL:       "https://images.unsplash.com/photo-1537151608828-ea2b11777ee8?auto=format&fit=crop&q=80&w=800",
			Features:       []string{"Wild Venison", "Senior Mobility", "Lean Protein"},
			Variants: []Variant{
				{ID: "175g-v", Name: "175g Single", Price: decimal.NewFromInt(45)},
				{ID: "175g-v-12", Name: "175g x 12 Cans", Price: decimal.NewFromInt(499)},
			},
		},
	}
}

// Default returns the seeded catalog.
func Default() *Catalog {
	c, err := New(SeedProducts())
	if err != nil {
		panic(err)
	}
	return c
}
