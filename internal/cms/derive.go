package cms

// Sources is the content Derive reads from.
type Sources struct {
	Recipes []ContentItem
	Series  []ContentItem
	Pets    []ContentItem
}

// Derive fills a product's derived fields from content. It is pure and runs three
// steps in order:
//
//  1. recipe: the recipe whose title matches the flavor supplies ingredients and
//     guaranteed analysis
//  2. series: when that recipe has a group, the first series whose title contains it
//     supplies the series name
//  3. pet: the item keyed pet_<animal_type> supplies feeding and transition guides
//
// Present source values overwrite the product's; absent ones leave it alone. Steps
// that find nothing are listed in a *DerivationMissError returned with the product.
func Derive(p Product, src Sources) (Product, error) {
	var misses []string

	recipe, ok := findRecipe(src.Recipes, p.Flavor)
	if ok {
		if recipe.Ingredients != nil {
			p.Ingredients = *recipe.Ingredients
		}
		if recipe.Analysis != nil {
			p.GuaranteedAnalysis = *recipe.Analysis
		}
	} else {
		misses = append(misses, StepRecipe)
	}

	if ok && recipe.Group != "" {
		if series, found := findSeries(src.Series, recipe.Group); found {
			p.Series = series.Title
		} else {
			misses = append(misses, StepSeries)
		}
	}

	if petItem, found := findByKey(src.Pets, "pet_"+string(p.AnimalType)); found {
		if petItem.FeedingGuide != nil {
			p.FeedingGuide = *petItem.FeedingGuide
		}
		if petItem.TransitionGuide != nil {
			p.TransitionGuide = *petItem.TransitionGuide
		}
	} else {
		misses = append(misses, StepPet)
	}

	if len(misses) > 0 {
		return p, &DerivationMissError{Misses: misses}
	}
	return p, nil
}

func findRecipe(recipes []ContentItem, flavor LocalizedString) (ContentItem, bool) {
	for _, r := range recipes {
		if flavor.Matches(r.Title) {
			return r, true
		}
	}
	return ContentItem{}, false
}

func findSeries(series []ContentItem, group string) (ContentItem, bool) {
	for _, s := range series {
		if s.Title.Contains(group) {
			return s, true
		}
	}
	return ContentItem{}, false
}

func findByKey(items []ContentItem, key string) (ContentItem, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return ContentItem{}, false
}

// NeedsDerivation reports whether an edit touched a field derivation reads from.
func NeedsDerivation(before, after Product) bool {
	return before.Flavor != after.Flavor || before.AnimalType != after.AnimalType
}

// KeepDerived copies the read-only derived fields of stored onto edited, so edits
// to them are discarded before derivation runs again. Series stays editable: it can
// be picked by hand and is only overwritten when a recipe group matches.
func KeepDerived(edited, stored Product) Product {
	edited.Ingredients = stored.Ingredients
	edited.GuaranteedAnalysis = stored.GuaranteedAnalysis
	edited.FeedingGuide = stored.FeedingGuide
	edited.TransitionGuide = stored.TransitionGuide
	return edited
}
