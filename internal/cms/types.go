package cms

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/naturemagic/internal/apperr"
)

// LocalizedString is a bilingual text value.
type LocalizedString struct {
	EN     string `json:"en"`
	ZhHant string `json:"zh_hant"`
}

func Text(en, zhHant string) LocalizedString {
	return LocalizedString{EN: en, ZhHant: zhHant}
}

func (l LocalizedString) IsZero() bool {
	return l.EN == "" && l.ZhHant == ""
}

// Matches reports whether l and o share a non-empty value in either language.
func (l LocalizedString) Matches(o LocalizedString) bool {
	return (l.EN != "" && l.EN == o.EN) || (l.ZhHant != "" && l.ZhHant == o.ZhHant)
}

// Contains reports whether either language of l contains the non-empty substr.
func (l LocalizedString) Contains(substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(l.EN, substr) || strings.Contains(l.ZhHant, substr)
}

// Set replaces one language. lang is "en" or "zh_hant".
func (l *LocalizedString) Set(lang, value string) error {
	switch lang {
	case "en":
		l.EN = value
	case "zh_hant":
		l.ZhHant = value
	default:
		return apperr.Validation(fmt.Sprintf("Unknown language %q", lang))
	}
	return nil
}

type Category string

const (
	CategoryBrand  Category = "brand"
	CategoryPet    Category = "pet"
	CategorySeries Category = "series"
	CategoryRecipe Category = "recipe"
	CategoryHome   Category = "home"
)

// Categories lists every content category in admin menu order.
func Categories() []Category {
	return []Category{CategoryBrand, CategoryHome, CategoryPet, CategorySeries, CategoryRecipe}
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCategory, s)
}

// ContentItem is one editable block of site content. Optional fields only apply to
// some categories: guides to pet items, ingredients, analysis and group to recipes.
type ContentItem struct {
	ID              string           `json:"id"`
	Key             string           `json:"key"`
	Title           LocalizedString  `json:"title"`
	Description     LocalizedString  `json:"description"`
	Images          []string         `json:"images"`
	Category        Category         `json:"category"`
	FeedingGuide    *LocalizedString `json:"feeding_guide,omitempty"`
	TransitionGuide *LocalizedString `json:"transition_guide,omitempty"`
	Ingredients     *LocalizedString `json:"ingredients,omitempty"`
	Analysis        *LocalizedString `json:"analysis,omitempty"`
	Group           string           `json:"group,omitempty"`
}

// field returns a pointer to the named localized field, allocating optional ones.
func (c *ContentItem) field(name string) (*LocalizedString, error) {
	switch name {
	case "title":
		return &c.Title, nil
	case "description":
		return &c.Description, nil
	}

	var slot **LocalizedString
	switch name {
	case "feeding_guide":
		slot = &c.FeedingGuide
	case "transition_guide":
		slot = &c.TransitionGuide
	case "ingredients":
		slot = &c.Ingredients
	case "analysis":
		slot = &c.Analysis
	default:
		return nil, apperr.Validation(fmt.Sprintf("Unknown content field %q", name))
	}
	if *slot == nil {
		*slot = &LocalizedString{}
	}
	return *slot, nil
}

type (
	Currency     string
	Availability string
	Condition    string
	AnimalType   string
	FoodType     string
	LifeStage    string
	UnitMetric   string
	PickupMethod string
	PickupSLA    string
)

const (
	CurrencyHKD Currency = "HKD"
	CurrencyMOP Currency = "MOP"

	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityPreorder   Availability = "preorder"

	ConditionNew         Condition = "new"
	ConditionRefurbished Condition = "refurbished"
	ConditionUsed        Condition = "used"

	AnimalDog AnimalType = "dog"
	AnimalCat AnimalType = "cat"

	FoodDry        FoodType = "dry"
	FoodWet        FoodType = "wet"
	FoodTreats     FoodType = "treats"
	FoodSupplement FoodType = "supplement"

	LifeStagePuppy   LifeStage = "puppy"
	LifeStageAdult   LifeStage = "adult"
	LifeStageSenior  LifeStage = "senior"
	LifeStageAllAges LifeStage = "all ages"

	PickupBuy          PickupMethod = "buy"
	PickupReserve      PickupMethod = "reserve"
	PickupNotSupported PickupMethod = "not_supported"

	PickupSameDay  PickupSLA = "same_day"
	PickupNextDay  PickupSLA = "next_day"
	PickupMultiDay PickupSLA = "multi_day"
)

// DefaultGoogleProductCategory is the merchant taxonomy path every product starts with.
const DefaultGoogleProductCategory = "Animals & Pet Supplies > Pet Supplies > Pet Food"

// Product is one variant row of the product catalog maintained in the admin.
// Ingredients, GuaranteedAnalysis, FeedingGuide, TransitionGuide and Series are
// derived from content items; see Derive.
type Product struct {
	ID          string `json:"id"`
	SKU         string `json:"sku"`
	ItemGroupID string `json:"item_group_id,omitempty"`
	GTIN        string `json:"gtin"`
	MPN         string `json:"mpn"`
	Brand       string `json:"brand"`

	Title       LocalizedString `json:"title"`
	Description LocalizedString `json:"description"`
	Series      LocalizedString `json:"series"`

	VariantTitle LocalizedString `json:"variant_title"`
	IsBundle     bool            `json:"is_bundle"`
	Multipack    int             `json:"multipack"`
	UnitMeasure  decimal.Decimal `json:"unit_measure"`
	UnitMetric   UnitMetric      `json:"unit_metric"`

	Ingredients        LocalizedString `json:"ingredients"`
	GuaranteedAnalysis LocalizedString `json:"guaranteed_analysis"`
	FeedingGuide       LocalizedString `json:"feeding_guide"`
	TransitionGuide    LocalizedString `json:"transition_guide"`

	TitleSEO          LocalizedString   `json:"title_seo"`
	DescriptionSEO    LocalizedString   `json:"description_seo"`
	ProductHighlights []LocalizedString `json:"product_highlights"`

	Link                 string   `json:"link"`
	ImageLink            string   `json:"image_link"`
	AdditionalImageLinks []string `json:"additional_image_links,omitempty"`

	Price         decimal.Decimal `json:"price"`
	PriceOriginal decimal.Decimal `json:"price_original"`
	Currency      Currency        `json:"currency"`
	Availability  Availability    `json:"availability"`
	Condition     Condition       `json:"condition"`

	GoogleProductCategory string `json:"google_product_category"`
	ProductType           string `json:"product_type"`

	LifeStage  LifeStage       `json:"life_stage"`
	AnimalType AnimalType      `json:"animal_type"`
	FoodType   FoodType        `json:"food_type"`
	Origin     string          `json:"origin"`
	Flavor     LocalizedString `json:"flavor"`
	SizeWeight string          `json:"size_weight"`

	StoreCodes   []string     `json:"store_codes"`
	PickupMethod PickupMethod `json:"pickup_method"`
	PickupSLA    PickupSLA    `json:"pickup_sla"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultProduct is the form a new product starts from.
func DefaultProduct() Product {
	return Product{
		Brand:                 "NATURE MAGIC",
		UnitMetric:            "kg",
		UnitMeasure:           decimal.Zero,
		ProductHighlights:     []LocalizedString{},
		ImageLink:             "https://picsum.photos/400/400",
		Price:                 decimal.Zero,
		PriceOriginal:         decimal.Zero,
		Currency:              CurrencyHKD,
		Availability:          AvailabilityInStock,
		Condition:             ConditionNew,
		GoogleProductCategory: DefaultGoogleProductCategory,
		LifeStage:             LifeStageAllAges,
		AnimalType:            AnimalDog,
		FoodType:              FoodDry,
		Origin:                "USA",
		StoreCodes:            []string{"HK_MAIN_01"},
		PickupMethod:          PickupBuy,
		PickupSLA:             PickupSameDay,
	}
}

func oneOf[T ~string](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate checks the enumerated fields and prices.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return apperr.Validation("Product ID is required")
	case !oneOf(p.Currency, CurrencyHKD, CurrencyMOP):
		return apperr.Validation(fmt.Sprintf("Unsupported currency %q", p.Currency))
	case !oneOf(p.Availability, AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreorder):
		return apperr.Validation(fmt.Sprintf("Unsupported availability %q", p.Availability))
	case !oneOf(p.Condition, ConditionNew, ConditionRefurbished, ConditionUsed):
		return apperr.Validation(fmt.Sprintf("Unsupported condition %q", p.Condition))
	case !oneOf(p.AnimalType, AnimalDog, AnimalCat):
		return apperr.Validation(fmt.Sprintf("Unsupported animal type %q", p.AnimalType))
	case !oneOf(p.FoodType, FoodDry, FoodWet, FoodTreats, FoodSupplement):
		return apperr.Validation(fmt.Sprintf("Unsupported food type %q", p.FoodType))
	case p.LifeStage != "" && !oneOf(p.LifeStage, LifeStagePuppy, LifeStageAdult, LifeStageSenior, LifeStageAllAges):
		return apperr.Validation(fmt.Sprintf("Unsupported life stage %q", p.LifeStage))
	case p.PickupMethod != "" && !oneOf(p.PickupMethod, PickupBuy, PickupReserve, PickupNotSupported):
		return apperr.Validation(fmt.Sprintf("Unsupported pickup method %q", p.PickupMethod))
	case p.PickupSLA != "" && !oneOf(p.PickupSLA, PickupSameDay, PickupNextDay, PickupMultiDay):
		return apperr.Validation(fmt.Sprintf("Unsupported pickup SLA %q", p.PickupSLA))
	case p.Price.IsNegative() || p.PriceOriginal.IsNegative():
		return apperr.Validation("Price cannot be negative")
	}
	return nil
}
