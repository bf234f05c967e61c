package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductsKey is the storage key holding the product list.
const ProductsKey = "petfeed_cms_products"

// NewGroupID returns a variant group id: GRP_ and eight uppercase hex characters.
func NewGroupID() string {
	return "GRP_" + strings.ToUpper(uuid.NewString()[:8])
}

// DemoProduct is seeded when no products are stored.
func DemoProduct(id string) Product {
	p := DefaultProduct()
	p.ID = id
	p.SKU = "DEMO-001"
	p.Title = Text("Premium Dog Food Chicken", "高級雞肉狗糧")
	p.Price = decimal.NewFromInt(199)
	return p
}

// ProductPatch is a batch edit. Nil and empty values are left alone.
type ProductPatch struct {
	Brand        *string          `json:"brand,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Currency     *Currency        `json:"currency,omitempty"`
	FoodType     *FoodType        `json:"food_type,omitempty"`
	Origin       *string          `json:"origin,omitempty"`
	Availability *Availability    `json:"availability,omitempty"`
	AnimalType   *AnimalType      `json:"animal_type,omitempty"`
}

func setString[T ~string](dst *T, v *T) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func (pp ProductPatch) apply(p Product) Product {
	setString(&p.Brand, pp.Brand)
	setString(&p.Currency, pp.Currency)
	setString(&p.FoodType, pp.FoodType)
	setString(&p.Origin, pp.Origin)
	setString(&p.Availability, pp.Availability)
	setString(&p.AnimalType, pp.AnimalType)
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	return p
}

// ProductService maintains the product list and keeps derived fields in sync with content.
type ProductService struct {
	store   Storage
	content *ContentService
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	mu sync.Mutex
}

func NewProductService(store Storage, content *ContentService, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		store:   store,
		content: content,
		logger:  logger.Named("cms.products"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (s *ProductService) List(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ProductService) load(ctx context.Context) ([]Product, error) {
	data, found, err := s.store.Get(ctx, ProductsKey)
	if err != nil {
		return nil, err
	}
	if !found {
		demo := DemoProduct(s.newID())
		demo.UpdatedAt = s.now()
		products := []Product{demo}
		if err := s.save(ctx, products); err != nil {
			return nil, err
		}
		s.logger.Info("seeded demo product", zap.String("id", demo.ID))
		return products, nil
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (s *ProductService) save(ctx context.Context, products []Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	return s.store.Put(ctx, ProductsKey, data)
}

func (s *ProductService) Get(ctx context.Context, id string) (Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Group returns every product sharing id's variant group, or just that product.
func (s *ProductService) Group(ctx context.Context, id string) ([]Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ItemGroupID == "" {
		return []Product{p}, nil
	}

	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var group []Product
	for _, sib := range products {
		if sib.ItemGroupID == p.ItemGroupID {
			group = append(group, sib)
		}
	}
	return group, nil
}

// derive runs Derive and logs misses; they never fail a save.
func (s *ProductService) derive(p Product, src Sources) Product {
	derived, err := Derive(p, src)
	var miss *DerivationMissError
	if errors.As(err, &miss) {
		s.logger.Debug("derivation incomplete", zap.String("id", p.ID), zap.Strings("misses", miss.Misses))
	}
	return derived
}

// SaveGroup stores the variants of one product. Variants without an id get one.
// More than one variant share an item group id; a single variant has none.
// Derived fields cannot be edited here: stored values are kept (empty for new products)
// and derivation runs again.
func (s *ProductService) SaveGroup(ctx context.Context, variants []Product) ([]Product, error) {
	if len(variants) == 0 {
		return nil, ErrVariantRequired
	}
	src, err := s.content.Sources(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]Product, len(products))
	for _, p := range products {
		stored[p.ID] = p
	}

	groupID := ""
	if len(variants) > 1 {
		for _, v := range variants {
			if v.ItemGroupID != "" {
				groupID = v.ItemGroupID
				break
			}
		}
		if groupID == "" {
			groupID = NewGroupID()
		}
	}

	now := s.now()
	saved := make([]Product, 0, len(variants))
	for _, v := range variants {
		if v.ID == "" {
			v.ID = s.newID()
		}
		// New products start with empty derived fields.
		v = KeepDerived(v, stored[v.ID])
		v.ItemGroupID = groupID
		v.UpdatedAt = now
		v = s.derive(v, src)
		if err := v.Validate(); err != nil {
			return nil, err
		}
		saved = append(saved, v)
	}

	if err := s.save(ctx, upsert(products, saved)); err != nil {
		return nil, err
	}
	s.logger.Info("saved product group",
		zap.String("item_group_id", groupID),
		zap.Int("variants", len(saved)))
	return saved, nil
}

// Import upserts products as given, assigning missing ids and deriving each one.
// Derived fields follow the same rule as SaveGroup.
func (s *ProductService) Import(ctx context.Context, incoming []Product) ([]Product, error) {
	src, err := s.content.Sources(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]Product, len(products))
	for _, p := range products {
		stored[p.ID] = p
	}

	now := s.now()
	imported := make([]Product, 0, len(incoming))
	for _, p := range incoming {
		if p.ID == "" {
			p.ID = s.newID()
		}
		p = KeepDerived(p, stored[p.ID])
		p.UpdatedAt = now
		p = s.derive(p, src)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.SKU, err)
		}
		imported = append(imported, p)
	}

	if err := s.save(ctx, upsert(products, imported)); err != nil {
		return nil, err
	}
	s.logger.Info("imported products", zap.Int("count", len(imported)))
	return imported, nil
}

// upsert drops existing products replaced by incoming ones and appends incoming.
func upsert(existing, incoming []Product) []Product {
	ids := make(map[string]bool, len(incoming))
	for _, p := range incoming {
		ids[p.ID] = true
	}
	out := make([]Product, 0, len(existing)+len(incoming))
	for _, p := range existing {
		if !ids[p.ID] {
			out = append(out, p)
		}
	}
	return append(out, incoming...)
}

func (s *ProductService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.logger.Info("deleted product", zap.String("id", id))
	return nil
}

// BatchEdit applies patch to every listed product. Products whose animal type
// changes are derived again.
func (s *ProductService) BatchEdit(ctx context.Context, ids []string, patch ProductPatch) ([]Product, error) {
	src, err := s.content.Sources(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	now := s.now()
	var edited []Product
	for i, p := range products {
		if !selected[p.ID] {
			continue
		}
		next := patch.apply(p)
		if NeedsDerivation(p, next) {
			next = s.derive(next, src)
		}
		if err := next.Validate(); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		next.UpdatedAt = now
		products[i] = next
		edited = append(edited, next)
	}

	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	s.logger.Info("batch edited products", zap.Int("requested", len(ids)), zap.Int("edited", len(edited)))
	return edited, nil
}

// Rederive refreshes the derived fields of every product from current content.
func (s *ProductService) Rederive(ctx context.Context) ([]Product, error) {
	src, err := s.content.Sources(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i] = s.derive(products[i], src)
	}
	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	s.logger.Info("re-derived products", zap.Int("count", len(products)))
	return products, nil
}
