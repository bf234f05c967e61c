package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ContentKey is the storage key holding a category's items.
func ContentKey(cat Category) string {
	return "nm_cms_content_" + string(cat)
}

// BackupFilename names a backup taken on day.
func BackupFilename(cat Category, day time.Time) string {
	return fmt.Sprintf("nm_cms_%s_backup_%s.json", cat, day.Format("2006-01-02"))
}

// Backup is a downloadable snapshot of one category.
type Backup struct {
	Filename string
	Data     []byte
}

// ContentService edits the content items of every category.
type ContentService struct {
	store  Storage
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewContentService(store Storage, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		store:  store,
		logger: logger.Named("cms.content"),
		now:    time.Now,
	}
}

// Load returns a category's items. The defaults are seeded and stored when nothing
// is stored yet or the stored document cannot be parsed.
func (s *ContentService) Load(ctx context.Context, cat Category) ([]ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, cat)
}

func (s *ContentService) load(ctx context.Context, cat Category) ([]ContentItem, error) {
	if _, err := ParseCategory(string(cat)); err != nil {
		return nil, err
	}

	data, found, err := s.store.Get(ctx, ContentKey(cat))
	if err != nil {
		return nil, err
	}
	if found {
		var items []ContentItem
		err := json.Unmarshal(data, &items)
		if err == nil {
			return items, nil
		}
		s.logger.Warn("stored content is unreadable, reseeding defaults",
			zap.String("category", string(cat)), zap.Error(err))
	}

	items := Defaults(cat)
	if err := s.save(ctx, cat, items); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default content", zap.String("category", string(cat)), zap.Int("count", len(items)))
	return items, nil
}

func (s *ContentService) Save(ctx context.Context, cat Category, items []ContentItem) error {
	if _, err := ParseCategory(string(cat)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, cat, items)
}

func (s *ContentService) save(ctx context.Context, cat Category, items []ContentItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s content: %w", cat, err)
	}
	return s.store.Put(ctx, ContentKey(cat), data)
}

// modify applies fn to the item with the given id and stores the result.
func (s *ContentService) modify(ctx context.Context, cat Category, id string, fn func(*ContentItem) error) (ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, cat)
	if err != nil {
		return ContentItem{}, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if err := fn(&items[i]); err != nil {
			return ContentItem{}, err
		}
		if err := s.save(ctx, cat, items); err != nil {
			return ContentItem{}, err
		}
		return items[i], nil
	}
	return ContentItem{}, fmt.Errorf("%w: %s/%s", ErrContentNotFound, cat, id)
}

// UpdateField sets one language of a localized field (title, description,
// feeding_guide, transition_guide, ingredients, analysis).
func (s *ContentService) UpdateField(ctx context.Context, cat Category, id, field, lang, value string) (ContentItem, error) {
	return s.modify(ctx, cat, id, func(c *ContentItem) error {
		target, err := c.field(field)
		if err != nil {
			return err
		}
		return target.Set(lang, value)
	})
}

// SetImage replaces the item's images with url.
func (s *ContentService) SetImage(ctx context.Context, cat Category, id, url string) (ContentItem, error) {
	return s.modify(ctx, cat, id, func(c *ContentItem) error {
		c.Images = []string{url}
		return nil
	})
}

func (s *ContentService) Backup(ctx context.Context, cat Category) (Backup, error) {
	items, err := s.Load(ctx, cat)
	if err != nil {
		return Backup{}, err
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return Backup{}, fmt.Errorf("failed to encode backup: %w", err)
	}
	return Backup{Filename: BackupFilename(cat, s.now()), Data: data}, nil
}

// Restore replaces a category with a backup. The data must be a non-empty JSON
// array whose first element has an id, and the caller must confirm the overwrite.
func (s *ContentService) Restore(ctx context.Context, cat Category, data []byte, confirmed bool) ([]ContentItem, error) {
	if _, err := ParseCategory(string(cat)); err != nil {
		return nil, err
	}

	var items []ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if len(items) == 0 || items[0].ID == "" {
		return nil, ErrInvalidBackup
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Put(ctx, ContentKey(cat), bytes.TrimSpace(data)); err != nil {
		return nil, err
	}
	s.logger.Info("restored content backup", zap.String("category", string(cat)), zap.Int("count", len(items)))
	return items, nil
}

// Import merges incoming items by key. Existing items keep their values unless the
// import carries a non-empty replacement; images are replaced only when the import
// has some. Unknown keys are appended.
func (s *ContentService) Import(ctx context.Context, cat Category, incoming []ContentItem) ([]ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, cat)
	if err != nil {
		return nil, err
	}

	for _, imp := range incoming {
		idx := -1
		for i := range items {
			if items[i].Key == imp.Key {
				idx = i
				break
			}
		}
		if idx < 0 {
			imp.Category = cat
			if imp.Images == nil {
				imp.Images = []string{}
			}
			items = append(items, imp)
			continue
		}

		ex := &items[idx]
		if len(imp.Images) > 0 {
			ex.Images = imp.Images
		}
		ex.Title = mergeText(ex.Title, imp.Title)
		ex.Description = mergeText(ex.Description, imp.Description)
	}

	if err := s.save(ctx, cat, items); err != nil {
		return nil, err
	}
	s.logger.Info("imported content", zap.String("category", string(cat)), zap.Int("incoming", len(incoming)))
	return items, nil
}

func mergeText(existing, incoming LocalizedString) LocalizedString {
	if incoming.EN != "" {
		existing.EN = incoming.EN
	}
	if incoming.ZhHant != "" {
		existing.ZhHant = incoming.ZhHant
	}
	return existing
}

// Sources loads the content Derive reads from.
func (s *ContentService) Sources(ctx context.Context) (Sources, error) {
	var src Sources
	var err error
	if src.Recipes, err = s.Load(ctx, CategoryRecipe); err != nil {
		return Sources{}, err
	}
	if src.Series, err = s.Load(ctx, CategorySeries); err != nil {
		return Sources{}, err
	}
	if src.Pets, err = s.Load(ctx, CategoryPet); err != nil {
		return Sources{}, err
	}
	return src, nil
}
