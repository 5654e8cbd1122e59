package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogStore holds tag and ingredient reference data
type CatalogStore interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	UpdateTag(ctx context.Context, tag *models.Tag) error
	DeleteTag(ctx context.Context, id uint) error
	MissingTagIDs(ctx context.Context, ids []uint) ([]uint, error)

	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	GetOrCreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error)
	DeleteIngredient(ctx context.Context, id uint) error
	MissingIngredientIDs(ctx context.Context, ids []uint) ([]uint, error)
}

type catalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) CatalogStore { return &catalogStore{db: db} }

func (s *catalogStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}

func (s *catalogStore) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (s *catalogStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	return translate(s.db.WithContext(ctx).Create(tag).Error)
}

func (s *catalogStore) UpdateTag(ctx context.Context, tag *models.Tag) error {
	res := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", tag.ID).Updates(map[string]interface{}{
		"name":  tag.Name,
		"slug":  tag.Slug,
		"color": tag.Color,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *catalogStore) DeleteTag(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *catalogStore) MissingTagIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(s.db.WithContext(ctx).Model(&models.Tag{}), ids)
}

// ListIngredients returns ingredients whose name starts with namePrefix,
// case-insensitively. An empty prefix lists everything.
func (s *catalogStore) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name, id")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(namePrefix))+"%")
	}
	var ingredients []models.Ingredient
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (s *catalogStore) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

func (s *catalogStore) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	return translate(s.db.WithContext(ctx).Create(ingredient).Error)
}

// GetOrCreateIngredient returns the ingredient with the given name and unit,
// inserting it first if needed. The bool reports whether a row was created.
func (s *catalogStore) GetOrCreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error) {
	ingredient := models.Ingredient{}
	res := s.db.WithContext(ctx).
		Where(models.Ingredient{Name: name, MeasurementUnit: unit}).
		FirstOrCreate(&ingredient)
	if res.Error == nil {
		return &ingredient, res.RowsAffected > 0, nil
	}

	// lost a race with a concurrent insert of the same pair
	if err := translate(res.Error); errors.Is(err, ErrDuplicate) {
		ingredient = models.Ingredient{}
		if err := s.db.WithContext(ctx).
			Where("name = ? AND measurement_unit = ?", name, unit).
			First(&ingredient).Error; err != nil {
			return nil, false, translate(err)
		}
		return &ingredient, false, nil
	}
	return nil, false, translate(res.Error)
}

func (s *catalogStore) DeleteIngredient(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrInUse
		}
		res := tx.Delete(&models.Ingredient{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *catalogStore) MissingIngredientIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(s.db.WithContext(ctx).Model(&models.Ingredient{}), ids)
}

// missingIDs returns the members of ids with no row in the model's table,
// preserving their order
func missingIDs(q *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := q.Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
