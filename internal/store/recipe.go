package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RecipeFilter narrows List. Nil or empty fields do not filter.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        Page
}

// RecipeStore owns recipes and their ingredient and tag association rows.
// Every write runs in a single transaction.
type RecipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	IngredientRows(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeIngredient, error)
}

type recipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) RecipeStore { return &recipeStore{db: db} }

// Create inserts the recipe and the association rows listed in
// recipe.Ingredients and recipe.Tags
func (s *recipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipe)
	}))
}

// Update writes every scalar field of recipe and replaces its association
// rows with recipe.Ingredients and recipe.Tags
func (s *recipeStore) Update(ctx context.Context, recipe *models.Recipe) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipe)
	}))
}

func insertAssociations(tx *gorm.DB, recipe *models.Recipe) error {
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].ID = 0
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	for i := range recipe.Tags {
		recipe.Tags[i].ID = 0
		recipe.Tags[i].RecipeID = recipe.ID
	}
	if len(recipe.Ingredients) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error; err != nil {
			return err
		}
	}
	if len(recipe.Tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe together with its association rows and every
// favorite and shopping cart row referencing it
func (s *recipeStore) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.Favorite{},
			&models.ShoppingCart{},
			&models.RecipeIngredient{},
			&models.RecipeTag{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func withDetails(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag")
}

func (s *recipeStore) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (s *recipeStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// List returns one page of recipes matching filter, newest first, and the
// total number of matches
func (s *recipeStore) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if filter.AuthorID != nil {
			tx = tx.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tx = tx.Where("recipes.id IN (?)", s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
		}
		if filter.FavoritedBy != nil {
			tx = tx.Where("recipes.id IN (?)", s.db.Table("favorites").
				Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy))
		}
		if filter.InCartOf != nil {
			tx = tx.Where("recipes.id IN (?)", s.db.Table("shopping_carts").
				Select("recipe_id").Where("user_id = ?", *filter.InCartOf))
		}
		return tx
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	q := withDetails(s.db.WithContext(ctx)).Scopes(scope).Order("recipes.created_at DESC, recipes.id")
	if err := filter.Page.apply(q).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *recipeStore) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}

// IngredientRows returns the ingredient rows of the given recipes with their
// ingredient loaded, in insertion order
func (s *recipeStore) IngredientRows(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeIngredient, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	var rows []models.RecipeIngredient
	err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Order("id").
		Find(&rows).Error
	return rows, err
}
