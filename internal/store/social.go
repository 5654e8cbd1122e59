package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Relation names a user-owned pair table
type Relation string

const (
	RelationFollow       Relation = "follow"
	RelationFavorite     Relation = "favorite"
	RelationShoppingCart Relation = "shopping_cart"
)

// targetColumn is the column holding the second member of the pair
func (r Relation) targetColumn() string {
	if r == RelationFollow {
		return "author_id"
	}
	return "recipe_id"
}

func (r Relation) model() (interface{}, error) {
	switch r {
	case RelationFollow:
		return &models.Follow{}, nil
	case RelationFavorite:
		return &models.Favorite{}, nil
	case RelationShoppingCart:
		return &models.ShoppingCart{}, nil
	}
	return nil, fmt.Errorf("unknown relation %q", r)
}

func (r Relation) row(userID, targetID uuid.UUID) (interface{}, error) {
	switch r {
	case RelationFollow:
		return &models.Follow{UserID: userID, AuthorID: targetID}, nil
	case RelationFavorite:
		return &models.Favorite{UserID: userID, RecipeID: targetID}, nil
	case RelationShoppingCart:
		return &models.ShoppingCart{UserID: userID, RecipeID: targetID}, nil
	}
	return nil, fmt.Errorf("unknown relation %q", r)
}

// SocialStore holds follows, favorites and shopping cart entries. Each pair
// is unique per user; a second Create of the same pair fails with
// ErrDuplicate.
type SocialStore interface {
	Create(ctx context.Context, rel Relation, userID, targetID uuid.UUID) error
	Delete(ctx context.Context, rel Relation, userID, targetID uuid.UUID) error
	Exists(ctx context.Context, rel Relation, userID, targetID uuid.UUID) (bool, error)
	TargetsAmong(ctx context.Context, rel Relation, userID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FollowedAuthors(ctx context.Context, userID uuid.UUID, page Page) ([]models.User, int64, error)
}

type socialStore struct {
	db *gorm.DB
}

func NewSocialStore(db *gorm.DB) SocialStore { return &socialStore{db: db} }

func (s *socialStore) Create(ctx context.Context, rel Relation, userID, targetID uuid.UUID) error {
	row, err := rel.row(userID, targetID)
	if err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Create(row).Error)
}

func (s *socialStore) Delete(ctx context.Context, rel Relation, userID, targetID uuid.UUID) error {
	model, err := rel.model()
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND "+rel.targetColumn()+" = ?", userID, targetID).
		Delete(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *socialStore) Exists(ctx context.Context, rel Relation, userID, targetID uuid.UUID) (bool, error) {
	model, err := rel.model()
	if err != nil {
		return false, err
	}
	var cnt int64
	if err := s.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+rel.targetColumn()+" = ?", userID, targetID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// TargetsAmong reports which of targetIDs the user holds a rel row for
func (s *socialStore) TargetsAmong(ctx context.Context, rel Relation, userID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	model, err := rel.model()
	if err != nil {
		return nil, err
	}
	var found []uuid.UUID
	if err := s.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+rel.targetColumn()+" IN ?", userID, targetIDs).
		Pluck(rel.targetColumn(), &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// CartRecipeIDs lists the recipes in the user's cart in the order they were added
func (s *socialStore) CartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("recipe_id", &ids).Error
	return ids, err
}

// FollowedAuthors returns one page of the authors the user follows, in
// subscription order, and the total count
func (s *socialStore) FollowedAuthors(ctx context.Context, userID uuid.UUID, page Page) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var authors []models.User
	q := s.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.id")
	err := page.apply(q).Find(&authors).Error
	return authors, total, err
}
