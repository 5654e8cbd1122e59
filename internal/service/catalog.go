package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CatalogService exposes tags and ingredients
type CatalogService struct {
	catalog store.CatalogStore
}

func NewCatalogService(catalog store.CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagView, error) {
	tags, err := s.catalog.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	views := make([]types.TagView, len(tags))
	for i := range tags {
		views[i] = TagView(&tags[i])
	}
	return views, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*types.TagView, error) {
	tag, err := s.catalog.GetTag(ctx, id)
	if err != nil {
		return nil, s.lookupError("tag", id, err)
	}
	view := TagView(tag)
	return &view, nil
}

func (s *CatalogService) CreateTag(ctx context.Context, req *types.TagRequest) (*types.TagView, error) {
	tag := tagFromRequest(req)
	if err := s.catalog.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	view := TagView(tag)
	return &view, nil
}

func (s *CatalogService) UpdateTag(ctx context.Context, id uint, req *types.TagRequest) (*types.TagView, error) {
	tag := tagFromRequest(req)
	tag.ID = id
	if err := s.catalog.UpdateTag(ctx, tag); err != nil {
		return nil, s.lookupError("tag", id, err)
	}
	view := TagView(tag)
	return &view, nil
}

func (s *CatalogService) DeleteTag(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteTag(ctx, id); err != nil {
		return s.lookupError("tag", id, err)
	}
	return nil
}

func tagFromRequest(req *types.TagRequest) *models.Tag {
	tag := &models.Tag{Name: strings.TrimSpace(req.Name), Color: req.Color}
	if req.Slug != nil && *req.Slug != "" {
		slug := *req.Slug
		tag.Slug = &slug
	}
	return tag
}

// ListIngredients filters by case-insensitive name prefix
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientView, error) {
	ingredients, err := s.catalog.ListIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	views := make([]types.IngredientView, len(ingredients))
	for i := range ingredients {
		views[i] = IngredientView(&ingredients[i])
	}
	return views, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error) {
	ingredient, err := s.catalog.GetIngredient(ctx, id)
	if err != nil {
		return nil, s.lookupError("ingredient", id, err)
	}
	view := IngredientView(ingredient)
	return &view, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*types.IngredientView, error) {
	ingredient := &models.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}
	if err := s.catalog.CreateIngredient(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	view := IngredientView(ingredient)
	return &view, nil
}

func (s *CatalogService) DeleteIngredient(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteIngredient(ctx, id); err != nil {
		return s.lookupError("ingredient", id, err)
	}
	return nil
}

func (s *CatalogService) lookupError(what string, id uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(what, id)
	}
	return fmt.Errorf("failed to access %s %d: %w", what, id, err)
}

// ImportResult summarizes an ingredient import
type ImportResult struct {
	Created  int
	Existing int
}

// ImportIngredients reads name,measurement_unit rows after a header row and
// gets or creates each pair. Running it twice on the same file creates
// nothing the second time.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (ImportResult, error) {
	var result ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return result, fmt.Errorf("failed to read header: %w", err)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < 2 {
			return result, fmt.Errorf("line %d: %w: expected name and measurement unit", line, ErrValidation)
		}
		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			return result, fmt.Errorf("line %d: %w: empty name or measurement unit", line, ErrValidation)
		}

		_, created, err := s.catalog.GetOrCreateIngredient(ctx, name, unit)
		if err != nil {
			return result, fmt.Errorf("line %d (%s): %w", line, name, err)
		}
		if created {
			result.Created++
		} else {
			result.Existing++
		}
	}

	logging.Ctx(ctx).Info().
		Int("created", result.Created).
		Int("existing", result.Existing).
		Msg("imported ingredients")
	return result, nil
}
