package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/store"
)

// RelationKind selects the pair table a guard check applies to
type RelationKind = store.Relation

const (
	KindFollow       = store.RelationFollow
	KindFavorite     = store.RelationFavorite
	KindShoppingCart = store.RelationShoppingCart
)

// RelationGuard decides whether a follow, favorite or cart row may be
// created. It never writes; the unique constraints behind SocialStore.Create
// still settle races between concurrent callers.
type RelationGuard struct {
	social store.SocialStore
}

func NewRelationGuard(social store.SocialStore) *RelationGuard {
	return &RelationGuard{social: social}
}

// CanCreate returns ErrSelfReference for a user following themselves and
// ErrDuplicate when the pair already exists
func (g *RelationGuard) CanCreate(ctx context.Context, kind RelationKind, subjectID, targetID uuid.UUID) error {
	if kind == KindFollow && subjectID == targetID {
		metrics.RecordRelationRejection(string(kind), "self_reference")
		return ErrSelfReference
	}

	exists, err := g.social.Exists(ctx, kind, subjectID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", kind, err)
	}
	if exists {
		metrics.RecordRelationRejection(string(kind), "duplicate")
		return fmt.Errorf("%s: %w", kind, ErrDuplicate)
	}
	return nil
}
