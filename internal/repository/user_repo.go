package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/cache"
	"golang-maintenance/pkg/utils"
)

const hierarchyCacheTTL = 10 * time.Minute

// UserRepository exposes the organizational hierarchy as an opaque
// capability: given a user, the ids of everyone below them. Results are
// memoized; InvalidateHierarchy must be called when a supervisor edge moves.
type UserRepository interface {
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error)
	GetDescendantIDs(ctx context.Context, userID uint) ([]uint, error)
	InvalidateHierarchy(userID uint)
}

type userRepository struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewUserRepository(db *gorm.DB, c cache.Cache) UserRepository {
	return &userRepository{db: db, cache: c}
}

func (r *userRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func hierarchyCacheKey(userID uint) string {
	return fmt.Sprintf("user:descendants:%d", userID)
}

func (r *userRepository) GetDescendantIDs(ctx context.Context, userID uint) ([]uint, error) {
	if ids, found := cache.GetFromCache[[]uint](hierarchyCacheKey(userID)); found {
		return ids, nil
	}

	// Recursive walk over the supervisor edge. The UNION (as opposed to
	// UNION ALL) drops already-visited rows, which keeps the query
	// terminating even if the tree has a cycle.
	var ids []uint
	err := r.db.WithContext(ctx).Raw(`
		WITH RECURSIVE subordinates AS (
			SELECT id FROM users WHERE supervisor_id = ?
			UNION
			SELECT u.id FROM users u
			INNER JOIN subordinates s ON u.supervisor_id = s.id
		)
		SELECT id FROM subordinates
	`, userID).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	r.cache.Set(hierarchyCacheKey(userID), ids, hierarchyCacheTTL)
	return ids, nil
}

func (r *userRepository) InvalidateHierarchy(userID uint) {
	r.cache.Delete(hierarchyCacheKey(userID))
}
