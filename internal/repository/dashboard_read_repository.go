package repository

import (
	"context"
	"fmt"

	"github.com/susucircle/susu-backend/internal/models"
	sharedredis "github.com/susucircle/susu-backend/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const dashboardViewKeyPrefix = "dashboard:view:"

// DashboardReadRepository caches the derived per-user dashboard in Redis.
// The cached copy is only ever served between invalidations: contribution and
// loan events delete the key, so new records are always reflected on the next
// read. That is the explicit invalidation rule the aggregator contract
// requires before totalSavings may be cached at all.
type DashboardReadRepository struct {
	cache *sharedredis.ViewCache[models.DashboardView]
}

func NewDashboardReadRepository(redisClient *goredis.Client) *DashboardReadRepository {
	return &DashboardReadRepository{
		cache: sharedredis.NewViewCache[models.DashboardView](redisClient, 0),
	}
}

func (r *DashboardReadRepository) Get(ctx context.Context, userID string) (*models.DashboardView, bool) {
	return r.cache.Get(ctx, dashboardViewKey(userID))
}

func (r *DashboardReadRepository) Set(ctx context.Context, view *models.DashboardView) {
	r.cache.Set(ctx, dashboardViewKey(view.UserID), view)
}

// Invalidate drops the cached dashboard; the next read recomputes it.
func (r *DashboardReadRepository) Invalidate(ctx context.Context, userID string) {
	r.cache.Delete(ctx, dashboardViewKey(userID))
}

func dashboardViewKey(userID string) string {
	return fmt.Sprintf("%s%s", dashboardViewKeyPrefix, userID)
}
