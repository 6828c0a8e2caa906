package graphql

import (
	"context"

	"github.com/3a-softwares/E-Storefront-Services/client"
	"github.com/3a-softwares/E-Storefront-Services/identity"
)

// DashboardStats merges the order service's storewide stats with the auth
// service's user counts.
type DashboardStats struct {
	TotalUsers    int32   `json:"totalUsers"`
	TotalOrders   int32   `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int32   `json:"pendingOrders"`
}

// DashboardStats fans out to the order and auth services. Each side
// degrades to zeros independently: a dead order service still yields the
// user count and vice versa, so the admin dashboard always renders.
func (r *Resolver) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	token := identity.FromContext(ctx).Token
	stats := &DashboardStats{}

	if env, err := r.order.Get(ctx, "/api/orders/admin-stats", nil, client.WithAuth(token)); err == nil {
		var orderStats struct {
			TotalOrders   int32   `json:"totalOrders"`
			TotalRevenue  float64 `json:"totalRevenue"`
			PendingOrders int32   `json:"pendingOrders"`
		}
		if derr := env.DecodeField("stats", &orderStats); derr == nil {
			stats.TotalOrders = orderStats.TotalOrders
			stats.TotalRevenue = orderStats.TotalRevenue
			stats.PendingOrders = orderStats.PendingOrders
		}
	} else {
		r.logger.Warn("dashboard order stats degraded to zeros", "error", err)
	}

	if env, err := r.auth.Get(ctx, "/api/users/stats", nil, client.WithAuth(token)); err == nil {
		var userStats struct {
			TotalUsers int32 `json:"totalUsers"`
		}
		if derr := env.DecodeField("stats", &userStats); derr == nil {
			stats.TotalUsers = userStats.TotalUsers
		}
	} else {
		r.logger.Warn("dashboard user stats degraded to zeros", "error", err)
	}

	return stats, nil
}
