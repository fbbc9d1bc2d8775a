package admin

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/breadcrumb"
	"go.uber.org/zap"
)

func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	data := &AdminPageData{}
	data.Title = "Dashboard Admin"
	h.populateBaseDataForAdmin(r, data)
	data.Breadcrumbs = breadcrumb.Admin(breadcrumb.Breadcrumb{Name: "Dashboard", URL: "/admin/dashboard"})

	ws := helpers.WorkspaceFromContext(r.Context())
	repos := h.repos(r)

	categories, err := services.Refresh(r.Context(), ws.Categories, func(ctx context.Context) ([]models.Category, error) {
		return repos.Categories.GetAll(ctx, repositories.CategoryQuery{})
	})
	if err != nil {
		h.logger.Warn("GetDashboard: failed to load categories", zap.Error(err))
		// the dashboard is where forbidden redirects land, so it shows the
		// problem instead of redirecting again
		if client.KindOf(err) != client.KindForbidden && h.redirectOnAuthError(w, r, err) {
			return
		}
		h.flash(&data.BasePageData, err, "Gagal memuat kategori.")
	}
	data.TotalCategories = len(categories)
	data.OrphanCount = len(services.Orphans(categories))

	venues, err := services.Refresh(r.Context(), ws.Venues, func(ctx context.Context) ([]models.Venue, error) {
		return repos.Venues.GetAll(ctx, "")
	})
	if err != nil {
		h.logger.Warn("GetDashboard: failed to load venues", zap.Error(err))
		if client.KindOf(err) != client.KindForbidden && h.redirectOnAuthError(w, r, err) {
			return
		}
		h.flash(&data.BasePageData, err, "Gagal memuat venue.")
	}
	data.TotalVenues = len(venues)
	for _, v := range venues {
		if v.IsTopPick {
			data.TotalTopPicks++
		}
		if v.IsActive {
			data.ActiveVenues++
		}
	}

	h.render.HTML(w, http.StatusOK, "admin/dashboard_index", data)
}
