package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/models/other"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/logger"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const maxUploadSize = 5 << 20

// RepositoryFactory builds the repositories for one request, authenticated
// as the signed in admin.
type RepositoryFactory func(r *http.Request) *repositories.Repositories

// FetcherRepositories authenticates fetcher with the request's auth context.
func FetcherRepositories(fetcher *client.Fetcher, imageBase string, log *zap.Logger) RepositoryFactory {
	return func(r *http.Request) *repositories.Repositories {
		api := fetcher
		if auth, ok := helpers.AuthFromContext(r.Context()); ok {
			api = fetcher.WithAuth(auth)
		}
		return repositories.New(api, imageBase, log)
	}
}

type AdminHandler struct {
	render    *render.Render
	validator *validator.Validate
	repos     RepositoryFactory
	toggles   services.ToggleService
	logger    *zap.Logger
	now       func() time.Time
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	repos RepositoryFactory,
	toggles services.ToggleService,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		render:    render,
		validator: validator,
		repos:     repos,
		toggles:   toggles,
		logger:    logger.OrNop(log),
		now:       time.Now,
	}
}

type AdminPageData struct {
	other.BasePageData
	TotalCategories int
	TotalVenues     int
	TotalTopPicks   int
	ActiveVenues    int
	OrphanCount     int
}

type AdminCategoryPageData struct {
	other.BasePageData
	Tree          []services.CategoryNode
	Modules       []models.Module
	ModuleNames   map[string]string
	Filter        services.CategoryFilter
	Lang          string
	TotalCount    int
	OrphanCount   int
	CategoryData  *models.CategoryForm
	ParentOptions []models.Category
	IsEdit        bool
	FormAction    string
	Errors        map[string]string
}

type AdminVenuePageData struct {
	other.BasePageData
	Venues     []models.Venue
	Venue      *models.Venue
	Zones      []models.Zone
	ZoneNames  map[string]string
	ZoneID     string
	View       string
	VenueData  *models.VenueForm
	IsEdit     bool
	FormAction string
	Errors     map[string]string
}

type AdminProviderPageData struct {
	other.BasePageData
	Modules      []models.Module
	Zones        []models.Zone
	ProviderData *models.ProviderForm
	FormAction   string
	Errors       map[string]string
}

func (h *AdminHandler) populateBaseDataForAdmin(r *http.Request, pageData interface{}) {
	var base *other.BasePageData
	switch pd := pageData.(type) {
	case *AdminPageData:
		base = &pd.BasePageData
	case *AdminCategoryPageData:
		base = &pd.BasePageData
	case *AdminVenuePageData:
		base = &pd.BasePageData
	case *AdminProviderPageData:
		base = &pd.BasePageData
	default:
		h.logger.Error("populateBaseDataForAdmin: unknown page data type", zap.String("type", fmt.Sprintf("%T", pageData)))
		return
	}
	helpers.PopulateBase(r, base)
	base.IsAuthPage = true
	base.IsAdminPage = true
}

func (h *AdminHandler) flash(base *other.BasePageData, err error, fallback string) {
	base.MessageStatus = helpers.StatusError
	base.Message = fallback
	if msg := client.UserMessage(err); msg != "" {
		base.Message = fallback + " " + msg
	}
}

// redirectOnAuthError applies the session policy for auth failures and
// reports whether the response has been written. Other errors are left to the
// caller.
func (h *AdminHandler) redirectOnAuthError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch client.KindOf(err) {
	case client.KindUnauthenticated, client.KindUnauthorized:
		if auth, ok := helpers.AuthFromContext(r.Context()); ok {
			if clearErr := auth.Clear(); clearErr != nil {
				h.logger.Warn("redirectOnAuthError: failed to clear session", zap.Error(clearErr))
			}
		}
		if helpers.WantsJSON(r) {
			_ = h.render.JSON(w, http.StatusUnauthorized, jsonMessage(helpers.StatusAuth, client.UserMessage(err)))
			return true
		}
		helpers.RedirectWithMessage(w, r, "/login", helpers.StatusAuth, client.UserMessage(err))
		return true
	case client.KindForbidden:
		if helpers.WantsJSON(r) {
			_ = h.render.JSON(w, http.StatusForbidden, jsonMessage(helpers.StatusForbidden, client.UserMessage(err)))
			return true
		}
		helpers.RedirectWithMessage(w, r, "/admin/dashboard", helpers.StatusForbidden, client.UserMessage(err))
		return true
	}
	return false
}

func (h *AdminHandler) currentUserID(r *http.Request) string {
	if user, ok := helpers.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return ""
}

func jsonMessage(status, message string) map[string]interface{} {
	return map[string]interface{}{"status": status, "message": message}
}
