package admin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const viewTopPicks = "top-picks"

func (h *AdminHandler) loadVenues(r *http.Request, repos *repositories.Repositories, zoneID, view string) ([]models.Venue, error) {
	ws := helpers.WorkspaceFromContext(r.Context())
	return services.Refresh(r.Context(), ws.Venues, func(ctx context.Context) ([]models.Venue, error) {
		if view == viewTopPicks {
			return repos.Venues.GetTopPicks(ctx)
		}
		return repos.Venues.GetAll(ctx, zoneID)
	})
}

func (h *AdminHandler) GetVenuesPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminVenuePageData{
		ZoneID: r.URL.Query().Get("zone"),
		View:   r.URL.Query().Get("view"),
	}
	data.Title = "Manajemen Venue"
	if data.View == viewTopPicks {
		data.Title = "Venue Top Pick"
	}
	h.populateBaseDataForAdmin(r, data)
	data.Breadcrumbs = breadcrumb.Admin(breadcrumb.Breadcrumb{Name: "Venue", URL: "/admin/venues"})

	repos := h.repos(r)

	zones, err := repos.Zones.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("GetVenuesPage: failed to load zones", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		h.flash(&data.BasePageData, err, "Gagal memuat daftar zona.")
	}
	data.Zones = zones
	data.ZoneNames = models.ZoneNames(zones)

	venues, err := h.loadVenues(r, repos, data.ZoneID, data.View)
	if err != nil {
		h.logger.Warn("GetVenuesPage: failed to load venues", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		h.flash(&data.BasePageData, err, "Gagal mengambil daftar venue.")
	}
	data.Venues = venues

	h.render.HTML(w, http.StatusOK, "admin/venues/index", data)
}

func (h *AdminHandler) ShowVenuePage(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)["id"]

	venue, err := h.repos(r).Venues.GetByID(r.Context(), venueID)
	if err != nil {
		h.logger.Warn("ShowVenuePage: failed to load venue", zap.String("id", venueID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusError, "Venue tidak dapat dimuat: "+client.UserMessage(err))
		return
	}

	data := &AdminVenuePageData{Venue: venue}
	data.Title = venue.Name
	h.populateBaseDataForAdmin(r, data)
	data.Breadcrumbs = breadcrumb.Admin(
		breadcrumb.Breadcrumb{Name: "Venue", URL: "/admin/venues"},
		breadcrumb.Breadcrumb{Name: venue.Name, URL: "/admin/venues/" + venue.ID},
	)
	h.render.HTML(w, http.StatusOK, "admin/venues/show", data)
}

func (h *AdminHandler) AddVenuePage(w http.ResponseWriter, r *http.Request) {
	form := models.VenueForm{IsActive: true, PricingSchedule: models.PricingSchedule{}.Normalize()}
	h.renderVenueForm(w, r, &form, false, nil)
}

func (h *AdminHandler) AddVenuePost(w http.ResponseWriter, r *http.Request) {
	form, files, errs, err := parseVenueForm(r)
	if err != nil {
		h.logger.Warn("AddVenuePost: failed to parse form", zap.Error(err))
		helpers.RedirectWithMessage(w, r, "/admin/venues/add", helpers.StatusError, "Kesalahan parsing form: "+client.UserMessage(err))
		return
	}
	errs = mergeErrors(helpers.ValidateStruct(h.validator, &form), errs)
	if len(files.Thumbnail.Content) == 0 {
		errs = mergeErrors(errs, map[string]string{"thumbnail": "Thumbnail venue wajib diunggah."})
	}
	if len(errs) > 0 {
		h.renderVenueForm(w, r, &form, false, errs)
		return
	}

	venue, err := h.repos(r).Venues.Create(r.Context(), form, files)
	if err != nil {
		h.logger.Error("AddVenuePost: failed to create venue", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		data := h.venueFormData(r, &form, false, nil)
		h.flash(&data.BasePageData, err, "Gagal menambahkan venue.")
		h.render.HTML(w, http.StatusOK, "admin/venues/form", data)
		return
	}

	helpers.WorkspaceFromContext(r.Context()).Venues.Upsert(*venue)
	helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusSuccess, fmt.Sprintf("Venue %s berhasil ditambahkan.", form.Name))
}

func (h *AdminHandler) EditVenuePage(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)["id"]

	venue, err := h.repos(r).Venues.GetByID(r.Context(), venueID)
	if err != nil {
		h.logger.Warn("EditVenuePage: failed to load venue", zap.String("id", venueID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusError, "Venue tidak dapat dimuat: "+client.UserMessage(err))
		return
	}

	form := models.VenueFormFrom(*venue)
	h.renderVenueForm(w, r, &form, true, nil)
}

func (h *AdminHandler) EditVenuePost(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)["id"]
	editURL := fmt.Sprintf("/admin/venues/edit/%s", venueID)

	form, files, errs, err := parseVenueForm(r)
	if err != nil {
		h.logger.Warn("EditVenuePost: failed to parse form", zap.Error(err))
		helpers.RedirectWithMessage(w, r, editURL, helpers.StatusError, "Kesalahan parsing form: "+client.UserMessage(err))
		return
	}
	form.ID = venueID

	errs = mergeErrors(helpers.ValidateStruct(h.validator, &form), errs)
	if len(errs) > 0 {
		h.renderVenueForm(w, r, &form, true, errs)
		return
	}

	venue, err := h.repos(r).Venues.Update(r.Context(), venueID, form, files)
	if err != nil {
		h.logger.Error("EditVenuePost: failed to update venue", zap.String("id", venueID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		data := h.venueFormData(r, &form, true, nil)
		h.flash(&data.BasePageData, err, "Gagal memperbarui venue.")
		h.render.HTML(w, http.StatusOK, "admin/venues/form", data)
		return
	}

	helpers.WorkspaceFromContext(r.Context()).Venues.Upsert(*venue)
	helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusSuccess, "Venue berhasil diperbarui.")
}

func (h *AdminHandler) DeleteVenuePost(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)["id"]

	if err := h.repos(r).Venues.Delete(r.Context(), venueID); err != nil {
		h.logger.Error("DeleteVenuePost: failed to delete venue", zap.String("id", venueID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusError, "Gagal menghapus venue: "+client.UserMessage(err))
		return
	}

	helpers.WorkspaceFromContext(r.Context()).Venues.Remove(venueID)
	helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusSuccess, "Venue berhasil dihapus.")
}

func (h *AdminHandler) ToggleVenueActive(w http.ResponseWriter, r *http.Request) {
	repos := h.repos(r)
	h.toggleVenue(w, r, repos, services.FieldIsActive, services.VenueActiveRemote(repos.Venues))
}

func (h *AdminHandler) ToggleVenueTopPick(w http.ResponseWriter, r *http.Request) {
	repos := h.repos(r)
	h.toggleVenue(w, r, repos, services.FieldIsTopPick, services.VenueTopPickRemote(repos.Venues))
}

func (h *AdminHandler) toggleVenue(w http.ResponseWriter, r *http.Request, repos *repositories.Repositories, field string, remote services.RemoteToggle) {
	venueID := mux.Vars(r)["id"]
	ws := helpers.WorkspaceFromContext(r.Context())

	if _, ok := ws.Venues.Get(venueID); !ok {
		if _, err := h.loadVenues(r, repos, "", ""); err != nil {
			h.logger.Warn("toggleVenue: failed to load venues", zap.Error(err))
			if h.redirectOnAuthError(w, r, err) {
				return
			}
		}
	}

	result, err := h.toggles.Toggle(r.Context(), services.ToggleRequest{
		EntityID: venueID,
		Field:    field,
		State:    ws.VenueFlags,
		Remote:   remote,
	})
	h.respondToggle(w, r, result, err)
}

func (h *AdminHandler) ExportVenues(w http.ResponseWriter, r *http.Request) {
	exportFormat, err := services.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusError, "Format ekspor tidak dikenal.")
		return
	}
	zoneID := r.URL.Query().Get("zone")
	view := r.URL.Query().Get("view")
	repos := h.repos(r)

	venues, err := h.loadVenues(r, repos, zoneID, view)
	if err != nil {
		h.logger.Warn("ExportVenues: failed to load venues", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/venues", helpers.StatusError, "Gagal mengekspor venue: "+client.UserMessage(err))
		return
	}

	scope := view
	if scope == "" && zoneID != "" {
		zones, zerr := repos.Zones.GetAll(r.Context())
		if zerr != nil {
			h.logger.Warn("ExportVenues: failed to load zones", zap.Error(zerr))
		}
		scope = models.ZoneNames(zones)[zoneID]
		if scope == "" {
			scope = zoneID
		}
	}

	export := services.BuildExport("venues", scope, exportFormat, venues, services.VenueColumns(), h.now())
	if err := NewResponseSaver(h.render, w).Save(r.Context(), export); err != nil {
		h.logger.Error("ExportVenues: failed to write export", zap.Error(err))
	}
}

func (h *AdminHandler) venueFormData(r *http.Request, form *models.VenueForm, isEdit bool, errs map[string]string) *AdminVenuePageData {
	if errs == nil {
		errs = make(map[string]string)
	}
	form.PricingSchedule = form.PricingSchedule.Normalize()
	data := &AdminVenuePageData{VenueData: form, IsEdit: isEdit, Errors: errs}
	if isEdit {
		data.Title = "Edit Venue"
		data.FormAction = fmt.Sprintf("/admin/venues/edit/%s", form.ID)
	} else {
		data.Title = "Tambah Venue Baru"
		data.FormAction = "/admin/venues/add"
	}
	h.populateBaseDataForAdmin(r, data)

	last := breadcrumb.Breadcrumb{Name: "Tambah Baru", URL: data.FormAction}
	if isEdit {
		last.Name = "Edit"
	}
	data.Breadcrumbs = breadcrumb.Admin(breadcrumb.Breadcrumb{Name: "Venue", URL: "/admin/venues"}, last)

	zones, err := h.repos(r).Zones.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("venueFormData: failed to load zones", zap.Error(err))
		h.flash(&data.BasePageData, err, "Gagal memuat daftar zona.")
	}
	data.Zones = zones
	data.ZoneNames = models.ZoneNames(zones)
	return data
}

func (h *AdminHandler) renderVenueForm(w http.ResponseWriter, r *http.Request, form *models.VenueForm, isEdit bool, errs map[string]string) {
	h.render.HTML(w, http.StatusOK, "admin/venues/form", h.venueFormData(r, form, isEdit, errs))
}

// parseVenueForm reads the venue tabs. The pricing grid is posted as
// pricing_<day>_<session>_{start,end,price}; price errors are returned as
// field errors rather than failing the parse.
func parseVenueForm(r *http.Request) (models.VenueForm, repositories.VenueFiles, map[string]string, error) {
	if err := r.ParseMultipartForm(maxUploadSize * 4); err != nil && err != http.ErrNotMultipart {
		return models.VenueForm{}, repositories.VenueFiles{}, nil, err
	}

	errs := make(map[string]string)
	form := models.VenueForm{
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		Address:       strings.TrimSpace(r.PostFormValue("address")),
		ContactPerson: strings.TrimSpace(r.PostFormValue("contact_person")),
		ContactPhone:  strings.TrimSpace(r.PostFormValue("contact_phone")),
		ContactEmail:  strings.TrimSpace(r.PostFormValue("contact_email")),
		Description:   r.PostFormValue("description"),
		ZoneID:        r.PostFormValue("zone"),
		IsActive:      checkbox(r.PostFormValue("is_active")),
		IsTopPick:     checkbox(r.PostFormValue("is_top_pick")),
	}
	form.SeatedCapacity = formInt(r.PostFormValue("seated_capacity"), "seated_capacity", errs)
	form.StandingCapacity = formInt(r.PostFormValue("standing_capacity"), "standing_capacity", errs)

	schedule := models.PricingSchedule{}.Normalize()
	for _, day := range models.Weekdays {
		for _, session := range models.Sessions {
			prefix := fmt.Sprintf("pricing_%s_%s_", day, session)
			price, err := models.ParsePrice(r.PostFormValue(prefix + "price"))
			if err != nil {
				errs[prefix+"price"] = "Harga harus berupa angka positif."
			}
			schedule.Set(day, session, models.Slot{
				StartTime: r.PostFormValue(prefix + "start"),
				EndTime:   r.PostFormValue(prefix + "end"),
				PerDay:    price,
			})
		}
	}
	form.PricingSchedule = schedule

	var files repositories.VenueFiles
	if r.MultipartForm != nil {
		thumb, err := client.ReadUpload(r, "thumbnail", "thumbnail", maxUploadSize)
		if err != nil {
			return form, files, nil, err
		}
		files.Thumbnail = thumb
		if files.Images, err = client.ReadUploads(r, "images", "images", maxUploadSize); err != nil {
			return form, files, nil, err
		}
		if files.Documents, err = client.ReadUploads(r, "documents", "documents", maxUploadSize); err != nil {
			return form, files, nil, err
		}
	}
	return form, files, errs, nil
}

func formInt(v, field string, errs map[string]string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		errs[field] = "Nilai harus berupa angka."
		return 0
	}
	return n
}

func mergeErrors(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
