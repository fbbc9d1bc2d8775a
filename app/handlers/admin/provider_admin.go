package admin

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/utils/breadcrumb"
	"go.uber.org/zap"
)

const providerFormAction = "/admin/providers/register"

func (h *AdminHandler) RegisterProviderPage(w http.ResponseWriter, r *http.Request) {
	h.renderProviderForm(w, r, &models.ProviderForm{Role: models.RoleVendor}, nil)
}

func (h *AdminHandler) RegisterProviderPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize * 2); err != nil && err != http.ErrNotMultipart {
		h.logger.Warn("RegisterProviderPost: failed to parse form", zap.Error(err))
		helpers.RedirectWithMessage(w, r, providerFormAction, helpers.StatusError, "Kesalahan parsing form.")
		return
	}

	form := models.ProviderForm{
		BusinessName:  strings.TrimSpace(r.PostFormValue("business_name")),
		ContactPerson: strings.TrimSpace(r.PostFormValue("contact_person")),
		Email:         strings.TrimSpace(r.PostFormValue("email")),
		Phone:         strings.TrimSpace(r.PostFormValue("phone")),
		Password:      r.PostFormValue("password"),
		ModuleID:      r.PostFormValue("module"),
		ZoneID:        r.PostFormValue("zone"),
		Address:       strings.TrimSpace(r.PostFormValue("address")),
		Latitude:      strings.TrimSpace(r.PostFormValue("latitude")),
		Longitude:     strings.TrimSpace(r.PostFormValue("longitude")),
		Role:          r.PostFormValue("role"),
	}

	if errs := helpers.ValidateStruct(h.validator, &form); len(errs) > 0 {
		form.Password = ""
		h.renderProviderForm(w, r, &form, errs)
		return
	}

	var files repositories.ProviderFiles
	if r.MultipartForm != nil {
		logo, err := client.ReadUpload(r, "logo", "logo", maxUploadSize)
		if err == nil {
			files.Logo = logo
			files.Documents, err = client.ReadUploads(r, "documents", "documents", maxUploadSize)
		}
		if err != nil {
			form.Password = ""
			h.renderProviderForm(w, r, &form, map[string]string{"documents": client.UserMessage(err)})
			return
		}
	}

	if err := h.repos(r).Auth.RegisterProvider(r.Context(), form, files); err != nil {
		h.logger.Error("RegisterProviderPost: failed to register provider", zap.String("email", form.Email), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		form.Password = ""
		data := h.providerFormData(r, &form, nil)
		h.flash(&data.BasePageData, err, "Gagal mendaftarkan penyedia.")
		h.render.HTML(w, http.StatusOK, "admin/providers/form", data)
		return
	}

	h.logger.Info("RegisterProviderPost: provider registered", zap.String("email", form.Email))
	helpers.RedirectWithMessage(w, r, providerFormAction, helpers.StatusSuccess, "Penyedia "+form.BusinessName+" berhasil didaftarkan.")
}

func (h *AdminHandler) providerFormData(r *http.Request, form *models.ProviderForm, errs map[string]string) *AdminProviderPageData {
	if errs == nil {
		errs = make(map[string]string)
	}
	data := &AdminProviderPageData{ProviderData: form, FormAction: providerFormAction, Errors: errs}
	data.Title = "Pendaftaran Penyedia"
	h.populateBaseDataForAdmin(r, data)
	data.Breadcrumbs = breadcrumb.Admin(breadcrumb.Breadcrumb{Name: "Pendaftaran Penyedia", URL: providerFormAction})

	repos := h.repos(r)
	modules, err := repos.Modules.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("providerFormData: failed to load modules", zap.Error(err))
		h.flash(&data.BasePageData, err, "Gagal memuat daftar modul.")
	}
	zones, err := repos.Zones.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("providerFormData: failed to load zones", zap.Error(err))
		h.flash(&data.BasePageData, err, "Gagal memuat daftar zona.")
	}
	data.Modules = modules
	data.Zones = zones
	return data
}

func (h *AdminHandler) renderProviderForm(w http.ResponseWriter, r *http.Request, form *models.ProviderForm, errs map[string]string) {
	h.render.HTML(w, http.StatusOK, "admin/providers/form", h.providerFormData(r, form, errs))
}
