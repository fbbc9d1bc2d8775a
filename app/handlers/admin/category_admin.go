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

func categoryFilterFrom(r *http.Request) (services.CategoryFilter, string) {
	q := r.URL.Query()
	module := q.Get("module")
	if module == "" {
		module = services.AllModules
	}
	return services.CategoryFilter{Search: strings.TrimSpace(q.Get("search")), ModuleID: module}, q.Get("lang")
}

func (h *AdminHandler) loadCategories(r *http.Request, repos *repositories.Repositories) ([]models.Category, error) {
	ws := helpers.WorkspaceFromContext(r.Context())
	return services.Refresh(r.Context(), ws.Categories, func(ctx context.Context) ([]models.Category, error) {
		return repos.Categories.GetAll(ctx, repositories.CategoryQuery{})
	})
}

// cachedCategories reuses the workspace list when one was loaded.
func (h *AdminHandler) cachedCategories(r *http.Request, repos *repositories.Repositories) ([]models.Category, error) {
	ws := helpers.WorkspaceFromContext(r.Context())
	if ws.Categories.Loaded() {
		return ws.Categories.Items(), nil
	}
	return h.loadCategories(r, repos)
}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminCategoryPageData{}
	data.Title = "Manajemen Kategori"
	h.populateBaseDataForAdmin(r, data)
	data.Breadcrumbs = breadcrumb.Admin(breadcrumb.Breadcrumb{Name: "Kategori", URL: "/admin/categories"})
	data.Filter, data.Lang = categoryFilterFrom(r)

	repos := h.repos(r)

	modules, err := repos.Modules.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("GetCategoriesPage: failed to load modules", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		h.flash(&data.BasePageData, err, "Gagal memuat daftar modul.")
	}
	data.Modules = modules
	data.ModuleNames = models.ModuleNames(modules)

	categories, err := h.loadCategories(r, repos)
	if err != nil {
		h.logger.Warn("GetCategoriesPage: failed to load categories", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		h.flash(&data.BasePageData, err, "Gagal mengambil daftar kategori.")
	}

	index := services.NewCategoryIndex(categories)
	data.Tree = index.Tree(data.Filter)
	data.TotalCount = len(categories)
	data.OrphanCount = len(index.Orphans())

	h.render.HTML(w, http.StatusOK, "admin/categories/index", data)
}

func (h *AdminHandler) AddCategoryPage(w http.ResponseWriter, r *http.Request) {
	form := models.CategoryForm{IsActive: true, ModuleID: r.URL.Query().Get("module")}
	h.renderCategoryForm(w, r, &form, false, nil)
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	form, image, err := parseCategoryForm(r)
	if err != nil {
		h.logger.Warn("AddCategoryPost: failed to parse form", zap.Error(err))
		helpers.RedirectWithMessage(w, r, "/admin/categories/add", helpers.StatusError, "Kesalahan parsing form: "+client.UserMessage(err))
		return
	}
	form.CreatedBy = h.currentUserID(r)

	errs := helpers.ValidateStruct(h.validator, &form)
	if len(image.Content) == 0 {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["image"] = "Gambar kategori wajib diunggah."
	}
	if errs == nil {
		errs = h.checkParent(r, &form)
	}
	if len(errs) > 0 {
		h.renderCategoryForm(w, r, &form, false, errs)
		return
	}

	category, err := h.repos(r).Categories.Create(r.Context(), form, image)
	if err != nil {
		h.logger.Error("AddCategoryPost: failed to create category", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		data := h.categoryFormData(r, &form, false, nil)
		h.flash(&data.BasePageData, err, "Gagal menambahkan kategori.")
		h.render.HTML(w, http.StatusOK, "admin/categories/form", data)
		return
	}

	helpers.WorkspaceFromContext(r.Context()).Categories.Upsert(*category)
	helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusSuccess, fmt.Sprintf("Kategori %s berhasil ditambahkan.", form.Title))
}

func (h *AdminHandler) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	category, err := h.repos(r).Categories.GetByID(r.Context(), categoryID)
	if err != nil {
		h.logger.Warn("EditCategoryPage: failed to load category", zap.String("id", categoryID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusError, "Kategori tidak dapat dimuat: "+client.UserMessage(err))
		return
	}

	form := models.CategoryFormFrom(*category)
	h.renderCategoryForm(w, r, &form, true, nil)
}

func (h *AdminHandler) EditCategoryPost(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]
	editURL := fmt.Sprintf("/admin/categories/edit/%s", categoryID)

	form, image, err := parseCategoryForm(r)
	if err != nil {
		h.logger.Warn("EditCategoryPost: failed to parse form", zap.Error(err))
		helpers.RedirectWithMessage(w, r, editURL, helpers.StatusError, "Kesalahan parsing form: "+client.UserMessage(err))
		return
	}
	form.ID = categoryID
	form.CreatedBy = h.currentUserID(r)

	errs := helpers.ValidateStruct(h.validator, &form)
	if errs == nil {
		errs = h.checkParent(r, &form)
	}
	if len(errs) > 0 {
		h.renderCategoryForm(w, r, &form, true, errs)
		return
	}

	category, err := h.repos(r).Categories.Update(r.Context(), categoryID, form, image)
	if err != nil {
		h.logger.Error("EditCategoryPost: failed to update category", zap.String("id", categoryID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		data := h.categoryFormData(r, &form, true, nil)
		h.flash(&data.BasePageData, err, "Gagal memperbarui kategori.")
		h.render.HTML(w, http.StatusOK, "admin/categories/form", data)
		return
	}

	helpers.WorkspaceFromContext(r.Context()).Categories.Upsert(*category)
	helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusSuccess, "Kategori berhasil diperbarui.")
}

// DeleteCategoryPost removes the record from the cached list only; its
// children stay until the next refetch.
func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	if err := h.repos(r).Categories.Delete(r.Context(), categoryID); err != nil {
		h.logger.Error("DeleteCategoryPost: failed to delete category", zap.String("id", categoryID), zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusError, "Gagal menghapus kategori: "+client.UserMessage(err))
		return
	}

	helpers.WorkspaceFromContext(r.Context()).Categories.Remove(categoryID)
	helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusSuccess, "Kategori berhasil dihapus.")
}

func (h *AdminHandler) ToggleCategoryActive(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]
	ws := helpers.WorkspaceFromContext(r.Context())
	repos := h.repos(r)

	if _, ok := ws.Categories.Get(categoryID); !ok {
		if _, err := h.loadCategories(r, repos); err != nil {
			h.logger.Warn("ToggleCategoryActive: failed to load categories", zap.Error(err))
			if h.redirectOnAuthError(w, r, err) {
				return
			}
		}
	}

	result, err := h.toggles.Toggle(r.Context(), services.ToggleRequest{
		EntityID: categoryID,
		Field:    services.FieldIsActive,
		State:    ws.CategoryFlags,
		Remote:   services.CategoryStatusRemote(repos.Categories, h.currentUserID(r)),
	})
	h.respondToggle(w, r, result, err)
}

func (h *AdminHandler) ExportCategories(w http.ResponseWriter, r *http.Request) {
	exportFormat, err := services.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusError, "Format ekspor tidak dikenal.")
		return
	}
	filter, lang := categoryFilterFrom(r)
	repos := h.repos(r)

	categories, err := h.cachedCategories(r, repos)
	if err != nil {
		h.logger.Warn("ExportCategories: failed to load categories", zap.Error(err))
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusError, "Gagal mengekspor kategori: "+client.UserMessage(err))
		return
	}

	modules, err := repos.Modules.GetAll(r.Context())
	if err != nil {
		// module names are cosmetic in the export, ids are written instead
		h.logger.Warn("ExportCategories: failed to load modules", zap.Error(err))
	}
	moduleNames := models.ModuleNames(modules)

	scope := lang
	if scope == "" && filter.ModuleID != services.AllModules {
		scope = moduleNames[filter.ModuleID]
	}

	rows := services.Flatten(services.BuildTree(categories, filter.Search, filter.ModuleID))
	export := services.BuildExport("categories", scope, exportFormat, rows, services.CategoryColumns(moduleNames), h.now())

	if err := NewResponseSaver(h.render, w).Save(r.Context(), export); err != nil {
		h.logger.Error("ExportCategories: failed to write export", zap.Error(err))
	}
}

// checkParent keeps the parent inside the category's module.
func (h *AdminHandler) checkParent(r *http.Request, form *models.CategoryForm) map[string]string {
	if form.ParentID == "" {
		return nil
	}
	categories, err := h.cachedCategories(r, h.repos(r))
	if err != nil {
		h.logger.Warn("checkParent: failed to load categories, leaving the check to the backend", zap.Error(err))
		return nil
	}
	for _, c := range services.ParentCandidates(categories, form.ModuleID, form.ID) {
		if c.ID == form.ParentID {
			return nil
		}
	}
	return map[string]string{"parent_category": "Kategori induk harus kategori utama dari modul yang sama."}
}

func (h *AdminHandler) categoryFormData(r *http.Request, form *models.CategoryForm, isEdit bool, errs map[string]string) *AdminCategoryPageData {
	if errs == nil {
		errs = make(map[string]string)
	}
	data := &AdminCategoryPageData{CategoryData: form, IsEdit: isEdit, Errors: errs}
	if isEdit {
		data.Title = "Edit Kategori"
		data.FormAction = fmt.Sprintf("/admin/categories/edit/%s", form.ID)
	} else {
		data.Title = "Tambah Kategori Baru"
		data.FormAction = "/admin/categories/add"
	}
	h.populateBaseDataForAdmin(r, data)

	last := breadcrumb.Breadcrumb{Name: "Tambah Baru", URL: data.FormAction}
	if isEdit {
		last.Name = "Edit"
	}
	data.Breadcrumbs = breadcrumb.Admin(breadcrumb.Breadcrumb{Name: "Kategori", URL: "/admin/categories"}, last)

	repos := h.repos(r)
	modules, err := repos.Modules.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("categoryFormData: failed to load modules", zap.Error(err))
		h.flash(&data.BasePageData, err, "Gagal memuat daftar modul.")
	}
	data.Modules = modules
	data.ModuleNames = models.ModuleNames(modules)

	categories, err := h.cachedCategories(r, repos)
	if err != nil {
		h.logger.Warn("categoryFormData: failed to load parent candidates", zap.Error(err))
	}
	data.ParentOptions = services.ParentCandidates(categories, form.ModuleID, form.ID)
	return data
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, form *models.CategoryForm, isEdit bool, errs map[string]string) {
	h.render.HTML(w, http.StatusOK, "admin/categories/form", h.categoryFormData(r, form, isEdit, errs))
}

func parseCategoryForm(r *http.Request) (models.CategoryForm, client.File, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && err != http.ErrNotMultipart {
		return models.CategoryForm{}, client.File{}, err
	}

	form := models.CategoryForm{
		Title:           strings.TrimSpace(r.PostFormValue("title")),
		ModuleID:        r.PostFormValue("module"),
		ParentID:        r.PostFormValue("parent_category"),
		Description:     r.PostFormValue("description"),
		IsActive:        checkbox(r.PostFormValue("is_active")),
		IsFeatured:      checkbox(r.PostFormValue("is_featured")),
		MetaTitle:       r.PostFormValue("meta_title"),
		MetaDescription: r.PostFormValue("meta_description"),
		ExistingImage:   r.PostFormValue("existing_image"),
	}
	if order := strings.TrimSpace(r.PostFormValue("display_order")); order != "" {
		n, err := strconv.Atoi(order)
		if err != nil {
			n = -1
		}
		form.DisplayOrder = n
	}

	var image client.File
	if r.MultipartForm != nil {
		var err error
		image, err = client.ReadUpload(r, "image", "image", maxUploadSize)
		if err != nil {
			return form, client.File{}, err
		}
	}
	return form, image, nil
}

func checkbox(v string) bool {
	return v == "on" || v == "true" || v == "1"
}
