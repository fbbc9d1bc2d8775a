package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/models"
	"go.uber.org/zap"
)

type CategoryQuery struct {
	Search string
	Module string
	Limit  int
}

func (q CategoryQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Module != "" && q.Module != "all" {
		v.Set("module", q.Module)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type CategoryRepositoryImpl interface {
	GetAll(ctx context.Context, q CategoryQuery) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, form models.CategoryForm, image client.File) (*models.Category, error)
	Update(ctx context.Context, id string, form models.CategoryForm, image client.File) (*models.Category, error)
	Block(ctx context.Context, id, updatedBy string) (*bool, error)
	Reactivate(ctx context.Context, id, updatedBy string) (*bool, error)
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	api       client.API
	imageBase string
	logger    *zap.Logger
}

func NewCategoryRepository(api client.API, imageBase string, logger *zap.Logger) CategoryRepositoryImpl {
	return &categoryRepository{api: api, imageBase: imageBase, logger: logger}
}

func (r *categoryRepository) GetAll(ctx context.Context, q CategoryQuery) ([]models.Category, error) {
	payload, err := r.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/categories", Query: q.values()})
	if err != nil {
		return nil, err
	}

	categories, err := client.DecodeList[models.Category](payload, "categories")
	if err != nil {
		r.logger.Error("CategoryRepository.GetAll: failed to decode categories", zap.Error(err))
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	for i := range categories {
		categories[i].Image = models.ResolveImageURL(r.imageBase, categories[i].Image)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	payload, err := r.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/categories/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	category, err := r.decodeOne(payload, models.Category{})
	if err != nil {
		return nil, err
	}
	if category.ID == "" {
		return nil, &client.APIError{Kind: client.KindNotFound, Message: "Kategori tidak ditemukan."}
	}
	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, form models.CategoryForm, image client.File) (*models.Category, error) {
	if len(image.Content) == 0 {
		return nil, client.NewValidationError("Gambar kategori wajib diunggah.")
	}

	body := categoryMultipart(form, false).
		Field("createdBy", form.CreatedBy).
		File(client.File{Field: "image", Filename: image.Filename, Content: image.Content})

	req, err := body.Request(http.MethodPost, "/categories")
	if err != nil {
		return nil, err
	}
	payload, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	// the id stays empty when the reply carries no record
	return r.decodeOne(payload, models.CategoryFromForm(form))
}

// Update keeps the stored image when no new file is given. Clearable fields
// are always sent so an emptied value reaches the backend.
func (r *categoryRepository) Update(ctx context.Context, id string, form models.CategoryForm, image client.File) (*models.Category, error) {
	body := categoryMultipart(form, true).OptionalField("updatedBy", form.CreatedBy)
	if len(image.Content) > 0 {
		body.File(client.File{Field: "image", Filename: image.Filename, Content: image.Content})
	}

	req, err := body.Request(http.MethodPut, "/categories/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	payload, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	fallback := models.CategoryFromForm(form)
	fallback.ID = id
	return r.decodeOne(payload, fallback)
}

func (r *categoryRepository) Block(ctx context.Context, id, updatedBy string) (*bool, error) {
	return r.patchStatus(ctx, id, "block", updatedBy)
}

func (r *categoryRepository) Reactivate(ctx context.Context, id, updatedBy string) (*bool, error) {
	return r.patchStatus(ctx, id, "reactivate", updatedBy)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: "/categories/" + url.PathEscape(id)})
	return err
}

func (r *categoryRepository) patchStatus(ctx context.Context, id, action, updatedBy string) (*bool, error) {
	payload, err := r.api.Do(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/categories/%s/%s", url.PathEscape(id), action),
		JSON:   map[string]string{"updatedBy": updatedBy},
	})
	if err != nil {
		return nil, err
	}
	if v, ok := client.LookupBool(payload, "isActive", "category"); ok {
		return &v, nil
	}
	return nil, nil
}

// decodeOne falls back to the given record when the reply is only an
// acknowledgement such as {"success":true,"message":"..."}.
func (r *categoryRepository) decodeOne(payload []byte, fallback models.Category) (*models.Category, error) {
	category, err := client.DecodeOne[models.Category](payload, "category")
	if err != nil {
		return nil, err
	}
	if category.ID == "" {
		r.logger.Debug("CategoryRepository.decodeOne: reply carried no category, using the submitted one", zap.String("id", fallback.ID))
		category = fallback
	}
	category.Image = models.ResolveImageURL(r.imageBase, category.Image)
	return &category, nil
}

// categoryMultipart skips empty optional fields on create. On update they are
// sent empty so the backend clears them.
func categoryMultipart(form models.CategoryForm, update bool) *client.Multipart {
	optional := (*client.Multipart).OptionalField
	if update {
		optional = (*client.Multipart).Field
	}
	body := client.NewMultipart().
		Field("title", form.Title).
		Field("module", form.ModuleID)
	optional(body, "description", form.Description)
	optional(body, "parentCategory", form.ParentID)
	body.Field("displayOrder", strconv.Itoa(form.DisplayOrder)).
		Field("isActive", strconv.FormatBool(form.IsActive)).
		Field("isFeatured", strconv.FormatBool(form.IsFeatured))
	optional(body, "metaTitle", form.MetaTitle)
	optional(body, "metaDescription", form.MetaDescription)
	return body
}
