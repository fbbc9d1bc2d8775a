package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/models"
	"go.uber.org/zap"
)

type VenueFiles struct {
	Thumbnail client.File
	Images    []client.File
	Documents []client.File
}

type VenueRepositoryImpl interface {
	GetAll(ctx context.Context, zoneID string) ([]models.Venue, error)
	GetTopPicks(ctx context.Context) ([]models.Venue, error)
	GetByID(ctx context.Context, id string) (*models.Venue, error)
	Create(ctx context.Context, form models.VenueForm, files VenueFiles) (*models.Venue, error)
	Update(ctx context.Context, id string, form models.VenueForm, files VenueFiles) (*models.Venue, error)
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*bool, error)
	ToggleTopPick(ctx context.Context, id string) (*bool, error)
}

type venueRepository struct {
	api       client.API
	imageBase string
	logger    *zap.Logger
}

func NewVenueRepository(api client.API, imageBase string, logger *zap.Logger) VenueRepositoryImpl {
	return &venueRepository{api: api, imageBase: imageBase, logger: logger}
}

func (r *venueRepository) GetAll(ctx context.Context, zoneID string) ([]models.Venue, error) {
	q := url.Values{}
	if zoneID != "" && zoneID != "all" {
		q.Set("zone", zoneID)
	}
	return r.list(ctx, client.Request{Method: http.MethodGet, Path: "/venues", Query: q})
}

func (r *venueRepository) GetTopPicks(ctx context.Context) ([]models.Venue, error) {
	return r.list(ctx, client.Request{Method: http.MethodGet, Path: "/venues/top-picks"})
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	payload, err := r.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/venues/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	venue, err := r.decodeOne(payload, models.Venue{})
	if err != nil {
		return nil, err
	}
	if venue.ID == "" {
		return nil, &client.APIError{Kind: client.KindNotFound, Message: "Venue tidak ditemukan."}
	}
	return venue, nil
}

func (r *venueRepository) Create(ctx context.Context, form models.VenueForm, files VenueFiles) (*models.Venue, error) {
	body, err := venueMultipart(form, files, false)
	if err != nil {
		return nil, err
	}
	req, err := body.Request(http.MethodPost, "/venues")
	if err != nil {
		return nil, err
	}
	payload, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(payload, models.VenueFromForm(form))
}

func (r *venueRepository) Update(ctx context.Context, id string, form models.VenueForm, files VenueFiles) (*models.Venue, error) {
	body, err := venueMultipart(form, files, true)
	if err != nil {
		return nil, err
	}
	req, err := body.Request(http.MethodPut, "/venues/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	payload, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	fallback := models.VenueFromForm(form)
	fallback.ID = id
	return r.decodeOne(payload, fallback)
}

func (r *venueRepository) Delete(ctx context.Context, id string) error {
	_, err := r.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: "/venues/" + url.PathEscape(id)})
	return err
}

func (r *venueRepository) ToggleActive(ctx context.Context, id string) (*bool, error) {
	return r.toggle(ctx, id, "toggle-active", "isActive")
}

func (r *venueRepository) ToggleTopPick(ctx context.Context, id string) (*bool, error) {
	return r.toggle(ctx, id, "toggle-top-pick", "isTopPick")
}

func (r *venueRepository) toggle(ctx context.Context, id, action, field string) (*bool, error) {
	payload, err := r.api.Do(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/venues/%s/%s", url.PathEscape(id), action),
	})
	if err != nil {
		return nil, err
	}
	if v, ok := client.LookupBool(payload, field, "venue"); ok {
		return &v, nil
	}
	return nil, nil
}

func (r *venueRepository) list(ctx context.Context, req client.Request) ([]models.Venue, error) {
	payload, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	venues, err := client.DecodeList[models.Venue](payload, "venues")
	if err != nil {
		r.logger.Error("VenueRepository.list: failed to decode venues", zap.String("path", req.Path), zap.Error(err))
		return nil, fmt.Errorf("failed to decode venues: %w", err)
	}
	for i := range venues {
		r.resolveImages(&venues[i])
	}
	return venues, nil
}

func (r *venueRepository) decodeOne(payload []byte, fallback models.Venue) (*models.Venue, error) {
	venue, err := client.DecodeOne[models.Venue](payload, "venue")
	if err != nil {
		return nil, err
	}
	if venue.ID == "" {
		r.logger.Debug("VenueRepository.decodeOne: reply carried no venue, using the submitted one", zap.String("id", fallback.ID))
		venue = fallback
	}
	r.resolveImages(&venue)
	return &venue, nil
}

func (r *venueRepository) resolveImages(v *models.Venue) {
	v.Thumbnail = models.ResolveImageURL(r.imageBase, v.Thumbnail)
	for i := range v.Images {
		v.Images[i] = models.ResolveImageURL(r.imageBase, v.Images[i])
	}
}

// venueMultipart sends empty optional fields only on update, where they clear
// the stored value.
func venueMultipart(form models.VenueForm, files VenueFiles, update bool) (*client.Multipart, error) {
	schedule, err := json.Marshal(form.PricingSchedule.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to encode pricing schedule: %w", err)
	}

	optional := (*client.Multipart).OptionalField
	if update {
		optional = (*client.Multipart).Field
	}

	body := client.NewMultipart().
		Field("name", form.Name).
		Field("address", form.Address).
		Field("contactPerson", form.ContactPerson).
		Field("contactPhone", form.ContactPhone)
	optional(body, "contactEmail", form.ContactEmail)
	optional(body, "description", form.Description)
	body.Field("seatedCapacity", strconv.Itoa(form.SeatedCapacity)).
		Field("standingCapacity", strconv.Itoa(form.StandingCapacity)).
		Field("zone", form.ZoneID).
		Field("isActive", strconv.FormatBool(form.IsActive)).
		Field("isTopPick", strconv.FormatBool(form.IsTopPick)).
		Field("pricingSchedule", string(schedule))

	if len(files.Thumbnail.Content) > 0 {
		body.File(client.File{Field: "thumbnail", Filename: files.Thumbnail.Filename, Content: files.Thumbnail.Content})
	}
	for _, f := range files.Images {
		body.File(client.File{Field: "images", Filename: f.Filename, Content: f.Content})
	}
	for _, f := range files.Documents {
		body.File(client.File{Field: "documents", Filename: f.Filename, Content: f.Content})
	}
	return body, nil
}
