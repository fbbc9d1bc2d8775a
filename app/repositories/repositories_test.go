package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAPI struct {
	requests []client.Request
	payload  string
	err      error
}

func (a *recordingAPI) Do(_ context.Context, req client.Request) (json.RawMessage, error) {
	a.requests = append(a.requests, req)
	if a.err != nil {
		return nil, a.err
	}
	return json.RawMessage(a.payload), nil
}

func (a *recordingAPI) last(t *testing.T) client.Request {
	t.Helper()
	require.NotEmpty(t, a.requests)
	return a.requests[len(a.requests)-1]
}

// multipartFields parses a recorded multipart body into form values and
// file names per field.
func multipartFields(t *testing.T, req client.Request) (map[string]string, map[string][]string) {
	t.Helper()
	_, params, err := mime.ParseMediaType(req.ContentType)
	require.NoError(t, err)

	values := map[string]string{}
	files := map[string][]string{}
	mr := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			files[part.FormName()] = append(files[part.FormName()], part.FileName())
			continue
		}
		values[part.FormName()] = string(content)
	}
	return values, files
}

func TestCategoryGetAll(t *testing.T) {
	api := &recordingAPI{payload: `{"data":{"categories":[
		{"_id":"r1","title":"Indoor","module":"m1","image":"uploads/r1.png"},
		{"_id":"c1","name":"Ballroom","module":{"_id":"m1"},"parentCategory":"r1","isActive":false}
	]}}`}
	repo := NewCategoryRepository(api, "http://img.local", zap.NewNop())

	got, err := repo.GetAll(context.Background(), CategoryQuery{Search: "ball", Module: "all"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "http://img.local/uploads/r1.png", got[0].Image)
	assert.True(t, got[0].IsActive)
	assert.Equal(t, "r1", got[1].Parent())
	assert.False(t, got[1].IsActive)

	req := api.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/categories", req.Path)
	assert.Equal(t, "ball", req.Query.Get("search"))
	assert.False(t, req.Query.Has("module"), "the all sentinel is not sent")
}

func TestCategoryCreateRequiresImage(t *testing.T) {
	api := &recordingAPI{}
	repo := NewCategoryRepository(api, "", zap.NewNop())

	_, err := repo.Create(context.Background(), models.CategoryForm{Title: "Indoor"}, client.File{})
	require.Error(t, err)
	assert.Equal(t, client.KindValidation, client.KindOf(err))
	assert.Empty(t, api.requests)
}

func TestCategoryCreateMultipart(t *testing.T) {
	api := &recordingAPI{payload: `{"category":{"_id":"n1","title":"Indoor","module":"m1"}}`}
	repo := NewCategoryRepository(api, "", zap.NewNop())

	form := models.CategoryForm{Title: "Indoor", ModuleID: "m1", DisplayOrder: 2, IsActive: true, CreatedBy: "u1"}
	created, err := repo.Create(context.Background(), form, client.File{Filename: "a.png", Content: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "n1", created.ID)

	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	values, files := multipartFields(t, req)
	assert.Equal(t, "Indoor", values["title"])
	assert.Equal(t, "m1", values["module"])
	assert.Equal(t, "2", values["displayOrder"])
	assert.Equal(t, "true", values["isActive"])
	assert.Equal(t, "u1", values["createdBy"])
	assert.NotContains(t, values, "parentCategory")
	assert.Equal(t, []string{"a.png"}, files["image"])
}

func TestCategoryUpdateKeepsImage(t *testing.T) {
	api := &recordingAPI{payload: `{"_id":"c1","title":"Indoor"}`}
	repo := NewCategoryRepository(api, "", zap.NewNop())

	_, err := repo.Update(context.Background(), "c1", models.CategoryForm{Title: "Indoor", ModuleID: "m1"}, client.File{})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/categories/c1", req.Path)
	_, files := multipartFields(t, req)
	assert.Empty(t, files)
}

func TestCategoryUpdateClearsParent(t *testing.T) {
	api := &recordingAPI{payload: `{"_id":"c1","title":"Indoor"}`}
	repo := NewCategoryRepository(api, "", zap.NewNop())

	_, err := repo.Update(context.Background(), "c1", models.CategoryForm{Title: "Indoor", ModuleID: "m1"}, client.File{})
	require.NoError(t, err)

	values, _ := multipartFields(t, api.last(t))
	for _, field := range []string{"parentCategory", "description", "metaTitle", "metaDescription"} {
		got, ok := values[field]
		assert.True(t, ok, field)
		assert.Empty(t, got, field)
	}
}

func TestCategoryWriteWithoutRecord(t *testing.T) {
	api := &recordingAPI{payload: `{"success":true,"message":"Category updated"}`}
	repo := NewCategoryRepository(api, "http://img.local", zap.NewNop())
	form := models.CategoryForm{Title: "Outdoor", ModuleID: "m1", ParentID: "p1", ExistingImage: "c.png"}

	updated, err := repo.Update(context.Background(), "c1", form, client.File{})
	require.NoError(t, err)
	assert.Equal(t, "c1", updated.ID)
	assert.Equal(t, "Outdoor", updated.Title)
	assert.Equal(t, "p1", updated.Parent())
	assert.Equal(t, "http://img.local/c.png", updated.Image)

	created, err := repo.Create(context.Background(), form, client.File{Filename: "c.png", Content: []byte("png")})
	require.NoError(t, err)
	assert.Empty(t, created.ID)
	assert.Equal(t, "Outdoor", created.Title)

	_, err = repo.GetByID(context.Background(), "c1")
	assert.Error(t, err)
}

func TestCategoryStatus(t *testing.T) {
	api := &recordingAPI{payload: `{"data":{"category":{"_id":"c1","isActive":false}}}`}
	repo := NewCategoryRepository(api, "", zap.NewNop())

	v, err := repo.Block(context.Background(), "c1", "u1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)
	assert.Equal(t, "/categories/c1/block", api.last(t).Path)
	assert.Equal(t, map[string]string{"updatedBy": "u1"}, api.last(t).JSON)

	api.payload = `{"message":"ok"}`
	v, err = repo.Reactivate(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.Nil(t, v, "no status in the reply")
	assert.Equal(t, "/categories/c1/reactivate", api.last(t).Path)
}

func TestVenueRepository(t *testing.T) {
	api := &recordingAPI{payload: `[{"_id":"v1","venueName":"Aula","thumbnail":"t.png","images":["a.png","https://x.io/b.png"]}]`}
	repo := NewVenueRepository(api, "http://img.local", zap.NewNop())

	t.Run("zone filter", func(t *testing.T) {
		venues, err := repo.GetAll(context.Background(), "z1")
		require.NoError(t, err)
		require.Len(t, venues, 1)
		assert.Equal(t, "http://img.local/t.png", venues[0].Thumbnail)
		assert.Equal(t, []string{"http://img.local/a.png", "https://x.io/b.png"}, venues[0].Images)
		assert.Equal(t, "z1", api.last(t).Query.Get("zone"))
	})

	t.Run("all zones", func(t *testing.T) {
		_, err := repo.GetAll(context.Background(), "all")
		require.NoError(t, err)
		assert.False(t, api.last(t).Query.Has("zone"))
	})

	t.Run("top picks", func(t *testing.T) {
		_, err := repo.GetTopPicks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/venues/top-picks", api.last(t).Path)
	})

	t.Run("toggle reads the venue key", func(t *testing.T) {
		api.payload = `{"success":true,"venue":{"_id":"v1","isTopPick":true}}`
		v, err := repo.ToggleTopPick(context.Background(), "v1")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.True(t, *v)
		assert.Equal(t, http.MethodPatch, api.last(t).Method)
		assert.Equal(t, "/venues/v1/toggle-top-pick", api.last(t).Path)
	})

	t.Run("errors pass through", func(t *testing.T) {
		api.err = client.NewUnauthenticatedError()
		_, err := repo.ToggleActive(context.Background(), "v1")
		assert.True(t, client.IsAuthFailure(err))
		api.err = nil
	})
}

func TestVenueCreateSendsSchedule(t *testing.T) {
	api := &recordingAPI{payload: `{"venue":{"_id":"v1"}}`}
	repo := NewVenueRepository(api, "", zap.NewNop())

	schedule := models.PricingSchedule{}
	schedule.Set("monday", "morning", models.Slot{StartTime: "08:00", EndTime: "12:00"})
	form := models.VenueForm{Name: "Aula", ZoneID: "z1", SeatedCapacity: 100, PricingSchedule: schedule}
	files := VenueFiles{
		Thumbnail: client.File{Filename: "t.png", Content: []byte("t")},
		Images:    []client.File{{Filename: "1.png", Content: []byte("1")}, {Filename: "2.png", Content: []byte("2")}},
	}

	_, err := repo.Create(context.Background(), form, files)
	require.NoError(t, err)

	values, got := multipartFields(t, api.last(t))
	assert.Equal(t, "100", values["seatedCapacity"])
	assert.Equal(t, []string{"t.png"}, got["thumbnail"])
	assert.Equal(t, []string{"1.png", "2.png"}, got["images"])

	var sent models.PricingSchedule
	require.NoError(t, json.Unmarshal([]byte(values["pricingSchedule"]), &sent))
	assert.Len(t, sent, 7)
	assert.Equal(t, "08:00", sent.Day("monday").Morning.StartTime)
}

func TestVenueUpdateClearsOptionalFields(t *testing.T) {
	api := &recordingAPI{payload: `{"message":"Venue updated"}`}
	repo := NewVenueRepository(api, "", zap.NewNop())
	form := models.VenueForm{Name: "Aula", ZoneID: "z1", SeatedCapacity: 50}

	venue, err := repo.Update(context.Background(), "v1", form, VenueFiles{})
	require.NoError(t, err)
	assert.Equal(t, "v1", venue.ID)
	assert.Equal(t, "Aula", venue.Name)
	assert.Equal(t, "z1", venue.Zone.ID)

	req := api.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	values, _ := multipartFields(t, req)
	for _, field := range []string{"description", "contactEmail"} {
		got, ok := values[field]
		assert.True(t, ok, field)
		assert.Empty(t, got, field)
	}

	_, err = repo.Create(context.Background(), form, VenueFiles{Thumbnail: client.File{Filename: "t.png", Content: []byte("t")}})
	require.NoError(t, err)
	values, _ = multipartFields(t, api.last(t))
	assert.NotContains(t, values, "description")
}

func TestAuthLogin(t *testing.T) {
	api := &recordingAPI{payload: `{"data":{"token":"tok","user":{"_id":"u1","role":"admin"}}}`}
	repo := NewAuthRepository(api)

	result, err := repo.Login(context.Background(), models.LoginForm{Email: "a@b.io", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, "/auth/login", api.last(t).Path)

	api.payload = `{"data":{"user":{"_id":"u1"}}}`
	_, err = repo.Login(context.Background(), models.LoginForm{Email: "a@b.io", Password: "secret"})
	assert.Error(t, err)
}

func TestAuthRegisterProvider(t *testing.T) {
	api := &recordingAPI{payload: `{"message":"ok"}`}
	repo := NewAuthRepository(api)

	form := models.ProviderForm{
		BusinessName: "Gedung Serbaguna", ContactPerson: "Budi", Email: "b@x.io", Phone: "081234567890",
		Password: "secret1", ModuleID: "m1", ZoneID: "z1", Address: "Jl. Merdeka 1", Role: models.RoleVendor,
	}
	err := repo.RegisterProvider(context.Background(), form, ProviderFiles{
		Logo:      client.File{Filename: "logo.png", Content: []byte("l")},
		Documents: []client.File{{Filename: "ktp.pdf", Content: []byte("d")}},
	})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, "/auth/register", req.Path)
	values, files := multipartFields(t, req)
	assert.Equal(t, "Gedung Serbaguna", values["businessName"])
	assert.Equal(t, "Budi", values["name"])
	assert.Equal(t, "vendor", values["role"])
	assert.NotContains(t, values, "latitude")
	assert.Equal(t, []string{"logo.png"}, files["logo"])
	assert.Equal(t, []string{"ktp.pdf"}, files["documents"])
}
