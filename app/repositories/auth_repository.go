package repositories

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/models"
)

type ProviderFiles struct {
	Logo      client.File
	Documents []client.File
}

// AuthRepositoryImpl covers the unauthenticated auth endpoints: admin login
// and provider onboarding.
type AuthRepositoryImpl interface {
	Login(ctx context.Context, form models.LoginForm) (*models.LoginResult, error)
	RegisterProvider(ctx context.Context, form models.ProviderForm, files ProviderFiles) error
}

type authRepository struct {
	api client.API
}

func NewAuthRepository(api client.API) AuthRepositoryImpl {
	return &authRepository{api: api}
}

func (r *authRepository) Login(ctx context.Context, form models.LoginForm) (*models.LoginResult, error) {
	payload, err := r.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		JSON:   map[string]string{"email": form.Email, "password": form.Password},
	})
	if err != nil {
		return nil, err
	}

	result, err := client.DecodeOne[models.LoginResult](payload)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, errors.New("login response did not contain a token")
	}
	return &result, nil
}

func (r *authRepository) RegisterProvider(ctx context.Context, form models.ProviderForm, files ProviderFiles) error {
	body := client.NewMultipart().
		Field("businessName", form.BusinessName).
		Field("name", form.ContactPerson).
		Field("email", form.Email).
		Field("phone", form.Phone).
		Field("password", form.Password).
		Field("role", form.Role).
		Field("module", form.ModuleID).
		Field("zone", form.ZoneID).
		Field("address", form.Address).
		OptionalField("latitude", form.Latitude).
		OptionalField("longitude", form.Longitude)

	if len(files.Logo.Content) > 0 {
		body.File(client.File{Field: "logo", Filename: files.Logo.Filename, Content: files.Logo.Content})
	}
	for _, f := range files.Documents {
		body.File(client.File{Field: "documents", Filename: f.Filename, Content: f.Content})
	}

	req, err := body.Request(http.MethodPost, "/auth/register")
	if err != nil {
		return err
	}
	_, err = r.api.Do(ctx, req)
	return err
}
