package helpers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/sessions"
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyUser      contextKey = "userObject"
	ContextKeyAuth      contextKey = "authContext"
	ContextKeyWorkspace contextKey = "workspace"
)

// Message statuses carried in ?status=. Auth and forbidden render as a
// persistent banner, the others as a flash.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusAuth      = "auth"
	StatusForbidden = "forbidden"
)

func WithUser(ctx context.Context, user *models.UserProfile) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

func UserFromContext(ctx context.Context) (*models.UserProfile, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*models.UserProfile)
	return user, ok && user != nil
}

func WithAuth(ctx context.Context, auth *sessions.AuthContext) context.Context {
	return context.WithValue(ctx, ContextKeyAuth, auth)
}

func AuthFromContext(ctx context.Context) (*sessions.AuthContext, bool) {
	auth, ok := ctx.Value(ContextKeyAuth).(*sessions.AuthContext)
	return auth, ok && auth != nil
}

func WithWorkspace(ctx context.Context, ws *services.Workspace) context.Context {
	return context.WithValue(ctx, ContextKeyWorkspace, ws)
}

// WorkspaceFromContext falls back to a throwaway workspace so handlers never
// deal with a nil one.
func WorkspaceFromContext(ctx context.Context) *services.Workspace {
	if ws, ok := ctx.Value(ContextKeyWorkspace).(*services.Workspace); ok && ws != nil {
		return ws
	}
	return services.NewWorkspace()
}

// MessageURL appends the status/message pair the pages read back.
func MessageURL(path, status, message string) string {
	if message == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sstatus=%s&message=%s", path, sep, url.QueryEscape(status), url.QueryEscape(message))
}

func RedirectWithMessage(w http.ResponseWriter, r *http.Request, path, status, message string) {
	http.Redirect(w, r, MessageURL(path, status, message), http.StatusSeeOther)
}

// NewValidator reports fields by their form name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		label := capitalizeFirstLetter(field)
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s wajib diisi.", label)
		case "email":
			errorMessages[field] = fmt.Sprintf("%s harus berupa alamat email yang valid.", label)
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s harus berupa angka.", label)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s minimal %s karakter/nilai.", label, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s maksimal %s karakter/nilai.", label, err.Param())
		case "gte":
			errorMessages[field] = fmt.Sprintf("%s tidak boleh kurang dari %s.", label, err.Param())
		case "mongodb":
			errorMessages[field] = fmt.Sprintf("%s harus berupa ID yang valid.", label)
		case "latitude", "longitude":
			errorMessages[field] = fmt.Sprintf("%s bukan koordinat yang valid.", label)
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s harus salah satu dari: %s.", label, err.Param())
		case "nefield":
			errorMessages[field] = fmt.Sprintf("%s tidak boleh sama dengan kategori itu sendiri.", label)
		default:
			errorMessages[field] = fmt.Sprintf("Validasi %s gagal pada field %s.", err.Tag(), label)
		}
	}
	return errorMessages
}

// ValidateStruct runs v and returns the formatted errors, nil when valid.
func ValidateStruct(v *validator.Validate, s interface{}) map[string]string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		return FormatValidationErrors(errs)
	}
	return map[string]string{"form": err.Error()}
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// WantsJSON is true for the fetch calls made by the toggle switches.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
