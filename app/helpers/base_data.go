package helpers

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/models/other"
	"github.com/gorilla/csrf"
)

// PopulateBase fills the shared page fields from the request: the signed in
// user, CSRF field, query and the status/message pair.
func PopulateBase(r *http.Request, base *other.BasePageData) {
	if base.Title == "" {
		base.Title = "Venue Admin"
	}
	base.Query = r.URL.Query()
	base.CurrentPath = r.URL.Path
	base.IsAdminRoute = strings.HasPrefix(r.URL.Path, "/admin/")
	base.CSRFField = csrf.TemplateField(r)
	base.CSRFToken = csrf.Token(r)

	if user, ok := UserFromContext(r.Context()); ok {
		base.User = &other.UserForTemplate{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		}
		base.IsLoggedIn = true
		base.UserID = user.ID
		base.IsAdminPage = user.IsAdmin()
	}

	status := r.URL.Query().Get("status")
	message := r.URL.Query().Get("message")
	switch status {
	case StatusAuth:
		base.Banner = &other.Banner{Kind: StatusAuth, Message: message, ActionURL: "/login", ActionLabel: "Login"}
	case StatusForbidden:
		base.Banner = &other.Banner{Kind: StatusForbidden, Message: message, ActionURL: "/admin/dashboard", ActionLabel: "Kembali ke Dashboard"}
		if !base.IsAdminPage {
			base.Banner.ActionURL = "/login"
			base.Banner.ActionLabel = "Login dengan akun lain"
		}
	default:
		// a message set by the handler wins over the query
		if base.Message == "" {
			base.Message = message
			base.MessageStatus = status
		}
	}
}
