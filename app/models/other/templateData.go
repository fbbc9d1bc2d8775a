package other

import (
	"html/template"
	"net/url"

	"github.com/Rakhulsr/venue-admin/app/utils/breadcrumb"
)

type UserForTemplate struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Banner is a persistent notice with an action, used for auth and permission
// failures instead of a dismissible flash.
type Banner struct {
	Kind        string
	Message     string
	ActionURL   string
	ActionLabel string
}

type BasePageData struct {
	Title         string
	IsLoggedIn    bool
	User          *UserForTemplate
	UserID        string
	CSRFField     template.HTML
	CSRFToken     string
	Message       string
	MessageStatus string
	Banner        *Banner
	Query         url.Values
	Breadcrumbs   []breadcrumb.Breadcrumb
	IsAuthPage    bool
	IsAdminPage   bool
	CurrentPath   string
	IsAdminRoute  bool
}
