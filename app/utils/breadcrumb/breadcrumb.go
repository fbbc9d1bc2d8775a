package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}

// Admin prefixes items with the console's home and admin crumbs.
func Admin(items ...Breadcrumb) []Breadcrumb {
	out := make([]Breadcrumb, 0, len(items)+2)
	out = append(out,
		Breadcrumb{Name: "Beranda", URL: "/"},
		Breadcrumb{Name: "Admin", URL: "/admin/dashboard"},
	)
	return append(out, items...)
}

// Last is the crumb of the current page.
func Last(crumbs []Breadcrumb) (Breadcrumb, bool) {
	if len(crumbs) == 0 {
		return Breadcrumb{}, false
	}
	return crumbs[len(crumbs)-1], true
}
