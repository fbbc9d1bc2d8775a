package renderer

import (
	"html/template"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/utils/format"
	"github.com/unrolled/render"
)

func New(directory string, development bool) *render.Render {
	if directory == "" {
		directory = "templates"
	}
	return render.New(render.Options{
		Directory:     directory,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: development,
		Funcs: []template.FuncMap{
			{
				"until": func(count int) []int {
					items := make([]int, count)
					for i := 0; i < count; i++ {
						items[i] = i
					}
					return items
				},
				"dict": func(pairs ...interface{}) map[string]interface{} {
					m := make(map[string]interface{}, len(pairs)/2)
					for i := 0; i+1 < len(pairs); i += 2 {
						if key, ok := pairs[i].(string); ok {
							m[key] = pairs[i+1]
						}
					}
					return m
				},
				"add":    func(a, b int) int { return a + b },
				"sub":    func(a, b int) int { return a - b },
				"rupiah": func(amount interface{}) string { return format.Rupiah(amount) },
				"price": func(p models.Price) string {
					if !p.Valid {
						return "-"
					}
					return format.Rupiah(p.Decimal)
				},
				"lowestPrice": func(s models.PricingSchedule) string {
					if lowest, ok := s.LowestPerDay(); ok {
						return format.Rupiah(lowest)
					}
					return "-"
				},
				"number":   format.Number,
				"yesNo":    format.YesNo,
				"weekdays": func() []string { return models.Weekdays },
				"sessions": func() []string { return models.Sessions },
				"title": func(s string) string {
					if s == "" {
						return ""
					}
					return strings.ToUpper(s[:1]) + s[1:]
				},
				"selected": func(a, b string) template.HTMLAttr {
					if a == b {
						return "selected"
					}
					return ""
				},
				"checked": func(b bool) template.HTMLAttr {
					if b {
						return "checked"
					}
					return ""
				},
			},
		},
	})
}
