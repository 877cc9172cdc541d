package renderer

import (
	"html/template"
	"time"

	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/utils/format"
)

func New() *render.Render {
	return render.New(render.Options{
		Layout:     "layout",
		Extensions: []string{".html"},
		Funcs: []template.FuncMap{
			{
				"until": func(count int) []int {
					items := make([]int, count)
					for i := 0; i < count; i++ {
						items[i] = i
					}
					return items
				},
				"add": func(a, b int) int { return a + b },
				"sub": func(a, b int) int { return a - b },
				"min": func(a, b int) int {
					if a < b {
						return a
					}
					return b
				},
				"max": func(a, b int) int {
					if a > b {
						return a
					}
					return b
				},
				"price": format.FormatRubles,
				"date": func(t time.Time) string {
					return t.Format("02.01.2006")
				},
			},
		},
	})
}
