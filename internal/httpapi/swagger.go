//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "neuttsd/docs"
)

// MountSwagger serves the generated OpenAPI docs under /docs.
func MountSwagger(r chi.Router) {
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
}
