package tracelog

import (
	"context"
	"net/http"
	"path"
)

// HomePage is the page identifier recorded for the storefront home page.
const HomePage = "index-home"

// MainPageParam is the query parameter naming the requested page.
const MainPageParam = "main_page"

type pageKey struct{}

// WithPage returns a context carrying the page identifier written on trace lines.
func WithPage(ctx context.Context, page string) context.Context {
	return context.WithValue(ctx, pageKey{}, page)
}

// PageFrom extracts the page identifier from ctx, or "" if none is set.
func PageFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if page, ok := ctx.Value(pageKey{}).(string); ok {
		return page
	}
	return ""
}

// PageOptions controls how a request maps to a page identifier.
type PageOptions struct {
	// Admin marks requests served by the admin area, identified by script name.
	Admin bool
	// IsHome reports whether the request is for the home page.
	// Defaults to "path is / and no main_page parameter".
	IsHome func(r *http.Request) bool
}

// ResolvePage derives the page identifier for r: the home page is
// "index-home", admin requests use the base name of the request path and
// everything else uses the main_page query parameter.
func ResolvePage(r *http.Request, opts PageOptions) string {
	isHome := opts.IsHome
	if isHome == nil {
		isHome = defaultIsHome
	}

	switch {
	case isHome(r):
		return HomePage
	case opts.Admin:
		base := path.Base(r.URL.Path)
		if base == "/" || base == "." {
			return ""
		}
		return base
	default:
		return r.URL.Query().Get(MainPageParam)
	}
}

func defaultIsHome(r *http.Request) bool {
	return (r.URL.Path == "" || r.URL.Path == "/") && r.URL.Query().Get(MainPageParam) == ""
}

// PageMiddleware stores the resolved page identifier in each request context.
func PageMiddleware(opts PageOptions, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithPage(r.Context(), ResolvePage(r, opts))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
