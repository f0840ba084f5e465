package chi

import (
	"context"
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type viewerKey struct{}

// ViewInternal reports whether the request was made by an editor.
func ViewInternal(ctx context.Context) bool {
	v, _ := ctx.Value(viewerKey{}).(bool)
	return v
}

// WithViewInternal marks a context as belonging to an editor.
func WithViewInternal(ctx context.Context, internal bool) context.Context {
	return context.WithValue(ctx, viewerKey{}, internal)
}

// ViewerMiddleware resolves the caller's visibility level. Requests without an
// Authorization header are public; a known editor key unlocks internal search;
// anything else is rejected.
func ViewerMiddleware(editorKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(editorKeys))
	for _, k := range editorKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r.WithContext(WithViewInternal(r.Context(), false)))
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			if _, ok := validKeys[auth[len(bearerPrefix):]]; !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewInternal(r.Context(), true)))
		})
	}
}
