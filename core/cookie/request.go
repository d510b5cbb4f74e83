package cookie

import (
	"net/http"
	"strings"
)

// Mirror makes name=value visible to later reads of r's cookies,
// replacing any cookie with the same name.
func Mirror(r *http.Request, name, value string) {
	rewrite(r, name, &http.Cookie{Name: name, Value: value})
}

// Forget removes the named cookie from r's cookie view.
func Forget(r *http.Request, name string) {
	rewrite(r, name, nil)
}

func rewrite(r *http.Request, name string, replacement *http.Cookie) {
	if r == nil {
		return
	}

	existing := r.Cookies()
	parts := make([]string, 0, len(existing)+1)
	for _, c := range existing {
		if c.Name == name {
			continue
		}
		parts = append(parts, (&http.Cookie{Name: c.Name, Value: c.Value}).String())
	}
	if replacement != nil {
		parts = append(parts, replacement.String())
	}

	if len(parts) == 0 {
		r.Header.Del("Cookie")
		return
	}
	r.Header.Set("Cookie", strings.Join(parts, "; "))
}
