package capture

import (
	"mime"
	"strings"

	"golang.org/x/text/cases"
)

// routeSet matches request paths against route prefixes segment by segment,
// ignoring case: "/health" covers "/health" and "/health/live" but not
// "/healthz".
type routeSet []string

func newRouteSet(routes []string) routeSet {
	caser := cases.Fold()
	out := make(routeSet, 0, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, "/") {
			r = "/" + r
		}
		if len(r) > 1 {
			r = strings.TrimRight(r, "/")
		}
		out = append(out, caser.String(r))
	}
	return out
}

func (s routeSet) matches(path string) bool {
	if len(s) == 0 {
		return false
	}
	if path == "" {
		path = "/"
	}
	folded := cases.Fold().String(path)
	for _, prefix := range s {
		if prefix == "/" {
			return true
		}
		if !strings.HasPrefix(folded, prefix) {
			continue
		}
		if len(folded) == len(prefix) || folded[len(prefix)] == '/' {
			return true
		}
	}
	return false
}

// isJSONContentType accepts application/json and any +json suffix type.
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	mediaType = strings.ToLower(mediaType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
