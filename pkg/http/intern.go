package http

// String interning for common HTTP tokens read off the wire.
//
// Lookups with a string([]byte) key do not allocate, so known methods,
// versions, and header names come back as shared constants.

var methods = map[string]Method{
	"GET": MethodGet, "HEAD": MethodHead, "POST": MethodPost,
	"PUT": MethodPut, "DELETE": MethodDelete, "CONNECT": MethodConnect,
	"OPTIONS": MethodOptions, "TRACE": MethodTrace, "PATCH": MethodPatch,
}

var versions = map[string]string{
	Version10: Version10,
	Version11: Version11,
	Version20: Version20,
}

var headerNames = map[string]string{
	"Accept":            "Accept",
	"Accept-Encoding":   "Accept-Encoding",
	"Accept-Language":   "Accept-Language",
	"Authorization":     "Authorization",
	"Cache-Control":     "Cache-Control",
	"Connection":        "Connection",
	"Content-Length":    "Content-Length",
	"Content-Type":      "Content-Type",
	"Cookie":            "Cookie",
	"Expect":            "Expect",
	"Host":              "Host",
	"If-Modified-Since": "If-Modified-Since",
	"If-None-Match":     "If-None-Match",
	"Origin":            "Origin",
	"Referer":           "Referer",
	"Transfer-Encoding": "Transfer-Encoding",
	"Upgrade":           "Upgrade",
	"User-Agent":        "User-Agent",
	"X-Forwarded-For":   "X-Forwarded-For",
	"X-Request-ID":      "X-Request-ID",
	"X-Real-IP":         "X-Real-IP",
}

// lookupVersion reports whether b is one of the accepted protocol versions.
func lookupVersion(b string) (string, bool) {
	v, ok := versions[b]
	return v, ok
}

// internHeaderName returns an interned string for known header names.
func internHeaderName(b []byte) string {
	if s, ok := headerNames[string(b)]; ok {
		return s
	}
	return string(b)
}
