package internal

import "strings"

// ExtractorSource reads a value from the request.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := strings.TrimSpace(c.Header(name))
		return v, v != ""
	}
}

// FromQuery reads a query string parameter.
func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Query(name)
		return v, v != ""
	}
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
func FromBearerToken() ExtractorSource {
	return func(c Context) (string, bool) {
		auth := c.Header("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		token := strings.TrimSpace(auth[7:])
		return token, token != ""
	}
}

// ContextValue returns the value stored under key, or the zero value of T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}
