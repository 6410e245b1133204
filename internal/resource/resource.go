// Package resource defines the proxied resources: where each one lives on
// its backend, the JSON schema both live and fallback payloads share, and the
// fallback provider used when the backend cannot answer.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrSchemaMismatch is returned when a 2xx backend body does not decode into
// the resource schema or lacks one of its required top-level keys.
var ErrSchemaMismatch = errors.New("backend body does not match resource schema")

// ErrInvalidID is returned for item identifiers that cannot name a single
// path segment.
var ErrInvalidID = errors.New("invalid item identifier")

// Descriptor is the static routing information of a resource.
type Descriptor struct {
	// Name is the resource key, e.g. "wagtail/media".
	Name string
	// Route is the inbound echo path.
	Route string
	// Backend names the owning service (see config.Backend*).
	Backend string
	// Path is the collection path on the backend.
	Path string
	// Methods lists the HTTP methods served for this resource.
	Methods []string
	// IDParam is the query parameter identifying the item to delete.
	IDParam string
	// IDRequiredMessage is the 400 error text when IDParam is missing.
	IDRequiredMessage string
}

// Allows reports whether method is served for the resource.
func (d Descriptor) Allows(method string) bool {
	for _, m := range d.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// CheckID rejects identifiers that would escape the collection path.
func CheckID(id string) error {
	if id == "." || id == ".." || strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// ItemPath returns the unescaped backend path of a single item, keeping the
// collection path's trailing-slash convention. id must pass CheckID.
func (d Descriptor) ItemPath(id string) string {
	trailing := strings.HasSuffix(d.Path, "/")
	p := strings.TrimSuffix(d.Path, "/") + "/" + id
	if trailing {
		p += "/"
	}
	return p
}

// Resource is a proxied resource with its schema and fallback provider.
type Resource interface {
	Describe() Descriptor
	// Fallback returns the substitute payload for a failed read. It is a pure
	// function of the request parameters.
	Fallback(p Params) any
	// HasFallback reports whether the resource serves reads.
	HasFallback() bool
	// Validate checks that a backend body satisfies the resource schema.
	Validate(body []byte) error
}

// typed binds a descriptor to the schema type T. The fallback provider
// returns T, so live and fallback payloads cannot drift apart silently.
type typed[T any] struct {
	desc     Descriptor
	fallback func(Params) T
	required []string
}

// New creates a Resource whose schema is T. fallback may be nil for
// write-only resources.
func New[T any](d Descriptor, fallback func(Params) T) Resource {
	return &typed[T]{
		desc:     d,
		fallback: fallback,
		required: requiredKeys(reflect.TypeFor[T]()),
	}
}

// requiredKeys lists the JSON names of t's exported fields that are not
// marked omitempty.
func requiredKeys(t reflect.Type) []string {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(opts, "omitempty") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}

func (r *typed[T]) Describe() Descriptor { return r.desc }

func (r *typed[T]) HasFallback() bool { return r.fallback != nil }

func (r *typed[T]) Fallback(p Params) any {
	if r.fallback == nil {
		return nil
	}
	return r.fallback(p)
}

func (r *typed[T]) Validate(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: %s: expected a JSON object", ErrSchemaMismatch, r.desc.Name)
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, r.desc.Name, err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, r.desc.Name, err)
	}
	for _, k := range r.required {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("%w: %s: missing key %q", ErrSchemaMismatch, r.desc.Name, k)
		}
	}
	return nil
}

// Catalog returns every proxied resource.
func Catalog() []Resource {
	return []Resource{
		Media,
		Pages,
		Products,
		Orders,
		Leads,
		Agents,
		AgentTasks,
		DashboardStats,
		SQLTables,
		CrossPlatformMetrics,
	}
}

// Lookup returns the resource with the given name.
func Lookup(name string) (Resource, bool) {
	for _, r := range Catalog() {
		if r.Describe().Name == name {
			return r, true
		}
	}
	return nil, false
}

// brainRoute is the inbound path prefix for backend resources.
func brainRoute(name string) string {
	return "/api/brain/" + name
}

