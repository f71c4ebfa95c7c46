package models

import (
	"time"

	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// Record is a resource held by the sandbox service.
type Record struct {
	Type          string
	ID            string
	Attributes    map[string]any
	Relationships map[string]jsonapi.Relationship
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Resource renders the record as a JSON:API resource object.
func (r Record) Resource() jsonapi.Resource {
	attrs := make(map[string]any, len(r.Attributes)+2)
	for k, v := range r.Attributes {
		attrs[k] = v
	}
	attrs["created-at"] = r.CreatedAt.UTC().Format(time.RFC3339)
	attrs["updated-at"] = r.UpdatedAt.UTC().Format(time.RFC3339)

	rels := make(map[string]jsonapi.Relationship, len(r.Relationships))
	for k, v := range r.Relationships {
		rels[k] = v
	}
	return jsonapi.Resource{
		Type:          r.Type,
		ID:            r.ID,
		Attributes:    attrs,
		Relationships: rels,
	}
}

// Clone copies the maps so callers cannot mutate stored state.
func (r Record) Clone() Record {
	out := r
	out.Attributes = make(map[string]any, len(r.Attributes))
	for k, v := range r.Attributes {
		out.Attributes[k] = v
	}
	out.Relationships = make(map[string]jsonapi.Relationship, len(r.Relationships))
	for k, v := range r.Relationships {
		out.Relationships[k] = v
	}
	return out
}
