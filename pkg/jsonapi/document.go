package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaType is the JSON:API content type used for requests and responses.
const MediaType = "application/vnd.api+json"

type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship keeps its linkage raw because it is either a single
// identifier, an array of identifiers or null.
type Relationship struct {
	Data json.RawMessage `json:"data"`
}

func ToOne(ri ResourceIdentifier) Relationship {
	b, _ := json.Marshal(ri)
	return Relationship{Data: b}
}

func ToMany(ris []ResourceIdentifier) Relationship {
	if ris == nil {
		ris = []ResourceIdentifier{}
	}
	b, _ := json.Marshal(ris)
	return Relationship{Data: b}
}

// Null clears a to-one relationship on update.
func Null() Relationship {
	return Relationship{Data: json.RawMessage("null")}
}

func (r Relationship) IsMany() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// One returns the linked identifier; false for null, empty or to-many linkage.
func (r Relationship) One() (ResourceIdentifier, bool) {
	var ri ResourceIdentifier
	trimmed := bytes.TrimSpace(r.Data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ri, false
	}
	if err := json.Unmarshal(trimmed, &ri); err != nil || ri.ID == "" {
		return ri, false
	}
	return ri, true
}

func (r Relationship) Many() ([]ResourceIdentifier, bool) {
	if !r.IsMany() {
		return nil, false
	}
	var ris []ResourceIdentifier
	if err := json.Unmarshal(r.Data, &ris); err != nil {
		return nil, false
	}
	return ris, true
}

type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

type ErrorObject struct {
	Status string       `json:"status,omitempty"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

func (e ErrorObject) String() string {
	switch {
	case e.Title != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	case e.Detail != "":
		return e.Detail
	default:
		return e.Title
	}
}

type Document struct {
	Data     json.RawMessage `json:"data,omitempty"`
	Included []Resource      `json:"included,omitempty"`
	Errors   []ErrorObject   `json:"errors,omitempty"`
	Meta     map[string]any  `json:"meta,omitempty"`
}

func NewDocument(r Resource) (*Document, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return &Document{Data: b}, nil
}

func NewListDocument(rs []Resource, meta map[string]any) (*Document, error) {
	if rs == nil {
		rs = []Resource{}
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return nil, err
	}
	return &Document{Data: b, Meta: meta}, nil
}

func NewErrorDocument(errs ...ErrorObject) *Document {
	return &Document{Errors: errs}
}

// One decodes primary data holding a single resource.
func (d *Document) One() (*Resource, error) {
	trimmed := bytes.TrimSpace(d.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("document has no primary data")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("primary data is not a single resource")
	}
	var r Resource
	if err := Decode(trimmed, &r); err != nil {
		return nil, fmt.Errorf("failed to decode resource: %w", err)
	}
	return &r, nil
}

// Many decodes primary data holding a resource collection.
func (d *Document) Many() ([]Resource, error) {
	trimmed := bytes.TrimSpace(d.Data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("primary data is not a collection")
	}
	var rs []Resource
	if err := Decode(trimmed, &rs); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return rs, nil
}

// Decode unmarshals keeping numbers as json.Number so ids and counts
// survive a round trip unchanged.
func Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
