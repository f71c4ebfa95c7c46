package catalog

import (
	"fmt"
	"strings"

	"github.com/xbe-inc/xbe-integration/internal/util"
)

type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindNumber Kind = "number"
	// KindList is a comma separated list of strings.
	KindList Kind = "list"
)

func (k Kind) valid() bool {
	switch k {
	case KindString, KindBool, KindInt, KindNumber, KindList:
		return true
	default:
		return false
	}
}

// Attribute is a JSON:API attribute and the CLI flag that sets it.
type Attribute struct {
	Name string `yaml:"name"`
	// Flag defaults to Name.
	Flag string   `yaml:"flag,omitempty"`
	Kind Kind     `yaml:"kind,omitempty"`
	Enum []string `yaml:"enum,omitempty"`
}

// Relationship is a JSON:API relationship and the CLI flag that sets it.
// Polymorphic relationships take "Type|ID" on the command line.
type Relationship struct {
	Name        string `yaml:"name"`
	Flag        string `yaml:"flag,omitempty"`
	Target      string `yaml:"target,omitempty"`
	Polymorphic bool   `yaml:"polymorphic,omitempty"`
	Many        bool   `yaml:"many,omitempty"`
}

// Filter is a list flag and the filter[...] parameter it maps to.
type Filter struct {
	Flag string `yaml:"flag"`
	// Name defaults to Flag.
	Name string `yaml:"filter,omitempty"`
}

// Fixture is a prerequisite record. It is taken from Seed when that
// XBE_TEST_* variable is set, otherwise created through Resource.
type Fixture struct {
	Name     string            `yaml:"name"`
	Resource string            `yaml:"resource,omitempty"`
	Seed     string            `yaml:"seed,omitempty"`
	Values   map[string]string `yaml:"values,omitempty"`
}

// Create, Update and List hold flag names as keys. Values are templates.
type Create struct {
	Required []string          `yaml:"required,omitempty"`
	Values   map[string]string `yaml:"values,omitempty"`
}

type Update struct {
	Values map[string]string `yaml:"values,omitempty"`
	// Expect maps a JSON path of the update output to its expected value.
	Expect map[string]string `yaml:"expect,omitempty"`
}

type List struct {
	Filters map[string]string `yaml:"filters,omitempty"`
	Sort    string            `yaml:"sort,omitempty"`
	// MatchCreated names filters whose results must contain the created record.
	MatchCreated []string `yaml:"match_created,omitempty"`
}

type Resource struct {
	Name          string         `yaml:"resource"`
	Type          string         `yaml:"type,omitempty"`
	Path          string         `yaml:"path,omitempty"`
	Describe      string         `yaml:"describe,omitempty"`
	Attributes    []Attribute    `yaml:"attributes,omitempty"`
	Relationships []Relationship `yaml:"relationships,omitempty"`
	Filters       []Filter       `yaml:"filters,omitempty"`
	Create        Create         `yaml:"create,omitempty"`
	Update        Update         `yaml:"update,omitempty"`
	List          List           `yaml:"list,omitempty"`
	Fixtures      []Fixture      `yaml:"fixtures,omitempty"`
	RequiresSeeds []string       `yaml:"requires_seeds,omitempty"`
	Delete        bool           `yaml:"delete,omitempty"`
	Tolerate      []string       `yaml:"tolerate,omitempty"`
	Eventual      bool           `yaml:"eventual,omitempty"`
}

// applyDefaults fills the optional members derived from Name.
func (r *Resource) applyDefaults() {
	if r.Type == "" {
		r.Type = r.Name
	}
	if r.Path == "" {
		r.Path = "/v1/" + r.Type
	}
	if r.Describe == "" {
		r.Describe = "Resource: " + r.Name
	}
	for i := range r.Attributes {
		if r.Attributes[i].Flag == "" {
			r.Attributes[i].Flag = r.Attributes[i].Name
		}
		if r.Attributes[i].Kind == "" {
			r.Attributes[i].Kind = KindString
		}
	}
	for i := range r.Relationships {
		if r.Relationships[i].Flag == "" {
			r.Relationships[i].Flag = r.Relationships[i].Name
		}
	}
	for i := range r.Filters {
		if r.Filters[i].Name == "" {
			r.Filters[i].Name = r.Filters[i].Flag
		}
	}
}

// Singular is the human name used in messages: "material-sites" -> "material site".
func (r *Resource) Singular() string {
	return strings.ReplaceAll(util.Singularize(r.Name), "-", " ")
}

func (r *Resource) ClassName() string {
	return util.ClassName(r.Type)
}

func (r *Resource) AttributeByFlag(flag string) (*Attribute, bool) {
	for i := range r.Attributes {
		if r.Attributes[i].Flag == flag {
			return &r.Attributes[i], true
		}
	}
	return nil, false
}

func (r *Resource) AttributeByName(name string) (*Attribute, bool) {
	for i := range r.Attributes {
		if r.Attributes[i].Name == name {
			return &r.Attributes[i], true
		}
	}
	return nil, false
}

func (r *Resource) RelationshipByFlag(flag string) (*Relationship, bool) {
	for i := range r.Relationships {
		if r.Relationships[i].Flag == flag {
			return &r.Relationships[i], true
		}
	}
	return nil, false
}

func (r *Resource) RelationshipByName(name string) (*Relationship, bool) {
	for i := range r.Relationships {
		if r.Relationships[i].Name == name {
			return &r.Relationships[i], true
		}
	}
	return nil, false
}

func (r *Resource) FilterByFlag(flag string) (*Filter, bool) {
	for i := range r.Filters {
		if r.Filters[i].Flag == flag {
			return &r.Filters[i], true
		}
	}
	return nil, false
}

// HasFlag reports whether flag sets an attribute or a relationship.
func (r *Resource) HasFlag(flag string) bool {
	_, isAttr := r.AttributeByFlag(flag)
	_, isRel := r.RelationshipByFlag(flag)
	return isAttr || isRel
}

// RequiredNames returns the wire names of the fields required on create.
func (r *Resource) RequiredNames() []string {
	names := make([]string, 0, len(r.Create.Required))
	for _, flag := range r.Create.Required {
		if a, ok := r.AttributeByFlag(flag); ok {
			names = append(names, a.Name)
		} else if rel, ok := r.RelationshipByFlag(flag); ok {
			names = append(names, rel.Name)
		}
	}
	return names
}

// Validate checks the entry on its own; references to other entries are
// checked by Catalog.Validate.
func (r *Resource) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("resource name is required")
	}

	flags := map[string]bool{}
	for _, a := range r.Attributes {
		if a.Name == "" {
			return fmt.Errorf("attribute without name")
		}
		if !a.Kind.valid() {
			return fmt.Errorf("attribute %s: unknown kind %q", a.Name, a.Kind)
		}
		if flags[a.Flag] {
			return fmt.Errorf("flag --%s declared twice", a.Flag)
		}
		flags[a.Flag] = true
	}
	for _, rel := range r.Relationships {
		if rel.Name == "" {
			return fmt.Errorf("relationship without name")
		}
		if rel.Polymorphic == (rel.Target != "") {
			return fmt.Errorf("relationship %s: exactly one of target or polymorphic is required", rel.Name)
		}
		if flags[rel.Flag] {
			return fmt.Errorf("flag --%s declared twice", rel.Flag)
		}
		flags[rel.Flag] = true
	}

	for _, flag := range r.Create.Required {
		if !flags[flag] {
			return fmt.Errorf("required flag --%s is not a declared attribute or relationship", flag)
		}
		if _, ok := r.Create.Values[flag]; !ok {
			return fmt.Errorf("required flag --%s has no create value", flag)
		}
	}
	for _, flag := range util.SortedKeys(r.Create.Values) {
		if !flags[flag] {
			return fmt.Errorf("create value for undeclared flag --%s", flag)
		}
	}
	for _, flag := range util.SortedKeys(r.Update.Values) {
		if !flags[flag] {
			return fmt.Errorf("update value for undeclared flag --%s", flag)
		}
	}

	for _, flag := range util.SortedKeys(r.List.Filters) {
		if _, ok := r.FilterByFlag(flag); !ok {
			return fmt.Errorf("list filter --%s is not declared in filters", flag)
		}
	}
	for _, flag := range r.List.MatchCreated {
		if _, ok := r.List.Filters[flag]; !ok {
			return fmt.Errorf("match_created filter --%s has no list value", flag)
		}
	}

	seen := map[string]bool{}
	for _, f := range r.Fixtures {
		if f.Name == "" {
			return fmt.Errorf("fixture without name")
		}
		if seen[f.Name] {
			return fmt.Errorf("fixture %s declared twice", f.Name)
		}
		seen[f.Name] = true
		if f.Resource == "" && f.Seed == "" {
			return fmt.Errorf("fixture %s: resource or seed is required", f.Name)
		}
	}
	return nil
}
