package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/models"
	"github.com/xbe-inc/xbe-integration/internal/util"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// RecordService keeps the sandbox records in memory and applies the same
// rules the xbe API does for the catalog resources: required members,
// enums, linked records that must exist and list filtering.
type RecordService struct {
	catalog *catalog.Catalog
	now     func() time.Time

	mu      sync.Mutex
	nextID  int
	records map[string]map[string]models.Record
}

type RecordListResult struct {
	Records []models.Record
	Total   int
}

func NewRecordService(cat *catalog.Catalog) *RecordService {
	return &RecordService{
		catalog: cat,
		now:     time.Now,
		records: map[string]map[string]models.Record{},
	}
}

// List returns one page of records of typ matching params.
func (s *RecordService) List(ctx context.Context, typ string, params jsonapi.ListParams) (*RecordListResult, error) {
	res, err := s.resource(typ)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	all := make([]models.Record, 0, len(s.records[res.Type]))
	for _, r := range s.records[res.Type] {
		all = append(all, r.Clone())
	}
	s.mu.Unlock()

	matched := make([]models.Record, 0, len(all))
	for _, r := range all {
		ok, err := matchesAll(res, r, params.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}

	if err := sortRecords(matched, params.Sort); err != nil {
		return nil, err
	}

	total := len(matched)
	start := min(params.Offset, total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}
	return &RecordListResult{Records: matched[start:end], Total: total}, nil
}

func (s *RecordService) Get(ctx context.Context, typ, id string) (models.Record, error) {
	res, err := s.resource(typ)
	if err != nil {
		return models.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[res.Type][id]
	if !ok {
		return models.Record{}, srvErrors.NewResourceNotFoundError(res.Singular(), id)
	}
	return r.Clone(), nil
}

// Create stores a new record. The body must be of type typ and carry every
// required member.
func (s *RecordService) Create(ctx context.Context, typ string, body jsonapi.Resource) (models.Record, error) {
	res, err := s.resource(typ)
	if err != nil {
		return models.Record{}, err
	}
	if body.Type != res.Type {
		return models.Record{}, srvErrors.NewConflictError("type %q does not match endpoint %q", body.Type, res.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var problems []string
	for _, name := range res.RequiredNames() {
		if !present(body, name) {
			problems = append(problems, fmt.Sprintf("%s can't be blank", name))
		}
	}
	problems = append(problems, s.validate(res, body, "")...)
	if len(problems) > 0 {
		return models.Record{}, srvErrors.NewValidationError(problems...)
	}

	s.nextID++
	now := s.now()
	r := models.Record{
		Type:          res.Type,
		ID:            strconv.Itoa(s.nextID),
		Attributes:    map[string]any{},
		Relationships: map[string]jsonapi.Relationship{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	apply(&r, body)

	if s.records[res.Type] == nil {
		s.records[res.Type] = map[string]models.Record{}
	}
	s.records[res.Type][r.ID] = r
	zap.S().Named("sandbox").Debugw("record created", "type", r.Type, "id", r.ID)
	return r.Clone(), nil
}

// Update changes the members present in body. A null relationship unlinks it.
func (s *RecordService) Update(ctx context.Context, typ, id string, body jsonapi.Resource) (models.Record, error) {
	res, err := s.resource(typ)
	if err != nil {
		return models.Record{}, err
	}
	if body.Type != res.Type {
		return models.Record{}, srvErrors.NewConflictError("type %q does not match endpoint %q", body.Type, res.Type)
	}
	if body.ID != "" && body.ID != id {
		return models.Record{}, srvErrors.NewConflictError("id %q does not match endpoint id %q", body.ID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[res.Type][id]
	if !ok {
		return models.Record{}, srvErrors.NewResourceNotFoundError(res.Singular(), id)
	}
	if problems := s.validate(res, body, id); len(problems) > 0 {
		return models.Record{}, srvErrors.NewValidationError(problems...)
	}

	r = r.Clone()
	apply(&r, body)
	r.UpdatedAt = s.now()
	s.records[res.Type][id] = r
	zap.S().Named("sandbox").Debugw("record updated", "type", r.Type, "id", r.ID)
	return r.Clone(), nil
}

func (s *RecordService) Delete(ctx context.Context, typ, id string) error {
	res, err := s.resource(typ)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[res.Type][id]; !ok {
		return srvErrors.NewResourceNotFoundError(res.Singular(), id)
	}
	delete(s.records[res.Type], id)
	zap.S().Named("sandbox").Debugw("record deleted", "type", res.Type, "id", id)
	return nil
}

// Count returns the number of stored records of typ.
func (s *RecordService) Count(typ string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[typ])
}

func (s *RecordService) resource(typ string) (*catalog.Resource, error) {
	res, ok := s.catalog.Get(typ)
	if !ok {
		return nil, srvErrors.NewResourceNotFoundError("resource type", typ)
	}
	return res, nil
}

// validate checks enums, linked records and company name uniqueness.
// Callers hold s.mu.
func (s *RecordService) validate(res *catalog.Resource, body jsonapi.Resource, selfID string) []string {
	var problems []string

	for _, name := range util.SortedKeys(body.Attributes) {
		attr, ok := res.AttributeByName(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s is not a known attribute", name))
			continue
		}
		v := body.Attributes[name]
		if len(attr.Enum) > 0 && v != nil && !slices.Contains(attr.Enum, text(v)) {
			problems = append(problems, fmt.Sprintf("%s is not included in the list", name))
		}
	}

	if name, ok := body.Attributes["company-name"].(string); ok && name != "" {
		for id, r := range s.records[res.Type] {
			if id != selfID && strings.EqualFold(text(r.Attributes["company-name"]), name) {
				problems = append(problems, "company-name has already been taken")
				break
			}
		}
	}

	for _, name := range util.SortedKeys(body.Relationships) {
		rel, ok := res.RelationshipByName(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s is not a known relationship", name))
			continue
		}
		linkage := body.Relationships[name]
		var ids []jsonapi.ResourceIdentifier
		if many, ok := linkage.Many(); ok {
			ids = many
		} else if one, ok := linkage.One(); ok {
			ids = []jsonapi.ResourceIdentifier{one}
		}
		for _, ri := range ids {
			if !rel.Polymorphic && ri.Type != rel.Target {
				problems = append(problems, fmt.Sprintf("%s must be a %s", name, util.ClassName(rel.Target)))
				continue
			}
			if _, known := s.catalog.Get(ri.Type); !known {
				continue
			}
			if _, exists := s.records[ri.Type][ri.ID]; !exists {
				problems = append(problems, fmt.Sprintf("%s must exist", name))
			}
		}
	}
	return problems
}

func present(body jsonapi.Resource, name string) bool {
	if v, ok := body.Attributes[name]; ok {
		return v != nil && text(v) != ""
	}
	if rel, ok := body.Relationships[name]; ok {
		if _, ok := rel.One(); ok {
			return true
		}
		many, ok := rel.Many()
		return ok && len(many) > 0
	}
	return false
}

func apply(r *models.Record, body jsonapi.Resource) {
	for k, v := range body.Attributes {
		r.Attributes[k] = v
	}
	for k, v := range body.Relationships {
		if _, ok := v.One(); !ok && !v.IsMany() {
			delete(r.Relationships, k)
			continue
		}
		r.Relationships[k] = v
	}
}

// text renders an attribute value for comparison.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
