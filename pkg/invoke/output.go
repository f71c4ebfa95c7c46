package invoke

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/util"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// tableColumns is how many attribute columns the text list shows after ID.
const tableColumns = 3

// Flatten renders a resource the way `xbe ... --json` prints it: the id,
// attributes under their underscored names and relationships as <name>_id
// (plus <name>_type for polymorphic ones) or <singular>_ids for to-many.
func Flatten(res *catalog.Resource, r jsonapi.Resource) map[string]any {
	out := make(map[string]any, 1+len(r.Attributes)+len(r.Relationships))
	out["id"] = r.ID
	for name, v := range r.Attributes {
		out[util.Underscore(name)] = v
	}

	for name, rel := range r.Relationships {
		key := util.Underscore(name)
		decl, declared := res.RelationshipByName(name)

		if rel.IsMany() || (declared && decl.Many) {
			ids := []string{}
			if many, ok := rel.Many(); ok {
				for _, ri := range many {
					ids = append(ids, ri.ID)
				}
			}
			out[util.Underscore(util.Singularize(name))+"_ids"] = ids
			continue
		}

		ri, ok := rel.One()
		if !ok {
			out[key+"_id"] = nil
			if declared && decl.Polymorphic {
				out[key+"_type"] = nil
			}
			continue
		}
		out[key+"_id"] = ri.ID
		if !declared || decl.Polymorphic {
			out[key+"_type"] = util.ClassName(ri.Type)
		}
	}
	return out
}

func omitNull(rows []map[string]any) {
	for _, row := range rows {
		for k, v := range row {
			if v == nil {
				delete(row, k)
			}
		}
	}
}

func renderTable(res *catalog.Resource, rows []map[string]any) string {
	if len(rows) == 0 {
		return "No " + strings.ReplaceAll(res.Name, "-", " ") + " found\n"
	}

	cols := []string{"id"}
	for _, attr := range res.Attributes {
		if len(cols) > tableColumns {
			break
		}
		cols = append(cols, util.Underscore(attr.Name))
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = util.Truncate(Stringify(row[c]), 40)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	return b.String()
}

func renderDetails(row map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", Stringify(row["id"]))
	for _, k := range util.SortedKeys(row) {
		if k == "id" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", k, Stringify(row[k]))
	}
	return b.String()
}
