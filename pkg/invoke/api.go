package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

const (
	actionList   = "list"
	actionShow   = "show"
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

// verbSummarize commands run report endpoints with their own flags; only
// the real binary knows them.
const verbSummarize = "summarize"

var verbActions = map[string][]string{
	"view": {actionList, actionShow},
	"do":   {actionCreate, actionUpdate, actionDelete},
}

// APIInvoker interprets xbe command lines itself and sends the matching
// JSON:API requests. Flags are those the catalog declares for the resource,
// so it mirrors the CLI closely enough to run the same suites without the
// binary.
type APIInvoker struct {
	client  *jsonapi.Client
	catalog *catalog.Catalog
}

func NewAPIInvoker(client *jsonapi.Client, cat *catalog.Catalog) *APIInvoker {
	return &APIInvoker{client: client, catalog: cat}
}

func (a *APIInvoker) JSON(ctx context.Context, args ...string) Result {
	return a.Run(ctx, withJSON(args)...)
}

func (a *APIInvoker) Run(ctx context.Context, args ...string) Result {
	res := newResult(args)
	start := time.Now()
	out, err := a.execute(ctx, args)
	res.Duration = time.Since(start)

	if err != nil {
		res.ExitCode = 1
		res.Stderr = "Error: " + err.Error()
		if apiErr, ok := srvErrors.AsAPIError(err); ok {
			res.StatusCode = apiErr.StatusCode
			res.APIErrors = apiErr.Details
		}
		if ctx.Err() != nil {
			res.Err = ctx.Err()
		}
	} else {
		res.Stdout = out
	}

	zap.S().Named("invoke").Debugw("api", "args", args, "exit_code", res.ExitCode, "status", res.StatusCode, "duration", res.Duration)
	return res
}

type command struct {
	resource *catalog.Resource
	action   string
	flags    *pflag.FlagSet
	args     []string
	json     bool
}

func (a *APIInvoker) parse(args []string) (*command, error) {
	if len(args) == 0 {
		return nil, srvErrors.NewUsageError("missing command: expected view or do")
	}
	verb := args[0]
	if verb == verbSummarize {
		return nil, srvErrors.NewUsageError("unknown command %q for \"xbe\" in api mode; use --mode cli", verb)
	}
	actions, ok := verbActions[verb]
	if !ok {
		return nil, srvErrors.NewUsageError("unknown command %q for \"xbe\"", verb)
	}
	if len(args) < 2 {
		return nil, srvErrors.NewUsageError("missing resource for \"xbe %s\"", verb)
	}
	res, ok := a.catalog.Get(args[1])
	if !ok {
		return nil, srvErrors.NewUsageError("unknown command %q for \"xbe %s\"", args[1], verb)
	}
	if len(args) < 3 {
		return nil, srvErrors.NewUsageError("missing action for \"xbe %s %s\"", verb, res.Name)
	}
	action := args[2]
	if !slices.Contains(actions, action) {
		return nil, srvErrors.NewUsageError("unknown command %q for \"xbe %s %s\"", action, verb, res.Name)
	}

	fs := flagSet(res, verb, action)
	if err := fs.Parse(args[3:]); err != nil {
		return nil, srvErrors.NewUsageError("%v", err)
	}
	jsonOut, _ := fs.GetBool("json")

	return &command{
		resource: res,
		action:   action,
		flags:    fs,
		args:     fs.Args(),
		json:     jsonOut,
	}, nil
}

func flagSet(res *catalog.Resource, verb, action string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(fmt.Sprintf("xbe %s %s %s", verb, res.Name, action), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	define := func(name string, fn func()) {
		if fs.Lookup(name) == nil {
			fn()
		}
	}
	fs.Bool("json", false, "Output JSON")
	fs.Bool("no-auth", false, "Disable auth token lookup")
	fs.String("base-url", "", "API base URL")
	fs.String("token", "", "API token")

	switch action {
	case actionList:
		fs.Int("limit", 0, "Page size")
		fs.Int("offset", 0, "Page offset")
		fs.String("sort", "", "Sort fields")
		fs.Bool("omit-null", false, "Omit null values in JSON output")
		for _, f := range res.Filters {
			define(f.Flag, func() { fs.String(f.Flag, "", "Filter by "+f.Name) })
		}
	case actionCreate, actionUpdate:
		for _, attr := range res.Attributes {
			define(attr.Flag, func() { fs.String(attr.Flag, "", attr.Name) })
		}
		for _, rel := range res.Relationships {
			define(rel.Flag, func() { fs.String(rel.Flag, "", rel.Name) })
		}
	case actionDelete:
		fs.Bool("confirm", false, "Confirm deletion")
	}
	return fs
}

func (a *APIInvoker) execute(ctx context.Context, args []string) (string, error) {
	cmd, err := a.parse(args)
	if err != nil {
		return "", err
	}
	switch cmd.action {
	case actionList:
		return a.list(ctx, cmd)
	case actionShow:
		return a.show(ctx, cmd)
	case actionCreate:
		return a.create(ctx, cmd)
	case actionUpdate:
		return a.update(ctx, cmd)
	default:
		return a.delete(ctx, cmd)
	}
}

func (a *APIInvoker) list(ctx context.Context, cmd *command) (string, error) {
	if len(cmd.args) > 0 {
		return "", srvErrors.NewUsageError("unknown command %q for %q", cmd.args[0], cmd.flags.Name())
	}

	q := jsonapi.NewQuery()
	if cmd.flags.Changed("limit") {
		n, _ := cmd.flags.GetInt("limit")
		if n > 0 {
			q.Limit(n)
		}
	}
	if cmd.flags.Changed("offset") {
		n, _ := cmd.flags.GetInt("offset")
		q.Offset(n)
	}
	if s, _ := cmd.flags.GetString("sort"); s != "" {
		q.Sort(strings.Split(s, ",")...)
	}
	for _, f := range cmd.resource.Filters {
		if cmd.flags.Changed(f.Flag) {
			v, _ := cmd.flags.GetString(f.Flag)
			q.Filter(f.Name, v)
		}
	}

	resp, err := a.client.Get(ctx, cmd.resource.Path, q)
	if err != nil {
		return "", err
	}
	if resp.Document == nil {
		return "", fmt.Errorf("unexpected empty response from %s", cmd.resource.Path)
	}
	resources, err := resp.Document.Many()
	if err != nil {
		return "", err
	}

	rows := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, Flatten(cmd.resource, r))
	}
	if omit, _ := cmd.flags.GetBool("omit-null"); omit {
		omitNull(rows)
	}
	if cmd.json {
		return marshal(rows)
	}
	return renderTable(cmd.resource, rows), nil
}

func (a *APIInvoker) show(ctx context.Context, cmd *command) (string, error) {
	id, err := exactlyOne(cmd.args)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Get(ctx, cmd.resource.Path+"/"+id, nil)
	if err != nil {
		return "", err
	}
	row, err := flattenOne(cmd.resource, resp)
	if err != nil {
		return "", err
	}
	if cmd.json {
		return marshal(row)
	}
	return renderDetails(row), nil
}

func (a *APIInvoker) create(ctx context.Context, cmd *command) (string, error) {
	if len(cmd.args) > 0 {
		return "", srvErrors.NewUsageError("unknown command %q for %q", cmd.args[0], cmd.flags.Name())
	}

	var missing []string
	for _, flag := range cmd.resource.Create.Required {
		if v, _ := cmd.flags.GetString(flag); v == "" {
			missing = append(missing, flag)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", srvErrors.NewUsageError("required flag(s) \"%s\" not set", strings.Join(missing, `", "`))
	}

	body, _, err := buildResource(cmd.resource, cmd.flags, "")
	if err != nil {
		return "", err
	}
	doc, err := jsonapi.NewDocument(body)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Post(ctx, cmd.resource.Path, doc)
	if err != nil {
		return "", err
	}
	row, err := flattenOne(cmd.resource, resp)
	if err != nil {
		return "", err
	}
	if cmd.json {
		return marshal(row)
	}
	return fmt.Sprintf("Created %s %v\n", cmd.resource.Singular(), row["id"]), nil
}

func (a *APIInvoker) update(ctx context.Context, cmd *command) (string, error) {
	id, err := exactlyOne(cmd.args)
	if err != nil {
		return "", err
	}
	body, changed, err := buildResource(cmd.resource, cmd.flags, id)
	if err != nil {
		return "", err
	}
	if changed == 0 {
		return "", srvErrors.NewUsageError("no fields to update; specify at least one flag")
	}
	doc, err := jsonapi.NewDocument(body)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Patch(ctx, cmd.resource.Path+"/"+id, doc)
	if err != nil {
		return "", err
	}
	row, err := flattenOne(cmd.resource, resp)
	if err != nil {
		return "", err
	}
	if cmd.json {
		return marshal(row)
	}
	return fmt.Sprintf("Updated %s %s\n", cmd.resource.Singular(), id), nil
}

func (a *APIInvoker) delete(ctx context.Context, cmd *command) (string, error) {
	id, err := exactlyOne(cmd.args)
	if err != nil {
		return "", err
	}
	if confirm, _ := cmd.flags.GetBool("confirm"); !confirm {
		return "", srvErrors.NewUsageError("refusing to delete %s %s without --confirm", cmd.resource.Singular(), id)
	}
	if _, err := a.client.Delete(ctx, cmd.resource.Path+"/"+id); err != nil {
		return "", err
	}
	if cmd.json {
		return marshal(map[string]any{"id": id, "deleted": true})
	}
	return fmt.Sprintf("Deleted %s %s\n", cmd.resource.Singular(), id), nil
}

// buildResource turns the changed flags into a JSON:API resource and
// reports how many members were set.
func buildResource(res *catalog.Resource, fs *pflag.FlagSet, id string) (jsonapi.Resource, int, error) {
	r := jsonapi.Resource{
		Type:          res.Type,
		ID:            id,
		Attributes:    map[string]any{},
		Relationships: map[string]jsonapi.Relationship{},
	}

	for _, attr := range res.Attributes {
		if !fs.Changed(attr.Flag) {
			continue
		}
		raw, _ := fs.GetString(attr.Flag)
		v, err := convert(attr, raw)
		if err != nil {
			return r, 0, srvErrors.NewUsageError("invalid argument %q for \"--%s\" flag: %v", raw, attr.Flag, err)
		}
		r.Attributes[attr.Name] = v
	}

	for _, rel := range res.Relationships {
		if !fs.Changed(rel.Flag) {
			continue
		}
		raw, _ := fs.GetString(rel.Flag)
		linkage, err := link(rel, raw)
		if err != nil {
			return r, 0, srvErrors.NewUsageError("invalid argument %q for \"--%s\" flag: %v", raw, rel.Flag, err)
		}
		r.Relationships[rel.Name] = linkage
	}

	return r, len(r.Attributes) + len(r.Relationships), nil
}

func convert(attr catalog.Attribute, raw string) (any, error) {
	switch attr.Kind {
	case catalog.KindBool:
		return strconv.ParseBool(raw)
	case catalog.KindInt:
		return strconv.Atoi(raw)
	case catalog.KindNumber:
		return strconv.ParseFloat(raw, 64)
	case catalog.KindList:
		if raw == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return raw, nil
	}
}

func link(rel catalog.Relationship, raw string) (jsonapi.Relationship, error) {
	if rel.Many {
		var ids []jsonapi.ResourceIdentifier
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			ri, err := identifier(rel, part)
			if err != nil {
				return jsonapi.Relationship{}, err
			}
			ids = append(ids, ri)
		}
		return jsonapi.ToMany(ids), nil
	}
	if raw == "" {
		return jsonapi.Null(), nil
	}
	ri, err := identifier(rel, raw)
	if err != nil {
		return jsonapi.Relationship{}, err
	}
	return jsonapi.ToOne(ri), nil
}

func identifier(rel catalog.Relationship, raw string) (jsonapi.ResourceIdentifier, error) {
	if rel.Polymorphic {
		return jsonapi.ParseRef(raw)
	}
	return jsonapi.ResourceIdentifier{Type: rel.Target, ID: raw}, nil
}

func exactlyOne(args []string) (string, error) {
	if len(args) != 1 {
		return "", srvErrors.NewUsageError("accepts 1 arg(s), received %d", len(args))
	}
	return args[0], nil
}

func flattenOne(res *catalog.Resource, resp *jsonapi.Response) (map[string]any, error) {
	if resp == nil || resp.Document == nil {
		return nil, fmt.Errorf("unexpected empty response from %s", res.Path)
	}
	r, err := resp.Document.One()
	if err != nil {
		return nil, err
	}
	return Flatten(res, *r), nil
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
