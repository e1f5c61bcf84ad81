// internal/generator/operations.go
package generator

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
)

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InBody   = "body"
)

// ParameterInfo is one input of an operation as the generated tool sees it.
type ParameterInfo struct {
	// Name is the wire name: path placeholder, query key, header or body property.
	Name string
	// Key is the tool-facing property name. It equals Name unless two
	// locations share a name.
	Key         string
	GoName      string
	In          string
	Type        string
	ItemType    string
	Description string
	Required    bool
	Default     any
	Enum        []any
}

// OperationInfo is one path+method of the document.
type OperationInfo struct {
	Name        string
	GoName      string
	Method      string
	Path        string
	Summary     string
	Description string
	Parameters  []ParameterInfo
	// RawBody is set when the JSON request body is not an object; the body
	// is then a single parameter sent as is.
	RawBody bool
}

// Operations lists every operation in doc, sorted by path then method, with
// unique tool names.
func Operations(doc *openapi3.T) []OperationInfo {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	pathMap := doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for p := range pathMap {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var ops []OperationInfo
	seen := map[string]int{}
	for _, path := range paths {
		item := pathMap[path]
		if item == nil {
			continue
		}
		byMethod := item.Operations()
		methods := make([]string, 0, len(byMethod))
		for m := range byMethod {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, method := range methods {
			op := byMethod[method]
			name := operationName(method, path, op.OperationID)
			seen[name]++
			if n := seen[name]; n > 1 {
				name += strconv.Itoa(n)
			}
			info := OperationInfo{
				Name:        name,
				GoName:      upperCamel(splitWords(name)),
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     strings.TrimSpace(op.Summary),
				Description: describe(method, path, op),
			}
			info.Parameters, info.RawBody = collectParameters(item.Parameters, op)
			ops = append(ops, info)
		}
	}
	return ops
}

func describe(method, path string, op *openapi3.Operation) string {
	if s := strings.TrimSpace(op.Summary); s != "" {
		return s
	}
	if d := strings.TrimSpace(op.Description); d != "" {
		return strings.SplitN(d, "\n", 2)[0]
	}
	return strings.ToUpper(method) + " " + path
}

// operationName is lowerCamel(operationId), or method plus path segments with
// placeholders rendered as "By<Name>".
func operationName(method, path, operationID string) string {
	var words []string
	if id := strings.TrimSpace(operationID); id != "" {
		words = splitWords(id)
	} else {
		words = []string{strings.ToLower(method)}
		for _, seg := range strings.Split(path, "/") {
			if seg == "" {
				continue
			}
			if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
				words = append(words, "by")
				words = append(words, splitWords(strings.Trim(seg, "{}"))...)
				continue
			}
			words = append(words, splitWords(seg)...)
		}
	}
	name := lowerCamel(words)
	if name == "" {
		name = strings.ToLower(method)
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "op" + upperCamel(splitWords(name))
	}
	return name
}

func collectParameters(shared openapi3.Parameters, op *openapi3.Operation) ([]ParameterInfo, bool) {
	type locKey struct{ in, name string }
	merged := map[locKey]*openapi3.Parameter{}
	var order []locKey
	for _, list := range []openapi3.Parameters{shared, op.Parameters} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := ref.Value
			if p.In != InPath && p.In != InQuery && p.In != InHeader {
				continue
			}
			k := locKey{p.In, p.Name}
			if _, ok := merged[k]; !ok {
				order = append(order, k)
			}
			merged[k] = p
		}
	}

	var out []ParameterInfo
	for _, k := range order {
		p := merged[k]
		info := ParameterInfo{
			Name:        p.Name,
			In:          p.In,
			Description: strings.TrimSpace(p.Description),
			Required:    p.Required || p.In == InPath,
		}
		if p.Schema != nil {
			fillSchema(&info, p.Schema.Value)
		} else {
			info.Type = "string"
		}
		out = append(out, info)
	}

	body, raw := bodyParameters(op)
	out = append(out, body...)
	assignNames(out)
	return out, raw
}

func bodyParameters(op *openapi3.Operation) ([]ParameterInfo, bool) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, false
	}
	rb := op.RequestBody.Value
	mt := rb.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, false
	}
	schema := mt.Schema.Value

	if schemaType(schema) != "object" && len(schema.Properties) == 0 {
		info := ParameterInfo{
			Name:        "body",
			In:          InBody,
			Description: strings.TrimSpace(rb.Description),
			Required:    rb.Required,
		}
		fillSchema(&info, schema)
		return []ParameterInfo{info}, true
	}

	required := map[string]bool{}
	for _, r := range schema.Required {
		required[r] = true
	}
	names := make([]string, 0, len(schema.Properties))
	for n := range schema.Properties {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]ParameterInfo, 0, len(names))
	for _, n := range names {
		info := ParameterInfo{
			Name:     n,
			In:       InBody,
			Required: rb.Required && required[n],
		}
		if ref := schema.Properties[n]; ref != nil {
			fillSchema(&info, ref.Value)
		}
		if info.Type == "" {
			info.Type = "string"
		}
		out = append(out, info)
	}
	return out, false
}

func fillSchema(info *ParameterInfo, s *openapi3.Schema) {
	info.Type = schemaType(s)
	if s == nil {
		return
	}
	if info.Description == "" {
		info.Description = strings.TrimSpace(s.Description)
	}
	info.Default = s.Default
	info.Enum = s.Enum
	if info.Type == "array" {
		info.ItemType = "string"
		if s.Items != nil {
			info.ItemType = schemaType(s.Items.Value)
		}
	}
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		if s != nil && len(s.Properties) > 0 {
			return "object"
		}
		return "string"
	}
	for _, t := range *s.Type {
		if t != "null" {
			return t
		}
	}
	return "string"
}

// assignNames fills Key and GoName, suffixing the location on collisions.
func assignNames(params []ParameterInfo) {
	keys := map[string]bool{}
	goNames := map[string]bool{}
	for i := range params {
		p := &params[i]
		p.Key = p.Name
		if keys[p.Key] {
			p.Key = p.In + "_" + p.Name
		}
		keys[p.Key] = true

		p.GoName = upperCamel(splitWords(p.Key))
		if p.GoName == "" || !unicode.IsLetter(rune(p.GoName[0])) {
			p.GoName = "P" + p.GoName
		}
		for goNames[p.GoName] {
			p.GoName += upperCamel([]string{p.In})
		}
		goNames[p.GoName] = true
	}
}

// GoType is the field type in the generated params struct. Optional scalars
// are pointers so zero values can still be sent.
func (p ParameterInfo) GoType() string {
	var t string
	switch p.Type {
	case "integer":
		t = "int"
	case "number":
		t = "float64"
	case "boolean":
		t = "bool"
	case "array":
		return "[]" + ParameterInfo{Type: p.ItemType, Required: true}.GoType()
	case "object":
		return "map[string]any"
	default:
		t = "string"
	}
	if p.Pointer() {
		return "*" + t
	}
	return t
}

// Pointer reports whether the field is an optional scalar.
func (p ParameterInfo) Pointer() bool {
	return !p.Required && p.Type != "array" && p.Type != "object"
}

// Collection reports whether the field is a slice or map.
func (p ParameterInfo) Collection() bool {
	return p.Type == "array" || p.Type == "object"
}

// Value is the Go expression for the field, dereferenced when it is a pointer.
func (p ParameterInfo) Value() string {
	if p.Pointer() {
		return "*p." + p.GoName
	}
	return "p." + p.GoName
}

// StringExpr converts the field value to a string for paths, queries and headers.
func (p ParameterInfo) StringExpr() string {
	if p.Type == "string" {
		return p.Value()
	}
	return "fmt.Sprint(" + p.Value() + ")"
}

// PropOptions renders the toolkit.Prop options for the schema.
func (p ParameterInfo) PropOptions() []string {
	var opts []string
	if p.Type == "array" {
		opts = append(opts, fmt.Sprintf("toolkit.Items(toolkit.Prop(%q, \"\"))", p.ItemType))
	}
	if lit, ok := goLiteral(p.Default); ok {
		opts = append(opts, "toolkit.Default("+lit+")")
	}
	if len(p.Enum) > 0 {
		vals := make([]string, 0, len(p.Enum))
		for _, e := range p.Enum {
			if lit, ok := goLiteral(e); ok {
				vals = append(vals, lit)
			}
		}
		if len(vals) > 0 {
			opts = append(opts, "toolkit.Enum("+strings.Join(vals, ", ")+")")
		}
	}
	return opts
}

func goLiteral(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strconv.Quote(x), true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	default:
		return "", false
	}
}

// ByLocation returns the parameters sent in the given location.
func (o OperationInfo) ByLocation(in string) []ParameterInfo {
	var out []ParameterInfo
	for _, p := range o.Parameters {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// RequiredKeys lists the tool-facing names that must be supplied.
func (o OperationInfo) RequiredKeys() []string {
	var out []string
	for _, p := range o.Parameters {
		if p.Required {
			out = append(out, p.Key)
		}
	}
	return out
}

// MethodConst is the net/http constant for the method.
func (o OperationInfo) MethodConst() string {
	switch o.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return "http.Method" + upperCamel([]string{strings.ToLower(o.Method)})
	}
	return strconv.Quote(o.Method)
}

// PathExpr is a Go expression building the request path.
func (o OperationInfo) PathExpr() string {
	byName := map[string]ParameterInfo{}
	for _, p := range o.ByLocation(InPath) {
		byName[p.Name] = p
	}
	var parts []string
	rest := o.Path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		end := strings.Index(rest[open:], "}")
		if end < 0 {
			break
		}
		end += open
		name := rest[open+1 : end]
		p, ok := byName[name]
		if !ok {
			break
		}
		if open > 0 {
			parts = append(parts, strconv.Quote(rest[:open]))
		}
		parts = append(parts, "url.PathEscape("+p.StringExpr()+")")
		rest = rest[end+1:]
	}
	if rest != "" || len(parts) == 0 {
		parts = append(parts, strconv.Quote(rest))
	}
	return strings.Join(parts, " + ")
}

// NeedsFmt reports whether the generated call uses fmt.Sprint.
func (o OperationInfo) NeedsFmt() bool {
	if strings.Contains(o.PathExpr(), "fmt.") {
		return true
	}
	for _, p := range o.Parameters {
		if (p.In == InQuery || p.In == InHeader) && strings.Contains(p.StringExpr(), "fmt.") {
			return true
		}
	}
	return false
}

// NeedsURL reports whether the generated call uses net/url.
func (o OperationInfo) NeedsURL() bool {
	return strings.Contains(o.PathExpr(), "url.") || len(o.ByLocation(InQuery)) > 0
}

// Action is the phrase used in wrapped errors, e.g. "list pets".
func (o OperationInfo) Action() string {
	words := splitWords(o.Name)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, " ")
}

// FileName is the per-operation file, e.g. tool_list_pets.go.
func (o OperationInfo) FileName() string {
	words := splitWords(o.Name)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return "tool_" + strings.Join(words, "_") + ".go"
}

var initialisms = map[string]string{
	"id": "ID", "url": "URL", "uri": "URI", "api": "API", "http": "HTTP",
	"json": "JSON", "uuid": "UUID", "ip": "IP", "sql": "SQL", "html": "HTML",
}

// splitWords breaks an identifier on separators and lower-to-upper case changes.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func upperCamel(words []string) string {
	var b strings.Builder
	for _, w := range words {
		lw := strings.ToLower(w)
		if ini, ok := initialisms[lw]; ok {
			b.WriteString(ini)
			continue
		}
		r := []rune(lw)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func lowerCamel(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[0]) + upperCamel(words[1:])
}
