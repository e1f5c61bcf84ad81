// internal/generator/generator.go

// Package generator turns an OpenAPI 3 document into an adapter package that
// follows the same layout as the hand-written adapters: a params struct per
// operation, tool definitions, a Funcs table and one file per REST call.
package generator

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/k0kubun/pp"
	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/internal/logging"
)

// DefaultModulePath is the module whose pkg/restclient and pkg/toolkit the
// generated code imports.
const DefaultModulePath = "github.com/mwiater/toolbelt"

// Auth types.
const (
	AuthAPIKey = "apikey"
	AuthBearer = "bearer"
	AuthBasic  = "basic"
	AuthOAuth2 = "oauth2"
)

const defaultAPIKeyHeader = "X-API-Key"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("generator").
		Funcs(template.FuncMap{"quote": strconv.Quote}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Options controls Generate.
type Options struct {
	SpecPath    string
	OutputDir   string
	PackageName string
	// BaseURL overrides the first server URL of the document.
	BaseURL    string
	AuthType   string
	ModulePath string
	// DryRun prints the inferred operations to Out and writes nothing.
	DryRun bool
	Out    io.Writer
	// Strict turns a go/format failure into an error instead of writing the
	// unformatted source.
	Strict bool
}

// Result describes what Generate produced.
type Result struct {
	Package    string
	OutputDir  string
	Files      []string
	Operations []OperationInfo
	EnvKeys    []string
}

type fileData struct {
	Source       string
	Package      string
	ModulePath   string
	Title        string
	BaseURL      string
	Auth         string
	APIKeyHeader string
	EnvKeys      []string
	NewArgs      string
	Operations   []OperationInfo
	Op           OperationInfo
}

// Load reads and validates an OpenAPI 3 document. External references are
// resolved relative to path.
func Load(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load OpenAPI document %s", path)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, errors.Wrapf(err, "invalid OpenAPI document %s", path)
	}
	return doc, nil
}

// Generate loads opts.SpecPath and writes the package into opts.OutputDir.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := normalize(&opts); err != nil {
		return nil, err
	}
	doc, err := Load(ctx, opts.SpecPath)
	if err != nil {
		return nil, err
	}
	ops := Operations(doc)
	if len(ops) == 0 {
		return nil, errors.Errorf("%s defines no operations", opts.SpecPath)
	}

	base, err := baseURL(doc, opts.BaseURL)
	if err != nil {
		return nil, err
	}
	envKeys, newArgs := authEnv(opts.PackageName, opts.AuthType)
	data := fileData{
		Source:       filepath.Base(opts.SpecPath),
		Package:      opts.PackageName,
		ModulePath:   opts.ModulePath,
		Title:        title(doc),
		BaseURL:      base,
		Auth:         opts.AuthType,
		APIKeyHeader: apiKeyHeader(doc),
		EnvKeys:      envKeys,
		NewArgs:      newArgs,
		Operations:   ops,
	}
	res := &Result{
		Package:    opts.PackageName,
		OutputDir:  opts.OutputDir,
		Operations: ops,
		EnvKeys:    envKeys,
	}

	if opts.DryRun {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintf(out, "package %s (%d operations, auth %s, base %s)\n", opts.PackageName, len(ops), opts.AuthType, base)
		pp.Fprintln(out, ops)
		return res, nil
	}

	files := []struct{ name, tmpl string }{
		{"types.go", "types.go.tmpl"},
		{"tools.go", "tools.go.tmpl"},
		{"handlers.go", "handlers.go.tmpl"},
		{opts.PackageName + ".go", "index.go.tmpl"},
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", opts.OutputDir)
	}
	for _, f := range files {
		path, err := render(opts, f.name, f.tmpl, data)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}
	for _, op := range ops {
		d := data
		d.Op = op
		path, err := render(opts, op.FileName(), "tool.go.tmpl", d)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	logging.Logger().Info().
		Str("package", opts.PackageName).
		Str("dir", opts.OutputDir).
		Int("operations", len(ops)).
		Msg("generated adapter package")
	return res, nil
}

func normalize(opts *Options) error {
	if strings.TrimSpace(opts.SpecPath) == "" {
		return errors.New("spec path is required")
	}
	opts.PackageName = strings.TrimSpace(opts.PackageName)
	if !token.IsIdentifier(opts.PackageName) || token.IsKeyword(opts.PackageName) || opts.PackageName != strings.ToLower(opts.PackageName) {
		return errors.Errorf("invalid package name %q: use a lowercase Go identifier", opts.PackageName)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join("adapters", opts.PackageName)
	}
	if opts.ModulePath == "" {
		opts.ModulePath = DefaultModulePath
	}
	opts.AuthType = strings.ToLower(strings.TrimSpace(opts.AuthType))
	switch opts.AuthType {
	case "":
		opts.AuthType = AuthAPIKey
	case AuthAPIKey, AuthBearer, AuthBasic, AuthOAuth2:
	default:
		return errors.Errorf("unknown auth type %q (want apikey, bearer, basic or oauth2)", opts.AuthType)
	}
	return nil
}

func render(opts Options, name, tmpl string, data fileData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", name)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		if opts.Strict {
			return "", errors.Wrapf(err, "generated %s does not format", name)
		}
		logging.Logger().Warn().Err(err).Str("file", name).Msg("writing unformatted source")
		src = buf.Bytes()
	}
	path := filepath.Join(opts.OutputDir, name)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// authEnv returns the environment variables for the auth type and the
// arguments NewFromEnv passes to New.
func authEnv(pkg, auth string) ([]string, string) {
	prefix := strings.ToUpper(pkg)
	switch auth {
	case AuthBearer:
		return []string{prefix + "_TOKEN"}, "vals[0]"
	case AuthBasic:
		return []string{prefix + "_USERNAME", prefix + "_PASSWORD"}, "vals[0], vals[1]"
	case AuthOAuth2:
		return []string{prefix + "_CLIENT_ID", prefix + "_CLIENT_SECRET", prefix + "_TOKEN_URL"},
			"context.Background(), vals[0], vals[1], vals[2]"
	default:
		return []string{prefix + "_API_KEY"}, "vals[0]"
	}
}

// apiKeyHeader returns the header of the first header apiKey scheme, by name.
func apiKeyHeader(doc *openapi3.T) string {
	if doc.Components == nil {
		return defaultAPIKeyHeader
	}
	names := make([]string, 0, len(doc.Components.SecuritySchemes))
	for n := range doc.Components.SecuritySchemes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		ref := doc.Components.SecuritySchemes[n]
		if ref == nil || ref.Value == nil {
			continue
		}
		if ref.Value.Type == "apiKey" && ref.Value.In == "header" && ref.Value.Name != "" {
			return ref.Value.Name
		}
	}
	return defaultAPIKeyHeader
}

// baseURL prefers override, then the first server with its variables
// replaced by their defaults.
func baseURL(doc *openapi3.T, override string) (string, error) {
	if u := strings.TrimSpace(override); u != "" {
		return strings.TrimRight(u, "/"), nil
	}
	if len(doc.Servers) == 0 || doc.Servers[0] == nil || doc.Servers[0].URL == "" {
		return "", errors.New("no base URL: pass --base-url or add a server to the document")
	}
	srv := doc.Servers[0]
	u := srv.URL
	for name, v := range srv.Variables {
		if v != nil {
			u = strings.ReplaceAll(u, "{"+name+"}", v.Default)
		}
	}
	return strings.TrimRight(u, "/"), nil
}

func title(doc *openapi3.T) string {
	if doc.Info != nil && strings.TrimSpace(doc.Info.Title) != "" {
		return strings.TrimSpace(doc.Info.Title)
	}
	return "an OpenAPI service"
}
