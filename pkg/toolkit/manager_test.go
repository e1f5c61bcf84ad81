package toolkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls map[string][]map[string]any
}

func newRecorder() *recorder { return &recorder{calls: map[string][]map[string]any{}} }

func (r *recorder) fn(name string, result any, err error) Func {
	return func(_ context.Context, params map[string]any) (any, error) {
		r.calls[name] = append(r.calls[name], params)
		return result, err
	}
}

func testDefinitions() []Definition {
	return []Definition{
		{
			Name:        "searchIssues",
			Description: "Search issues.",
			Parameters: Object(map[string]any{
				"query": Prop("string", "search text", MinLength(1)),
				"limit": Prop("integer", "max results", Default(25), Minimum(1), Maximum(100)),
			}, "query"),
		},
		{
			Name:        "getIssue",
			Description: "Get one issue.",
			Parameters: Object(map[string]any{
				"id": Prop("string", "issue id"),
			}, "id"),
		},
	}
}

func newTestManager(t *testing.T, rec *recorder) *Manager {
	t.Helper()
	m, err := NewManagerFromDefinitions(testDefinitions(), HandlerFuncs{
		"searchIssues": rec.fn("searchIssues", map[string]any{"total_count": 1}, nil),
		"getIssue":     rec.fn("getIssue", "issue", nil),
	})
	require.NoError(t, err)
	return m
}

func TestExecuteRoutesToNamedHandler(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(t, rec)

	out, err := m.Execute(context.Background(), "getIssue", map[string]any{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "issue", out)
	assert.Len(t, rec.calls["getIssue"], 1)
	assert.Empty(t, rec.calls["searchIssues"])
}

func TestExecuteAppliesDefaults(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(t, rec)

	input := map[string]any{"query": "bug"}
	_, err := m.Execute(context.Background(), "searchIssues", input)
	require.NoError(t, err)
	require.Len(t, rec.calls["searchIssues"], 1)
	assert.Equal(t, 25, rec.calls["searchIssues"][0]["limit"])
	_, touched := input["limit"]
	assert.False(t, touched, "caller input must not be modified")
}

func TestExecuteUnknownTool(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(t, rec)

	_, err := m.Execute(context.Background(), "deleteEverything", map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Contains(t, err.Error(), "deleteEverything")
	assert.Empty(t, rec.calls)
}

func TestExecuteMissingRequired(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(t, rec)

	_, err := m.Execute(context.Background(), "searchIssues", map[string]any{"limit": 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "searchIssues", verr.Tool)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "query", verr.Fields[0].Field)
	assert.Contains(t, err.Error(), "query")
	assert.Empty(t, rec.calls)
}

func TestExecuteWrongType(t *testing.T) {
	rec := newRecorder()
	m := newTestManager(t, rec)

	_, err := m.Execute(context.Background(), "searchIssues", map[string]any{"query": "bug", "limit": "not-a-number"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Fields)
	assert.Equal(t, "limit", verr.Fields[0].Field)
	assert.Empty(t, rec.calls)
}

func TestExecuteWrapsHandlerError(t *testing.T) {
	boom := errors.New("failed to get issue: 404 Not Found")
	m, err := NewManagerFromDefinitions(testDefinitions(), HandlerFuncs{
		"searchIssues": newRecorder().fn("searchIssues", nil, nil),
		"getIssue":     newRecorder().fn("getIssue", nil, boom),
	})
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), "getIssue", map[string]any{"id": "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecution))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, boom.Error(), err.Error())
}

func TestNewManagerRejectsMismatchedSets(t *testing.T) {
	defs := testDefinitions()
	schemas, err := SchemasFor(defs)
	require.NoError(t, err)
	handler := HandlerFuncs{
		"searchIssues": newRecorder().fn("searchIssues", nil, nil),
		"getIssue":     newRecorder().fn("getIssue", nil, nil),
	}

	delete(schemas, "getIssue")
	_, err = NewManager(defs, schemas, handler)
	assert.True(t, errors.Is(err, ErrMissingSchema))

	schemas, _ = SchemasFor(defs)
	extra, _ := NewSchema("orphan", nil)
	schemas["orphan"] = extra
	_, err = NewManager(defs, schemas, handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orphan")

	schemas, _ = SchemasFor(defs)
	_, err = NewManager(defs, schemas, HandlerFuncs{"searchIssues": handler["searchIssues"]})
	assert.True(t, errors.Is(err, ErrMissingHandler))

	_, err = NewManager(append(defs, defs[0]), schemas, handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestToolsReturnsCopies(t *testing.T) {
	m := newTestManager(t, newRecorder())

	tools := m.Tools()
	tools[0].Parameters["properties"].(map[string]any)["query"] = "mutated"
	tools[0].Name = "renamed"

	again := m.Tools()
	assert.Equal(t, "searchIssues", again[0].Name)
	assert.IsType(t, map[string]any{}, again[0].Parameters["properties"].(map[string]any)["query"])
	assert.Equal(t, []string{"searchIssues", "getIssue"}, m.Names())
}

func TestBindDecodesTypedParams(t *testing.T) {
	type params struct {
		Query string   `json:"query"`
		Limit int      `json:"limit"`
		Tags  []string `json:"tags,omitempty"`
	}
	var got params
	fn := Bind(func(_ context.Context, p params) (string, error) {
		got = p
		return "ok", nil
	})

	out, err := fn(context.Background(), map[string]any{"query": "bug", "limit": float64(10), "tags": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, params{Query: "bug", Limit: 10, Tags: []string{"a", "b"}}, got)
}

func TestExecuteUndecodableValueIsValidationError(t *testing.T) {
	defs := []Definition{
		{Name: "loose", Parameters: Object(map[string]any{"labels": Prop("object", "")})},
		{Name: "strict", Parameters: Object(map[string]any{"labels": Prop("object", "", Values(Prop("string", "")))})},
	}
	called := 0
	fn := Bind(func(_ context.Context, p struct {
		Labels map[string]string `json:"labels"`
	}) (int, error) {
		called++
		return len(p.Labels), nil
	})
	m, err := NewManagerFromDefinitions(defs, HandlerFuncs{"loose": fn, "strict": fn})
	require.NoError(t, err)

	bad := map[string]any{"labels": map[string]any{"n": float64(5)}}

	_, err = m.Execute(context.Background(), "loose", bad)
	require.ErrorIs(t, err, ErrValidation)
	assert.False(t, errors.Is(err, ErrExecution))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "loose", verr.Tool)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "labels[n]", verr.Fields[0].Field)

	_, err = m.Execute(context.Background(), "strict", bad)
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, called)

	out, err := m.Execute(context.Background(), "strict", map[string]any{"labels": map[string]any{"n": "5"}})
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}
