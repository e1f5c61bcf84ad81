package toolkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaParseNestedDefaults(t *testing.T) {
	raw := Object(map[string]any{
		"amount": Prop("integer", "minor units", Minimum(1)),
		"options": Object(map[string]any{
			"currency": Prop("string", "", Default("usd")),
			"capture":  Prop("boolean", "", Default(true)),
		}),
	}, "amount")
	s, err := NewSchema("createPaymentIntent", raw)
	require.NoError(t, err)

	out, err := s.Parse(map[string]any{"amount": 100, "options": map[string]any{"capture": false}})
	require.NoError(t, err)
	opts := out["options"].(map[string]any)
	assert.Equal(t, "usd", opts["currency"])
	assert.Equal(t, false, opts["capture"])
}

func TestSchemaParseNilInput(t *testing.T) {
	s, err := NewSchema("listTeams", Object(map[string]any{
		"limit": Prop("integer", "", Default(50)),
	}))
	require.NoError(t, err)

	out, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"limit": 50}, out)
}

func TestSchemaParseEnum(t *testing.T) {
	s, err := NewSchema("listIssues", Object(map[string]any{
		"state": Prop("string", "", Enum("open", "closed", "all"), Default("open")),
	}))
	require.NoError(t, err)

	_, err = s.Parse(map[string]any{"state": "merged"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "state", verr.Fields[0].Field)
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t, []string{"a"}, RequiredFields(map[string]any{"required": []string{"a"}}))
	assert.Equal(t, []string{"a", "b"}, RequiredFields(map[string]any{"required": []any{"a", "b"}}))
	assert.Equal(t, []string{}, RequiredFields(map[string]any{}))
}
