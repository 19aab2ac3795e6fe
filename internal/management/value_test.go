package management

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"string", `"INFO"`, "INFO"},
		{"null", `null`, nil},
		{"int", `25`, int64(25)},
		{"long above 2^53", `9007199254740993`, int64(9007199254740993)},
		{"negative long", `-9223372036854775808`, int64(-9223372036854775808)},
		{"integral double", `5.0`, int64(5)},
		{"double", `0.75`, 0.75},
		{"big integer", `123456789012345678901234567890`, json.Number("123456789012345678901234567890")},
		{"nested", `{"max":9007199254740993,"list":[1,2.5]}`, map[string]any{
			"max":  int64(9007199254740993),
			"list": []any{int64(1), 2.5},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeValueRejectsTrailingData(t *testing.T) {
	_, err := DecodeValue([]byte(`5 6`))
	assert.Error(t, err)
	_, err = DecodeValue([]byte(`INFO`))
	assert.Error(t, err)
}

func TestResponseValueKeepsLongs(t *testing.T) {
	resp := &Response{Outcome: OutcomeSuccess, Result: json.RawMessage(`9007199254740993`), Operation: OpReadAttribute}
	v, err := resp.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), v)
	assert.NotEqual(t, int64(9007199254740992), v)
}
