package management

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Address
		wantErr bool
	}{
		{"root slash", "/", Address{}, false},
		{"empty", "", Address{}, false},
		{"single pair", "/subsystem=logging", Address{"subsystem", "logging"}, false},
		{"nested", "/subsystem=logging/logger=org.jboss", Address{"subsystem", "logging", "logger", "org.jboss"}, false},
		{"missing value", "/subsystem=", nil, true},
		{"missing separator", "/subsystem", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "/", Address{}.String())
	assert.Equal(t, "/subsystem=mail/mail-session=default", NewAddress("subsystem", "mail", "mail-session", "default").String())
}

func TestAddressJSON(t *testing.T) {
	data, err := json.Marshal(NewAddress("subsystem", "logging"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"subsystem":"logging"}]`, string(data))

	_, err = json.Marshal(Address{"subsystem"})
	assert.Error(t, err, "odd segment count must not encode")

	var fromObjects Address
	require.NoError(t, json.Unmarshal([]byte(`[{"subsystem":"logging"},{"logger":"x"}]`), &fromObjects))
	assert.Equal(t, Address{"subsystem", "logging", "logger", "x"}, fromObjects)

	var fromFlat Address
	require.NoError(t, json.Unmarshal([]byte(`["subsystem","mail"]`), &fromFlat))
	assert.Equal(t, Address{"subsystem", "mail"}, fromFlat)
}

func TestRequestMarshalMergesParams(t *testing.T) {
	req := Request{
		ManagementAPI: "http://localhost:9990/management",
		Operation:     OpAdd,
		Address:       NewAddress("subsystem", "mail", "mail-session", "test"),
		Params: map[string]any{
			"jndi-name": "java:/mail/test",
			"operation": "ignored",
		},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"operation": "add",
		"address": [{"subsystem":"mail"},{"mail-session":"test"}],
		"jndi-name": "java:/mail/test"
	}`, string(data))
}

func TestRequestMarshalValidateAddress(t *testing.T) {
	req := Request{
		Operation: OpValidateAddress,
		Value:     NewAddress("subsystem", "logging"),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operation":"validate-address","address":[],"value":[{"subsystem":"logging"}]}`, string(data))
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("READ-ATTRIBUTE")
	require.NoError(t, err)
	assert.Equal(t, OpReadAttribute, op)

	_, err = ParseOperation("shutdown")
	assert.Error(t, err)
}

func TestAPIURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9990/management", APIURL("http://localhost:9990"))
	assert.Equal(t, "http://localhost:9990/management", APIURL("http://localhost:9990/"))
}

func TestResponseNarrowing(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		resp := &Response{Outcome: "success", Result: json.RawMessage(`"INFO"`), Operation: OpReadAttribute}
		v, err := resp.Value()
		require.NoError(t, err)
		assert.Equal(t, "INFO", v)
	})

	t.Run("validity", func(t *testing.T) {
		resp := &Response{Outcome: "success", Result: json.RawMessage(`{"valid":false,"problem":"not found"}`), Operation: OpValidateAddress}
		v, err := resp.Validity()
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, "not found", v.Problem)
	})

	t.Run("wrong kind", func(t *testing.T) {
		resp := &Response{Outcome: "success", Result: json.RawMessage(`"INFO"`), Operation: OpReadAttribute}
		_, err := resp.Validity()
		assert.ErrorIs(t, err, ErrResultKind)
		_, err = resp.Description()
		assert.ErrorIs(t, err, ErrResultKind)
	})

	t.Run("failure description", func(t *testing.T) {
		resp := &Response{Outcome: "failed", FailureDescription: json.RawMessage(`"WFLYCTL0216: Management resource not found"`)}
		assert.False(t, resp.Succeeded())
		assert.Equal(t, "WFLYCTL0216: Management resource not found", resp.Failure())
	})
}

func TestDescriptionWithDefaults(t *testing.T) {
	resp := &Response{
		Outcome:   "success",
		Operation: OpReadResourceDescription,
		Result: json.RawMessage(`{
			"description": "The logging subsystem",
			"attributes": {
				"use-deployment-logging-config": {"type": {"TYPE_MODEL_VALUE": "BOOLEAN"}, "default": true},
				"add-logging-api-dependencies": {"type": {"TYPE_MODEL_VALUE": "BOOLEAN"}, "default": false},
				"logging-profile": {"type": {"TYPE_MODEL_VALUE": "STRING"}},
				"nullable": {"default": null}
			}
		}`),
	}

	desc, err := resp.Description()
	require.NoError(t, err)
	assert.Len(t, desc.Attributes, 4)
	assert.False(t, desc.Attributes["logging-profile"].HasDefault)

	defaults, err := desc.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, []AttributeDefault{
		{Name: "add-logging-api-dependencies", Value: false},
		{Name: "nullable", Value: nil},
		{Name: "use-deployment-logging-config", Value: true},
	}, defaults)
}
