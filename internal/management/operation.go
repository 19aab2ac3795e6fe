package management

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Operation names a management operation.
type Operation string

const (
	OpAdd                     Operation = "add"
	OpRemove                  Operation = "remove"
	OpValidateAddress         Operation = "validate-address"
	OpReadAttribute           Operation = "read-attribute"
	OpReadResourceDescription Operation = "read-resource-description"
)

// OutcomeSuccess is the outcome of an operation that completed.
const OutcomeSuccess = "success"

// ErrResultKind is returned when a result is narrowed to a shape that does
// not belong to the operation that produced it.
var ErrResultKind = errors.New("result does not match operation")

// ParseOperation validates an operation name.
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(s))); op {
	case OpAdd, OpRemove, OpValidateAddress, OpReadAttribute, OpReadResourceDescription:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported operation %q", s)
	}
}

// APIURL returns the management API URL of a server endpoint.
func APIURL(endpoint string) string {
	return strings.TrimSuffix(endpoint, "/") + "/management"
}

// Request is a single management operation. It is built per call and not
// kept around.
type Request struct {
	ManagementAPI string
	Operation     Operation
	Address       Address
	Name          string
	Value         any
	// Params are extra operation parameters merged into the request body.
	Params map[string]any
}

// MarshalJSON produces the request body. Params are merged at top level;
// explicit fields win over params of the same name.
func (r Request) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(r.Params)+4)
	for k, v := range r.Params {
		body[k] = v
	}
	body["operation"] = r.Operation
	if r.Address != nil {
		body["address"] = r.Address
	} else {
		body["address"] = Address{}
	}
	if r.Name != "" {
		body["name"] = r.Name
	}
	if r.Value != nil {
		body["value"] = r.Value
	}
	return json.Marshal(body)
}

// Response is the envelope returned for every operation.
type Response struct {
	Outcome            string          `json:"outcome"`
	Result             json.RawMessage `json:"result,omitempty"`
	FailureDescription json.RawMessage `json:"failure-description,omitempty"`

	// Operation is the operation that produced this response. It selects
	// which narrowing accessor is valid.
	Operation Operation `json:"-"`
}

// Succeeded reports whether the outcome is success.
func (r *Response) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Failure renders the failure description, if any.
func (r *Response) Failure() string {
	if len(r.FailureDescription) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.FailureDescription, &s); err == nil {
		return s
	}
	return string(r.FailureDescription)
}

func (r *Response) narrow(op Operation) error {
	if r.Operation != "" && r.Operation != op {
		return fmt.Errorf("%w: %s result read as %s", ErrResultKind, r.Operation, op)
	}
	return nil
}

// Value decodes a read-attribute result with DecodeValue.
func (r *Response) Value() (any, error) {
	if err := r.narrow(OpReadAttribute); err != nil {
		return nil, err
	}
	if len(r.Result) == 0 {
		return nil, nil
	}
	v, err := DecodeValue(r.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attribute value: %w", err)
	}
	return v, nil
}

// ValidityResult is the result of validate-address.
type ValidityResult struct {
	Valid   bool   `json:"valid"`
	Problem string `json:"problem,omitempty"`
}

// Validity decodes a validate-address result.
func (r *Response) Validity() (ValidityResult, error) {
	var v ValidityResult
	if err := r.narrow(OpValidateAddress); err != nil {
		return v, err
	}
	if err := json.Unmarshal(r.Result, &v); err != nil {
		return v, fmt.Errorf("failed to decode validate-address result: %w", err)
	}
	return v, nil
}

// AttributeDescriptor is the metadata of one attribute in a resource
// description.
type AttributeDescriptor struct {
	Description string
	Type        json.RawMessage
	Default     json.RawMessage
	HasDefault  bool
}

// UnmarshalJSON records whether a default is declared, including an
// explicit null default.
func (d *AttributeDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if desc, ok := raw["description"]; ok {
		_ = json.Unmarshal(desc, &d.Description)
	}
	d.Type = raw["type"]
	d.Default, d.HasDefault = raw["default"]
	return nil
}

// ResourceDescription is the result of read-resource-description.
type ResourceDescription struct {
	Description string                         `json:"description"`
	Attributes  map[string]AttributeDescriptor `json:"attributes"`
}

// AttributeDefault pairs an attribute name with its declared default.
type AttributeDefault struct {
	Name  string
	Value any
}

// WithDefaults returns the attributes that declare a default, sorted by name.
func (d ResourceDescription) WithDefaults() ([]AttributeDefault, error) {
	var out []AttributeDefault
	for name, attr := range d.Attributes {
		if !attr.HasDefault {
			continue
		}
		v, err := DecodeValue(attr.Default)
		if err != nil {
			return nil, fmt.Errorf("failed to decode default of %s: %w", name, err)
		}
		out = append(out, AttributeDefault{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Description decodes a read-resource-description result.
func (r *Response) Description() (ResourceDescription, error) {
	var d ResourceDescription
	if err := r.narrow(OpReadResourceDescription); err != nil {
		return d, err
	}
	if err := json.Unmarshal(r.Result, &d); err != nil {
		return d, fmt.Errorf("failed to decode resource description: %w", err)
	}
	return d, nil
}
