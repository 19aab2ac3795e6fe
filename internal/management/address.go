// Package management speaks the WildFly HTTP management API: it builds
// operation requests against hierarchical resource addresses and narrows
// the polymorphic result payload per operation.
package management

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is an ordered list of path segments read as key/value pairs.
// ["subsystem", "logging"] identifies /subsystem=logging.
type Address []string

// NewAddress builds an address from alternating keys and values.
func NewAddress(segments ...string) Address {
	return Address(segments)
}

// ParseAddress parses the CLI form "/subsystem=logging/logger=org.foo".
// The root address is "/" or the empty string.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return Address{}, nil
	}

	var addr Address
	for _, part := range strings.Split(strings.Trim(s, "/"), "/") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid address element %q in %q", part, s)
		}
		addr = append(addr, key, value)
	}
	return addr, nil
}

// String renders the address in CLI form.
func (a Address) String() string {
	if len(a) == 0 {
		return "/"
	}
	var sb strings.Builder
	for i := 0; i < len(a); i += 2 {
		sb.WriteString("/")
		sb.WriteString(a[i])
		if i+1 < len(a) {
			sb.WriteString("=")
			sb.WriteString(a[i+1])
		}
	}
	return sb.String()
}

// MarshalJSON encodes the address as a list of single-key objects, which is
// the form the management endpoint accepts.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a)%2 != 0 {
		return nil, fmt.Errorf("address %v has an odd number of segments", []string(a))
	}
	elems := make([]map[string]string, 0, len(a)/2)
	for i := 0; i < len(a); i += 2 {
		elems = append(elems, map[string]string{a[i]: a[i+1]})
	}
	return json.Marshal(elems)
}

// UnmarshalJSON accepts both the object-list form and a flat string list.
func (a *Address) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		*a = flat
		return nil
	}

	var elems []map[string]string
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("failed to decode address: %w", err)
	}
	out := make(Address, 0, len(elems)*2)
	for _, elem := range elems {
		if len(elem) != 1 {
			return fmt.Errorf("address element must have exactly one key, got %d", len(elem))
		}
		for k, v := range elem {
			out = append(out, k, v)
		}
	}
	*a = out
	return nil
}
