package baas

import (
	"encoding/json"
	"fmt"
)

// Query is a serialized filter in the platform's JSON query syntax.
type Query string

const MethodEqual = "equal"

// Filter is the decoded form of a Query.
type Filter struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute"`
	Values    []any  `json:"values"`
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...any) Query {
	b, _ := json.Marshal(Filter{Method: MethodEqual, Attribute: attribute, Values: values})
	return Query(b)
}

// Parse decodes q.
func (q Query) Parse() (Filter, error) {
	var f Filter
	if err := json.Unmarshal([]byte(q), &f); err != nil {
		return Filter{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if f.Method == "" || f.Attribute == "" {
		return Filter{}, fmt.Errorf("%w: method and attribute are required", ErrInvalidQuery)
	}
	return f, nil
}

// Match reports whether data satisfies f. Only equality is supported;
// values are compared by their JSON encoding so 1 and 1.0 match.
func (f Filter) Match(data map[string]any) bool {
	if f.Method != MethodEqual {
		return false
	}
	got, ok := data[f.Attribute]
	if !ok {
		return false
	}
	gb, _ := json.Marshal(got)
	for _, want := range f.Values {
		wb, _ := json.Marshal(want)
		if string(gb) == string(wb) {
			return true
		}
	}
	return false
}
