package baas

import (
	"encoding/json"
	"maps"
	"strings"
	"time"
)

// Document is a stored record. System attributes are split out of Data.
type Document struct {
	ID         string
	Database   string
	Collection string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Data       map[string]any
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Data)+5)
	maps.Copy(m, d.Data)
	m["$id"] = d.ID
	m["$databaseId"] = d.Database
	m["$collectionId"] = d.Collection
	m["$createdAt"] = d.CreatedAt
	m["$updatedAt"] = d.UpdatedAt
	return json.Marshal(m)
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		var err error
		switch k {
		case "$id":
			err = json.Unmarshal(v, &d.ID)
		case "$databaseId":
			err = json.Unmarshal(v, &d.Database)
		case "$collectionId":
			err = json.Unmarshal(v, &d.Collection)
		case "$createdAt":
			err = json.Unmarshal(v, &d.CreatedAt)
		case "$updatedAt":
			err = json.Unmarshal(v, &d.UpdatedAt)
		default:
			if strings.HasPrefix(k, "$") {
				continue
			}
			var val any
			err = json.Unmarshal(v, &val)
			d.Data[k] = val
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode fills v from the document, attributes and system fields alike,
// using v's json tags.
func (d Document) Decode(v any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
