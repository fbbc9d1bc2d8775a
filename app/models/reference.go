package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Module struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (m *Module) UnmarshalJSON(b []byte) error {
	ref := decodeRef(b)
	m.ID = ref.ID
	m.Title = ref.Name
	return nil
}

type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (z *Zone) UnmarshalJSON(b []byte) error {
	ref := decodeRef(b)
	z.ID = ref.ID
	z.Name = ref.Name
	return nil
}

// Ref is a foreign key that the backend sends either as a bare id or as a
// populated object.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	*r = decodeRef(b)
	return nil
}

func decodeRef(raw json.RawMessage) Ref {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return Ref{}
	}

	var id string
	if err := json.Unmarshal(trimmed, &id); err == nil {
		return Ref{ID: id}
	}

	var obj struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Title   string `json:"title"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Ref{}
	}
	return Ref{ID: firstNonEmpty(obj.MongoID, obj.ID), Name: firstNonEmpty(obj.Title, obj.Name)}
}

// ModuleNames maps module ids to titles for display.
func ModuleNames(modules []Module) map[string]string {
	names := make(map[string]string, len(modules))
	for _, m := range modules {
		names[m.ID] = m.Title
	}
	return names
}

func ZoneNames(zones []Zone) map[string]string {
	names := make(map[string]string, len(zones))
	for _, z := range zones {
		names[z.ID] = z.Name
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// flexInt decodes numbers, numeric strings, empty strings and null.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		*n = 0
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		*n = flexInt(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", s)
	}
	*n = flexInt(f)
	return nil
}
