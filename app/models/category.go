package models

import (
	"encoding/json"
	"net/url"
	"strings"
)

type Category struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	ParentID        *string `json:"parentId,omitempty"`
	ModuleID        string  `json:"moduleId"`
	ModuleTitle     string  `json:"moduleTitle,omitempty"`
	Description     string  `json:"description,omitempty"`
	IsActive        bool    `json:"isActive"`
	IsFeatured      bool    `json:"isFeatured"`
	DisplayOrder    int     `json:"displayOrder"`
	Image           string  `json:"image,omitempty"`
	MetaTitle       string  `json:"metaTitle,omitempty"`
	MetaDescription string  `json:"metaDescription,omitempty"`
}

func (c Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

func (c Category) Parent() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// UnmarshalJSON accepts the backend's variants: "_id" or "id", and module or
// parent references either as plain ids or as populated objects.
func (c *Category) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID              string          `json:"id"`
		MongoID         string          `json:"_id"`
		Title           string          `json:"title"`
		Name            string          `json:"name"`
		ParentCategory  json.RawMessage `json:"parentCategory"`
		ParentID        json.RawMessage `json:"parentId"`
		Module          json.RawMessage `json:"module"`
		ModuleID        json.RawMessage `json:"moduleId"`
		ModuleTitle     string          `json:"moduleTitle"`
		Description     string          `json:"description"`
		IsActive        *bool           `json:"isActive"`
		IsFeatured      bool            `json:"isFeatured"`
		DisplayOrder    flexInt         `json:"displayOrder"`
		Image           string          `json:"image"`
		MetaTitle       string          `json:"metaTitle"`
		MetaDescription string          `json:"metaDescription"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*c = Category{
		ID:              firstNonEmpty(raw.MongoID, raw.ID),
		Title:           firstNonEmpty(raw.Title, raw.Name),
		ModuleTitle:     raw.ModuleTitle,
		Description:     raw.Description,
		IsActive:        raw.IsActive == nil || *raw.IsActive,
		IsFeatured:      raw.IsFeatured,
		DisplayOrder:    int(raw.DisplayOrder),
		Image:           raw.Image,
		MetaTitle:       raw.MetaTitle,
		MetaDescription: raw.MetaDescription,
	}

	moduleRef := decodeRef(raw.Module)
	if moduleRef.ID == "" {
		moduleRef = decodeRef(raw.ModuleID)
	}
	c.ModuleID = moduleRef.ID
	if c.ModuleTitle == "" {
		c.ModuleTitle = moduleRef.Name
	}

	parentRef := decodeRef(raw.ParentCategory)
	if parentRef.ID == "" {
		parentRef = decodeRef(raw.ParentID)
	}
	if parentRef.ID != "" {
		id := parentRef.ID
		c.ParentID = &id
	}
	return nil
}

// ResolveImageURL turns a backend relative path into an absolute URL.
// Absolute URLs and empty paths are returned as is.
func ResolveImageURL(base, path string) string {
	if path == "" || base == "" {
		return path
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
}
