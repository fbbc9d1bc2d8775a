package admin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseVenueForm(t *testing.T) {
	req := postForm(url.Values{
		"name":                         {" Aula Utama "},
		"seated_capacity":              {"120"},
		"standing_capacity":            {"banyak"},
		"is_active":                    {"on"},
		"pricing_monday_morning_start": {"08:00"},
		"pricing_monday_morning_price": {"1500000"},
		"pricing_friday_evening_price": {"-5"},
	})

	form, files, errs, err := parseVenueForm(req)
	require.NoError(t, err)

	assert.Equal(t, "Aula Utama", form.Name)
	assert.Equal(t, 120, form.SeatedCapacity)
	assert.True(t, form.IsActive)
	assert.False(t, form.IsTopPick)
	assert.Empty(t, files.Images)

	assert.Contains(t, errs, "standing_capacity")
	assert.Contains(t, errs, "pricing_friday_evening_price")
	assert.Len(t, errs, 2)

	monday := form.PricingSchedule.Day("monday").Morning
	assert.Equal(t, "08:00", monday.StartTime)
	assert.Equal(t, "1500000", monday.PerDay.String())
	assert.Len(t, form.PricingSchedule, 7)
}

func TestParseCategoryForm(t *testing.T) {
	req := postForm(url.Values{
		"title":           {"  Ballroom "},
		"module":          {"64b7f0c2a1b2c3d4e5f60718"},
		"display_order":   {"x"},
		"is_featured":     {"true"},
		"parent_category": {""},
	})

	form, image, err := parseCategoryForm(req)
	require.NoError(t, err)
	assert.Equal(t, "Ballroom", form.Title)
	assert.Equal(t, -1, form.DisplayOrder, "non numeric order fails validation later")
	assert.True(t, form.IsFeatured)
	assert.False(t, form.IsActive)
	assert.Empty(t, image.Content)
}

func TestMergeErrors(t *testing.T) {
	assert.Nil(t, mergeErrors(nil, map[string]string{}))
	assert.Equal(t, map[string]string{"a": "2", "b": "1"}, mergeErrors(map[string]string{"a": "1", "b": "1"}, map[string]string{"a": "2"}))
}
