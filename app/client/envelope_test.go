package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		shape   Shape
		key     string
		count   int
	}{
		{"bare array", `[{"id":"1"},{"id":"2"}]`, ShapeArray, "", 2},
		{"keyed by resource", `{"categories":[{"id":"1"}]}`, ShapeKeyed, "categories", 1},
		{"keyed by items", `{"items":[{"id":"1"}],"total":1}`, ShapeKeyed, "items", 1},
		{"data array", `{"data":[{"id":"1"},{"id":"2"},{"id":"3"}]}`, ShapeData, "", 3},
		{"data keyed", `{"data":{"categories":[{"id":"1"}]}}`, ShapeData, "categories", 1},
		{"empty array", `[]`, ShapeArray, "", 0},
		{"unknown object", `{"results":[{"id":"1"}]}`, ShapeNone, "", 0},
		{"scalar", `"nope"`, ShapeNone, "", 0},
		{"null", `null`, ShapeNone, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := Inspect(json.RawMessage(tc.payload), "categories")
			assert.Equal(t, tc.shape, env.Shape)
			assert.Equal(t, tc.key, env.Key)
			assert.Len(t, env.Items, tc.count)
			assert.NotNil(t, env.Items)
		})
	}
}

func TestDecodeList(t *testing.T) {
	type rec struct {
		ID string `json:"id"`
	}

	items, err := DecodeList[rec](json.RawMessage(`{"data":{"zones":[{"id":"a"},{"id":"b"}]}}`), "zones")
	require.NoError(t, err)
	assert.Equal(t, []rec{{ID: "a"}, {ID: "b"}}, items)

	_, err = DecodeList[rec](json.RawMessage(`[{"id":1}]`), "zones")
	assert.Error(t, err)

	empty, err := DecodeList[rec](json.RawMessage(`{"message":"ok"}`), "zones")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUnwrapAndDecodeOne(t *testing.T) {
	type rec struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	for _, payload := range []string{
		`{"id":"1","title":"Hall"}`,
		`{"data":{"id":"1","title":"Hall"}}`,
		`{"category":{"id":"1","title":"Hall"}}`,
		`{"data":{"category":{"id":"1","title":"Hall"}}}`,
	} {
		got, err := DecodeOne[rec](json.RawMessage(payload), "category")
		require.NoError(t, err, payload)
		assert.Equal(t, rec{ID: "1", Title: "Hall"}, got, payload)
	}
}

func TestLookupBool(t *testing.T) {
	v, ok := LookupBool(json.RawMessage(`{"data":{"venue":{"isActive":false}}}`), "isActive", "venue")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = LookupBool(json.RawMessage(`{"isTopPick":true}`), "isTopPick", "venue")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = LookupBool(json.RawMessage(`{"message":"updated"}`), "isActive", "venue")
	assert.False(t, ok)

	_, ok = LookupBool(json.RawMessage(`{"isActive":"yes"}`), "isActive")
	assert.False(t, ok)

	_, ok = LookupBool(json.RawMessage(`null`), "isActive")
	assert.False(t, ok)
}

func TestNormalizeEquivalentShapes(t *testing.T) {
	want := Normalize(json.RawMessage(`[{"id":"1"},{"id":"2"}]`), "categories")
	require.Len(t, want, 2)

	for _, payload := range []string{
		`{"data":{"categories":[{"id":"1"},{"id":"2"}]}}`,
		`{"categories":[{"id":"1"},{"id":"2"}]}`,
	} {
		got := Normalize(json.RawMessage(payload), "categories")
		require.Len(t, got, len(want), payload)
		for i := range want {
			assert.JSONEq(t, string(want[i]), string(got[i]), payload)
		}
	}
}
