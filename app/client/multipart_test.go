package client

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipartRequest(t *testing.T) {
	req, err := NewMultipart().
		Field("title", "Ballroom").
		OptionalField("parentId", "").
		File(File{Field: "image", Filename: "a.png", Content: []byte("png")}).
		File(File{Field: "empty", Filename: "b.png"}).
		Request(http.MethodPost, "/categories")
	require.NoError(t, err)

	httpReq := httptest.NewRequest(req.Method, req.Path, bytes.NewReader(req.Body))
	httpReq.Header.Set("Content-Type", req.ContentType)
	require.NoError(t, httpReq.ParseMultipartForm(1<<20))

	assert.Equal(t, "Ballroom", httpReq.FormValue("title"))
	_, hasParent := httpReq.MultipartForm.Value["parentId"]
	assert.False(t, hasParent)
	assert.Len(t, httpReq.MultipartForm.File["image"], 1)
	assert.Empty(t, httpReq.MultipartForm.File["empty"])
}

func uploadRequest(t *testing.T, files map[string][]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, contents := range files {
		for i, content := range contents {
			part, err := w.CreateFormFile(field, field+string(rune('a'+i))+".bin")
			require.NoError(t, err)
			_, err = part.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(1<<20))
	return r
}

func TestReadUpload(t *testing.T) {
	r := uploadRequest(t, map[string][]string{"thumbnail": {"12345"}})

	f, err := ReadUpload(r, "thumbnail", "thumb", 10)
	require.NoError(t, err)
	assert.Equal(t, "thumb", f.Field)
	assert.Equal(t, []byte("12345"), f.Content)

	missing, err := ReadUpload(r, "logo", "logo", 10)
	require.NoError(t, err)
	assert.Empty(t, missing.Content)

	_, err = ReadUpload(r, "thumbnail", "thumb", 3)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReadUploads(t *testing.T) {
	r := uploadRequest(t, map[string][]string{"images": {"one", "", "three"}})

	files, err := ReadUploads(r, "images", "images", 10)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, []byte("one"), files[0].Content)
	assert.Equal(t, []byte("three"), files[1].Content)

	none, err := ReadUploads(r, "documents", "documents", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = ReadUploads(r, "images", "images", 4)
	assert.Equal(t, KindValidation, KindOf(err))
}
