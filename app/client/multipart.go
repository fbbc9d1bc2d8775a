package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// File is one upload part of a multipart request.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

// Multipart accumulates fields and files in order and renders them into a
// Request body.
type Multipart struct {
	fields [][2]string
	files  []File
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// OptionalField skips empty values.
func (m *Multipart) OptionalField(name, value string) *Multipart {
	if value == "" {
		return m
	}
	return m.Field(name, value)
}

func (m *Multipart) File(f File) *Multipart {
	if len(f.Content) == 0 {
		return m
	}
	m.files = append(m.files, f)
	return m
}

func (m *Multipart) HasFile(field string) bool {
	for _, f := range m.files {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (m *Multipart) Request(method, path string) (Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range m.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return Request{}, fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return Request{}, fmt.Errorf("failed to create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return Request{}, fmt.Errorf("failed to write file part %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return Request{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return Request{
		Method:      method,
		Path:        path,
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}, nil
}

// ReadUpload reads an uploaded form file, returning a zero File when the
// field was left empty.
func ReadUpload(r *http.Request, field, targetField string, maxBytes int64) (File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to read upload %s: %w", field, err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return File{}, fmt.Errorf("failed to read upload %s: %w", field, err)
	}
	if int64(len(content)) > maxBytes {
		return File{}, NewValidationError(fmt.Sprintf("Ukuran file %s melebihi batas.", header.Filename))
	}
	return File{Field: targetField, Filename: header.Filename, Content: content}, nil
}

// ReadUploads reads every file posted under field.
func ReadUploads(r *http.Request, field, targetField string, maxBytes int64) ([]File, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	files := make([]File, 0, len(r.MultipartForm.File[field]))
	for _, header := range r.MultipartForm.File[field] {
		if header.Size > maxBytes {
			return nil, NewValidationError(fmt.Sprintf("Ukuran file %s melebihi batas.", header.Filename))
		}
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
		}
		content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
		}
		if len(content) == 0 {
			continue
		}
		files = append(files, File{Field: targetField, Filename: header.Filename, Content: content})
	}
	return files, nil
}
