package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindOther Kind = iota
	KindUnauthenticated
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServerError
	KindTimeout
	KindNetworkUnreachable
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServerError:
		return "server_error"
	case KindTimeout:
		return "timeout"
	case KindNetworkUnreachable:
		return "network_unreachable"
	case KindValidation:
		return "validation"
	default:
		return "other"
	}
}

// APIError is the classified failure of a fetch. Status is zero for
// failures that never produced a response.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Body    string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// UserMessage is the text shown in a notification: the backend message when
// one was parsed, otherwise a generic message for the kind.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return genericMessage(e.Kind)
}

func (e *APIError) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindNetworkUnreachable
}

// KindOf reports the kind of a classified error, KindOther for anything else.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindOther
}

// UserMessage is the notification text for any error.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if err == nil {
		return ""
	}
	return genericMessage(KindOther)
}

func IsAuthFailure(err error) bool {
	k := KindOf(err)
	return k == KindUnauthenticated || k == KindUnauthorized
}

func genericMessage(k Kind) string {
	switch k {
	case KindUnauthenticated:
		return "Sesi tidak ditemukan. Silakan login terlebih dahulu."
	case KindUnauthorized:
		return "Sesi Anda telah berakhir. Silakan login kembali."
	case KindForbidden:
		return "Anda tidak memiliki izin untuk melakukan aksi ini."
	case KindNotFound:
		return "Data tidak ditemukan."
	case KindServerError:
		return "Terjadi kesalahan pada server. Silakan coba lagi."
	case KindTimeout:
		return "Permintaan ke server melebihi batas waktu."
	case KindNetworkUnreachable:
		return "Tidak dapat terhubung ke server."
	case KindValidation:
		return "Data yang dikirim tidak valid."
	default:
		return "Terjadi kesalahan. Silakan coba lagi."
	}
}

func classifyStatus(status int, body []byte) *APIError {
	kind := KindOther
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status == http.StatusForbidden:
		kind = KindForbidden
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 500:
		kind = KindServerError
	}
	return &APIError{
		Kind:    kind,
		Status:  status,
		Message: messageFromBody(body),
		Body:    string(body),
	}
}

// messageFromBody pulls a human readable message out of an error body.
func messageFromBody(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "msg"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return ""
}

// NewValidationError wraps client side form failures so callers can surface
// them through the same path as API errors.
func NewValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

func NewUnauthenticatedError() *APIError {
	return &APIError{Kind: KindUnauthenticated}
}
