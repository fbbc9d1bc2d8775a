package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/unrolled/render"
)

type toggleResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id"`
	Field   string `json:"field"`
	Value   bool   `json:"value"`
	Stale   bool   `json:"stale,omitempty"`
}

// respondToggle reports a toggle outcome to the switch that issued it. The
// value is always the one now held locally, so a failed call tells the page
// which state to roll back to.
func (h *AdminHandler) respondToggle(w http.ResponseWriter, r *http.Request, result services.ToggleResult, err error) {
	resp := toggleResponse{
		Status: helpers.StatusSuccess,
		ID:     result.EntityID,
		Field:  result.Field,
		Value:  result.Value,
		Stale:  result.Stale,
	}

	switch {
	case err == nil:
		resp.Message = "Status berhasil diperbarui."
		_ = h.render.JSON(w, http.StatusOK, resp)
	case errors.Is(err, services.ErrToggleInFlight):
		resp.Status = helpers.StatusError
		resp.Message = "Perubahan sebelumnya masih diproses."
		_ = h.render.JSON(w, http.StatusConflict, resp)
	case errors.Is(err, services.ErrToggleTarget):
		resp.Status = helpers.StatusError
		resp.Message = "Data tidak ditemukan."
		_ = h.render.JSON(w, http.StatusNotFound, resp)
	default:
		if h.redirectOnAuthError(w, r, err) {
			return
		}
		resp.Status = helpers.StatusError
		resp.Message = "Gagal memperbarui status: " + client.UserMessage(err)
		_ = h.render.JSON(w, toggleFailureStatus(err), resp)
	}
}

func toggleFailureStatus(err error) int {
	switch client.KindOf(err) {
	case client.KindNotFound:
		return http.StatusNotFound
	case client.KindTimeout:
		return http.StatusGatewayTimeout
	case client.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// ResponseSaver delivers an export as a download.
type ResponseSaver struct {
	render *render.Render
	w      http.ResponseWriter
}

func NewResponseSaver(rnd *render.Render, w http.ResponseWriter) *ResponseSaver {
	return &ResponseSaver{render: rnd, w: w}
}

func (s *ResponseSaver) Save(_ context.Context, export services.Export) error {
	s.w.Header().Set("Content-Type", export.ContentType)
	s.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	return s.render.Data(s.w, http.StatusOK, export.Body)
}
