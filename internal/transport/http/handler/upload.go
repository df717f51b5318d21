package handler

import (
	"errors"
	"net/http"

	"github.com/ro-service/api/internal/application/upload"
)

// multipartOverhead is the allowance for multipart headers on top of the file limit.
const multipartOverhead = 1 << 20

// UploadHandler handles image uploads.
type UploadHandler struct {
	svc      upload.Service
	maxBytes int64
}

func NewUploadHandler(svc upload.Service, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

// Image accepts one multipart "image" field.
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	img, err := h.svc.Image(r.Context(), upload.Input{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	}{true, img.URL, img.PublicID})
}
