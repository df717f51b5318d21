package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ro-service/api/internal/application/upload"
	"github.com/ro-service/api/internal/domain"
)

type mockUploadSvc struct{ mock.Mock }

func (m *mockUploadSvc) Image(ctx context.Context, in upload.Input) (*domain.UploadedImage, error) {
	args := m.Called(ctx, in)
	if img, _ := args.Get(0).(*domain.UploadedImage); img != nil {
		return img, args.Error(1)
	}
	return nil, args.Error(1)
}

func multipartReq(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUpload_HappyPath(t *testing.T) {
	svc := &mockUploadSvc{}
	svc.On("Image", mock.Anything, mock.MatchedBy(func(in upload.Input) bool {
		return in.Filename == "filter.jpg" && in.ContentType == "image/jpeg" && in.Size == 4
	})).Return(&domain.UploadedImage{URL: "https://img.example/k.jpg", PublicID: "ro-maintenance/k.jpg"}, nil)
	h := NewUploadHandler(svc, 1024)

	rr := httptest.NewRecorder()
	h.Image(rr, multipartReq(t, "image", "filter.jpg", "image/jpeg", []byte("jpeg")))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"url":"https://img.example/k.jpg","publicId":"ro-maintenance/k.jpg"}`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestUpload_MissingField(t *testing.T) {
	h := NewUploadHandler(&mockUploadSvc{}, 1024)
	rr := httptest.NewRecorder()
	h.Image(rr, multipartReq(t, "file", "filter.jpg", "image/jpeg", []byte("jpeg")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No file uploaded")
}

func TestUpload_NotMultipart(t *testing.T) {
	h := NewUploadHandler(&mockUploadSvc{}, 1024)
	rr := httptest.NewRecorder()
	h.Image(rr, jsonReq(http.MethodPost, "/api/upload", `{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
