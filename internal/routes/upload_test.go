package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrodrive/catalog-api/internal/models"
)

func (f *fixture) doUpload(t *testing.T, token, fieldName, fileName, contentType string, data []byte) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)

	status, body := f.doUpload(t, editor, "file", "photo.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, true, body["success"])

	url, _ := body["url"].(string)
	assert.Contains(t, url, "catalog-images.s3.eu-central-1.amazonaws.com/motors/")
	assert.Contains(t, url, ".jpg")

	require.Len(t, f.objects.putCalls, 1)
	assert.Equal(t, "image/jpeg", *f.objects.putCalls[0].ContentType)
}

func TestUploadRejectsNonImages(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)

	status, body := f.doUpload(t, editor, "file", "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "please upload an image file", body["error"])
	assert.Empty(t, f.objects.putCalls)
}

func TestUploadRequiresFileField(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)

	status, body := f.doUpload(t, editor, "wrong-field", "photo.jpg", "image/jpeg", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "please upload a file", body["error"])
}

func TestUploadRoleGating(t *testing.T) {
	f := newFixture(t)
	user := f.tokenWithRole(t, "user", models.RoleUser)

	status, _ := f.doUpload(t, user, "file", "photo.jpg", "image/jpeg", []byte("x"))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.doUpload(t, "", "file", "photo.jpg", "image/jpeg", []byte("x"))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDeleteImage(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)

	status, body := f.do(t, http.MethodDelete, "/api/v1/upload/photo.jpg", editor, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	require.Len(t, f.objects.deleteCalls, 1)
	assert.Equal(t, "motors/photo.jpg", *f.objects.deleteCalls[0].Key)
}
