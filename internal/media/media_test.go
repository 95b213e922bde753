// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package media

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/config"
)

func newTestService() *Service {
	return NewService(&config.Config{
		S3Bucket:        "vidora-media",
		S3Region:        "auto",
		S3Endpoint:      "http://127.0.0.1:9000",
		S3AccessKeyID:   "test-access-key",
		S3SecretKey:     "test-secret-key",
		S3PublicBaseURL: "https://cdn.vidora.app/",
	})
}

/*
TestGrantUpload_KeyShape signs a slot and checks the key layout and expiry.
Presigning is a local computation, so no storage backend is needed.
*/
func TestGrantUpload_KeyShape(t *testing.T) {
	service := newTestService()

	upload, err := service.GrantUpload(context.Background(), "thumbnail", "Cover Art.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.StorageKey, "thumbnails/"))
	assert.True(t, strings.HasSuffix(upload.StorageKey, ".png"))
	assert.Contains(t, upload.UploadURL, upload.StorageKey)
	assert.False(t, upload.ExpiresAt.IsZero())
}

/*
TestGrantUpload_UnknownKind is a 400 before any signing happens.
*/
func TestGrantUpload_UnknownKind(t *testing.T) {
	service := newTestService()

	_, err := service.GrantUpload(context.Background(), "podcast", "ep1.mp3")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestPublicURL joins keys under the CDN base without doubled slashes.
*/
func TestPublicURL(t *testing.T) {
	service := newTestService()

	assert.Equal(t, "https://cdn.vidora.app/videos/2026/08/31/x.mp4",
		service.PublicURL("videos/2026/08/31/x.mp4"))
	assert.Equal(t, "https://cdn.vidora.app/videos/y.mp4",
		service.PublicURL("/videos/y.mp4"))
}
