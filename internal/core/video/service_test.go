// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package video

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
	"github.com/trananhvu/vidora/pkg/pointer"
)

const (
	ownerID  = "01923456-7890-7abc-def0-000000000001"
	viewerID = "01923456-7890-7abc-def0-000000000002"
)

// # Test Fakes

// fakeVideoRepo is an in-memory VideoRepository that records the last
// pipeline it executed.
type fakeVideoRepo struct {
	videos       map[string]*Video
	lastPipeline pipeline.Pipeline
	watched      map[string]bool // userID+videoID -> seen before
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{
		videos:  map[string]*Video{},
		watched: map[string]bool{},
	}
}

func (r *fakeVideoRepo) List(_ context.Context, listing pipeline.Pipeline, params pagination.Params) (*pipeline.Page[*Video], error) {
	r.lastPipeline = listing
	params = params.Normalize()
	return &pipeline.Page[*Video]{
		Items: []*Video{},
		Meta:  pagination.NewMeta(params.Page, params.Limit, 0),
	}, nil
}

func (r *fakeVideoRepo) FindByID(_ context.Context, id string) (*Video, error) {
	if v, ok := r.videos[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, apperr.NotFound("Video")
}

func (r *fakeVideoRepo) FindBySlug(_ context.Context, slug string) (*Video, error) {
	for _, v := range r.videos {
		if v.Slug == slug {
			copied := *v
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Video")
}

func (r *fakeVideoRepo) Create(_ context.Context, video *Video) error {
	for _, v := range r.videos {
		if v.Slug == video.Slug {
			return apperr.Conflict("Resource already exists")
		}
	}
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video *Video) error {
	if _, ok := r.videos[video.ID]; !ok {
		return apperr.NotFound("Video")
	}
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) SoftDelete(_ context.Context, id string) error {
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) RecordView(_ context.Context, userID, videoID string) (bool, error) {
	key := userID + "/" + videoID
	first := !r.watched[key]
	r.watched[key] = true
	if first {
		r.videos[videoID].Views++
	}
	return first, nil
}

// staticResolver maps keys under a fixed base, mirroring the media service.
type staticResolver struct{}

func (staticResolver) PublicURL(key string) string { return "https://cdn.vidora.app/" + key }

func newTestService(repo *fakeVideoRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, staticResolver{}, logger)
}

// # Publishing

/*
TestPublish_CreatesSluggedEntry checks identity, slug derivation, and key
resolution on the happy path.
*/
func TestPublish_CreatesSluggedEntry(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	video, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title:               "My Fîrst Vlog!",
		Description:         "hello",
		VideoStorageKey:     "videos/abc.mp4",
		ThumbnailStorageKey: "thumbs/abc.jpg",
		Duration:            125,
		Publish:             true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, video.ID)
	assert.True(t, strings.HasPrefix(video.Slug, "my-first-vlog-"))
	assert.Equal(t, "https://cdn.vidora.app/videos/abc.mp4", video.VideoURL)
	assert.Equal(t, "https://cdn.vidora.app/thumbs/abc.jpg", video.ThumbnailURL)
	assert.True(t, video.IsPublished)
}

/*
TestPublish_Validation rejects missing titles and missing storage keys.
*/
func TestPublish_Validation(t *testing.T) {
	service := newTestService(newFakeVideoRepo())

	tests := []struct {
		name  string
		input PublishInput
	}{
		{name: "missing_title", input: PublishInput{VideoStorageKey: "videos/a.mp4"}},
		{name: "missing_video_key", input: PublishInput{Title: "Clip"}},
		{name: "negative_duration", input: PublishInput{Title: "Clip", VideoStorageKey: "videos/a.mp4", Duration: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Publish(context.Background(), ownerID, tc.input)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
		})
	}
}

/*
TestPublish_SameTitleTwice verifies the slug suffix keeps two uploads with
the same title from colliding.
*/
func TestPublish_SameTitleTwice(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	first, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Weekly Update", VideoStorageKey: "videos/1.mp4",
	})
	require.NoError(t, err)

	second, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Weekly Update", VideoStorageKey: "videos/2.mp4",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
}

// # Visibility

/*
TestGet_DraftVisibility pins draft resolution: owners see their drafts,
everyone else gets the same 404 as for a missing video.
*/
func TestGet_DraftVisibility(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	draft, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Secret Cut", VideoStorageKey: "videos/s.mp4",
	})
	require.NoError(t, err)

	// Owner resolves the draft.
	got, err := service.Get(context.Background(), draft.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	// Another viewer gets a plain 404, by ID and by slug.
	_, err = service.Get(context.Background(), draft.ID, viewerID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	_, err = service.Get(context.Background(), draft.Slug, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestList_OwnerBypass checks that drafts are included only when the listing
is scoped to the viewer's own channel.
*/
func TestList_OwnerBypass(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	hasPublishedFilter := func(p pipeline.Pipeline) bool {
		for _, stage := range p.Stages() {
			if strings.Contains(stage.Expr, "ispublished") {
				return true
			}
		}
		return false
	}

	// Own channel: drafts included.
	_, err := service.List(context.Background(), ListInput{OwnerID: ownerID}, ownerID, pagination.Params{})
	require.NoError(t, err)
	assert.False(t, hasPublishedFilter(repo.lastPipeline))

	// Someone else's channel: published only.
	_, err = service.List(context.Background(), ListInput{OwnerID: ownerID}, viewerID, pagination.Params{})
	require.NoError(t, err)
	assert.True(t, hasPublishedFilter(repo.lastPipeline))

	// Unscoped listing never includes drafts, even for creators.
	_, err = service.List(context.Background(), ListInput{}, ownerID, pagination.Params{})
	require.NoError(t, err)
	assert.True(t, hasPublishedFilter(repo.lastPipeline))
}

// # Ownership Guards

/*
TestUpdate_OwnerGuard ensures metadata changes are author-only.
*/
func TestUpdate_OwnerGuard(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	video, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Mine", VideoStorageKey: "videos/m.mp4", Publish: true,
	})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), video.ID, viewerID, UpdateInput{Title: pointer.To("Hijacked")})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	err = service.Delete(context.Background(), video.ID, viewerID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	_, err = service.TogglePublish(context.Background(), video.ID, viewerID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)
}

/*
TestTogglePublish_Flips round-trips the publish state.
*/
func TestTogglePublish_Flips(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	video, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Draft", VideoStorageKey: "videos/d.mp4",
	})
	require.NoError(t, err)
	require.False(t, video.IsPublished)

	toggled, err := service.TogglePublish(context.Background(), video.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPublished)

	toggled, err = service.TogglePublish(context.Background(), video.ID, ownerID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)
}

// # View Recording

/*
TestRecordView_FirstWatchOnly checks that only the first watch per viewer
moves the counter, and that drafts reject foreign viewers.
*/
func TestRecordView_FirstWatchOnly(t *testing.T) {
	repo := newFakeVideoRepo()
	service := newTestService(repo)

	video, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Live", VideoStorageKey: "videos/l.mp4", Publish: true,
	})
	require.NoError(t, err)

	counted, err := service.RecordView(context.Background(), video.ID, viewerID)
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = service.RecordView(context.Background(), video.ID, viewerID)
	require.NoError(t, err)
	assert.False(t, counted)

	got, err := service.Get(context.Background(), video.ID, viewerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	// Draft: only the owner can preview-watch.
	draft, err := service.Publish(context.Background(), ownerID, PublishInput{
		Title: "Preview", VideoStorageKey: "videos/p.mp4",
	})
	require.NoError(t, err)

	_, err = service.RecordView(context.Background(), draft.ID, viewerID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	counted, err = service.RecordView(context.Background(), draft.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, counted)
}
