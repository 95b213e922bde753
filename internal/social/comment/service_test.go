// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package comment

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
)

const (
	authorID = "01923456-7890-7abc-def0-000000000001"
	otherID  = "01923456-7890-7abc-def0-000000000002"
	videoID  = "01923456-7890-7abc-def0-00000000000f"
)

// fakeCommentRepo is an in-memory CommentRepository.
type fakeCommentRepo struct {
	comments map[string]*Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*Comment{}}
}

func (r *fakeCommentRepo) ListByVideo(_ context.Context, videoID string, params pagination.Params) (*pipeline.Page[*Comment], error) {
	params = params.Normalize()
	var items []*Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			items = append(items, c)
		}
	}
	return &pipeline.Page[*Comment]{
		Items: items,
		Meta:  pagination.NewMeta(params.Page, params.Limit, len(items)),
	}, nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id string) (*Comment, error) {
	if c, ok := r.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *Comment) error {
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id, content string) error {
	if c, ok := r.comments[id]; ok {
		c.Content = content
		return nil
	}
	return apperr.NotFound("Comment")
}

func (r *fakeCommentRepo) SoftDelete(_ context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

func newTestService(repo *fakeCommentRepo) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestAdd_Validation rejects empty and oversized bodies.
*/
func TestAdd_Validation(t *testing.T) {
	service := newTestService(newFakeCommentRepo())

	_, err := service.Add(context.Background(), videoID, authorID, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	_, err = service.Add(context.Background(), videoID, authorID, strings.Repeat("a", MaxContentLength+1))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestUpdateAndDelete_AuthorGuard pins the author-only rule for edits and
deletions.
*/
func TestUpdateAndDelete_AuthorGuard(t *testing.T) {
	repo := newFakeCommentRepo()
	service := newTestService(repo)

	comment, err := service.Add(context.Background(), videoID, authorID, "first!")
	require.NoError(t, err)

	// A stranger can neither edit nor delete.
	_, err = service.Update(context.Background(), comment.ID, otherID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	err = service.Delete(context.Background(), comment.ID, otherID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// The author can do both.
	updated, err := service.Update(context.Background(), comment.ID, authorID, "first! (edited)")
	require.NoError(t, err)
	assert.Equal(t, "first! (edited)", updated.Content)

	require.NoError(t, service.Delete(context.Background(), comment.ID, authorID))

	_, err = service.Update(context.Background(), comment.ID, authorID, "too late")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
