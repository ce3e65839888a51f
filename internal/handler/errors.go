package handler

import (
	"errors"
	"net/http"

	"github.com/hadiwyne/write-space/internal/service"
)

var (
	errUnauthorized          = errors.New("unauthorized")
	errInvalidToken          = errors.New("invalid token")
	errInvalidPostID         = errors.New("invalid post id")
	errInvalidCommentID      = errors.New("invalid comment id")
	errInvalidNotificationID = errors.New("invalid notification id")
	errInvalidUserID         = errors.New("invalid user id")
	errInvalidDraftID        = errors.New("invalid draft id")
	errInvalidCollectionID   = errors.New("invalid collection id")
)

func statusForError(err error) int {
	switch err {
	case service.ErrPostNotFound, service.ErrUserNotFound, service.ErrCommentNotFound,
		service.ErrDraftNotFound, service.ErrCollectionNotFound:
		return http.StatusNotFound
	case service.ErrNotYourPost, service.ErrNotYourComment, service.ErrNotYourCollection:
		return http.StatusForbidden
	case service.ErrCannotFollowSelf, service.ErrInvalidCollectionName:
		return http.StatusBadRequest
	case service.ErrCollectionSlugTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
