package service

import "errors"

var (
	ErrInternal              = errors.New("internal server error")
	ErrPostNotFound          = errors.New("post not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrDraftNotFound         = errors.New("draft not found")
	ErrCollectionNotFound    = errors.New("collection not found")
	ErrNotYourPost           = errors.New("not your post")
	ErrNotYourComment        = errors.New("not your comment")
	ErrNotYourCollection     = errors.New("not your collection")
	ErrCannotFollowSelf      = errors.New("cannot follow yourself")
	ErrCollectionSlugTaken   = errors.New("collection with this name already exists")
	ErrInvalidCollectionName = errors.New("collection name has no usable characters")
)
