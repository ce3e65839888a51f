package dto

import "time"

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

type ToggleResponse struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count,omitempty"`
}

type OnlineResponse struct {
	Online int `json:"online"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
