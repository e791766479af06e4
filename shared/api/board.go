package api

import (
	"github.com/boardsync-dev/boardsync/shared/domain"
)

// Request DTOs

type CreateBoardRequest struct {
	Title           string `json:"title" validate:"required"`
	BackgroundColor string `json:"background_color,omitempty"`
	BackgroundImage string `json:"background_image,omitempty"`
}

// BoardPatch carries a partial board update; nil fields are left untouched
// when merged.
type BoardPatch struct {
	Title           *string `json:"title,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
	BackgroundImage *string `json:"background_image,omitempty"`
}

// DraftBoardList is an unsaved list: no id until the server assigns one.
type DraftBoardList struct {
	Title    string `json:"title" validate:"required"`
	Position int    `json:"position"`
}

// Response DTOs

type BoardResponse struct {
	domain.Board
}

type BoardListResponse struct {
	Boards []domain.Board `json:"boards"`
}
