package api

import (
	"time"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

// DraftCard is an unsaved card. ClientRef is a client-generated token used to
// correlate the draft with the confirmed entity in logs; it never enters the
// board graph.
type DraftCard struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	ClientRef   string `json:"client_ref,omitempty"`
}

type CardPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MoveCardParams relocates a card; Position is its new index in the target
// list.
type MoveCardParams struct {
	ListId   domain.ListId `json:"list_id"`
	Position int           `json:"position"`
}

type DraftCardDate struct {
	DtFrom      *time.Time `json:"dt_from,omitempty"`
	DtTo        time.Time  `json:"dt_to" validate:"required"`
	Description string     `json:"description,omitempty"`
}

type CardDatePatch struct {
	DtFrom      *time.Time `json:"dt_from,omitempty"`
	DtTo        *time.Time `json:"dt_to,omitempty"`
	Description *string    `json:"description,omitempty"`
	Complete    *bool      `json:"complete,omitempty"`
}

type DraftCardMember struct {
	BoardUserId      domain.MemberId `json:"board_user_id" validate:"required"`
	SendNotification bool            `json:"send_notification"`
}

type DeassignMemberRequest struct {
	BoardUserId domain.MemberId `json:"board_user_id" validate:"required"`
}

type CreateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// CardActivityQuery filters the paginated activity feed.
type CardActivityQuery struct {
	Page    int
	PerPage int
	Type    string // "all" or "comment"
	DtFrom  *time.Time
	DtTo    *time.Time
}
