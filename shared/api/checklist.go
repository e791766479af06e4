package api

import (
	"time"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

type DraftChecklist struct {
	Title string `json:"title" validate:"required"`
}

type ChecklistPatch struct {
	Title *string `json:"title,omitempty"`
}

type DraftChecklistItem struct {
	Title               string           `json:"title" validate:"required"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	AssignedBoardUserId *domain.MemberId `json:"assigned_board_user_id,omitempty"`
}

// ChecklistItemPatch updates an item; AssignedBoardUserId uses a double
// pointer on the client side only through explicit helpers, so a plain nil
// means "leave as is" while the Clear flag detaches the member.
type ChecklistItemPatch struct {
	Title               *string          `json:"title,omitempty"`
	Completed           *bool            `json:"completed,omitempty"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	AssignedBoardUserId *domain.MemberId `json:"assigned_board_user_id,omitempty"`
	ClearAssignment     bool             `json:"clear_assignment,omitempty"`
}
