package domain

import "time"

type CardChecklist struct {
	Id     ChecklistId     `json:"id"`
	CardId CardId          `json:"card_id"`
	Title  string          `json:"title"`
	Items  []ChecklistItem `json:"items"`
}

type ChecklistItem struct {
	Id                  ItemId      `json:"id"`
	ChecklistId         ChecklistId `json:"checklist_id"`
	Title               string      `json:"title"`
	Completed           bool        `json:"completed"`
	MarkedCompleteOn    *time.Time  `json:"marked_complete_on,omitempty"`
	DueDate             *time.Time  `json:"due_date,omitempty"`
	AssignedBoardUserId *MemberId   `json:"assigned_board_user_id,omitempty"`
	Position            int         `json:"position"`
}
