package domain

import "time"

// Card belongs to exactly one list at a time; ListId is mutable because a
// card may be moved between lists.
type Card struct {
	Id          CardId     `json:"id"`
	ListId      ListId     `json:"list_id"`
	OwnerId     UserId     `json:"owner_id,omitempty"`
	Title       CardTitle  `json:"title"`
	Description string     `json:"description,omitempty"`
	Position    int        `json:"position"`
	Archived    bool       `json:"archived,omitempty"`
	ArchivedOn  *time.Time `json:"archived_on,omitempty"`

	Dates           []CardDate      `json:"dates"`
	AssignedMembers []CardMember    `json:"assigned_members"`
	Checklists      []CardChecklist `json:"checklists"`
}

// CardDate is a (possibly ranged) due date. DtTo is required, DtFrom marks a
// range start. Instants are UTC on the wire; display conversion happens
// outside this module.
type CardDate struct {
	Id          DateId     `json:"id"`
	CardId      CardId     `json:"card_id"`
	DtFrom      *time.Time `json:"dt_from,omitempty"`
	DtTo        time.Time  `json:"dt_to"`
	Description string     `json:"description,omitempty"`
	Complete    bool       `json:"complete"`
}

// CardMember references a board member; it does not own the user.
type CardMember struct {
	Id               MemberId         `json:"id"`
	BoardUserId      MemberId         `json:"board_user_id"`
	SendNotification bool             `json:"send_notification"`
	BoardUser        BoardAllowedUser `json:"board_user"`
}
