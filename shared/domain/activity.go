package domain

import "time"

// CardActivityEvent tags the kind of a card activity entry.
type CardActivityEvent int

const (
	ActivityAssignToList CardActivityEvent = iota + 1
	ActivityMoveToList
	ActivityComment
	ActivityChecklist
	ActivityMemberAssign
	ActivityDate
)

type CardComment struct {
	Id      int64     `json:"id"`
	UserId  UserId    `json:"user_id"`
	CardId  CardId    `json:"card_id"`
	Comment string    `json:"comment"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// CardListChange records a card moving between two lists. The nested lists
// are partial (id and title only).
type CardListChange struct {
	Id         int64     `json:"id"`
	ActivityId int64     `json:"activity_id"`
	FromListId ListId    `json:"from_list_id"`
	ToListId   ListId    `json:"to_list_id"`
	FromList   BoardList `json:"from_list"`
	ToList     BoardList `json:"to_list"`
}

// CardActivity is one entry of a card's activity feed. Comment and ListChange
// are populated depending on Event.
type CardActivity struct {
	Id         ActivityId        `json:"id"`
	CardId     CardId            `json:"card_id"`
	UserId     UserId            `json:"user_id"`
	ActivityOn time.Time         `json:"activity_on"`
	EntityId   *int64            `json:"entity_id,omitempty"`
	Event      CardActivityEvent `json:"event"`
	Comment    *CardComment      `json:"comment,omitempty"`
	ListChange *CardListChange   `json:"list_change,omitempty"`
	User       *UserBasicInfo    `json:"user,omitempty"`
}

// PaginatedCardActivity is one page of a card's activity feed; the feed is
// fetched on demand and never held in full.
type PaginatedCardActivity struct {
	Data    []CardActivity `json:"data"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Pages   int            `json:"pages"`
	Total   int            `json:"total"`
}
