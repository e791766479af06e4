package api

import (
	"encoding/json"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

// Event is the wire envelope of the realtime stream. Data is decoded into the
// payload type matching Name; each kind has its own precise payload struct
// rather than one loosely typed catch-all.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Event kinds emitted on a board's stream.
const (
	EvBoardUpdate = "board.update"
	EvBoardDelete = "board.delete"

	EvListNew     = "list.new"
	EvListUpdate  = "list.update"
	EvListDelete  = "list.delete"
	EvListArchive = "list.archive"
	EvListRevert  = "list.revert"
	EvListOrder   = "list.order"

	EvCardNew     = "card.new"
	EvCardUpdate  = "card.update"
	EvCardDelete  = "card.delete"
	EvCardArchive = "card.archive"
	EvCardRevert  = "card.revert"
	EvCardOrder   = "card.order"

	EvCardDateNew    = "card.date.new"
	EvCardDateUpdate = "card.date.update"
	EvCardDateDelete = "card.date.delete"

	EvCardMemberNew    = "card.member.new"
	EvCardMemberDelete = "card.member.delete"

	EvChecklistNew    = "card.checklist.new"
	EvChecklistUpdate = "card.checklist.update"
	EvChecklistDelete = "card.checklist.delete"

	EvChecklistItemNew    = "checklist.item.new"
	EvChecklistItemUpdate = "checklist.item.update"
	EvChecklistItemDelete = "checklist.item.delete"
	EvChecklistItemOrder  = "checklist.item.order"

	EvActivityNew    = "card.activity.new"
	EvActivityUpdate = "card.activity.update"
	EvActivityDelete = "card.activity.delete"
)

// NewEvent marshals payload into an envelope. Marshal errors cannot happen
// for the payload types in this package.
func NewEvent(name string, payload any) Event {
	data, _ := json.Marshal(payload)
	return Event{Name: name, Data: data}
}

// Payloads. list_id always addresses the card's list BEFORE the change, so a
// receiver can locate the old copy even when the entity moved.

type BoardUpdatePayload struct {
	BoardId domain.BoardId `json:"board_id"`
	Patch   BoardPatch     `json:"patch"`
}

type BoardDeletePayload struct {
	BoardId domain.BoardId `json:"board_id"`
}

type ListEventPayload struct {
	Entity domain.BoardList `json:"entity"`
}

type ListDeletePayload struct {
	ListId domain.ListId `json:"list_id"`
}

type ListArchivePayload struct {
	ListId domain.ListId       `json:"list_id"`
	Entity domain.ArchivedList `json:"entity"`
}

type ListOrderPayload struct {
	Order []domain.ListId `json:"order"`
}

type CardEventPayload struct {
	ListId domain.ListId `json:"list_id"`
	CardId domain.CardId `json:"card_id"`
	Entity domain.Card   `json:"entity"`
}

type CardDeletePayload struct {
	ListId domain.ListId `json:"list_id"`
	CardId domain.CardId `json:"card_id"`
}

type CardArchivePayload struct {
	ListId domain.ListId       `json:"list_id"`
	CardId domain.CardId       `json:"card_id"`
	Entity domain.ArchivedCard `json:"entity"`
}

type CardOrderPayload struct {
	ListId domain.ListId   `json:"list_id"`
	Order  []domain.CardId `json:"order"`
}

type CardDatePayload struct {
	ListId domain.ListId   `json:"list_id"`
	CardId domain.CardId   `json:"card_id"`
	Entity domain.CardDate `json:"entity"`
}

type CardMemberPayload struct {
	ListId domain.ListId     `json:"list_id"`
	CardId domain.CardId     `json:"card_id"`
	Entity domain.CardMember `json:"entity"`
}

type ChecklistPayload struct {
	ListId domain.ListId        `json:"list_id"`
	CardId domain.CardId        `json:"card_id"`
	Entity domain.CardChecklist `json:"entity"`
}

type ChecklistItemPayload struct {
	ListId domain.ListId        `json:"list_id"`
	CardId domain.CardId        `json:"card_id"`
	Entity domain.ChecklistItem `json:"entity"`
}

// CardEntityDeletePayload removes one card sub-entity by id. ChecklistId is
// set only for checklist items.
type CardEntityDeletePayload struct {
	ListId      domain.ListId      `json:"list_id"`
	CardId      domain.CardId      `json:"card_id"`
	ChecklistId domain.ChecklistId `json:"checklist_id,omitempty"`
	EntityId    int64              `json:"entity_id"`
}

type ChecklistItemOrderPayload struct {
	ListId      domain.ListId      `json:"list_id"`
	CardId      domain.CardId      `json:"card_id"`
	ChecklistId domain.ChecklistId `json:"checklist_id"`
	Order       []domain.ItemId    `json:"order"`
}

type ActivityPayload struct {
	CardId domain.CardId       `json:"card_id"`
	Entity domain.CardActivity `json:"entity"`
}

type ActivityDeletePayload struct {
	CardId   domain.CardId     `json:"card_id"`
	EntityId domain.ActivityId `json:"entity_id"`
}
