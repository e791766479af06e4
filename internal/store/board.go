package store

import (
	"sort"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/errors"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// BoardStore owns the live graph of the currently open board, the user's
// board collection and the acting user's claims for the open board.
type BoardStore struct {
	boards []domain.Board
	board  *domain.Board
	claims *domain.BoardClaims
	roles  []domain.BoardRole
	users  []domain.BoardAllowedUser
}

func NewBoardStore() *BoardStore {
	return &BoardStore{}
}

// Board returns the open board, nil when none is loaded.
func (s *BoardStore) Board() *domain.Board { return s.board }

// Loaded reports whether the given board is the open one. Responses for any
// other board are stale and must be discarded.
func (s *BoardStore) Loaded(boardId domain.BoardId) bool {
	return s.board != nil && s.board.Id == boardId
}

func (s *BoardStore) SetBoard(b *domain.Board) { s.board = b }

// Unload clears everything tied to the open board. Called on navigation away
// and before another board is opened.
func (s *BoardStore) Unload() {
	s.board = nil
	s.claims = nil
	s.roles = nil
	s.users = nil
}

// MergeBoard applies a partial board update; nil patch fields stay untouched.
func (s *BoardStore) MergeBoard(patch api.BoardPatch) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	if patch.Title != nil {
		s.board.Title = *patch.Title
	}
	if patch.BackgroundColor != nil {
		s.board.BackgroundColor = *patch.BackgroundColor
	}
	if patch.BackgroundImage != nil {
		s.board.BackgroundImage = *patch.BackgroundImage
	}
	return nil
}

// Board collection ("my boards" page).

func (s *BoardStore) Boards() []domain.Board     { return s.boards }
func (s *BoardStore) SetBoards(b []domain.Board) { s.boards = b }

func (s *BoardStore) AddBoard(b domain.Board) {
	for i := range s.boards {
		if s.boards[i].Id == b.Id {
			s.boards[i] = b
			return
		}
	}
	s.boards = append(s.boards, b)
}

func (s *BoardStore) RemoveBoard(id domain.BoardId) {
	for i := range s.boards {
		if s.boards[i].Id == id {
			s.boards = removeAt(s.boards, i)
			return
		}
	}
}

// Claims, roles and members. Read-mostly, refreshed on board load.

func (s *BoardStore) Claims() *domain.BoardClaims          { return s.claims }
func (s *BoardStore) SetClaims(c *domain.BoardClaims)      { s.claims = c }
func (s *BoardStore) Roles() []domain.BoardRole            { return s.roles }
func (s *BoardStore) SetRoles(r []domain.BoardRole)        { s.roles = r }
func (s *BoardStore) Users() []domain.BoardAllowedUser     { return s.users }
func (s *BoardStore) SetUsers(u []domain.BoardAllowedUser) { s.users = u }

// BoardUser resolves a board member by id; used for member display names.
func (s *BoardStore) BoardUser(id domain.MemberId) (domain.BoardAllowedUser, bool) {
	for _, u := range s.users {
		if u.Id == id {
			return u, true
		}
	}
	return domain.BoardAllowedUser{}, false
}

// Lists reconciliation.

func (s *BoardStore) Lists() []domain.BoardList {
	if s.board == nil {
		return nil
	}
	return s.board.Lists
}

func (s *BoardStore) SetLists(lists []domain.BoardList) {
	if s.board != nil {
		s.board.Lists = lists
	}
}

// UpsertList replaces the list by id when present, else appends it. The merge
// keeps the existing cards when the incoming payload carries none, so a bare
// metadata update never clobbers a populated list.
func (s *BoardStore) UpsertList(l domain.BoardList) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	if i, ok := findListIndex(s.board.Lists, l.Id); ok {
		if l.Cards == nil {
			l.Cards = s.board.Lists[i].Cards
		}
		s.board.Lists[i] = l
		return nil
	}
	if l.Cards == nil {
		l.Cards = []domain.Card{}
	}
	s.board.Lists = append(s.board.Lists, l)
	return nil
}

// RemoveList is a no-op when the list is already gone; a concurrent delete
// won the race and the graph is already consistent.
func (s *BoardStore) RemoveList(id domain.ListId) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	i, ok := findListIndex(s.board.Lists, id)
	if !ok {
		return errors.ErrNotFound
	}
	s.board.Lists = removeAt(s.board.Lists, i)
	return nil
}

func (s *BoardStore) SetCards(listId domain.ListId, cards []domain.Card) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	i, ok := findListIndex(s.board.Lists, listId)
	if !ok {
		return errors.ErrNotFound
	}
	s.board.Lists[i].Cards = cards
	return nil
}

// Cards reconciliation.

// FindCard returns a copy of the card at (listId, cardId).
func (s *BoardStore) FindCard(listId domain.ListId, cardId domain.CardId) (domain.Card, bool) {
	c, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return domain.Card{}, false
	}
	return *c, true
}

// FindCardAnywhere locates a card without knowing its current list.
func (s *BoardStore) FindCardAnywhere(cardId domain.CardId) (domain.Card, bool) {
	lists := s.Lists()
	pos, ok := findCardAnywhere(lists, cardId)
	if !ok {
		return domain.Card{}, false
	}
	return lists[pos.ListIndex].Cards[pos.CardIndex], true
}

// mergeCard overlays the authoritative card onto the held one. Sub-entity
// collections the payload omits survive the merge: a title-only update event
// must not drop checklists that only the local copy has.
func mergeCard(dst *domain.Card, src domain.Card) {
	if src.Dates == nil {
		src.Dates = dst.Dates
	}
	if src.AssignedMembers == nil {
		src.AssignedMembers = dst.AssignedMembers
	}
	if src.Checklists == nil {
		src.Checklists = dst.Checklists
	}
	*dst = src
}

// UpsertCard is the single entry point for card creation, update and
// relocation. The card's own ListId is authoritative: when it differs from
// the list currently holding the card, the card is removed there and inserted
// into the new list at the index implied by its position. Redundant delivery
// (REST response plus echoed event) is safe regardless of arrival order.
func (s *BoardStore) UpsertCard(c domain.Card) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	lists := s.board.Lists

	if pos, ok := findCardIndex(lists, c.ListId, c.Id); ok {
		mergeCard(&lists[pos.ListIndex].Cards[pos.CardIndex], c)
		return nil
	}

	// The addressed list does not hold the card. Either the card moved from
	// another list, or it is new.
	if pos, ok := findCardAnywhere(lists, c.Id); ok {
		old := lists[pos.ListIndex].Cards[pos.CardIndex]
		lists[pos.ListIndex].Cards = removeAt(lists[pos.ListIndex].Cards, pos.CardIndex)
		ni, ok := findListIndex(lists, c.ListId)
		if !ok {
			// Target list unknown; the card is parked nowhere and will come
			// back with the next full reload. Defect signal, not a crash.
			logger.Log.Error("card moved to unknown list", "cardId", c.Id, "listId", c.ListId)
			return errors.ErrNotFound
		}
		mergeCard(&old, c)
		lists[ni].Cards = insertAt(lists[ni].Cards, c.Position, old)
		return nil
	}

	ni, ok := findListIndex(lists, c.ListId)
	if !ok {
		return errors.ErrNotFound
	}
	lists[ni].Cards = append(lists[ni].Cards, c)
	return nil
}

// RemoveCard is a no-op when the card is already gone.
func (s *BoardStore) RemoveCard(listId domain.ListId, cardId domain.CardId) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	pos, ok := findCardIndex(s.board.Lists, listId, cardId)
	if !ok {
		// The event addresses the card's previous list; the card may have
		// been moved locally in the meantime.
		if pos, ok = findCardAnywhere(s.board.Lists, cardId); !ok {
			return errors.ErrNotFound
		}
	}
	s.board.Lists[pos.ListIndex].Cards = removeAt(s.board.Lists[pos.ListIndex].Cards, pos.CardIndex)
	return nil
}

// Card sub-entities: dates, members, checklists. Every add checks for an
// existing id first so a REST response and its echoed event never insert the
// same entity twice.

func (s *BoardStore) AddCardDate(listId domain.ListId, cardId domain.CardId, d domain.CardDate) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.Dates {
		if card.Dates[i].Id == d.Id {
			card.Dates[i] = d
			return nil
		}
	}
	card.Dates = append(card.Dates, d)
	return nil
}

func (s *BoardStore) UpdateCardDate(listId domain.ListId, cardId domain.CardId, d domain.CardDate) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.Dates {
		if card.Dates[i].Id == d.Id {
			card.Dates[i] = d
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *BoardStore) RemoveCardDate(listId domain.ListId, cardId domain.CardId, id domain.DateId) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.Dates {
		if card.Dates[i].Id == id {
			card.Dates = removeAt(card.Dates, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *BoardStore) AddCardMember(listId domain.ListId, cardId domain.CardId, m domain.CardMember) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.AssignedMembers {
		if card.AssignedMembers[i].Id == m.Id {
			card.AssignedMembers[i] = m
			return nil
		}
	}
	card.AssignedMembers = append(card.AssignedMembers, m)
	return nil
}

func (s *BoardStore) RemoveCardMember(listId domain.ListId, cardId domain.CardId, id domain.MemberId) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.AssignedMembers {
		if card.AssignedMembers[i].Id == id {
			card.AssignedMembers = removeAt(card.AssignedMembers, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *BoardStore) AddChecklist(listId domain.ListId, cardId domain.CardId, cl domain.CardChecklist) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	if cl.Items == nil {
		cl.Items = []domain.ChecklistItem{}
	}
	for i := range card.Checklists {
		if card.Checklists[i].Id == cl.Id {
			card.Checklists[i] = cl
			return nil
		}
	}
	card.Checklists = append(card.Checklists, cl)
	return nil
}

func (s *BoardStore) UpdateChecklist(listId domain.ListId, cardId domain.CardId, cl domain.CardChecklist) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.Checklists {
		if card.Checklists[i].Id == cl.Id {
			if cl.Items == nil {
				cl.Items = card.Checklists[i].Items
			}
			card.Checklists[i] = cl
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *BoardStore) RemoveChecklist(listId domain.ListId, cardId domain.CardId, id domain.ChecklistId) error {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range card.Checklists {
		if card.Checklists[i].Id == id {
			card.Checklists = removeAt(card.Checklists, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *BoardStore) checklist(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId) (*domain.CardChecklist, bool) {
	card, ok := findCard(s.Lists(), listId, cardId)
	if !ok {
		return nil, false
	}
	for i := range card.Checklists {
		if card.Checklists[i].Id == checklistId {
			return &card.Checklists[i], true
		}
	}
	return nil, false
}

func (s *BoardStore) AddChecklistItem(listId domain.ListId, cardId domain.CardId, item domain.ChecklistItem) error {
	cl, ok := s.checklist(listId, cardId, item.ChecklistId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range cl.Items {
		if cl.Items[i].Id == item.Id {
			cl.Items[i] = item
			return nil
		}
	}
	cl.Items = append(cl.Items, item)
	return nil
}

func (s *BoardStore) UpdateChecklistItem(listId domain.ListId, cardId domain.CardId, item domain.ChecklistItem) error {
	cl, ok := s.checklist(listId, cardId, item.ChecklistId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range cl.Items {
		if cl.Items[i].Id == item.Id {
			cl.Items[i] = item
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *BoardStore) RemoveChecklistItem(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId, itemId domain.ItemId) error {
	cl, ok := s.checklist(listId, cardId, checklistId)
	if !ok {
		return errors.ErrNotFound
	}
	for i := range cl.Items {
		if cl.Items[i].Id == itemId {
			cl.Items = removeAt(cl.Items, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

// Ordering. Position fields are only ever rewritten here, from an
// authoritative id sequence.

func (s *BoardStore) ApplyListOrder(order []domain.ListId) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	applyOrder(s.board.Lists, order,
		func(l *domain.BoardList) int64 { return l.Id },
		func(l *domain.BoardList, p int) { l.Position = p })
	return nil
}

func (s *BoardStore) ApplyCardOrder(listId domain.ListId, order []domain.CardId) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	i, ok := findListIndex(s.board.Lists, listId)
	if !ok {
		return errors.ErrNotFound
	}
	applyOrder(s.board.Lists[i].Cards, order,
		func(c *domain.Card) int64 { return c.Id },
		func(c *domain.Card, p int) { c.Position = p })
	return nil
}

func (s *BoardStore) ApplyChecklistItemOrder(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId, order []domain.ItemId) error {
	cl, ok := s.checklist(listId, cardId, checklistId)
	if !ok {
		return errors.ErrNotFound
	}
	applyOrder(cl.Items, order,
		func(it *domain.ChecklistItem) int64 { return it.Id },
		func(it *domain.ChecklistItem, p int) { it.Position = p })
	return nil
}

// SortCardsByPosition restores a list's card order from the stored position
// fields. Used after a revert puts an archived card back.
func (s *BoardStore) SortCardsByPosition(listId domain.ListId) error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	i, ok := findListIndex(s.board.Lists, listId)
	if !ok {
		return errors.ErrNotFound
	}
	cards := s.board.Lists[i].Cards
	sort.SliceStable(cards, func(a, b int) bool { return cards[a].Position < cards[b].Position })
	for p := range cards {
		cards[p].Position = p
	}
	return nil
}

// SortListsByPosition is the list-level mirror, used after a list revert.
func (s *BoardStore) SortListsByPosition() error {
	if s.board == nil {
		return errors.ErrNotFound
	}
	lists := s.board.Lists
	sort.SliceStable(lists, func(a, b int) bool { return lists[a].Position < lists[b].Position })
	for p := range lists {
		lists[p].Position = p
	}
	return nil
}
