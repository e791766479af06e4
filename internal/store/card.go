package store

import (
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/errors"
)

// CardStore is the active-card view model: a second owner of the currently
// open card, separate from the board graph's copy, plus the card's paginated
// activity feed. Every mutation path must touch both copies within the same
// synchronous step; the two then stay convergent because both apply the same
// idempotent operations.
type CardStore struct {
	card       *domain.Card
	cardMoved  bool
	activities *domain.PaginatedCardActivity
}

func NewCardStore() *CardStore {
	return &CardStore{}
}

func (s *CardStore) Card() *domain.Card { return s.card }

// Active reports whether the given card is the one open in the detail view.
func (s *CardStore) Active(cardId domain.CardId) bool {
	return s.card != nil && s.card.Id == cardId
}

func (s *CardStore) SetCard(c *domain.Card) {
	s.card = c
	s.cardMoved = false
}

func (s *CardStore) Unload() {
	s.card = nil
	s.activities = nil
	s.cardMoved = false
}

// UpdateCard replaces the held card when it is the addressed one.
func (s *CardStore) UpdateCard(c domain.Card) error {
	if !s.Active(c.Id) {
		return errors.ErrNotFound
	}
	mergeCard(s.card, c)
	return nil
}

// CardMoved is set when an event relocated the open card out from under the
// detail view, so the view can be told about it.
func (s *CardStore) CardMoved() bool     { return s.cardMoved }
func (s *CardStore) SetCardMoved(v bool) { s.cardMoved = v }

// Activity feed. Fetched on demand, newest first, never fully resident.

func (s *CardStore) Activities() *domain.PaginatedCardActivity { return s.activities }

func (s *CardStore) SetActivities(a *domain.PaginatedCardActivity) {
	s.activities = a
}

// AppendActivities adds an older page to the feed, skipping entries already
// present.
func (s *CardStore) AppendActivities(page domain.PaginatedCardActivity) {
	if s.activities == nil {
		s.activities = &page
		return
	}
	for _, a := range page.Data {
		if s.findActivity(a.Id) == -1 {
			s.activities.Data = append(s.activities.Data, a)
		}
	}
	s.activities.Page = page.Page
	s.activities.Pages = page.Pages
	s.activities.Total = page.Total
}

func (s *CardStore) findActivity(id domain.ActivityId) int {
	if s.activities == nil {
		return -1
	}
	for i := range s.activities.Data {
		if s.activities.Data[i].Id == id {
			return i
		}
	}
	return -1
}

// AddActivity prepends a new feed entry; redelivery replaces in place.
func (s *CardStore) AddActivity(a domain.CardActivity) error {
	if !s.Active(a.CardId) || s.activities == nil {
		return errors.ErrNotFound
	}
	if i := s.findActivity(a.Id); i > -1 {
		s.activities.Data[i] = a
		return nil
	}
	s.activities.Data = append([]domain.CardActivity{a}, s.activities.Data...)
	s.activities.Total++
	return nil
}

func (s *CardStore) UpdateActivity(a domain.CardActivity) error {
	if !s.Active(a.CardId) {
		return errors.ErrNotFound
	}
	if i := s.findActivity(a.Id); i > -1 {
		s.activities.Data[i] = a
		return nil
	}
	return errors.ErrNotFound
}

func (s *CardStore) RemoveActivity(id domain.ActivityId) error {
	if i := s.findActivity(id); i > -1 {
		s.activities.Data = removeAt(s.activities.Data, i)
		s.activities.Total--
		return nil
	}
	return errors.ErrNotFound
}

// Sub-entities of the open card. Mirrors of the board-store operations,
// keyed only by the card id since at most one card is held.

func (s *CardStore) AddDate(cardId domain.CardId, d domain.CardDate) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.Dates {
		if s.card.Dates[i].Id == d.Id {
			s.card.Dates[i] = d
			return nil
		}
	}
	s.card.Dates = append(s.card.Dates, d)
	return nil
}

func (s *CardStore) UpdateDate(cardId domain.CardId, d domain.CardDate) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.Dates {
		if s.card.Dates[i].Id == d.Id {
			s.card.Dates[i] = d
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *CardStore) RemoveDate(cardId domain.CardId, id domain.DateId) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.Dates {
		if s.card.Dates[i].Id == id {
			s.card.Dates = removeAt(s.card.Dates, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *CardStore) AddMember(cardId domain.CardId, m domain.CardMember) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.AssignedMembers {
		if s.card.AssignedMembers[i].Id == m.Id {
			s.card.AssignedMembers[i] = m
			return nil
		}
	}
	s.card.AssignedMembers = append(s.card.AssignedMembers, m)
	return nil
}

func (s *CardStore) RemoveMember(cardId domain.CardId, id domain.MemberId) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.AssignedMembers {
		if s.card.AssignedMembers[i].Id == id {
			s.card.AssignedMembers = removeAt(s.card.AssignedMembers, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *CardStore) AddChecklist(cardId domain.CardId, cl domain.CardChecklist) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	if cl.Items == nil {
		cl.Items = []domain.ChecklistItem{}
	}
	for i := range s.card.Checklists {
		if s.card.Checklists[i].Id == cl.Id {
			s.card.Checklists[i] = cl
			return nil
		}
	}
	s.card.Checklists = append(s.card.Checklists, cl)
	return nil
}

func (s *CardStore) UpdateChecklist(cardId domain.CardId, cl domain.CardChecklist) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.Checklists {
		if s.card.Checklists[i].Id == cl.Id {
			if cl.Items == nil {
				cl.Items = s.card.Checklists[i].Items
			}
			s.card.Checklists[i] = cl
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *CardStore) RemoveChecklist(cardId domain.CardId, id domain.ChecklistId) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	for i := range s.card.Checklists {
		if s.card.Checklists[i].Id == id {
			s.card.Checklists = removeAt(s.card.Checklists, i)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (s *CardStore) checklist(id domain.ChecklistId) (*domain.CardChecklist, bool) {
	if s.card == nil {
		return nil, false
	}
	for i := range s.card.Checklists {
		if s.card.Checklists[i].Id == id {
			return &s.card.Checklists[i], true
		}
	}
	return nil, false
}

func (s *CardStore) AddChecklistItem(cardId domain.CardId, item domain.ChecklistItem) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	cl, ok := s.checklist(item.ChecklistId)
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

func (s *CardStore) UpdateChecklistItem(cardId domain.CardId, item domain.ChecklistItem) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	cl, ok := s.checklist(item.ChecklistId)
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

func (s *CardStore) RemoveChecklistItem(cardId domain.CardId, checklistId domain.ChecklistId, itemId domain.ItemId) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	cl, ok := s.checklist(checklistId)
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

func (s *CardStore) ApplyChecklistItemOrder(cardId domain.CardId, checklistId domain.ChecklistId, order []domain.ItemId) error {
	if !s.Active(cardId) {
		return errors.ErrNotFound
	}
	cl, ok := s.checklist(checklistId)
	if !ok {
		return errors.ErrNotFound
	}
	applyOrder(cl.Items, order,
		func(it *domain.ChecklistItem) int64 { return it.Id },
		func(it *domain.ChecklistItem, p int) { it.Position = p })
	return nil
}
