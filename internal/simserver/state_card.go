package simserver

import (
	"time"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
)

// located pairs an entity with the addressing the event payloads need.
type located[E any] struct {
	Entity  E
	BoardId domain.BoardId
	ListId  domain.ListId
	CardId  domain.CardId
}

func (s *State) AddDate(cardId domain.CardId, draft api.DraftCardDate) (located[domain.CardDate], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return located[domain.CardDate]{}, err
	}
	d := domain.CardDate{
		Id: s.id(), CardId: cardId,
		DtFrom: draft.DtFrom, DtTo: draft.DtTo, Description: draft.Description,
	}
	c.Dates = append(c.Dates, d)
	return located[domain.CardDate]{Entity: d, BoardId: b.Id, ListId: l.Id, CardId: cardId}, nil
}

func (s *State) date(dateId domain.DateId) (*domain.Board, *domain.BoardList, *domain.Card, *domain.CardDate, error) {
	for _, b := range s.boards {
		for i := range b.Lists {
			for j := range b.Lists[i].Cards {
				c := &b.Lists[i].Cards[j]
				for k := range c.Dates {
					if c.Dates[k].Id == dateId {
						return b, &b.Lists[i], c, &c.Dates[k], nil
					}
				}
			}
		}
	}
	return nil, nil, nil, nil, notFound("date not found")
}

func (s *State) PatchDate(dateId domain.DateId, patch api.CardDatePatch) (located[domain.CardDate], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, d, err := s.date(dateId)
	if err != nil {
		return located[domain.CardDate]{}, err
	}
	if patch.DtFrom != nil {
		d.DtFrom = patch.DtFrom
	}
	if patch.DtTo != nil {
		d.DtTo = *patch.DtTo
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Complete != nil {
		d.Complete = *patch.Complete
	}
	return located[domain.CardDate]{Entity: *d, BoardId: b.Id, ListId: l.Id, CardId: c.Id}, nil
}

func (s *State) DeleteDate(dateId domain.DateId) (located[domain.CardDate], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, d, err := s.date(dateId)
	if err != nil {
		return located[domain.CardDate]{}, err
	}
	out := located[domain.CardDate]{Entity: *d, BoardId: b.Id, ListId: l.Id, CardId: c.Id}
	for i := range c.Dates {
		if c.Dates[i].Id == dateId {
			c.Dates = append(c.Dates[:i], c.Dates[i+1:]...)
			break
		}
	}
	return out, nil
}

func (s *State) AssignMember(cardId domain.CardId, draft api.DraftCardMember) (located[domain.CardMember], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return located[domain.CardMember]{}, err
	}
	var user domain.BoardAllowedUser
	for _, m := range s.members[b.Id] {
		if m.Id == draft.BoardUserId {
			user = m
			break
		}
	}
	if user.Id == 0 {
		return located[domain.CardMember]{}, badRequest("not a board member")
	}
	for _, m := range c.AssignedMembers {
		if m.BoardUserId == draft.BoardUserId {
			return located[domain.CardMember]{Entity: m, BoardId: b.Id, ListId: l.Id, CardId: cardId}, nil
		}
	}
	m := domain.CardMember{
		Id: s.id(), BoardUserId: draft.BoardUserId,
		SendNotification: draft.SendNotification, BoardUser: user,
	}
	c.AssignedMembers = append(c.AssignedMembers, m)
	return located[domain.CardMember]{Entity: m, BoardId: b.Id, ListId: l.Id, CardId: cardId}, nil
}

func (s *State) DeassignMember(cardId domain.CardId, boardUserId domain.MemberId) (located[domain.CardMember], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return located[domain.CardMember]{}, err
	}
	for i, m := range c.AssignedMembers {
		if m.BoardUserId == boardUserId {
			c.AssignedMembers = append(c.AssignedMembers[:i], c.AssignedMembers[i+1:]...)
			return located[domain.CardMember]{Entity: m, BoardId: b.Id, ListId: l.Id, CardId: cardId}, nil
		}
	}
	return located[domain.CardMember]{}, notFound("member not assigned")
}

func (s *State) CreateChecklist(cardId domain.CardId, draft api.DraftChecklist) (located[domain.CardChecklist], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return located[domain.CardChecklist]{}, err
	}
	cl := domain.CardChecklist{
		Id: s.id(), CardId: cardId, Title: draft.Title,
		Items: []domain.ChecklistItem{},
	}
	c.Checklists = append(c.Checklists, cl)
	return located[domain.CardChecklist]{Entity: cl, BoardId: b.Id, ListId: l.Id, CardId: cardId}, nil
}

func (s *State) PatchChecklist(checklistId domain.ChecklistId, patch api.ChecklistPatch) (located[domain.CardChecklist], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, cl, err := s.checklist(checklistId)
	if err != nil {
		return located[domain.CardChecklist]{}, err
	}
	if patch.Title != nil {
		cl.Title = *patch.Title
	}
	return located[domain.CardChecklist]{Entity: *cl, BoardId: b.Id, ListId: l.Id, CardId: c.Id}, nil
}

func (s *State) DeleteChecklist(checklistId domain.ChecklistId) (located[domain.CardChecklist], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, cl, err := s.checklist(checklistId)
	if err != nil {
		return located[domain.CardChecklist]{}, err
	}
	out := located[domain.CardChecklist]{Entity: *cl, BoardId: b.Id, ListId: l.Id, CardId: c.Id}
	for i := range c.Checklists {
		if c.Checklists[i].Id == checklistId {
			c.Checklists = append(c.Checklists[:i], c.Checklists[i+1:]...)
			break
		}
	}
	return out, nil
}

func (s *State) CreateItem(checklistId domain.ChecklistId, draft api.DraftChecklistItem) (located[domain.ChecklistItem], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, cl, err := s.checklist(checklistId)
	if err != nil {
		return located[domain.ChecklistItem]{}, err
	}
	item := domain.ChecklistItem{
		Id: s.id(), ChecklistId: checklistId,
		Title: draft.Title, DueDate: draft.DueDate,
		AssignedBoardUserId: draft.AssignedBoardUserId,
		Position:            len(cl.Items),
	}
	cl.Items = append(cl.Items, item)
	return located[domain.ChecklistItem]{Entity: item, BoardId: b.Id, ListId: l.Id, CardId: c.Id}, nil
}

func (s *State) item(itemId domain.ItemId) (*domain.Board, *domain.BoardList, *domain.Card, *domain.CardChecklist, *domain.ChecklistItem, error) {
	for _, b := range s.boards {
		for i := range b.Lists {
			for j := range b.Lists[i].Cards {
				c := &b.Lists[i].Cards[j]
				for k := range c.Checklists {
					cl := &c.Checklists[k]
					for m := range cl.Items {
						if cl.Items[m].Id == itemId {
							return b, &b.Lists[i], c, cl, &cl.Items[m], nil
						}
					}
				}
			}
		}
	}
	return nil, nil, nil, nil, nil, notFound("checklist item not found")
}

func (s *State) PatchItem(itemId domain.ItemId, patch api.ChecklistItemPatch) (located[domain.ChecklistItem], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, _, item, err := s.item(itemId)
	if err != nil {
		return located[domain.ChecklistItem]{}, err
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Completed != nil {
		item.Completed = *patch.Completed
		if *patch.Completed {
			now := time.Now().UTC()
			item.MarkedCompleteOn = &now
		} else {
			item.MarkedCompleteOn = nil
		}
	}
	if patch.DueDate != nil {
		item.DueDate = patch.DueDate
	}
	if patch.ClearAssignment {
		item.AssignedBoardUserId = nil
	} else if patch.AssignedBoardUserId != nil {
		item.AssignedBoardUserId = patch.AssignedBoardUserId
	}
	return located[domain.ChecklistItem]{Entity: *item, BoardId: b.Id, ListId: l.Id, CardId: c.Id}, nil
}

func (s *State) DeleteItem(itemId domain.ItemId) (located[domain.ChecklistItem], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, cl, item, err := s.item(itemId)
	if err != nil {
		return located[domain.ChecklistItem]{}, err
	}
	out := located[domain.ChecklistItem]{Entity: *item, BoardId: b.Id, ListId: l.Id, CardId: c.Id}
	for i := range cl.Items {
		if cl.Items[i].Id == item.Id {
			cl.Items = append(cl.Items[:i], cl.Items[i+1:]...)
			break
		}
	}
	for i := range cl.Items {
		cl.Items[i].Position = i
	}
	return out, nil
}

func (s *State) ItemOrder(checklistId domain.ChecklistId, order []domain.ItemId) (located[domain.CardChecklist], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, cl, err := s.checklist(checklistId)
	if err != nil {
		return located[domain.CardChecklist]{}, err
	}
	rank := make(map[domain.ItemId]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	items := cl.Items
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			ri, iok := rank[items[j-1].Id]
			rj, jok := rank[items[j].Id]
			if !iok {
				ri = len(order)
			}
			if !jok {
				rj = len(order)
			}
			if ri > rj {
				items[j-1], items[j] = items[j], items[j-1]
			} else {
				break
			}
		}
	}
	for i := range cl.Items {
		cl.Items[i].Position = i
	}
	return located[domain.CardChecklist]{Entity: *cl, BoardId: b.Id, ListId: l.Id, CardId: c.Id}, nil
}

// activities

func (s *State) AddComment(cardId domain.CardId, userId domain.UserId, text string) (located[domain.CardActivity], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return located[domain.CardActivity]{}, err
	}
	now := time.Now().UTC()
	activity := domain.CardActivity{
		Id: s.id(), CardId: c.Id, UserId: userId,
		Event:      domain.ActivityComment,
		ActivityOn: now,
		Comment: &domain.CardComment{
			Id: s.id(), CardId: c.Id, UserId: userId,
			Comment: text, Created: now, Updated: now,
		},
	}
	s.activities[cardId] = append([]domain.CardActivity{activity}, s.activities[cardId]...)
	return located[domain.CardActivity]{Entity: activity, BoardId: b.Id, ListId: l.Id, CardId: cardId}, nil
}

func (s *State) Activities(cardId domain.CardId, page, perPage int, activityType string) (domain.PaginatedCardActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, _, err := s.card(cardId); err != nil {
		return domain.PaginatedCardActivity{}, err
	}
	all := s.activities[cardId]
	if activityType == "comment" {
		filtered := make([]domain.CardActivity, 0, len(all))
		for _, a := range all {
			if a.Event == domain.ActivityComment {
				filtered = append(filtered, a)
			}
		}
		all = filtered
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}
	total := len(all)
	pages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return domain.PaginatedCardActivity{
		Data: all[start:end], Page: page, PerPage: perPage,
		Pages: pages, Total: total,
	}, nil
}
