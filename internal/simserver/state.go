package simserver

import (
	"sort"
	"sync"
	"time"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
)

// State is the whole backend in one mutex-guarded struct. Good enough for a
// development server; a real deployment talks to the actual backend.
type State struct {
	mu     sync.Mutex
	nextId int64

	boards    map[domain.BoardId]*domain.Board
	members   map[domain.BoardId][]domain.BoardAllowedUser
	roles     map[domain.BoardId][]domain.BoardRole
	archCards map[domain.BoardId][]domain.ArchivedCard
	archLists map[domain.BoardId][]domain.ArchivedList

	// full bodies kept aside so revert can restore sub-entities
	cardBodies map[domain.CardId]domain.Card
	listBodies map[domain.ListId]domain.BoardList

	activities map[domain.CardId][]domain.CardActivity
}

func NewState() *State {
	return &State{
		boards:     make(map[domain.BoardId]*domain.Board),
		members:    make(map[domain.BoardId][]domain.BoardAllowedUser),
		roles:      make(map[domain.BoardId][]domain.BoardRole),
		archCards:  make(map[domain.BoardId][]domain.ArchivedCard),
		archLists:  make(map[domain.BoardId][]domain.ArchivedList),
		cardBodies: make(map[domain.CardId]domain.Card),
		listBodies: make(map[domain.ListId]domain.BoardList),
		activities: make(map[domain.CardId][]domain.CardActivity),
	}
}

func notFound(msg string) error {
	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: 404}
}

func badRequest(msg string) error {
	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: 400}
}

func (s *State) id() int64 {
	s.nextId++
	return s.nextId
}

// locked lookups

func (s *State) board(id domain.BoardId) (*domain.Board, error) {
	b, ok := s.boards[id]
	if !ok {
		return nil, notFound("board not found")
	}
	return b, nil
}

func (s *State) list(listId domain.ListId) (*domain.Board, *domain.BoardList, error) {
	for _, b := range s.boards {
		for i := range b.Lists {
			if b.Lists[i].Id == listId {
				return b, &b.Lists[i], nil
			}
		}
	}
	return nil, nil, notFound("list not found")
}

func (s *State) card(cardId domain.CardId) (*domain.Board, *domain.BoardList, *domain.Card, error) {
	for _, b := range s.boards {
		for i := range b.Lists {
			for j := range b.Lists[i].Cards {
				if b.Lists[i].Cards[j].Id == cardId {
					return b, &b.Lists[i], &b.Lists[i].Cards[j], nil
				}
			}
		}
	}
	return nil, nil, nil, notFound("card not found")
}

func (s *State) checklist(checklistId domain.ChecklistId) (*domain.Board, *domain.BoardList, *domain.Card, *domain.CardChecklist, error) {
	for _, b := range s.boards {
		for i := range b.Lists {
			for j := range b.Lists[i].Cards {
				card := &b.Lists[i].Cards[j]
				for k := range card.Checklists {
					if card.Checklists[k].Id == checklistId {
						return b, &b.Lists[i], card, &card.Checklists[k], nil
					}
				}
			}
		}
	}
	return nil, nil, nil, nil, notFound("checklist not found")
}

// boards

func (s *State) Boards() []domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Board, 0, len(s.boards))
	for _, b := range s.boards {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (s *State) Board(id domain.BoardId) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(id)
	if err != nil {
		return domain.Board{}, err
	}
	return *b, nil
}

func (s *State) CreateBoard(req api.CreateBoardRequest, ownerId domain.UserId) domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &domain.Board{
		Id:              s.id(),
		OwnerId:         ownerId,
		Title:           req.Title,
		BackgroundColor: req.BackgroundColor,
		BackgroundImage: req.BackgroundImage,
		Lists:           []domain.BoardList{},
	}
	s.boards[b.Id] = b
	memberId := s.id()
	s.roles[b.Id] = []domain.BoardRole{{Id: s.id(), Name: "owner", IsAdmin: true}}
	s.members[b.Id] = []domain.BoardAllowedUser{{
		Id: memberId, BoardId: b.Id, UserId: ownerId, IsOwner: true,
		User: domain.UserBasicInfo{Id: ownerId, Username: "owner"},
	}}
	return *b
}

func (s *State) PatchBoard(id domain.BoardId, patch api.BoardPatch) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(id)
	if err != nil {
		return domain.Board{}, err
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.BackgroundColor != nil {
		b.BackgroundColor = *patch.BackgroundColor
	}
	if patch.BackgroundImage != nil {
		b.BackgroundImage = *patch.BackgroundImage
	}
	return *b, nil
}

func (s *State) DeleteBoard(id domain.BoardId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.board(id); err != nil {
		return err
	}
	delete(s.boards, id)
	delete(s.members, id)
	delete(s.roles, id)
	delete(s.archCards, id)
	delete(s.archLists, id)
	return nil
}

func (s *State) Claims(boardId domain.BoardId, userId domain.UserId) (domain.BoardClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(boardId)
	if err != nil {
		return domain.BoardClaims{}, err
	}
	role := domain.BoardRole{}
	if roles := s.roles[boardId]; len(roles) > 0 {
		role = roles[0]
	}
	return domain.BoardClaims{
		Id: boardId, BoardId: boardId, UserId: userId,
		IsOwner: b.OwnerId == userId, Role: role,
	}, nil
}

func (s *State) Roles(boardId domain.BoardId) ([]domain.BoardRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.board(boardId); err != nil {
		return nil, err
	}
	return s.roles[boardId], nil
}

func (s *State) Members(boardId domain.BoardId) ([]domain.BoardAllowedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.board(boardId); err != nil {
		return nil, err
	}
	return s.members[boardId], nil
}

// lists

func (s *State) CreateList(boardId domain.BoardId, draft api.DraftBoardList) (domain.BoardList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(boardId)
	if err != nil {
		return domain.BoardList{}, err
	}
	l := domain.BoardList{
		Id: s.id(), BoardId: boardId,
		Title: draft.Title, Position: len(b.Lists),
		Cards: []domain.Card{},
	}
	b.Lists = append(b.Lists, l)
	return l, nil
}

func (s *State) PatchList(listId domain.ListId, update domain.BoardList) (domain.BoardList, domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, err := s.list(listId)
	if err != nil {
		return domain.BoardList{}, 0, err
	}
	if update.Title != "" {
		l.Title = update.Title
	}
	return *l, b.Id, nil
}

func (s *State) DeleteList(listId domain.ListId) (domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, err := s.list(listId)
	if err != nil {
		return 0, err
	}
	removeList(b, l.Id)
	return b.Id, nil
}

func (s *State) ArchiveList(listId domain.ListId) (domain.ArchivedList, domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, err := s.list(listId)
	if err != nil {
		return domain.ArchivedList{}, 0, err
	}
	entry := domain.ArchivedList{
		Id: l.Id, Title: l.Title, BoardId: b.Id,
		CardCount: len(l.Cards), ArchivedOn: time.Now().UTC(),
	}
	s.listBodies[l.Id] = *l
	s.archLists[b.Id] = append([]domain.ArchivedList{entry}, s.archLists[b.Id]...)
	removeList(b, l.Id)
	return entry, b.Id, nil
}

func (s *State) ListOrder(boardId domain.BoardId, order []domain.ListId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(boardId)
	if err != nil {
		return err
	}
	rank := make(map[domain.ListId]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sort.SliceStable(b.Lists, func(i, j int) bool {
		ri, iok := rank[b.Lists[i].Id]
		rj, jok := rank[b.Lists[j].Id]
		if !iok {
			ri = len(order)
		}
		if !jok {
			rj = len(order)
		}
		return ri < rj
	})
	for i := range b.Lists {
		b.Lists[i].Position = i
	}
	return nil
}

func removeList(b *domain.Board, listId domain.ListId) {
	for i := range b.Lists {
		if b.Lists[i].Id == listId {
			b.Lists = append(b.Lists[:i], b.Lists[i+1:]...)
			break
		}
	}
	for i := range b.Lists {
		b.Lists[i].Position = i
	}
}

// cards

// cardPatch is the union the card PATCH endpoint accepts: field edits, a
// move, or archiving.
type cardPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	ListId      *domain.ListId `json:"list_id"`
	Position    *int           `json:"position"`
	Archived    *bool          `json:"archived"`
}

// cardChange tells the handler which event to publish.
type cardChange struct {
	Card       domain.Card
	BoardId    domain.BoardId
	PrevListId domain.ListId
	Moved      bool
	Archived   *domain.ArchivedCard
}

func (s *State) CreateCard(listId domain.ListId, draft api.DraftCard) (domain.Card, domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, err := s.list(listId)
	if err != nil {
		return domain.Card{}, 0, err
	}
	c := domain.Card{
		Id: s.id(), ListId: listId,
		Title: draft.Title, Description: draft.Description,
		Position:        len(l.Cards),
		Dates:           []domain.CardDate{},
		AssignedMembers: []domain.CardMember{},
		Checklists:      []domain.CardChecklist{},
	}
	l.Cards = append(l.Cards, c)
	return c, b.Id, nil
}

func (s *State) Card(cardId domain.CardId) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, c, err := s.card(cardId)
	if err != nil {
		return domain.Card{}, err
	}
	return *c, nil
}

func (s *State) PatchCard(cardId domain.CardId, patch cardPatch) (cardChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return cardChange{}, err
	}
	change := cardChange{BoardId: b.Id, PrevListId: l.Id}

	if patch.Archived != nil && *patch.Archived {
		entry := domain.ArchivedCard{
			Id: c.Id, Title: c.Title, ListId: l.Id, ListTitle: l.Title,
			ArchivedOn: time.Now().UTC(),
		}
		s.cardBodies[c.Id] = *c
		s.archCards[b.Id] = append([]domain.ArchivedCard{entry}, s.archCards[b.Id]...)
		removeCard(l, c.Id)
		change.Archived = &entry
		return change, nil
	}

	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ListId != nil && *patch.ListId != l.Id {
		_, target, err := s.list(*patch.ListId)
		if err != nil {
			return cardChange{}, err
		}
		moved := *c
		removeCard(l, c.Id)
		moved.ListId = target.Id
		pos := len(target.Cards)
		if patch.Position != nil && *patch.Position >= 0 && *patch.Position <= len(target.Cards) {
			pos = *patch.Position
		}
		target.Cards = append(target.Cards, domain.Card{})
		copy(target.Cards[pos+1:], target.Cards[pos:])
		target.Cards[pos] = moved
		for i := range target.Cards {
			target.Cards[i].Position = i
		}
		change.Moved = true
		change.Card = target.Cards[pos]
		return change, nil
	}

	change.Card = *c
	return change, nil
}

func (s *State) DeleteCard(cardId domain.CardId) (domain.ListId, domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, c, err := s.card(cardId)
	if err != nil {
		return 0, 0, err
	}
	removeCard(l, c.Id)
	delete(s.activities, cardId)
	return l.Id, b.Id, nil
}

func (s *State) CardOrder(listId domain.ListId, order []domain.CardId) (domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, l, err := s.list(listId)
	if err != nil {
		return 0, err
	}
	rank := make(map[domain.CardId]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sort.SliceStable(l.Cards, func(i, j int) bool {
		ri, iok := rank[l.Cards[i].Id]
		rj, jok := rank[l.Cards[j].Id]
		if !iok {
			ri = len(order)
		}
		if !jok {
			rj = len(order)
		}
		return ri < rj
	})
	for i := range l.Cards {
		l.Cards[i].Position = i
	}
	return b.Id, nil
}

func removeCard(l *domain.BoardList, cardId domain.CardId) {
	for i := range l.Cards {
		if l.Cards[i].Id == cardId {
			l.Cards = append(l.Cards[:i], l.Cards[i+1:]...)
			break
		}
	}
	for i := range l.Cards {
		l.Cards[i].Position = i
	}
}

// archive

func (s *State) ArchivedCards(boardId domain.BoardId) ([]domain.ArchivedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.board(boardId); err != nil {
		return nil, err
	}
	return s.archCards[boardId], nil
}

func (s *State) ArchivedLists(boardId domain.BoardId) ([]domain.ArchivedList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.board(boardId); err != nil {
		return nil, err
	}
	return s.archLists[boardId], nil
}

// RevertCard restores an archived card at the tail of its former list, or
// the first list when that one is gone.
func (s *State) RevertCard(boardId domain.BoardId, cardId domain.CardId) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(boardId)
	if err != nil {
		return domain.Card{}, err
	}
	entries := s.archCards[boardId]
	idx := -1
	for i := range entries {
		if entries[i].Id == cardId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Card{}, notFound("archived card not found")
	}
	body, ok := s.cardBodies[cardId]
	if !ok {
		return domain.Card{}, notFound("archived card body not found")
	}

	var target *domain.BoardList
	for i := range b.Lists {
		if b.Lists[i].Id == body.ListId {
			target = &b.Lists[i]
			break
		}
	}
	if target == nil {
		if len(b.Lists) == 0 {
			return domain.Card{}, badRequest("board has no list to restore into")
		}
		target = &b.Lists[0]
	}
	body.ListId = target.Id
	body.Position = len(target.Cards)
	target.Cards = append(target.Cards, body)

	s.archCards[boardId] = append(entries[:idx], entries[idx+1:]...)
	delete(s.cardBodies, cardId)
	return body, nil
}

func (s *State) RevertList(boardId domain.BoardId, listId domain.ListId) (domain.BoardList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board(boardId)
	if err != nil {
		return domain.BoardList{}, err
	}
	entries := s.archLists[boardId]
	idx := -1
	for i := range entries {
		if entries[i].Id == listId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.BoardList{}, notFound("archived list not found")
	}
	body, ok := s.listBodies[listId]
	if !ok {
		return domain.BoardList{}, notFound("archived list body not found")
	}
	body.Position = len(b.Lists)
	b.Lists = append(b.Lists, body)

	s.archLists[boardId] = append(entries[:idx], entries[idx+1:]...)
	delete(s.listBodies, listId)
	return body, nil
}
