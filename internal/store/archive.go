package store

import (
	"github.com/boardsync-dev/boardsync/shared/domain"
)

// ArchiveStore holds the archived-card and archived-list snapshots of the
// open board, disjoint from the live graph. Newest entries go first, the way
// the archive panel lists them.
type ArchiveStore struct {
	cards []domain.ArchivedCard
	lists []domain.ArchivedList
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{}
}

func (s *ArchiveStore) Cards() []domain.ArchivedCard { return s.cards }
func (s *ArchiveStore) Lists() []domain.ArchivedList { return s.lists }

func (s *ArchiveStore) SetCards(cards []domain.ArchivedCard) { s.cards = cards }
func (s *ArchiveStore) SetLists(lists []domain.ArchivedList) { s.lists = lists }

func (s *ArchiveStore) Unload() {
	s.cards = nil
	s.lists = nil
}

// AddCard prepends the snapshot; redelivery replaces the existing entry so an
// archive event echo never duplicates it.
func (s *ArchiveStore) AddCard(c domain.ArchivedCard) {
	for i := range s.cards {
		if s.cards[i].Id == c.Id {
			s.cards[i] = c
			return
		}
	}
	s.cards = append([]domain.ArchivedCard{c}, s.cards...)
}

func (s *ArchiveStore) RemoveCard(id domain.CardId) bool {
	for i := range s.cards {
		if s.cards[i].Id == id {
			s.cards = removeAt(s.cards, i)
			return true
		}
	}
	return false
}

func (s *ArchiveStore) AddList(l domain.ArchivedList) {
	for i := range s.lists {
		if s.lists[i].Id == l.Id {
			s.lists[i] = l
			return
		}
	}
	s.lists = append([]domain.ArchivedList{l}, s.lists...)
}

func (s *ArchiveStore) RemoveList(id domain.ListId) bool {
	for i := range s.lists {
		if s.lists[i].Id == id {
			s.lists = removeAt(s.lists, i)
			return true
		}
	}
	return false
}
