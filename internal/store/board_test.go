package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/errors"
)

func testBoard() *domain.Board {
	return &domain.Board{
		Id:      1,
		OwnerId: 10,
		Title:   "project",
		Lists: []domain.BoardList{
			{Id: 1, BoardId: 1, Title: "todo", Position: 0, Cards: []domain.Card{
				{Id: 1, ListId: 1, Title: "C1", Position: 0},
				{Id: 2, ListId: 1, Title: "C2", Position: 1},
			}},
			{Id: 2, BoardId: 1, Title: "doing", Position: 1, Cards: []domain.Card{
				{Id: 3, ListId: 2, Title: "C3", Position: 0},
			}},
		},
	}
}

func loadedStore() *BoardStore {
	s := NewBoardStore()
	s.SetBoard(testBoard())
	return s
}

func cardIds(cards []domain.Card) []domain.CardId {
	ids := make([]domain.CardId, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.Id)
	}
	return ids
}

func TestBoardStore_Loaded(t *testing.T) {
	s := NewBoardStore()
	assert.False(t, s.Loaded(1))

	s.SetBoard(testBoard())
	assert.True(t, s.Loaded(1))
	assert.False(t, s.Loaded(2))

	s.Unload()
	assert.False(t, s.Loaded(1))
	assert.Nil(t, s.Board())
}

func TestBoardStore_MergeBoard(t *testing.T) {
	s := loadedStore()
	title := "renamed"
	require.NoError(t, s.MergeBoard(api.BoardPatch{Title: &title}))
	assert.Equal(t, "renamed", s.Board().Title)
	// untouched fields survive
	assert.Equal(t, domain.UserId(10), s.Board().OwnerId)

	s.Unload()
	assert.ErrorIs(t, s.MergeBoard(api.BoardPatch{Title: &title}), errors.ErrNotFound)
}

func TestBoardStore_UpsertList(t *testing.T) {
	t.Run("appends a new list", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.UpsertList(domain.BoardList{Id: 3, BoardId: 1, Title: "done", Position: 2}))
		require.Len(t, s.Lists(), 3)
		assert.NotNil(t, s.Lists()[2].Cards, "new list must have a usable card slice")
	})

	t.Run("replaces by id without clobbering cards", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.UpsertList(domain.BoardList{Id: 1, BoardId: 1, Title: "backlog", Position: 0}))
		require.Len(t, s.Lists(), 2)
		assert.Equal(t, "backlog", s.Lists()[0].Title)
		assert.Len(t, s.Lists()[0].Cards, 2, "metadata update must keep the held cards")
	})

	t.Run("redelivery leaves one list", func(t *testing.T) {
		s := loadedStore()
		l := domain.BoardList{Id: 3, BoardId: 1, Title: "done", Position: 2}
		require.NoError(t, s.UpsertList(l))
		require.NoError(t, s.UpsertList(l))
		assert.Len(t, s.Lists(), 3)
	})
}

func TestBoardStore_RemoveList(t *testing.T) {
	s := loadedStore()
	require.NoError(t, s.RemoveList(1))
	assert.Len(t, s.Lists(), 1)

	// already removed by a concurrent operation: benign
	assert.ErrorIs(t, s.RemoveList(1), errors.ErrNotFound)
	assert.Len(t, s.Lists(), 1)
}

func TestBoardStore_UpsertCard(t *testing.T) {
	t.Run("new card appends to its list", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.UpsertCard(domain.Card{Id: 9, ListId: 2, Title: "new", Position: 1}))
		assert.Equal(t, []domain.CardId{3, 9}, cardIds(s.Lists()[1].Cards))
	})

	t.Run("same id never duplicates regardless of call order", func(t *testing.T) {
		s := loadedStore()
		c := domain.Card{Id: 9, ListId: 2, Title: "new", Position: 1}
		require.NoError(t, s.UpsertCard(c))
		require.NoError(t, s.UpsertCard(c))
		require.NoError(t, s.RemoveCard(2, 9))
		assert.ErrorIs(t, s.RemoveCard(2, 9), errors.ErrNotFound)
		require.NoError(t, s.UpsertCard(c))
		count := 0
		for _, l := range s.Lists() {
			for _, held := range l.Cards {
				if held.Id == 9 {
					count++
				}
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("replace in place keeps sub-entities the payload omits", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.AddChecklist(1, 1, domain.CardChecklist{Id: 5, CardId: 1, Title: "cl"}))
		require.NoError(t, s.UpsertCard(domain.Card{Id: 1, ListId: 1, Title: "renamed", Position: 0}))
		got, ok := s.FindCard(1, 1)
		require.True(t, ok)
		assert.Equal(t, domain.CardTitle("renamed"), got.Title)
		assert.Len(t, got.Checklists, 1)
	})

	t.Run("moves card between lists at the given position", func(t *testing.T) {
		s := loadedStore()
		// C1 moves from list 1 to list 2, in front of C3
		require.NoError(t, s.UpsertCard(domain.Card{Id: 1, ListId: 2, Title: "C1", Position: 0}))
		assert.Equal(t, []domain.CardId{2}, cardIds(s.Lists()[0].Cards))
		assert.Equal(t, []domain.CardId{1, 3}, cardIds(s.Lists()[1].Cards))
	})

	t.Run("move keeps sub-entities held by the old copy", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.AddChecklist(1, 1, domain.CardChecklist{Id: 5, CardId: 1, Title: "cl"}))
		require.NoError(t, s.UpsertCard(domain.Card{Id: 1, ListId: 2, Title: "C1", Position: 1}))
		got, ok := s.FindCard(2, 1)
		require.True(t, ok)
		assert.Len(t, got.Checklists, 1)
	})

	t.Run("unknown target list is a benign miss", func(t *testing.T) {
		s := loadedStore()
		assert.ErrorIs(t, s.UpsertCard(domain.Card{Id: 9, ListId: 77}), errors.ErrNotFound)
	})

	t.Run("position past the end clamps to append", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.UpsertCard(domain.Card{Id: 1, ListId: 2, Title: "C1", Position: 40}))
		assert.Equal(t, []domain.CardId{3, 1}, cardIds(s.Lists()[1].Cards))
	})
}

func TestBoardStore_RemoveCard(t *testing.T) {
	s := loadedStore()
	require.NoError(t, s.RemoveCard(1, 2))
	assert.Equal(t, []domain.CardId{1}, cardIds(s.Lists()[0].Cards))

	t.Run("event addressing the old list still removes a moved card", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.UpsertCard(domain.Card{Id: 1, ListId: 2, Position: 0}))
		// delete event still carries the original list id
		require.NoError(t, s.RemoveCard(1, 1))
		_, ok := s.FindCard(2, 1)
		assert.False(t, ok)
	})
}

func TestBoardStore_CardDates(t *testing.T) {
	s := loadedStore()
	d := domain.CardDate{Id: 4, CardId: 1}

	require.NoError(t, s.AddCardDate(1, 1, d))
	// optimistic REST success followed by the echoed event
	require.NoError(t, s.AddCardDate(1, 1, d))
	got, _ := s.FindCard(1, 1)
	assert.Len(t, got.Dates, 1)

	d.Complete = true
	require.NoError(t, s.UpdateCardDate(1, 1, d))
	got, _ = s.FindCard(1, 1)
	assert.True(t, got.Dates[0].Complete)

	require.NoError(t, s.RemoveCardDate(1, 1, 4))
	assert.ErrorIs(t, s.RemoveCardDate(1, 1, 4), errors.ErrNotFound)

	// card not present locally: swallowed by the caller, not a crash
	assert.ErrorIs(t, s.AddCardDate(1, 99, d), errors.ErrNotFound)
	assert.ErrorIs(t, s.UpdateCardDate(99, 1, d), errors.ErrNotFound)
}

func TestBoardStore_CardMembers(t *testing.T) {
	s := loadedStore()
	m := domain.CardMember{Id: 7, BoardUserId: 2}

	require.NoError(t, s.AddCardMember(1, 1, m))
	require.NoError(t, s.AddCardMember(1, 1, m))
	got, _ := s.FindCard(1, 1)
	require.Len(t, got.AssignedMembers, 1)

	require.NoError(t, s.RemoveCardMember(1, 1, 7))
	assert.ErrorIs(t, s.RemoveCardMember(1, 1, 7), errors.ErrNotFound)
}

func TestBoardStore_Checklists(t *testing.T) {
	s := loadedStore()
	cl := domain.CardChecklist{Id: 5, CardId: 1, Title: "qa"}
	require.NoError(t, s.AddChecklist(1, 1, cl))
	require.NoError(t, s.AddChecklist(1, 1, cl))
	got, _ := s.FindCard(1, 1)
	require.Len(t, got.Checklists, 1)
	assert.NotNil(t, got.Checklists[0].Items)

	t.Run("update preserves items when payload omits them", func(t *testing.T) {
		item := domain.ChecklistItem{Id: 1, ChecklistId: 5, Title: "step"}
		require.NoError(t, s.AddChecklistItem(1, 1, item))
		require.NoError(t, s.UpdateChecklist(1, 1, domain.CardChecklist{Id: 5, CardId: 1, Title: "qa2"}))
		got, _ := s.FindCard(1, 1)
		assert.Equal(t, "qa2", got.Checklists[0].Title)
		assert.Len(t, got.Checklists[0].Items, 1)
	})

	t.Run("item add is idempotent and update targets by id", func(t *testing.T) {
		item := domain.ChecklistItem{Id: 2, ChecklistId: 5, Title: "other"}
		require.NoError(t, s.AddChecklistItem(1, 1, item))
		require.NoError(t, s.AddChecklistItem(1, 1, item))
		got, _ := s.FindCard(1, 1)
		require.Len(t, got.Checklists[0].Items, 2)

		item.Completed = true
		require.NoError(t, s.UpdateChecklistItem(1, 1, item))
		got, _ = s.FindCard(1, 1)
		assert.True(t, got.Checklists[0].Items[1].Completed)
	})

	t.Run("deletion for a card not present locally is benign", func(t *testing.T) {
		// user scrolled away / list unloaded: no exception, graph unchanged
		err := s.RemoveChecklistItem(1, 99, 5, 2)
		assert.ErrorIs(t, err, errors.ErrNotFound)
		got, _ := s.FindCard(1, 1)
		assert.Len(t, got.Checklists[0].Items, 2)
	})

	require.NoError(t, s.RemoveChecklist(1, 1, 5))
	assert.ErrorIs(t, s.RemoveChecklist(1, 1, 5), errors.ErrNotFound)
}

func TestBoardStore_Orders(t *testing.T) {
	t.Run("card order scenario", func(t *testing.T) {
		// L1 holds [C1 pos0, C2 pos1]; order event says [C2, C1]
		s := loadedStore()
		require.NoError(t, s.ApplyCardOrder(1, []domain.CardId{2, 1}))
		cards := s.Lists()[0].Cards
		require.Equal(t, []domain.CardId{2, 1}, cardIds(cards))
		assert.Equal(t, 0, cards[0].Position)
		assert.Equal(t, 1, cards[1].Position)
	})

	t.Run("list order rewrites positions", func(t *testing.T) {
		s := loadedStore()
		require.NoError(t, s.ApplyListOrder([]domain.ListId{2, 1}))
		lists := s.Lists()
		assert.Equal(t, domain.ListId(2), lists[0].Id)
		assert.Equal(t, 0, lists[0].Position)
		assert.Equal(t, 1, lists[1].Position)
	})

	t.Run("unknown list id is benign", func(t *testing.T) {
		s := loadedStore()
		assert.ErrorIs(t, s.ApplyCardOrder(77, []domain.CardId{1}), errors.ErrNotFound)
	})
}

func TestBoardStore_SortCardsByPosition(t *testing.T) {
	s := loadedStore()
	// simulate a revert that appended a card with a mid-list position
	s.Board().Lists[0].Cards = append(s.Board().Lists[0].Cards, domain.Card{Id: 9, ListId: 1, Position: 1})
	require.NoError(t, s.SortCardsByPosition(1))
	assert.Equal(t, []domain.CardId{1, 9, 2}, cardIds(s.Lists()[0].Cards))
	for i, c := range s.Lists()[0].Cards {
		assert.Equal(t, i, c.Position)
	}
}

func TestBoardStore_BoardCollection(t *testing.T) {
	s := NewBoardStore()
	s.SetBoards([]domain.Board{{Id: 1}, {Id: 2}})

	s.AddBoard(domain.Board{Id: 3})
	s.AddBoard(domain.Board{Id: 3, Title: "renamed"})
	require.Len(t, s.Boards(), 3)
	assert.Equal(t, domain.BoardTitle("renamed"), s.Boards()[2].Title)

	s.RemoveBoard(2)
	require.Len(t, s.Boards(), 2)
	s.RemoveBoard(2) // no-op
	assert.Len(t, s.Boards(), 2)
}
