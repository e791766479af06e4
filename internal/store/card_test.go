package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/errors"
)

func activeCard() *domain.Card {
	return &domain.Card{
		Id: 1, ListId: 1, Title: "C1",
		Checklists: []domain.CardChecklist{
			{Id: 5, CardId: 1, Title: "qa", Items: []domain.ChecklistItem{
				{Id: 1, ChecklistId: 5, Title: "a", Position: 0},
				{Id: 2, ChecklistId: 5, Title: "b", Position: 1},
			}},
		},
	}
}

func TestCardStore_Lifecycle(t *testing.T) {
	s := NewCardStore()
	assert.False(t, s.Active(1))

	s.SetCard(activeCard())
	assert.True(t, s.Active(1))
	assert.False(t, s.Active(2))

	s.SetCardMoved(true)
	assert.True(t, s.CardMoved())

	s.Unload()
	assert.Nil(t, s.Card())
	assert.Nil(t, s.Activities())
	assert.False(t, s.CardMoved())
}

func TestCardStore_UpdateCard(t *testing.T) {
	s := NewCardStore()
	s.SetCard(activeCard())

	// mutation for another card must not leak into the open one
	assert.ErrorIs(t, s.UpdateCard(domain.Card{Id: 2, Title: "other"}), errors.ErrNotFound)

	require.NoError(t, s.UpdateCard(domain.Card{Id: 1, ListId: 1, Title: "renamed"}))
	assert.Equal(t, domain.CardTitle("renamed"), s.Card().Title)
	// omitted checklists survive the authoritative replace
	assert.Len(t, s.Card().Checklists, 1)
}

func TestCardStore_ChecklistItems(t *testing.T) {
	s := NewCardStore()
	s.SetCard(activeCard())

	t.Run("add checks by id", func(t *testing.T) {
		item := domain.ChecklistItem{Id: 3, ChecklistId: 5, Title: "c"}
		require.NoError(t, s.AddChecklistItem(1, item))
		require.NoError(t, s.AddChecklistItem(1, item))
		assert.Len(t, s.Card().Checklists[0].Items, 3)
	})

	t.Run("unknown checklist is benign", func(t *testing.T) {
		err := s.AddChecklistItem(1, domain.ChecklistItem{Id: 9, ChecklistId: 99})
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("order applies to the addressed checklist", func(t *testing.T) {
		require.NoError(t, s.ApplyChecklistItemOrder(1, 5, []domain.ItemId{3, 2, 1}))
		items := s.Card().Checklists[0].Items
		require.Len(t, items, 3)
		assert.Equal(t, domain.ItemId(3), items[0].Id)
		assert.Equal(t, 0, items[0].Position)
		assert.Equal(t, 2, items[2].Position)
	})

	t.Run("remove then redundant remove", func(t *testing.T) {
		require.NoError(t, s.RemoveChecklistItem(1, 5, 3))
		assert.ErrorIs(t, s.RemoveChecklistItem(1, 5, 3), errors.ErrNotFound)
	})
}

func TestCardStore_Members(t *testing.T) {
	s := NewCardStore()
	s.SetCard(activeCard())

	m := domain.CardMember{Id: 7, BoardUserId: 3}
	require.NoError(t, s.AddMember(1, m))
	require.NoError(t, s.AddMember(1, m))
	assert.Len(t, s.Card().AssignedMembers, 1)

	require.NoError(t, s.RemoveMember(1, 7))
	assert.ErrorIs(t, s.RemoveMember(1, 7), errors.ErrNotFound)

	// no active card at all
	s.Unload()
	assert.ErrorIs(t, s.AddMember(1, m), errors.ErrNotFound)
}

func TestCardStore_Dates(t *testing.T) {
	s := NewCardStore()
	s.SetCard(activeCard())

	d := domain.CardDate{Id: 4, CardId: 1}
	require.NoError(t, s.AddDate(1, d))
	require.NoError(t, s.AddDate(1, d))
	require.Len(t, s.Card().Dates, 1)

	d.Complete = true
	require.NoError(t, s.UpdateDate(1, d))
	assert.True(t, s.Card().Dates[0].Complete)

	require.NoError(t, s.RemoveDate(1, 4))
	assert.ErrorIs(t, s.UpdateDate(1, d), errors.ErrNotFound)
}

func TestCardStore_Activities(t *testing.T) {
	s := NewCardStore()
	s.SetCard(activeCard())
	s.SetActivities(&domain.PaginatedCardActivity{
		Data: []domain.CardActivity{{Id: 1, CardId: 1}}, Page: 1, Pages: 2, Total: 1,
	})

	t.Run("add prepends newest and dedupes redelivery", func(t *testing.T) {
		a := domain.CardActivity{Id: 2, CardId: 1}
		require.NoError(t, s.AddActivity(a))
		require.NoError(t, s.AddActivity(a))
		require.Len(t, s.Activities().Data, 2)
		assert.Equal(t, domain.ActivityId(2), s.Activities().Data[0].Id)
		assert.Equal(t, 2, s.Activities().Total)
	})

	t.Run("append next page skips duplicates", func(t *testing.T) {
		s.AppendActivities(domain.PaginatedCardActivity{
			Data: []domain.CardActivity{{Id: 1, CardId: 1}, {Id: 3, CardId: 1}},
			Page: 2, Pages: 2, Total: 3,
		})
		assert.Len(t, s.Activities().Data, 3)
		assert.Equal(t, 2, s.Activities().Page)
	})

	t.Run("update and delete by id", func(t *testing.T) {
		require.NoError(t, s.UpdateActivity(domain.CardActivity{Id: 3, CardId: 1, Comment: &domain.CardComment{Comment: "hi"}}))
		require.NoError(t, s.RemoveActivity(3))
		assert.ErrorIs(t, s.RemoveActivity(3), errors.ErrNotFound)
	})

	t.Run("activity for another card is rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.AddActivity(domain.CardActivity{Id: 9, CardId: 42}), errors.ErrNotFound)
	})
}
