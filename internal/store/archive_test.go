package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

func TestArchiveStore_Cards(t *testing.T) {
	s := NewArchiveStore()
	now := time.Now().UTC()

	s.AddCard(domain.ArchivedCard{Id: 1, Title: "old", ArchivedOn: now})
	s.AddCard(domain.ArchivedCard{Id: 2, Title: "newer", ArchivedOn: now})
	require.Len(t, s.Cards(), 2)
	// newest first
	assert.Equal(t, domain.CardId(2), s.Cards()[0].Id)

	// echoed archive event must not duplicate the entry
	s.AddCard(domain.ArchivedCard{Id: 2, Title: "newer", ArchivedOn: now})
	assert.Len(t, s.Cards(), 2)

	assert.True(t, s.RemoveCard(1))
	assert.False(t, s.RemoveCard(1))
	assert.Len(t, s.Cards(), 1)
}

func TestArchiveStore_Lists(t *testing.T) {
	s := NewArchiveStore()

	s.AddList(domain.ArchivedList{Id: 1, Title: "done"})
	s.AddList(domain.ArchivedList{Id: 1, Title: "done"})
	require.Len(t, s.Lists(), 1)

	assert.True(t, s.RemoveList(1))
	assert.False(t, s.RemoveList(1))

	s.SetLists([]domain.ArchivedList{{Id: 3}})
	s.SetCards([]domain.ArchivedCard{{Id: 4}})
	s.Unload()
	assert.Empty(t, s.Lists())
	assert.Empty(t, s.Cards())
}
