package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardsync-dev/boardsync/internal/store"
	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
)

type fixture struct {
	board   *store.BoardStore
	card    *store.CardStore
	archive *store.ArchiveStore
	router  *Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		board:   store.NewBoardStore(),
		card:    store.NewCardStore(),
		archive: store.NewArchiveStore(),
	}
	f.router = NewRouter(f.board, f.card, f.archive)
	f.board.SetBoard(&domain.Board{
		Id: 1, Title: "project",
		Lists: []domain.BoardList{
			{Id: 1, BoardId: 1, Title: "todo", Position: 0, Cards: []domain.Card{
				{Id: 1, ListId: 1, Title: "C1", Position: 0, Checklists: []domain.CardChecklist{
					{Id: 5, CardId: 1, Title: "qa", Items: []domain.ChecklistItem{
						{Id: 1, ChecklistId: 5, Position: 0},
						{Id: 2, ChecklistId: 5, Position: 1},
					}},
				}},
				{Id: 2, ListId: 1, Title: "C2", Position: 1},
			}},
			{Id: 2, BoardId: 1, Title: "doing", Position: 1, Cards: []domain.Card{
				{Id: 3, ListId: 2, Title: "C3", Position: 0},
			}},
		},
	})
	return f
}

// openCard loads card 1 into the detail view as a structurally equal but
// separate copy, the way the coordinator does.
func (f *fixture) openCard(t *testing.T) {
	t.Helper()
	c, ok := f.board.FindCard(1, 1)
	require.True(t, ok)
	f.card.SetCard(&c)
	f.card.SetActivities(&domain.PaginatedCardActivity{Data: []domain.CardActivity{}})
}

func cardIds(cards []domain.Card) []domain.CardId {
	ids := make([]domain.CardId, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.Id)
	}
	return ids
}

func TestRouter_CardEvents(t *testing.T) {
	t.Run("card.new appends once under redelivery", func(t *testing.T) {
		f := newFixture(t)
		ev := api.NewEvent(api.EvCardNew, api.CardEventPayload{
			ListId: 2, CardId: 9,
			Entity: domain.Card{Id: 9, ListId: 2, Title: "new", Position: 1},
		})
		require.NoError(t, f.router.Handle(ev))
		require.NoError(t, f.router.Handle(ev))
		assert.Equal(t, []domain.CardId{3, 9}, cardIds(f.board.Lists()[1].Cards))
	})

	t.Run("card.update relocates between lists and flags the open card", func(t *testing.T) {
		f := newFixture(t)
		f.openCard(t)
		// another user dragged card 1 from list 1 to list 2, slot 0
		ev := api.NewEvent(api.EvCardUpdate, api.CardEventPayload{
			ListId: 1, CardId: 1,
			Entity: domain.Card{Id: 1, ListId: 2, Title: "C1", Position: 0},
		})
		require.NoError(t, f.router.Handle(ev))
		assert.Equal(t, []domain.CardId{2}, cardIds(f.board.Lists()[0].Cards))
		assert.Equal(t, []domain.CardId{1, 3}, cardIds(f.board.Lists()[1].Cards))
		assert.True(t, f.card.CardMoved())
		assert.Equal(t, domain.ListId(2), f.card.Card().ListId)
	})

	t.Run("card.delete unloads the open card", func(t *testing.T) {
		f := newFixture(t)
		f.openCard(t)
		ev := api.NewEvent(api.EvCardDelete, api.CardDeletePayload{ListId: 1, CardId: 1})
		require.NoError(t, f.router.Handle(ev))
		require.NoError(t, f.router.Handle(ev)) // redelivery is benign
		_, ok := f.board.FindCard(1, 1)
		assert.False(t, ok)
		assert.Nil(t, f.card.Card())
	})
}

func TestRouter_ArchiveAndRevert(t *testing.T) {
	f := newFixture(t)
	archivedOn := time.Now().UTC()

	archive := api.NewEvent(api.EvCardArchive, api.CardArchivePayload{
		ListId: 1, CardId: 2,
		Entity: domain.ArchivedCard{Id: 2, Title: "C2", ListId: 1, ArchivedOn: archivedOn},
	})
	require.NoError(t, f.router.Handle(archive))
	require.NoError(t, f.router.Handle(archive))

	// exactly one archive entry, gone from the live graph
	require.Len(t, f.archive.Cards(), 1)
	assert.Equal(t, domain.CardId(2), f.archive.Cards()[0].Id)
	_, ok := f.board.FindCard(1, 2)
	assert.False(t, ok)

	revert := api.NewEvent(api.EvCardRevert, api.CardEventPayload{
		ListId: 1, CardId: 2,
		Entity: domain.Card{Id: 2, ListId: 1, Title: "C2", Position: 1},
	})
	require.NoError(t, f.router.Handle(revert))
	require.NoError(t, f.router.Handle(revert))

	assert.Empty(t, f.archive.Cards())
	assert.Equal(t, []domain.CardId{1, 2}, cardIds(f.board.Lists()[0].Cards))
	for i, c := range f.board.Lists()[0].Cards {
		assert.Equal(t, i, c.Position)
	}
}

func TestRouter_ListEvents(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvListNew, api.ListEventPayload{
		Entity: domain.BoardList{Id: 3, BoardId: 1, Title: "done", Position: 2},
	})))
	require.Len(t, f.board.Lists(), 3)

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvListArchive, api.ListArchivePayload{
		ListId: 3,
		Entity: domain.ArchivedList{Id: 3, Title: "done", BoardId: 1},
	})))
	assert.Len(t, f.board.Lists(), 2)
	assert.Len(t, f.archive.Lists(), 1)

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvListRevert, api.ListEventPayload{
		Entity: domain.BoardList{Id: 3, BoardId: 1, Title: "done", Position: 1},
	})))
	assert.Empty(t, f.archive.Lists())
	// revert slots the list back by its position
	assert.Equal(t, domain.ListId(3), f.board.Lists()[1].Id)

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvListDelete, api.ListDeletePayload{ListId: 3})))
	assert.Len(t, f.board.Lists(), 2)
}

func TestRouter_OrderEvents(t *testing.T) {
	f := newFixture(t)

	// L1 holds [C1 pos0, C2 pos1]; order event says [C2, C1]
	require.NoError(t, f.router.Handle(api.NewEvent(api.EvCardOrder, api.CardOrderPayload{
		ListId: 1, Order: []domain.CardId{2, 1},
	})))
	cards := f.board.Lists()[0].Cards
	require.Equal(t, []domain.CardId{2, 1}, cardIds(cards))
	assert.Equal(t, 0, cards[0].Position)
	assert.Equal(t, 1, cards[1].Position)

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvListOrder, api.ListOrderPayload{
		Order: []domain.ListId{2, 1},
	})))
	assert.Equal(t, domain.ListId(2), f.board.Lists()[0].Id)

	f.openCard(t)
	require.NoError(t, f.router.Handle(api.NewEvent(api.EvChecklistItemOrder, api.ChecklistItemOrderPayload{
		ListId: 1, CardId: 1, ChecklistId: 5, Order: []domain.ItemId{2, 1},
	})))
	// both copies reordered in the same step
	boardCopy, ok := f.board.FindCard(1, 1)
	require.True(t, ok)
	assert.Equal(t, domain.ItemId(2), boardCopy.Checklists[0].Items[0].Id)
	assert.Equal(t, domain.ItemId(2), f.card.Card().Checklists[0].Items[0].Id)
}

func TestRouter_SubEntityEvents(t *testing.T) {
	f := newFixture(t)
	f.openCard(t)

	t.Run("date add mirrors into the open card", func(t *testing.T) {
		ev := api.NewEvent(api.EvCardDateNew, api.CardDatePayload{
			ListId: 1, CardId: 1,
			Entity: domain.CardDate{Id: 4, CardId: 1, DtTo: time.Now().UTC()},
		})
		require.NoError(t, f.router.Handle(ev))
		require.NoError(t, f.router.Handle(ev))
		boardCopy, _ := f.board.FindCard(1, 1)
		assert.Len(t, boardCopy.Dates, 1)
		assert.Len(t, f.card.Card().Dates, 1)
	})

	t.Run("member assign and remove", func(t *testing.T) {
		require.NoError(t, f.router.Handle(api.NewEvent(api.EvCardMemberNew, api.CardMemberPayload{
			ListId: 1, CardId: 1,
			Entity: domain.CardMember{Id: 7, BoardUserId: 2},
		})))
		require.NoError(t, f.router.Handle(api.NewEvent(api.EvCardMemberDelete, api.CardEntityDeletePayload{
			ListId: 1, CardId: 1, EntityId: 7,
		})))
		boardCopy, _ := f.board.FindCard(1, 1)
		assert.Empty(t, boardCopy.AssignedMembers)
		assert.Empty(t, f.card.Card().AssignedMembers)
	})

	t.Run("checklist item events touch both copies", func(t *testing.T) {
		item := domain.ChecklistItem{Id: 3, ChecklistId: 5, Title: "c", Position: 2}
		require.NoError(t, f.router.Handle(api.NewEvent(api.EvChecklistItemNew, api.ChecklistItemPayload{
			ListId: 1, CardId: 1, Entity: item,
		})))
		boardCopy, _ := f.board.FindCard(1, 1)
		assert.Len(t, boardCopy.Checklists[0].Items, 3)
		assert.Len(t, f.card.Card().Checklists[0].Items, 3)

		require.NoError(t, f.router.Handle(api.NewEvent(api.EvChecklistItemDelete, api.CardEntityDeletePayload{
			ListId: 1, CardId: 1, ChecklistId: 5, EntityId: 3,
		})))
		boardCopy, _ = f.board.FindCard(1, 1)
		assert.Len(t, boardCopy.Checklists[0].Items, 2)
		assert.Len(t, f.card.Card().Checklists[0].Items, 2)
	})

	t.Run("deletion for an absent card is swallowed", func(t *testing.T) {
		// the card's list was never loaded here; graph must stay untouched
		before := len(f.board.Lists()[0].Cards)
		err := f.router.Handle(api.NewEvent(api.EvChecklistItemDelete, api.CardEntityDeletePayload{
			ListId: 77, CardId: 99, ChecklistId: 5, EntityId: 1,
		}))
		assert.NoError(t, err)
		assert.Len(t, f.board.Lists()[0].Cards, before)
	})
}

func TestRouter_ActivityEvents(t *testing.T) {
	f := newFixture(t)
	f.openCard(t)

	a := domain.CardActivity{Id: 1, CardId: 1, Event: domain.ActivityComment,
		Comment: &domain.CardComment{Id: 1, CardId: 1, Comment: "hello"}}

	ev := api.NewEvent(api.EvActivityNew, api.ActivityPayload{CardId: 1, Entity: a})
	require.NoError(t, f.router.Handle(ev))
	require.NoError(t, f.router.Handle(ev))
	require.Len(t, f.card.Activities().Data, 1)

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvActivityDelete, api.ActivityDeletePayload{
		CardId: 1, EntityId: 1,
	})))
	assert.Empty(t, f.card.Activities().Data)

	// feed events for a card that is not open are skipped
	require.NoError(t, f.router.Handle(api.NewEvent(api.EvActivityNew, api.ActivityPayload{
		CardId: 42, Entity: domain.CardActivity{Id: 9, CardId: 42},
	})))
	assert.Empty(t, f.card.Activities().Data)
}

func TestRouter_BoardEvents(t *testing.T) {
	f := newFixture(t)
	title := "renamed"

	require.NoError(t, f.router.Handle(api.NewEvent(api.EvBoardUpdate, api.BoardUpdatePayload{
		BoardId: 1, Patch: api.BoardPatch{Title: &title},
	})))
	assert.Equal(t, domain.BoardTitle("renamed"), f.board.Board().Title)

	// update for a board that is not open is ignored
	require.NoError(t, f.router.Handle(api.NewEvent(api.EvBoardUpdate, api.BoardUpdatePayload{
		BoardId: 42, Patch: api.BoardPatch{Title: &title},
	})))

	var deleted domain.BoardId
	f.router.OnBoardDeleted = func(id domain.BoardId) { deleted = id }
	require.NoError(t, f.router.Handle(api.NewEvent(api.EvBoardDelete, api.BoardDeletePayload{BoardId: 1})))
	assert.Equal(t, domain.BoardId(1), deleted)
	assert.Nil(t, f.board.Board())
}

func TestRouter_MalformedAndUnknown(t *testing.T) {
	f := newFixture(t)

	err := f.router.Handle(api.Event{Name: api.EvCardNew, Data: []byte(`{"entity": 12}`)})
	assert.Error(t, err)

	// unknown kinds are logged and dropped, never fatal
	assert.NoError(t, f.router.Handle(api.Event{Name: "card.sparkle", Data: []byte(`{}`)}))
}

// Redelivering any event must leave the graph exactly as one delivery did.
func TestRouter_EveryEventKindIsIdempotent(t *testing.T) {
	now := time.Now().UTC()
	title := "t"
	events := []api.Event{
		api.NewEvent(api.EvBoardUpdate, api.BoardUpdatePayload{BoardId: 1, Patch: api.BoardPatch{Title: &title}}),
		api.NewEvent(api.EvListNew, api.ListEventPayload{Entity: domain.BoardList{Id: 3, BoardId: 1, Position: 2}}),
		api.NewEvent(api.EvListUpdate, api.ListEventPayload{Entity: domain.BoardList{Id: 2, BoardId: 1, Title: "doing2", Position: 1}}),
		api.NewEvent(api.EvListArchive, api.ListArchivePayload{ListId: 2, Entity: domain.ArchivedList{Id: 2, ArchivedOn: now}}),
		api.NewEvent(api.EvListRevert, api.ListEventPayload{Entity: domain.BoardList{Id: 2, BoardId: 1, Position: 1}}),
		api.NewEvent(api.EvListOrder, api.ListOrderPayload{Order: []domain.ListId{2, 1}}),
		api.NewEvent(api.EvListDelete, api.ListDeletePayload{ListId: 3}),
		api.NewEvent(api.EvCardNew, api.CardEventPayload{ListId: 1, CardId: 9, Entity: domain.Card{Id: 9, ListId: 1, Position: 2}}),
		api.NewEvent(api.EvCardUpdate, api.CardEventPayload{ListId: 1, CardId: 1, Entity: domain.Card{Id: 1, ListId: 2, Position: 0}}),
		api.NewEvent(api.EvCardOrder, api.CardOrderPayload{ListId: 1, Order: []domain.CardId{9, 2}}),
		api.NewEvent(api.EvCardArchive, api.CardArchivePayload{ListId: 1, CardId: 2, Entity: domain.ArchivedCard{Id: 2, ArchivedOn: now}}),
		api.NewEvent(api.EvCardRevert, api.CardEventPayload{ListId: 1, CardId: 2, Entity: domain.Card{Id: 2, ListId: 1, Position: 1}}),
		api.NewEvent(api.EvCardDelete, api.CardDeletePayload{ListId: 1, CardId: 9}),
		api.NewEvent(api.EvCardDateNew, api.CardDatePayload{ListId: 2, CardId: 1, Entity: domain.CardDate{Id: 4, CardId: 1, DtTo: now}}),
		api.NewEvent(api.EvCardDateUpdate, api.CardDatePayload{ListId: 2, CardId: 1, Entity: domain.CardDate{Id: 4, CardId: 1, DtTo: now, Complete: true}}),
		api.NewEvent(api.EvCardMemberNew, api.CardMemberPayload{ListId: 2, CardId: 1, Entity: domain.CardMember{Id: 7}}),
		api.NewEvent(api.EvChecklistNew, api.ChecklistPayload{ListId: 2, CardId: 1, Entity: domain.CardChecklist{Id: 6, CardId: 1}}),
		api.NewEvent(api.EvChecklistUpdate, api.ChecklistPayload{ListId: 2, CardId: 1, Entity: domain.CardChecklist{Id: 6, CardId: 1, Title: "u"}}),
		api.NewEvent(api.EvChecklistItemNew, api.ChecklistItemPayload{ListId: 2, CardId: 1, Entity: domain.ChecklistItem{Id: 8, ChecklistId: 6}}),
		api.NewEvent(api.EvChecklistItemUpdate, api.ChecklistItemPayload{ListId: 2, CardId: 1, Entity: domain.ChecklistItem{Id: 8, ChecklistId: 6, Completed: true}}),
		api.NewEvent(api.EvChecklistItemOrder, api.ChecklistItemOrderPayload{ListId: 2, CardId: 1, ChecklistId: 6, Order: []domain.ItemId{8}}),
		api.NewEvent(api.EvChecklistItemDelete, api.CardEntityDeletePayload{ListId: 2, CardId: 1, ChecklistId: 6, EntityId: 8}),
		api.NewEvent(api.EvChecklistDelete, api.CardEntityDeletePayload{ListId: 2, CardId: 1, EntityId: 6}),
		api.NewEvent(api.EvCardMemberDelete, api.CardEntityDeletePayload{ListId: 2, CardId: 1, EntityId: 7}),
		api.NewEvent(api.EvCardDateDelete, api.CardEntityDeletePayload{ListId: 2, CardId: 1, EntityId: 4}),
	}

	f := newFixture(t)
	for _, ev := range events {
		require.NoError(t, f.router.Handle(ev), ev.Name)
		snapshot := snapshotLists(t, f.board)
		require.NoError(t, f.router.Handle(ev), ev.Name)
		assert.Equal(t, snapshot, snapshotLists(t, f.board), "redelivery of %s changed the graph", ev.Name)
	}
}

// snapshotLists deep-copies the live graph so in-place mutation during
// redelivery cannot alias the comparison baseline.
func snapshotLists(t *testing.T, s *store.BoardStore) []domain.BoardList {
	t.Helper()
	raw, err := json.Marshal(s.Lists())
	require.NoError(t, err)
	var lists []domain.BoardList
	require.NoError(t, json.Unmarshal(raw, &lists))
	return lists
}
