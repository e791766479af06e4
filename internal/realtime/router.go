// Package realtime receives the board-scoped event stream and turns each
// inbound event into the store mutations that keep the local graph, the
// active-card view and the archive collection consistent with what other
// clients did.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boardsync-dev/boardsync/internal/store"
	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// Router dispatches inbound events by kind. All three stores are explicit
// dependencies; Handle must be called from the single sync goroutine.
type Router struct {
	board   *store.BoardStore
	card    *store.CardStore
	archive *store.ArchiveStore

	// OnBoardDeleted is invoked when the open board is deleted remotely.
	// Notification and navigation are the caller's concern.
	OnBoardDeleted func(domain.BoardId)
}

func NewRouter(board *store.BoardStore, card *store.CardStore, archive *store.ArchiveStore) *Router {
	return &Router{board: board, card: card, archive: archive}
}

// Handle applies one inbound event. A locate miss is a benign race (the
// entity was not loaded or a concurrent operation already won) and never an
// error; malformed payloads are.
func (r *Router) Handle(ev api.Event) error {
	eventsReceived.WithLabelValues(ev.Name).Inc()

	err := r.dispatch(ev)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, internal_errors.ErrNotFound):
		eventsSkipped.WithLabelValues(ev.Name, skipNotFound).Inc()
		logger.Log.Debug("event addressed an entity not held locally", "event", ev.Name)
		return nil
	case errors.Is(err, internal_errors.ErrStale):
		eventsSkipped.WithLabelValues(ev.Name, skipStale).Inc()
		logger.Log.Debug("event addressed a board that is not open", "event", ev.Name)
		return nil
	default:
		eventsSkipped.WithLabelValues(ev.Name, skipBadPayload).Inc()
		return fmt.Errorf("handling %s: %w", ev.Name, err)
	}
}

func (r *Router) dispatch(ev api.Event) error {
	switch ev.Name {
	case api.EvBoardUpdate:
		var p api.BoardUpdatePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		if !r.board.Loaded(p.BoardId) {
			return internal_errors.ErrStale
		}
		return r.board.MergeBoard(p.Patch)

	case api.EvBoardDelete:
		var p api.BoardDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		r.board.RemoveBoard(p.BoardId)
		if !r.board.Loaded(p.BoardId) {
			return nil
		}
		if r.OnBoardDeleted != nil {
			r.OnBoardDeleted(p.BoardId)
		}
		r.board.Unload()
		r.card.Unload()
		r.archive.Unload()
		return nil

	case api.EvListNew, api.EvListUpdate:
		var p api.ListEventPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return r.board.UpsertList(p.Entity)

	case api.EvListDelete:
		var p api.ListDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return r.board.RemoveList(p.ListId)

	case api.EvListArchive:
		var p api.ListArchivePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		r.archive.AddList(p.Entity)
		return r.board.RemoveList(p.ListId)

	case api.EvListRevert:
		var p api.ListEventPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		r.archive.RemoveList(p.Entity.Id)
		if err := r.board.UpsertList(p.Entity); err != nil {
			return err
		}
		return r.board.SortListsByPosition()

	case api.EvListOrder:
		var p api.ListOrderPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return r.board.ApplyListOrder(p.Order)

	case api.EvCardNew, api.EvCardUpdate:
		var p api.CardEventPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		if err := r.board.UpsertCard(p.Entity); err != nil {
			return err
		}
		if r.card.Active(p.Entity.Id) {
			if p.ListId != 0 && p.ListId != p.Entity.ListId {
				// the open card was dragged to another list by someone else
				r.card.SetCardMoved(true)
			}
			return r.card.UpdateCard(p.Entity)
		}
		return nil

	case api.EvCardDelete:
		var p api.CardDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		if r.card.Active(p.CardId) {
			r.card.Unload()
		}
		return r.board.RemoveCard(p.ListId, p.CardId)

	case api.EvCardArchive:
		var p api.CardArchivePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		r.archive.AddCard(p.Entity)
		if r.card.Active(p.CardId) {
			r.card.SetCardMoved(true)
		}
		return r.board.RemoveCard(p.ListId, p.CardId)

	case api.EvCardRevert:
		var p api.CardEventPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		r.archive.RemoveCard(p.Entity.Id)
		if err := r.board.UpsertCard(p.Entity); err != nil {
			return err
		}
		return r.board.SortCardsByPosition(p.Entity.ListId)

	case api.EvCardOrder:
		var p api.CardOrderPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return r.board.ApplyCardOrder(p.ListId, p.Order)

	case api.EvCardDateNew:
		var p api.CardDatePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.AddCardDate(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.AddDate(p.CardId, p.Entity) }),
		)

	case api.EvCardDateUpdate:
		var p api.CardDatePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.UpdateCardDate(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.UpdateDate(p.CardId, p.Entity) }),
		)

	case api.EvCardDateDelete:
		var p api.CardEntityDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.RemoveCardDate(p.ListId, p.CardId, p.EntityId),
			mirror(r.card.Active(p.CardId), func() error { return r.card.RemoveDate(p.CardId, p.EntityId) }),
		)

	case api.EvCardMemberNew:
		var p api.CardMemberPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.AddCardMember(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.AddMember(p.CardId, p.Entity) }),
		)

	case api.EvCardMemberDelete:
		var p api.CardEntityDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.RemoveCardMember(p.ListId, p.CardId, p.EntityId),
			mirror(r.card.Active(p.CardId), func() error { return r.card.RemoveMember(p.CardId, p.EntityId) }),
		)

	case api.EvChecklistNew:
		var p api.ChecklistPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.AddChecklist(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.AddChecklist(p.CardId, p.Entity) }),
		)

	case api.EvChecklistUpdate:
		var p api.ChecklistPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.UpdateChecklist(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.UpdateChecklist(p.CardId, p.Entity) }),
		)

	case api.EvChecklistDelete:
		var p api.CardEntityDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.RemoveChecklist(p.ListId, p.CardId, p.EntityId),
			mirror(r.card.Active(p.CardId), func() error { return r.card.RemoveChecklist(p.CardId, p.EntityId) }),
		)

	case api.EvChecklistItemNew:
		var p api.ChecklistItemPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.AddChecklistItem(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.AddChecklistItem(p.CardId, p.Entity) }),
		)

	case api.EvChecklistItemUpdate:
		var p api.ChecklistItemPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.UpdateChecklistItem(p.ListId, p.CardId, p.Entity),
			mirror(r.card.Active(p.CardId), func() error { return r.card.UpdateChecklistItem(p.CardId, p.Entity) }),
		)

	case api.EvChecklistItemDelete:
		var p api.CardEntityDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.RemoveChecklistItem(p.ListId, p.CardId, p.ChecklistId, p.EntityId),
			mirror(r.card.Active(p.CardId), func() error {
				return r.card.RemoveChecklistItem(p.CardId, p.ChecklistId, p.EntityId)
			}),
		)

	case api.EvChecklistItemOrder:
		var p api.ChecklistItemOrderPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return both(
			r.board.ApplyChecklistItemOrder(p.ListId, p.CardId, p.ChecklistId, p.Order),
			mirror(r.card.Active(p.CardId), func() error {
				return r.card.ApplyChecklistItemOrder(p.CardId, p.ChecklistId, p.Order)
			}),
		)

	case api.EvActivityNew:
		var p api.ActivityPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return r.card.AddActivity(p.Entity)

	case api.EvActivityUpdate:
		var p api.ActivityPayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		return r.card.UpdateActivity(p.Entity)

	case api.EvActivityDelete:
		var p api.ActivityDeletePayload
		if err := unmarshal(ev, &p); err != nil {
			return err
		}
		if !r.card.Active(p.CardId) {
			return internal_errors.ErrNotFound
		}
		return r.card.RemoveActivity(p.EntityId)

	default:
		eventsSkipped.WithLabelValues(ev.Name, skipUnknown).Inc()
		logger.Log.Debug("unknown event kind", "event", ev.Name)
		return nil
	}
}

func unmarshal(ev api.Event, out any) error {
	if err := json.Unmarshal(ev.Data, out); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}
	return nil
}

// mirror runs the view-model half of a dual-copy mutation only when the
// addressed card is the open one.
func mirror(active bool, fn func() error) error {
	if !active {
		return nil
	}
	return fn()
}

// both keeps the board-graph and view-model halves of one mutation in a
// single step. Both halves always execute (the arguments are evaluated before
// the call); a miss on one copy never prevents the other from applying.
func both(boardErr, cardErr error) error {
	if boardErr != nil {
		return boardErr
	}
	return cardErr
}
