package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// OpenCard loads a card into the detail view together with the first page of
// its activity feed. The view copy is separate from the board graph copy;
// both are kept in step from here on.
func (c *Client) OpenCard(cardId domain.CardId) error {
	card, err := c.api.GetCard(cardId)
	if err != nil {
		return fmt.Errorf("opening card %d: %w", cardId, err)
	}
	c.card.SetCard(&card)
	c.card.SetCardMoved(false)

	activities, err := c.api.GetCardActivities(cardId, api.CardActivityQuery{
		Page: 1, PerPage: c.activityPageSize, Type: "all",
	})
	if err != nil {
		return fmt.Errorf("loading card %d activities: %w", cardId, err)
	}
	if !c.card.Active(cardId) {
		logger.Log.Debug("card closed while loading activities", "card_id", cardId)
		return nil
	}
	c.card.SetActivities(&activities)
	return nil
}

func (c *Client) CloseCard() {
	c.card.Unload()
}

// LoadMoreActivities fetches the next feed page and appends it, dropping
// entries the stream already delivered.
func (c *Client) LoadMoreActivities(activityType string) error {
	card := c.card.Card()
	feed := c.card.Activities()
	if card == nil || feed == nil {
		return ErrNoBoard
	}
	if feed.Page >= feed.Pages {
		return nil
	}
	page, err := c.api.GetCardActivities(card.Id, api.CardActivityQuery{
		Page: feed.Page + 1, PerPage: c.activityPageSize, Type: activityType,
	})
	if err != nil {
		return fmt.Errorf("loading card %d activities page %d: %w", card.Id, feed.Page+1, err)
	}
	if !c.card.Active(card.Id) {
		logger.Log.Debug("card closed while loading activities", "card_id", card.Id)
		return nil
	}
	c.card.AppendActivities(page)
	return nil
}

// CreateCard posts a draft and inserts the confirmed entity. Nothing is
// inserted before the server answers; the draft only exists on the wire,
// tagged with a client reference for log correlation.
func (c *Client) CreateCard(listId domain.ListId, title, description string) (domain.Card, error) {
	draft := api.DraftCard{
		Title:       title,
		Description: description,
		ClientRef:   uuid.NewString(),
	}
	card, err := c.api.CreateCard(listId, draft)
	if err != nil {
		return domain.Card{}, fmt.Errorf("creating card in list %d: %w", listId, err)
	}
	logger.Log.Debug("card confirmed", "client_ref", draft.ClientRef, "card_id", card.Id)
	if err := discardStale(c.board.UpsertCard(card)); err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

func (c *Client) UpdateCard(cardId domain.CardId, patch api.CardPatch) error {
	card, err := c.api.PatchCard(cardId, patch)
	if err != nil {
		return fmt.Errorf("updating card %d: %w", cardId, err)
	}
	return c.applyCard(card)
}

// MoveCard relocates a card, applying the move locally first so the drag
// lands instantly. The confirmed entity reconciles the local state; a
// rejection resyncs the board.
func (c *Client) MoveCard(cardId domain.CardId, target api.MoveCardParams) error {
	local, ok := c.board.FindCardAnywhere(cardId)
	if ok {
		local.ListId = target.ListId
		local.Position = target.Position
		if err := discardStale(c.board.UpsertCard(local)); err != nil {
			return err
		}
	}
	card, err := c.api.MoveCard(cardId, target)
	if err != nil {
		logger.Log.Error("card move rejected, resyncing", "card_id", cardId, "error", err)
		if rerr := c.Resync(); rerr != nil {
			return rerr
		}
		return fmt.Errorf("moving card %d: %w", cardId, err)
	}
	return c.applyCard(card)
}

func (c *Client) DeleteCard(listId domain.ListId, cardId domain.CardId) error {
	if err := c.api.DeleteCard(cardId); err != nil {
		return fmt.Errorf("deleting card %d: %w", cardId, err)
	}
	if c.card.Active(cardId) {
		c.card.Unload()
	}
	return discardStale(c.board.RemoveCard(listId, cardId))
}

func (c *Client) PostComment(cardId domain.CardId, comment string) error {
	activity, err := c.api.PostCardComment(cardId, api.CreateCommentRequest{Comment: comment})
	if err != nil {
		return fmt.Errorf("posting comment on card %d: %w", cardId, err)
	}
	return discardStale(c.card.AddActivity(activity))
}

func (c *Client) AddCardDate(listId domain.ListId, cardId domain.CardId, draft api.DraftCardDate) error {
	d, err := c.api.PostCardDate(cardId, draft)
	if err != nil {
		return fmt.Errorf("adding date to card %d: %w", cardId, err)
	}
	return both(
		discardStale(c.board.AddCardDate(listId, cardId, d)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.AddDate(cardId, d) })),
	)
}

func (c *Client) UpdateCardDate(listId domain.ListId, cardId domain.CardId, dateId domain.DateId, patch api.CardDatePatch) error {
	d, err := c.api.PatchCardDate(dateId, patch)
	if err != nil {
		return fmt.Errorf("updating date %d: %w", dateId, err)
	}
	return both(
		discardStale(c.board.UpdateCardDate(listId, cardId, d)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.UpdateDate(cardId, d) })),
	)
}

func (c *Client) DeleteCardDate(listId domain.ListId, cardId domain.CardId, dateId domain.DateId) error {
	if err := c.api.DeleteCardDate(dateId); err != nil {
		return fmt.Errorf("deleting date %d: %w", dateId, err)
	}
	return both(
		discardStale(c.board.RemoveCardDate(listId, cardId, dateId)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.RemoveDate(cardId, dateId) })),
	)
}

func (c *Client) AssignMember(listId domain.ListId, cardId domain.CardId, boardUserId domain.MemberId, notify bool) error {
	m, err := c.api.AssignCardMember(cardId, api.DraftCardMember{
		BoardUserId: boardUserId, SendNotification: notify,
	})
	if err != nil {
		return fmt.Errorf("assigning member to card %d: %w", cardId, err)
	}
	return both(
		discardStale(c.board.AddCardMember(listId, cardId, m)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.AddMember(cardId, m) })),
	)
}

// DeassignMember removes a board member from a card. The REST contract is
// addressed by board user; the local graph stores assignment entities, so the
// assignment id is resolved from the loaded card.
func (c *Client) DeassignMember(listId domain.ListId, cardId domain.CardId, boardUserId domain.MemberId) error {
	if err := c.api.DeassignCardMember(cardId, boardUserId); err != nil {
		return fmt.Errorf("deassigning member from card %d: %w", cardId, err)
	}
	card, ok := c.board.FindCard(listId, cardId)
	if !ok {
		logger.Log.Debug("card gone before deassignment applied", "card_id", cardId)
		return nil
	}
	for _, m := range card.AssignedMembers {
		if m.BoardUserId == boardUserId {
			return both(
				discardStale(c.board.RemoveCardMember(listId, cardId, m.Id)),
				discardStale(mirror(c.card.Active(cardId), func() error { return c.card.RemoveMember(cardId, m.Id) })),
			)
		}
	}
	return nil
}

// ArchiveCard removes the card from the live graph and records a snapshot in
// the archive collection. The echoed event carries the server's snapshot and
// overwrites this one by id.
func (c *Client) ArchiveCard(listId domain.ListId, cardId domain.CardId) error {
	card, ok := c.board.FindCard(listId, cardId)
	if !ok {
		logger.Log.Debug("archive requested for a card not held locally", "card_id", cardId)
		return nil
	}
	if err := c.api.ArchiveCard(cardId); err != nil {
		return fmt.Errorf("archiving card %d: %w", cardId, err)
	}
	c.archive.AddCard(domain.ArchivedCard{
		Id:         card.Id,
		Title:      card.Title,
		ListId:     card.ListId,
		ArchivedOn: time.Now().UTC(),
	})
	if c.card.Active(cardId) {
		c.card.SetCardMoved(true)
	}
	return discardStale(c.board.RemoveCard(listId, cardId))
}

func (c *Client) applyCard(card domain.Card) error {
	return both(
		discardStale(c.board.UpsertCard(card)),
		discardStale(mirror(c.card.Active(card.Id), func() error { return c.card.UpdateCard(card) })),
	)
}
