package client

import (
	"fmt"
	"time"

	"github.com/boardsync-dev/boardsync/shared/domain"
	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// LoadArchive fetches both archive collections for the open board.
func (c *Client) LoadArchive() error {
	b := c.board.Board()
	if b == nil {
		return ErrNoBoard
	}
	cards, err := c.api.GetArchivedCards(b.Id)
	if err != nil {
		return fmt.Errorf("loading board %d archived cards: %w", b.Id, err)
	}
	lists, err := c.api.GetArchivedLists(b.Id)
	if err != nil {
		return fmt.Errorf("loading board %d archived lists: %w", b.Id, err)
	}
	if !c.board.Loaded(b.Id) {
		return discardStale(internal_errors.ErrStale)
	}
	c.archive.SetCards(cards)
	c.archive.SetLists(lists)
	return nil
}

// ArchiveList removes the list and its cards from the live graph and records
// a snapshot. The echoed event overwrites the snapshot by id.
func (c *Client) ArchiveList(listId domain.ListId) error {
	b := c.board.Board()
	if b == nil {
		return ErrNoBoard
	}
	var snapshot *domain.BoardList
	for i := range b.Lists {
		if b.Lists[i].Id == listId {
			snapshot = &b.Lists[i]
			break
		}
	}
	if snapshot == nil {
		logger.Log.Debug("archive requested for a list not held locally", "list_id", listId)
		return nil
	}
	if err := c.api.ArchiveList(listId); err != nil {
		return fmt.Errorf("archiving list %d: %w", listId, err)
	}
	c.archive.AddList(domain.ArchivedList{
		Id:         snapshot.Id,
		Title:      snapshot.Title,
		BoardId:    b.Id,
		CardCount:  len(snapshot.Cards),
		ArchivedOn: time.Now().UTC(),
	})
	return discardStale(c.board.RemoveList(listId))
}

// RevertCard asks the server to restore an archived card. The restored entity
// arrives as a card.revert event carrying its authoritative list and
// position; nothing is restored locally ahead of it.
func (c *Client) RevertCard(cardId domain.CardId) error {
	b := c.board.Board()
	if b == nil {
		return ErrNoBoard
	}
	if err := c.api.Revert(b.Id, "card", cardId); err != nil {
		return fmt.Errorf("reverting card %d: %w", cardId, err)
	}
	return nil
}

func (c *Client) RevertList(listId domain.ListId) error {
	b := c.board.Board()
	if b == nil {
		return ErrNoBoard
	}
	if err := c.api.Revert(b.Id, "list", listId); err != nil {
		return fmt.Errorf("reverting list %d: %w", listId, err)
	}
	return nil
}
