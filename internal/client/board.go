package client

import (
	"fmt"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

func (c *Client) LoadBoards() error {
	boards, err := c.api.GetBoards()
	if err != nil {
		return fmt.Errorf("loading boards: %w", err)
	}
	c.board.SetBoards(boards)
	return nil
}

func (c *Client) CreateBoard(title string) (domain.Board, error) {
	b, err := c.api.CreateBoard(api.CreateBoardRequest{Title: title})
	if err != nil {
		return domain.Board{}, fmt.Errorf("creating board: %w", err)
	}
	c.board.AddBoard(b)
	return b, nil
}

func (c *Client) DeleteBoard(boardId domain.BoardId) error {
	if err := c.api.DeleteBoard(boardId); err != nil {
		return fmt.Errorf("deleting board %d: %w", boardId, err)
	}
	c.board.RemoveBoard(boardId)
	if c.board.Loaded(boardId) {
		c.board.Unload()
		c.card.Unload()
		c.archive.Unload()
	}
	return nil
}

// LoadBoard opens a board: the full graph, the caller's claims, the board's
// roles and members, and the archive collections, in that order. It is also
// the resync path after a stream reconnect.
func (c *Client) LoadBoard(boardId domain.BoardId) error {
	b, err := c.api.GetBoard(boardId)
	if err != nil {
		return fmt.Errorf("loading board %d: %w", boardId, err)
	}
	c.board.SetBoard(&b)
	c.board.SortListsByPosition()
	for _, l := range c.board.Lists() {
		c.board.SortCardsByPosition(l.Id)
	}

	claims, err := c.api.GetBoardClaims(boardId)
	if err != nil {
		return fmt.Errorf("loading board %d claims: %w", boardId, err)
	}
	roles, err := c.api.GetBoardRoles(boardId)
	if err != nil {
		return fmt.Errorf("loading board %d roles: %w", boardId, err)
	}
	users, err := c.api.GetBoardMembers(boardId)
	if err != nil {
		return fmt.Errorf("loading board %d members: %w", boardId, err)
	}
	if !c.board.Loaded(boardId) {
		return discardStale(internal_errors.ErrStale)
	}
	c.board.SetClaims(&claims)
	c.board.SetRoles(roles)
	c.board.SetUsers(users)

	return c.LoadArchive()
}

func (c *Client) CloseBoard() {
	c.board.Unload()
	c.card.Unload()
	c.archive.Unload()
}

// Resync reloads the open board from scratch. Used as the stream's
// on-connect hook: the graph may have drifted arbitrarily while offline, so
// incremental catch-up is never attempted.
func (c *Client) Resync() error {
	b := c.board.Board()
	if b == nil {
		return nil
	}
	return c.LoadBoard(b.Id)
}

func (c *Client) UpdateBoard(boardId domain.BoardId, patch api.BoardPatch) error {
	b, err := c.api.PatchBoard(boardId, patch)
	if err != nil {
		return fmt.Errorf("updating board %d: %w", boardId, err)
	}
	if !c.board.Loaded(boardId) {
		return discardStale(internal_errors.ErrStale)
	}
	title := string(b.Title)
	return discardStale(c.board.MergeBoard(api.BoardPatch{
		Title:           &title,
		BackgroundColor: &b.BackgroundColor,
		BackgroundImage: &b.BackgroundImage,
	}))
}

func (c *Client) CreateList(title string) error {
	b := c.board.Board()
	if b == nil {
		return ErrNoBoard
	}
	draft := api.DraftBoardList{Title: title, Position: len(b.Lists)}
	l, err := c.api.CreateList(b.Id, draft)
	if err != nil {
		return fmt.Errorf("creating list: %w", err)
	}
	if !c.board.Loaded(b.Id) {
		return discardStale(internal_errors.ErrStale)
	}
	return discardStale(c.board.UpsertList(l))
}

func (c *Client) UpdateList(list domain.BoardList) error {
	l, err := c.api.PatchList(list.Id, list)
	if err != nil {
		return fmt.Errorf("updating list %d: %w", list.Id, err)
	}
	return discardStale(c.board.UpsertList(l))
}

func (c *Client) DeleteList(listId domain.ListId) error {
	if err := c.api.DeleteList(listId); err != nil {
		return fmt.Errorf("deleting list %d: %w", listId, err)
	}
	return discardStale(c.board.RemoveList(listId))
}

// ReorderLists applies the order locally for immediate feedback, then
// persists it. A rejected reorder resyncs the whole board rather than trying
// to unwind the local move.
func (c *Client) ReorderLists(order []domain.ListId) error {
	b := c.board.Board()
	if b == nil {
		return ErrNoBoard
	}
	if err := c.board.ApplyListOrder(order); err != nil {
		return discardStale(err)
	}
	if err := c.api.UpdateBoardListsOrder(b.Id, order); err != nil {
		logger.Log.Error("list reorder rejected, resyncing", "board_id", b.Id, "error", err)
		if rerr := c.Resync(); rerr != nil {
			return rerr
		}
		return fmt.Errorf("reordering lists: %w", err)
	}
	return nil
}

// ReorderCards persists a drag within or into one list, same contract as
// ReorderLists.
func (c *Client) ReorderCards(listId domain.ListId, order []domain.CardId) error {
	if err := c.board.ApplyCardOrder(listId, order); err != nil {
		return discardStale(err)
	}
	if err := c.api.UpdateCardsOrder(listId, order); err != nil {
		logger.Log.Error("card reorder rejected, resyncing", "list_id", listId, "error", err)
		if rerr := c.Resync(); rerr != nil {
			return rerr
		}
		return fmt.Errorf("reordering cards in list %d: %w", listId, err)
	}
	return nil
}

// HasPermission answers whether the logged-in user holds the named permission
// on the open board.
func (c *Client) HasPermission(name string) bool {
	claims := c.board.Claims()
	return claims != nil && claims.HasPermission(name)
}
