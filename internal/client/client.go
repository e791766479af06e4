// Package client is the write side of the sync core. Every user action goes
// to the server first; the authoritative response is then folded into the
// same stores the event router writes, so a confirmation and its echoed
// realtime event are mutual no-ops.
package client

import (
	"errors"

	"github.com/boardsync-dev/boardsync/internal/apiclient"
	"github.com/boardsync-dev/boardsync/internal/markdown"
	"github.com/boardsync-dev/boardsync/internal/store"
	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// ErrNoBoard is returned by actions that need an open board when none is
// loaded.
var ErrNoBoard = errors.New("no board is loaded")

const defaultActivityPageSize = 15

type Client struct {
	api     *apiclient.APIClient
	board   *store.BoardStore
	card    *store.CardStore
	archive *store.ArchiveStore
	text    *markdown.TextProcessor

	activityPageSize int
}

func New(api *apiclient.APIClient, board *store.BoardStore, card *store.CardStore, archive *store.ArchiveStore) *Client {
	return &Client{
		api:              api,
		board:            board,
		card:             card,
		archive:          archive,
		text:             markdown.New(),
		activityPageSize: defaultActivityPageSize,
	}
}

// SetActivityPageSize overrides the activity feed page size from config.
func (c *Client) SetActivityPageSize(n int) {
	if n > 0 {
		c.activityPageSize = n
	}
}

func (c *Client) Login(username, password string) error {
	return c.api.Login(username, password)
}

func (c *Client) Logout() error {
	c.board.Unload()
	c.card.Unload()
	c.archive.Unload()
	return c.api.Logout()
}

// discardStale downgrades a locate miss to a no-op. By the time a response
// arrives the user may have closed the board or card, or a concurrent event
// may have removed the entity; neither is a failure of the action.
func discardStale(err error) error {
	switch {
	case errors.Is(err, internal_errors.ErrNotFound):
		logger.Log.Debug("discarding response addressing an entity no longer held locally")
		return nil
	case errors.Is(err, internal_errors.ErrStale):
		logger.Log.Debug("discarding response for a board no longer open")
		return nil
	}
	return err
}

func mirror(active bool, fn func() error) error {
	if !active {
		return nil
	}
	return fn()
}

// both pairs the board-graph and view-model halves of one mutation. Both
// halves always execute (the arguments are evaluated before the call).
func both(boardErr, cardErr error) error {
	if boardErr != nil {
		return boardErr
	}
	return cardErr
}
