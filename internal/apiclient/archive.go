package apiclient

import (
	"fmt"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

func (c *APIClient) GetArchivedCards(boardId domain.BoardId) ([]domain.ArchivedCard, error) {
	resp, err := c.do("GET", fmt.Sprintf("/board/%d/archived-entities?entity_type=card", boardId), nil)
	if err != nil {
		return nil, err
	}
	var cards []domain.ArchivedCard
	if err := decode(resp, &cards); err != nil {
		return nil, fmt.Errorf("failed to get archived cards: %w", err)
	}
	return cards, nil
}

func (c *APIClient) GetArchivedLists(boardId domain.BoardId) ([]domain.ArchivedList, error) {
	resp, err := c.do("GET", fmt.Sprintf("/board/%d/archived-entities?entity_type=list", boardId), nil)
	if err != nil {
		return nil, err
	}
	var lists []domain.ArchivedList
	if err := decode(resp, &lists); err != nil {
		return nil, fmt.Errorf("failed to get archived lists: %w", err)
	}
	return lists, nil
}

// ArchiveCard moves the card into the board's archive on the server.
func (c *APIClient) ArchiveCard(cardId domain.CardId) error {
	resp, err := c.do("PATCH", fmt.Sprintf("/card/%d", cardId), map[string]bool{"archived": true})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *APIClient) ArchiveList(listId domain.ListId) error {
	resp, err := c.do("PATCH", fmt.Sprintf("/list/%d", listId), map[string]bool{"archived": true})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// Revert moves an archived entity back into the live board graph.
func (c *APIClient) Revert(boardId domain.BoardId, entityType string, entityId int64) error {
	body := map[string]any{"entity_type": entityType, "entity_id": entityId}
	resp, err := c.do("POST", fmt.Sprintf("/board/%d/revert", boardId), body)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
