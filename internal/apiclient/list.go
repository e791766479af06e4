package apiclient

import (
	"fmt"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
)

func (c *APIClient) CreateList(boardId domain.BoardId, draft api.DraftBoardList) (domain.BoardList, error) {
	var list domain.BoardList
	if err := c.validate.Struct(draft); err != nil {
		return list, fmt.Errorf("invalid list draft: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/board/%d/list", boardId), draft)
	if err != nil {
		return list, err
	}
	if err := decode(resp, &list); err != nil {
		return list, fmt.Errorf("failed to create list: %w", err)
	}
	return list, nil
}

func (c *APIClient) PatchList(listId domain.ListId, list domain.BoardList) (domain.BoardList, error) {
	var updated domain.BoardList
	resp, err := c.do("PATCH", fmt.Sprintf("/list/%d", listId), list)
	if err != nil {
		return updated, err
	}
	if err := decode(resp, &updated); err != nil {
		return updated, fmt.Errorf("failed to update list %d: %w", listId, err)
	}
	return updated, nil
}

func (c *APIClient) DeleteList(listId domain.ListId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/list/%d", listId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// UpdateCardsOrder persists a list's current card order as an id array.
func (c *APIClient) UpdateCardsOrder(listId domain.ListId, order []domain.CardId) error {
	resp, err := c.do("PATCH", fmt.Sprintf("/list/%d/cards-order", listId), order)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
