package apiclient

import (
	"fmt"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
)

func (c *APIClient) GetBoards() ([]domain.Board, error) {
	resp, err := c.do("GET", "/board", nil)
	if err != nil {
		return nil, err
	}
	var boards []domain.Board
	if err := decode(resp, &boards); err != nil {
		return nil, fmt.Errorf("failed to get boards: %w", err)
	}
	return boards, nil
}

func (c *APIClient) GetBoard(boardId domain.BoardId) (domain.Board, error) {
	var board domain.Board
	resp, err := c.do("GET", fmt.Sprintf("/board/%d", boardId), nil)
	if err != nil {
		return board, err
	}
	if err := decode(resp, &board); err != nil {
		return board, fmt.Errorf("failed to get board %d: %w", boardId, err)
	}
	return board, nil
}

func (c *APIClient) CreateBoard(req api.CreateBoardRequest) (domain.Board, error) {
	var board domain.Board
	if err := c.validate.Struct(req); err != nil {
		return board, fmt.Errorf("invalid board draft: %w", err)
	}
	resp, err := c.do("POST", "/board", req)
	if err != nil {
		return board, err
	}
	if err := decode(resp, &board); err != nil {
		return board, fmt.Errorf("failed to create board: %w", err)
	}
	return board, nil
}

func (c *APIClient) PatchBoard(boardId domain.BoardId, patch api.BoardPatch) (domain.Board, error) {
	var board domain.Board
	resp, err := c.do("PATCH", fmt.Sprintf("/board/%d", boardId), patch)
	if err != nil {
		return board, err
	}
	if err := decode(resp, &board); err != nil {
		return board, fmt.Errorf("failed to update board %d: %w", boardId, err)
	}
	return board, nil
}

func (c *APIClient) DeleteBoard(boardId domain.BoardId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/board/%d", boardId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// UpdateBoardListsOrder persists the current list order as an id array.
func (c *APIClient) UpdateBoardListsOrder(boardId domain.BoardId, order []domain.ListId) error {
	resp, err := c.do("PATCH", fmt.Sprintf("/board/%d/boardlists-order", boardId), order)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *APIClient) GetBoardClaims(boardId domain.BoardId) (domain.BoardClaims, error) {
	var claims domain.BoardClaims
	resp, err := c.do("GET", fmt.Sprintf("/board/%d/user-claims", boardId), nil)
	if err != nil {
		return claims, err
	}
	if err := decode(resp, &claims); err != nil {
		return claims, fmt.Errorf("failed to get board claims: %w", err)
	}
	return claims, nil
}

func (c *APIClient) GetBoardRoles(boardId domain.BoardId) ([]domain.BoardRole, error) {
	resp, err := c.do("GET", fmt.Sprintf("/board/%d/roles", boardId), nil)
	if err != nil {
		return nil, err
	}
	var roles []domain.BoardRole
	if err := decode(resp, &roles); err != nil {
		return nil, fmt.Errorf("failed to get board roles: %w", err)
	}
	return roles, nil
}

func (c *APIClient) GetBoardMembers(boardId domain.BoardId) ([]domain.BoardAllowedUser, error) {
	resp, err := c.do("GET", fmt.Sprintf("/board/%d/member", boardId), nil)
	if err != nil {
		return nil, err
	}
	var users []domain.BoardAllowedUser
	if err := decode(resp, &users); err != nil {
		return nil, fmt.Errorf("failed to get board members: %w", err)
	}
	return users, nil
}
