package apiclient

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
)

func (c *APIClient) GetCard(cardId domain.CardId) (domain.Card, error) {
	var card domain.Card
	resp, err := c.do("GET", fmt.Sprintf("/card/%d", cardId), nil)
	if err != nil {
		return card, err
	}
	if err := decode(resp, &card); err != nil {
		return card, fmt.Errorf("failed to get card %d: %w", cardId, err)
	}
	return card, nil
}

func (c *APIClient) CreateCard(listId domain.ListId, draft api.DraftCard) (domain.Card, error) {
	var card domain.Card
	if err := c.validate.Struct(draft); err != nil {
		return card, fmt.Errorf("invalid card draft: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/list/%d/card", listId), draft)
	if err != nil {
		return card, err
	}
	if err := decode(resp, &card); err != nil {
		return card, fmt.Errorf("failed to create card: %w", err)
	}
	return card, nil
}

func (c *APIClient) PatchCard(cardId domain.CardId, patch api.CardPatch) (domain.Card, error) {
	var card domain.Card
	resp, err := c.do("PATCH", fmt.Sprintf("/card/%d", cardId), patch)
	if err != nil {
		return card, err
	}
	if err := decode(resp, &card); err != nil {
		return card, fmt.Errorf("failed to update card %d: %w", cardId, err)
	}
	return card, nil
}

// MoveCard relocates the card; the server answers with the authoritative
// card including its assigned position in the target list.
func (c *APIClient) MoveCard(cardId domain.CardId, params api.MoveCardParams) (domain.Card, error) {
	var card domain.Card
	resp, err := c.do("PATCH", fmt.Sprintf("/card/%d", cardId), params)
	if err != nil {
		return card, err
	}
	if err := decode(resp, &card); err != nil {
		return card, fmt.Errorf("failed to move card %d: %w", cardId, err)
	}
	return card, nil
}

func (c *APIClient) DeleteCard(cardId domain.CardId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/card/%d", cardId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *APIClient) PostCardComment(cardId domain.CardId, req api.CreateCommentRequest) (domain.CardActivity, error) {
	var activity domain.CardActivity
	if err := c.validate.Struct(req); err != nil {
		return activity, fmt.Errorf("invalid comment: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/card/%d/comment", cardId), req)
	if err != nil {
		return activity, err
	}
	if err := decode(resp, &activity); err != nil {
		return activity, fmt.Errorf("failed to post comment: %w", err)
	}
	return activity, nil
}

func (c *APIClient) GetCardActivities(cardId domain.CardId, query api.CardActivityQuery) (domain.PaginatedCardActivity, error) {
	var page domain.PaginatedCardActivity

	params := url.Values{}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(query.PerPage))
	}
	if query.Type != "" {
		params.Set("type", query.Type)
	}
	if query.DtFrom != nil {
		params.Set("dt_from", query.DtFrom.UTC().Format(time.RFC3339))
	}
	if query.DtTo != nil {
		params.Set("dt_to", query.DtTo.UTC().Format(time.RFC3339))
	}

	path := fmt.Sprintf("/card/%d/activities", cardId)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	resp, err := c.do("GET", path, nil)
	if err != nil {
		return page, err
	}
	if err := decode(resp, &page); err != nil {
		return page, fmt.Errorf("failed to get card activities: %w", err)
	}
	return page, nil
}

func (c *APIClient) AssignCardMember(cardId domain.CardId, draft api.DraftCardMember) (domain.CardMember, error) {
	var member domain.CardMember
	if err := c.validate.Struct(draft); err != nil {
		return member, fmt.Errorf("invalid member assignment: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/card/%d/assign-member", cardId), draft)
	if err != nil {
		return member, err
	}
	if err := decode(resp, &member); err != nil {
		return member, fmt.Errorf("failed to assign member: %w", err)
	}
	return member, nil
}

func (c *APIClient) DeassignCardMember(cardId domain.CardId, boardUserId domain.MemberId) error {
	resp, err := c.do("POST", fmt.Sprintf("/card/%d/deassign-member", cardId), api.DeassignMemberRequest{BoardUserId: boardUserId})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *APIClient) PostCardDate(cardId domain.CardId, draft api.DraftCardDate) (domain.CardDate, error) {
	var date domain.CardDate
	if err := c.validate.Struct(draft); err != nil {
		return date, fmt.Errorf("invalid card date: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/card/%d/date", cardId), draft)
	if err != nil {
		return date, err
	}
	if err := decode(resp, &date); err != nil {
		return date, fmt.Errorf("failed to create card date: %w", err)
	}
	return date, nil
}

func (c *APIClient) PatchCardDate(dateId domain.DateId, patch api.CardDatePatch) (domain.CardDate, error) {
	var date domain.CardDate
	resp, err := c.do("PATCH", fmt.Sprintf("/date/%d", dateId), patch)
	if err != nil {
		return date, err
	}
	if err := decode(resp, &date); err != nil {
		return date, fmt.Errorf("failed to update card date %d: %w", dateId, err)
	}
	return date, nil
}

func (c *APIClient) DeleteCardDate(dateId domain.DateId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/date/%d", dateId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
