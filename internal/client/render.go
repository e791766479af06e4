package client

import (
	"github.com/boardsync-dev/boardsync/shared/domain"
)

// RenderDescription renders a card description to sanitized HTML.
func (c *Client) RenderDescription(text string) string {
	return c.text.ProcessDescription(text)
}

// RenderActivity renders an activity entry for display. Comment bodies go
// through the restricted comment grammar with @mentions resolved against the
// loaded board's members; other activity kinds carry no text to render.
func (c *Client) RenderActivity(a domain.CardActivity) (string, []domain.MemberId) {
	if a.Comment == nil {
		return "", nil
	}
	return c.text.ProcessComment(*a.Comment, c.board.Users())
}
