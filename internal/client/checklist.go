package client

import (
	"fmt"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

func (c *Client) CreateChecklist(listId domain.ListId, cardId domain.CardId, title string) error {
	cl, err := c.api.CreateChecklist(cardId, api.DraftChecklist{Title: title})
	if err != nil {
		return fmt.Errorf("creating checklist on card %d: %w", cardId, err)
	}
	return both(
		discardStale(c.board.AddChecklist(listId, cardId, cl)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.AddChecklist(cardId, cl) })),
	)
}

func (c *Client) UpdateChecklist(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId, patch api.ChecklistPatch) error {
	cl, err := c.api.PatchChecklist(checklistId, patch)
	if err != nil {
		return fmt.Errorf("updating checklist %d: %w", checklistId, err)
	}
	return both(
		discardStale(c.board.UpdateChecklist(listId, cardId, cl)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.UpdateChecklist(cardId, cl) })),
	)
}

func (c *Client) DeleteChecklist(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId) error {
	if err := c.api.DeleteChecklist(checklistId); err != nil {
		return fmt.Errorf("deleting checklist %d: %w", checklistId, err)
	}
	return both(
		discardStale(c.board.RemoveChecklist(listId, cardId, checklistId)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.RemoveChecklist(cardId, checklistId) })),
	)
}

func (c *Client) CreateChecklistItem(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId, draft api.DraftChecklistItem) error {
	item, err := c.api.CreateChecklistItem(checklistId, draft)
	if err != nil {
		return fmt.Errorf("creating item in checklist %d: %w", checklistId, err)
	}
	return both(
		discardStale(c.board.AddChecklistItem(listId, cardId, item)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.AddChecklistItem(cardId, item) })),
	)
}

func (c *Client) UpdateChecklistItem(listId domain.ListId, cardId domain.CardId, itemId domain.ItemId, patch api.ChecklistItemPatch) error {
	item, err := c.api.PatchChecklistItem(itemId, patch)
	if err != nil {
		return fmt.Errorf("updating checklist item %d: %w", itemId, err)
	}
	return both(
		discardStale(c.board.UpdateChecklistItem(listId, cardId, item)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.UpdateChecklistItem(cardId, item) })),
	)
}

// ToggleChecklistItem flips an item's completed state.
func (c *Client) ToggleChecklistItem(listId domain.ListId, cardId domain.CardId, itemId domain.ItemId, completed bool) error {
	return c.UpdateChecklistItem(listId, cardId, itemId, api.ChecklistItemPatch{Completed: &completed})
}

func (c *Client) DeleteChecklistItem(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId, itemId domain.ItemId) error {
	if err := c.api.DeleteChecklistItem(itemId); err != nil {
		return fmt.Errorf("deleting checklist item %d: %w", itemId, err)
	}
	return both(
		discardStale(c.board.RemoveChecklistItem(listId, cardId, checklistId, itemId)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.RemoveChecklistItem(cardId, checklistId, itemId) })),
	)
}

// ReorderChecklistItems applies the order locally, then persists it. Same
// rejection contract as the other reorder actions.
func (c *Client) ReorderChecklistItems(listId domain.ListId, cardId domain.CardId, checklistId domain.ChecklistId, order []domain.ItemId) error {
	err := both(
		discardStale(c.board.ApplyChecklistItemOrder(listId, cardId, checklistId, order)),
		discardStale(mirror(c.card.Active(cardId), func() error { return c.card.ApplyChecklistItemOrder(cardId, checklistId, order) })),
	)
	if err != nil {
		return err
	}
	if err := c.api.UpdateChecklistItemsOrder(checklistId, order); err != nil {
		logger.Log.Error("item reorder rejected, resyncing", "checklist_id", checklistId, "error", err)
		if rerr := c.Resync(); rerr != nil {
			return rerr
		}
		return fmt.Errorf("reordering items in checklist %d: %w", checklistId, err)
	}
	return nil
}
