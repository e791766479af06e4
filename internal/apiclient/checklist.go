package apiclient

import (
	"fmt"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
)

func (c *APIClient) CreateChecklist(cardId domain.CardId, draft api.DraftChecklist) (domain.CardChecklist, error) {
	var checklist domain.CardChecklist
	if err := c.validate.Struct(draft); err != nil {
		return checklist, fmt.Errorf("invalid checklist draft: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/card/%d/checklist", cardId), draft)
	if err != nil {
		return checklist, err
	}
	if err := decode(resp, &checklist); err != nil {
		return checklist, fmt.Errorf("failed to create checklist: %w", err)
	}
	return checklist, nil
}

func (c *APIClient) PatchChecklist(checklistId domain.ChecklistId, patch api.ChecklistPatch) (domain.CardChecklist, error) {
	var checklist domain.CardChecklist
	resp, err := c.do("PATCH", fmt.Sprintf("/checklist/%d", checklistId), patch)
	if err != nil {
		return checklist, err
	}
	if err := decode(resp, &checklist); err != nil {
		return checklist, fmt.Errorf("failed to update checklist %d: %w", checklistId, err)
	}
	return checklist, nil
}

func (c *APIClient) DeleteChecklist(checklistId domain.ChecklistId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/checklist/%d", checklistId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *APIClient) CreateChecklistItem(checklistId domain.ChecklistId, draft api.DraftChecklistItem) (domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	if err := c.validate.Struct(draft); err != nil {
		return item, fmt.Errorf("invalid checklist item draft: %w", err)
	}
	resp, err := c.do("POST", fmt.Sprintf("/checklist/%d/item", checklistId), draft)
	if err != nil {
		return item, err
	}
	if err := decode(resp, &item); err != nil {
		return item, fmt.Errorf("failed to create checklist item: %w", err)
	}
	return item, nil
}

func (c *APIClient) PatchChecklistItem(itemId domain.ItemId, patch api.ChecklistItemPatch) (domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	resp, err := c.do("PATCH", fmt.Sprintf("/checklist/item/%d", itemId), patch)
	if err != nil {
		return item, err
	}
	if err := decode(resp, &item); err != nil {
		return item, fmt.Errorf("failed to update checklist item %d: %w", itemId, err)
	}
	return item, nil
}

func (c *APIClient) DeleteChecklistItem(itemId domain.ItemId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/checklist/item/%d", itemId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// UpdateChecklistItemsOrder persists a checklist's item order as an id array.
func (c *APIClient) UpdateChecklistItemsOrder(checklistId domain.ChecklistId, order []domain.ItemId) error {
	resp, err := c.do("PATCH", fmt.Sprintf("/checklist/%d/items-order", checklistId), order)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
