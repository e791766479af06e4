package simserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/utils"
)

func (s *Server) checklistRoutes(r chi.Router) {
	r.Post("/card/{cardId}/checklist", s.handleCreateChecklist)
	r.Patch("/checklist/{checklistId}", s.handlePatchChecklist)
	r.Delete("/checklist/{checklistId}", s.handleDeleteChecklist)
	r.Post("/checklist/{checklistId}/item", s.handleCreateItem)
	r.Patch("/checklist/{checklistId}/items-order", s.handleItemOrder)
	r.Patch("/checklist/item/{itemId}", s.handlePatchItem)
	r.Delete("/checklist/item/{itemId}", s.handleDeleteItem)
}

func (s *Server) handleCreateChecklist(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var draft api.DraftChecklist
	if err := utils.DecodeValidate(r.Body, &draft); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.CreateChecklist(cardId, draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvChecklistNew, api.ChecklistPayload{
		ListId: loc.ListId, CardId: cardId, Entity: loc.Entity,
	})
}

func (s *Server) handlePatchChecklist(w http.ResponseWriter, r *http.Request) {
	checklistId, err := pathId(r, "checklistId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var patch api.ChecklistPatch
	if err := utils.Decode(r.Body, &patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.PatchChecklist(checklistId, patch)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvChecklistUpdate, api.ChecklistPayload{
		ListId: loc.ListId, CardId: loc.CardId, Entity: loc.Entity,
	})
}

func (s *Server) handleDeleteChecklist(w http.ResponseWriter, r *http.Request) {
	checklistId, err := pathId(r, "checklistId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.DeleteChecklist(checklistId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "deleted"})
	s.bus.Publish(loc.BoardId, api.EvChecklistDelete, api.CardEntityDeletePayload{
		ListId: loc.ListId, CardId: loc.CardId, EntityId: checklistId,
	})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	checklistId, err := pathId(r, "checklistId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var draft api.DraftChecklistItem
	if err := utils.DecodeValidate(r.Body, &draft); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.CreateItem(checklistId, draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvChecklistItemNew, api.ChecklistItemPayload{
		ListId: loc.ListId, CardId: loc.CardId, Entity: loc.Entity,
	})
}

func (s *Server) handleItemOrder(w http.ResponseWriter, r *http.Request) {
	checklistId, err := pathId(r, "checklistId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var order []domain.ItemId
	if err := utils.Decode(r.Body, &order); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.ItemOrder(checklistId, order)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "ok"})
	s.bus.Publish(loc.BoardId, api.EvChecklistItemOrder, api.ChecklistItemOrderPayload{
		ListId: loc.ListId, CardId: loc.CardId, ChecklistId: checklistId, Order: order,
	})
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := pathId(r, "itemId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var patch api.ChecklistItemPatch
	if err := utils.Decode(r.Body, &patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.PatchItem(itemId, patch)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvChecklistItemUpdate, api.ChecklistItemPayload{
		ListId: loc.ListId, CardId: loc.CardId, Entity: loc.Entity,
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := pathId(r, "itemId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.DeleteItem(itemId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "deleted"})
	s.bus.Publish(loc.BoardId, api.EvChecklistItemDelete, api.CardEntityDeletePayload{
		ListId: loc.ListId, CardId: loc.CardId, ChecklistId: loc.Entity.ChecklistId, EntityId: itemId,
	})
}
