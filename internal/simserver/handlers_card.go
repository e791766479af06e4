package simserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/utils"
)

func (s *Server) cardRoutes(r chi.Router) {
	r.Post("/list/{listId}/card", s.handleCreateCard)
	r.Get("/card/{cardId}", s.handleCard)
	r.Patch("/card/{cardId}", s.handlePatchCard)
	r.Delete("/card/{cardId}", s.handleDeleteCard)
	r.Post("/card/{cardId}/comment", s.handleComment)
	r.Get("/card/{cardId}/activities", s.handleActivities)
	r.Post("/card/{cardId}/assign-member", s.handleAssignMember)
	r.Post("/card/{cardId}/deassign-member", s.handleDeassignMember)
	r.Post("/card/{cardId}/date", s.handleAddDate)
	r.Patch("/date/{dateId}", s.handlePatchDate)
	r.Delete("/date/{dateId}", s.handleDeleteDate)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	listId, err := pathId(r, "listId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var draft api.DraftCard
	if err := utils.DecodeValidate(r.Body, &draft); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	c, boardId, err := s.state.CreateCard(listId, draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, c)
	s.bus.Publish(boardId, api.EvCardNew, api.CardEventPayload{
		ListId: listId, CardId: c.Id, Entity: c,
	})
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	c, err := s.state.Card(cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, c)
}

// handlePatchCard serves plain edits, moves and archiving through the one
// PATCH endpoint, emitting the event that matches what actually happened.
func (s *Server) handlePatchCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var patch cardPatch
	if err := utils.Decode(r.Body, &patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	change, err := s.state.PatchCard(cardId, patch)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if change.Archived != nil {
		utils.WriteJSON(w, 200, change.Archived)
		s.bus.Publish(change.BoardId, api.EvCardArchive, api.CardArchivePayload{
			ListId: change.PrevListId, CardId: cardId, Entity: *change.Archived,
		})
		return
	}

	utils.WriteJSON(w, 200, change.Card)
	s.bus.Publish(change.BoardId, api.EvCardUpdate, api.CardEventPayload{
		ListId: change.PrevListId, CardId: cardId, Entity: change.Card,
	})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	listId, boardId, err := s.state.DeleteCard(cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "deleted"})
	s.bus.Publish(boardId, api.EvCardDelete, api.CardDeletePayload{ListId: listId, CardId: cardId})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	userId, _ := s.userId(r)
	var req api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.AddComment(cardId, userId, req.Comment)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvActivityNew, api.ActivityPayload{
		CardId: cardId, Entity: loc.Entity,
	})
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	feed, err := s.state.Activities(cardId, page, perPage, q.Get("type"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, feed)
}

func (s *Server) handleAssignMember(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var draft api.DraftCardMember
	if err := utils.DecodeValidate(r.Body, &draft); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.AssignMember(cardId, draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvCardMemberNew, api.CardMemberPayload{
		ListId: loc.ListId, CardId: cardId, Entity: loc.Entity,
	})
}

func (s *Server) handleDeassignMember(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.DeassignMemberRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.DeassignMember(cardId, req.BoardUserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "ok"})
	s.bus.Publish(loc.BoardId, api.EvCardMemberDelete, api.CardEntityDeletePayload{
		ListId: loc.ListId, CardId: cardId, EntityId: loc.Entity.Id,
	})
}

func (s *Server) handleAddDate(w http.ResponseWriter, r *http.Request) {
	cardId, err := pathId(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var draft api.DraftCardDate
	if err := utils.DecodeValidate(r.Body, &draft); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.AddDate(cardId, draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvCardDateNew, api.CardDatePayload{
		ListId: loc.ListId, CardId: cardId, Entity: loc.Entity,
	})
}

func (s *Server) handlePatchDate(w http.ResponseWriter, r *http.Request) {
	dateId, err := pathId(r, "dateId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var patch api.CardDatePatch
	if err := utils.Decode(r.Body, &patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.PatchDate(dateId, patch)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, loc.Entity)
	s.bus.Publish(loc.BoardId, api.EvCardDateUpdate, api.CardDatePayload{
		ListId: loc.ListId, CardId: loc.CardId, Entity: loc.Entity,
	})
}

func (s *Server) handleDeleteDate(w http.ResponseWriter, r *http.Request) {
	dateId, err := pathId(r, "dateId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	loc, err := s.state.DeleteDate(dateId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "deleted"})
	s.bus.Publish(loc.BoardId, api.EvCardDateDelete, api.CardEntityDeletePayload{
		ListId: loc.ListId, CardId: loc.CardId, EntityId: dateId,
	})
}
