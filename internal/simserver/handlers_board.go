package simserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/utils"
)

func (s *Server) boardRoutes(r chi.Router) {
	r.Get("/board", s.handleBoards)
	r.Post("/board", s.handleCreateBoard)
	r.Get("/board/{boardId}", s.handleBoard)
	r.Patch("/board/{boardId}", s.handlePatchBoard)
	r.Delete("/board/{boardId}", s.handleDeleteBoard)
	r.Patch("/board/{boardId}/boardlists-order", s.handleListOrder)
	r.Get("/board/{boardId}/user-claims", s.handleClaims)
	r.Get("/board/{boardId}/roles", s.handleRoles)
	r.Get("/board/{boardId}/member", s.handleMembers)
	r.Get("/board/{boardId}/archived-entities", s.handleArchivedEntities)
	r.Post("/board/{boardId}/revert", s.handleRevert)
}

func (s *Server) handleBoards(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, 200, s.state.Boards())
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	userId, _ := s.userId(r)
	var req api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, s.state.CreateBoard(req, userId))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	b, err := s.state.Board(boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, b)
}

func (s *Server) handlePatchBoard(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var patch api.BoardPatch
	if err := utils.Decode(r.Body, &patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	b, err := s.state.PatchBoard(boardId, patch)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, b)
	s.bus.Publish(boardId, api.EvBoardUpdate, api.BoardUpdatePayload{BoardId: boardId, Patch: patch})
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := s.state.DeleteBoard(boardId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "deleted"})
	s.bus.Publish(boardId, api.EvBoardDelete, api.BoardDeletePayload{BoardId: boardId})
}

func (s *Server) handleListOrder(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var order []domain.ListId
	if err := utils.Decode(r.Body, &order); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := s.state.ListOrder(boardId, order); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "ok"})
	s.bus.Publish(boardId, api.EvListOrder, api.ListOrderPayload{Order: order})
}

func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	userId, _ := s.userId(r)
	claims, err := s.state.Claims(boardId, userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, claims)
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	roles, err := s.state.Roles(boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, roles)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	members, err := s.state.Members(boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, members)
}

func (s *Server) handleArchivedEntities(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if r.URL.Query().Get("entity_type") == "list" {
		lists, err := s.state.ArchivedLists(boardId)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		utils.WriteJSON(w, 200, lists)
		return
	}
	cards, err := s.state.ArchivedCards(boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, cards)
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req struct {
		EntityType string `json:"entity_type" validate:"required,oneof=card list"`
		EntityId   int64  `json:"entity_id" validate:"required"`
	}
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if req.EntityType == "list" {
		l, err := s.state.RevertList(boardId, req.EntityId)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		utils.WriteJSON(w, 200, l)
		s.bus.Publish(boardId, api.EvListRevert, api.ListEventPayload{Entity: l})
		return
	}

	c, err := s.state.RevertCard(boardId, req.EntityId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, c)
	s.bus.Publish(boardId, api.EvCardRevert, api.CardEventPayload{
		ListId: c.ListId, CardId: c.Id, Entity: c,
	})
}

func (s *Server) listRoutes(r chi.Router) {
	r.Post("/board/{boardId}/list", s.handleCreateList)
	r.Patch("/list/{listId}", s.handlePatchList)
	r.Delete("/list/{listId}", s.handleDeleteList)
	r.Patch("/list/{listId}/cards-order", s.handleCardOrder)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	boardId, err := pathId(r, "boardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var draft api.DraftBoardList
	if err := utils.DecodeValidate(r.Body, &draft); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	l, err := s.state.CreateList(boardId, draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 201, l)
	s.bus.Publish(boardId, api.EvListNew, api.ListEventPayload{Entity: l})
}

// handlePatchList covers both a rename and archiving, matching the wire
// contract where archiving is a PATCH with archived=true.
func (s *Server) handlePatchList(w http.ResponseWriter, r *http.Request) {
	listId, err := pathId(r, "listId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var update struct {
		Title    string `json:"title"`
		Archived bool   `json:"archived"`
	}
	if err := utils.Decode(r.Body, &update); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if update.Archived {
		entry, boardId, err := s.state.ArchiveList(listId)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		utils.WriteJSON(w, 200, entry)
		s.bus.Publish(boardId, api.EvListArchive, api.ListArchivePayload{ListId: listId, Entity: entry})
		return
	}

	l, boardId, err := s.state.PatchList(listId, domain.BoardList{Title: update.Title})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, l)
	s.bus.Publish(boardId, api.EvListUpdate, api.ListEventPayload{Entity: l})
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	listId, err := pathId(r, "listId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardId, err := s.state.DeleteList(listId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "deleted"})
	s.bus.Publish(boardId, api.EvListDelete, api.ListDeletePayload{ListId: listId})
}

func (s *Server) handleCardOrder(w http.ResponseWriter, r *http.Request) {
	listId, err := pathId(r, "listId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var order []domain.CardId
	if err := utils.Decode(r.Body, &order); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardId, err := s.state.CardOrder(listId, order)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, 200, map[string]string{"status": "ok"})
	s.bus.Publish(boardId, api.EvCardOrder, api.CardOrderPayload{ListId: listId, Order: order})
}
