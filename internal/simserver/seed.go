package simserver

import (
	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// SeedDemo arranges a small board so a fresh server has something to show.
func (s *Server) SeedDemo() domain.BoardId {
	board := s.state.CreateBoard(api.CreateBoardRequest{Title: "demo project"}, 1)

	todo, _ := s.state.CreateList(board.Id, api.DraftBoardList{Title: "todo"})
	doing, _ := s.state.CreateList(board.Id, api.DraftBoardList{Title: "doing"})
	s.state.CreateList(board.Id, api.DraftBoardList{Title: "done"})

	first, _, _ := s.state.CreateCard(todo.Id, api.DraftCard{
		Title:       "wire the event stream",
		Description: "connect the watcher to `/ws` and log every event",
	})
	s.state.CreateCard(todo.Id, api.DraftCard{Title: "write the readme"})
	s.state.CreateCard(doing.Id, api.DraftCard{Title: "set up the dev server"})

	if loc, err := s.state.CreateChecklist(first.Id, api.DraftChecklist{Title: "steps"}); err == nil {
		s.state.CreateItem(loc.Entity.Id, api.DraftChecklistItem{Title: "dial"})
		s.state.CreateItem(loc.Entity.Id, api.DraftChecklistItem{Title: "resync"})
	}

	logger.Log.Info("seeded demo board", "board_id", board.Id)
	return board.Id
}
