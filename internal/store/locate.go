// Package store holds the client-side in-memory graph of the open board and
// the operations that keep it consistent under REST responses, the realtime
// event stream and the user's own edits. All mutations are synchronous and
// must run on a single goroutine; mutual exclusion is structural, there is no
// locking here.
package store

import (
	"github.com/boardsync-dev/boardsync/shared/domain"
)

// CardPosition addresses a card inside the board graph.
type CardPosition struct {
	ListIndex int
	CardIndex int
}

// findListIndex returns the index of the list with the given id, or false.
func findListIndex(lists []domain.BoardList, listId domain.ListId) (int, bool) {
	for i := range lists {
		if lists[i].Id == listId {
			return i, true
		}
	}
	return 0, false
}

// findCardIndex locates a card by (listId, cardId). A miss is not an error:
// events regularly address entities that have not arrived yet or are already
// gone, and callers decide whether that race is benign.
func findCardIndex(lists []domain.BoardList, listId domain.ListId, cardId domain.CardId) (CardPosition, bool) {
	li, ok := findListIndex(lists, listId)
	if !ok {
		return CardPosition{}, false
	}
	for ci := range lists[li].Cards {
		if lists[li].Cards[ci].Id == cardId {
			return CardPosition{ListIndex: li, CardIndex: ci}, true
		}
	}
	return CardPosition{}, false
}

// findCardAnywhere scans every list for the card id. Used when a card's
// parent list has changed and the addressed list no longer holds it.
func findCardAnywhere(lists []domain.BoardList, cardId domain.CardId) (CardPosition, bool) {
	for li := range lists {
		for ci := range lists[li].Cards {
			if lists[li].Cards[ci].Id == cardId {
				return CardPosition{ListIndex: li, CardIndex: ci}, true
			}
		}
	}
	return CardPosition{}, false
}

// findCard resolves the position to a mutable card pointer.
func findCard(lists []domain.BoardList, listId domain.ListId, cardId domain.CardId) (*domain.Card, bool) {
	pos, ok := findCardIndex(lists, listId, cardId)
	if !ok {
		return nil, false
	}
	return &lists[pos.ListIndex].Cards[pos.CardIndex], true
}
