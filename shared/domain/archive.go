package domain

import "time"

// ArchivedCard is a snapshot held in the archive collection, disjoint from
// the live board graph.
type ArchivedCard struct {
	Id         CardId    `json:"id"`
	Title      CardTitle `json:"title"`
	ListId     ListId    `json:"list_id"`
	ListTitle  string    `json:"list_title,omitempty"`
	ArchivedOn time.Time `json:"archived_on"`
}

type ArchivedList struct {
	Id         ListId    `json:"id"`
	Title      string    `json:"title"`
	BoardId    BoardId   `json:"board_id"`
	CardCount  int       `json:"card_count,omitempty"`
	ArchivedOn time.Time `json:"archived_on"`
}
