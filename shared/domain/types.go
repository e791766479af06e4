package domain

type (
	BoardId     = int64
	ListId      = int64
	CardId      = int64
	ChecklistId = int64
	ItemId      = int64
	DateId      = int64
	MemberId    = int64
	ActivityId  = int64
	UserId      = int64

	BoardTitle = string
	CardTitle  = string
)

// CardEntityKind discriminates the three direct sub-entity collections of a
// card. Checklist items are nested one level deeper and addressed through
// their checklist.
type CardEntityKind string

const (
	EntityDate      CardEntityKind = "date"
	EntityMember    CardEntityKind = "member"
	EntityChecklist CardEntityKind = "checklist"
)
