package domain

import (
	"fmt"
	"time"
)

// for debug
func (c *Card) String() string {
	s := fmt.Sprintf("[id:%d, list:%d, pos:%d, title:%s, dates:%d, members:%d, checklists:[", c.Id, c.ListId, c.Position, c.Title, len(c.Dates), len(c.AssignedMembers))
	for i, cl := range c.Checklists {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d(%d items)", cl.Id, len(cl.Items))
	}
	return s + "]]"
}

func (l *BoardList) String() string {
	s := fmt.Sprintf("[id:%d, pos:%d, title:%s, cards:[", l.Id, l.Position, l.Title)
	for i, c := range l.Cards {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%v", &c)
	}
	return s + "]]\n"
}

func (a *CardActivity) String() string {
	user := ""
	if a.User != nil {
		user = a.User.Username
	}
	if a.Comment != nil {
		return fmt.Sprintf("[%s] %s: %s", a.ActivityOn.Format(time.StampMilli), user, a.Comment.Comment)
	}
	return fmt.Sprintf("[%s] %s: event %d on card %d", a.ActivityOn.Format(time.StampMilli), user, a.Event, a.CardId)
}
