package simserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// Bus fans events out to every websocket subscriber of a board.
type Bus struct {
	mu   sync.RWMutex
	subs map[int64]map[chan []byte]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int64]map[chan []byte]struct{})}
}

func (b *Bus) Subscribe(boardId int64) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[boardId] == nil {
		b.subs[boardId] = make(map[chan []byte]struct{})
	}
	b.subs[boardId][ch] = struct{}{}
	b.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.subs[boardId]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(b.subs, boardId)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish serializes the event once and offers it to every subscriber. Slow
// subscribers drop frames instead of blocking the publisher; a dropped frame
// is recovered by the client's next resync.
func (b *Bus) Publish(boardId int64, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error("cannot marshal event payload", "event", name, "error", err)
		return
	}
	frame, err := json.Marshal(api.Event{Name: name, Data: data})
	if err != nil {
		logger.Log.Error("cannot marshal event frame", "event", name, "error", err)
		return
	}
	b.mu.RLock()
	for ch := range b.subs[boardId] {
		select {
		case ch <- frame:
		default:
		}
	}
	b.mu.RUnlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// dev server, browser clients connect from any origin
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 25 * time.Second
)

// ServeWS upgrades the connection and streams the board's events until the
// client goes away.
func (b *Bus) ServeWS(w http.ResponseWriter, r *http.Request, boardId int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch, cancel := b.Subscribe(boardId)
	defer cancel()

	// drain client frames so pongs and close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case frame, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}
}
