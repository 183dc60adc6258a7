package preview

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/bpmnav/internal/errs"
	"github.com/ziadkadry99/bpmnav/internal/navigation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// event is an incoming input event. Index is used by load, select, drill
// and navigate; ID by click and down; X and Y by down and move; DeltaY by
// wheel.
type event struct {
	Type    string  `json:"type"`
	Index   int     `json:"index"`
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	DeltaY  float64 `json:"delta_y"`
	OnShape bool    `json:"on_shape"`
}

// reply carries the session state after every event. Type is "state", or
// "error" when the event was refused.
type reply struct {
	Type    string    `json:"type"`
	Error   string    `json:"error,omitempty"`
	Code    errs.Code `json:"code,omitempty"`
	Notice  string    `json:"notice,omitempty"`
	Session string    `json:"session_id"`
	navigation.Snapshot
}

func (p *Preview) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := p.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Warn("websocket read", "session", s.ID, "err", err)
			}
			return
		}

		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil {
			p.send(conn, s, errs.New(errs.ErrCodeInternal, "invalid message format"))
			continue
		}
		p.send(conn, s, p.apply(s, ev))
	}
}

// apply runs one event against the session's engine.
func (p *Preview) apply(s *Session, ev event) error {
	e := s.Engine
	vp := e.Viewport()
	switch ev.Type {
	case "load":
		return e.Load(ev.Index)
	case "select":
		return e.Select(ev.Index)
	case "drill":
		return e.DrillInto(ev.Index)
	case "navigate":
		return e.NavigateTo(ev.Index)
	case "click":
		return e.Click(ev.ID)
	case "back":
		_, err := e.GoBack()
		return err
	case "wheel":
		vp.Wheel(ev.DeltaY)
	case "down":
		vp.PointerDown(ev.X, ev.Y, ev.OnShape || (ev.ID != "" && e.Registered(ev.ID)))
	case "move":
		vp.PointerMove(ev.X, ev.Y)
	case "up":
		vp.PointerUp()
	case "reset":
		vp.Reset()
	case "fullscreen":
		vp.ToggleFullscreen()
	case "state":
	default:
		return errs.New(errs.ErrCodeInternal, "unknown message type: %s", ev.Type)
	}
	return nil
}

func (p *Preview) send(conn *websocket.Conn, s *Session, err error) {
	resp := reply{Type: "state", Session: s.ID, Notice: s.takeNotice(), Snapshot: s.Engine.Snapshot()}
	if err != nil {
		resp.Code = errs.GetCode(err)
		resp.Error = errs.UserMessage(err)
		// These two leave a visible state behind (notice or placeholder)
		// rather than refusing the event.
		if resp.Code != errs.ErrCodeResolutionFailed && resp.Code != errs.ErrCodeRenderFailure {
			resp.Type = "error"
		}
	}
	if err := conn.WriteJSON(resp); err != nil {
		p.logger.Warn("websocket write", "session", s.ID, "err", err)
	}
}
