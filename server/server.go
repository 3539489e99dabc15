package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
	"github.com/becomeliminal/agenter-go/memory"
	"github.com/becomeliminal/agenter-go/recall"
)

// Server exposes the memory and recall subsystem over a WebSocket API.
// One session is created per connection; messages on a connection are
// handled sequentially in arrival order.
type Server struct {
	cfg          *config.Config
	store        *memory.FactStore
	rememberer   *recall.Rememberer
	orchestrator *recall.Orchestrator
	completer    llm.Completer
	upgrader     websocket.Upgrader
}

func New(cfg *config.Config, store *memory.FactStore, rememberer *recall.Rememberer, orchestrator *recall.Orchestrator, completer llm.Completer) *Server {
	return &Server{
		cfg:          cfg,
		store:        store,
		rememberer:   rememberer,
		orchestrator: orchestrator,
		completer:    completer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving /health and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving the API on the configured port.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.WSPort)
	log.Printf("[SERVER] Listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// wsMessage is one client request.
type wsMessage struct {
	ID             int                  `json:"id"`
	Type           string               `json:"type"`
	TabID          int                  `json:"tab_id,omitempty"`
	Message        string               `json:"message,omitempty"`
	CognitiveState *core.CognitiveState `json:"cognitive_state,omitempty"`
	CurrentDraft   string               `json:"current_draft,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[SERVER] Client connected: %s", conn.RemoteAddr())
	sess := newSession()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[SERVER] Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.send(conn, 0, "error", map[string]interface{}{"message": "invalid message"})
			continue
		}
		s.dispatch(r.Context(), conn, sess, &msg)
	}
}

func (s *Server) dispatch(ctx context.Context, conn *websocket.Conn, sess *session, msg *wsMessage) {
	switch msg.Type {
	case "ping":
		s.send(conn, msg.ID, "pong", nil)
	case "recall":
		s.handleRecall(ctx, conn, sess, msg)
	case "respond":
		s.handleRespond(ctx, conn, sess, msg)
	case "reset":
		s.handleReset(ctx, conn, sess, msg)
	case "chat":
		s.handleChat(ctx, conn, sess, msg)
	case "history_prev":
		text, ok := sess.historyPrev(msg.CurrentDraft)
		s.send(conn, msg.ID, "history_entry", map[string]interface{}{"text": text, "found": ok})
	case "history_next":
		text, ok := sess.historyNext()
		s.send(conn, msg.ID, "history_entry", map[string]interface{}{"text": text, "found": ok})
	default:
		s.send(conn, msg.ID, "error", map[string]interface{}{
			"message": fmt.Sprintf("unknown message type %q", msg.Type),
		})
	}
}

// handleRecall runs the non-streaming recall path and returns the
// organized state in one response.
func (s *Server) handleRecall(ctx context.Context, conn *websocket.Conn, sess *session, msg *wsMessage) {
	if msg.Message == "" {
		s.send(conn, msg.ID, "error", map[string]interface{}{"message": "empty trigger"})
		return
	}
	sess.addHistory(msg.Message)

	fact := core.NewFact(core.FactUserMsg, msg.Message, nil)
	if err := s.store.Append(ctx, fact); err != nil {
		s.sendError(conn, msg.ID, err)
		return
	}

	result, err := s.rememberer.RecallWithTrace(ctx, msg.Message)
	if err != nil {
		s.sendError(conn, msg.ID, err)
		return
	}
	sess.setState(msg.TabID, result.State)

	s.send(conn, msg.ID, "recall_result", map[string]interface{}{
		"cognitive_state": result.State,
		"memory_text":     formatMemoryText(result.State),
		"recall_trace":    result.Trace,
	})
}

// handleRespond streams one answer grounded in a cognitive state. The
// state comes from the request when present, otherwise from the
// session's last recall for the tab.
func (s *Server) handleRespond(ctx context.Context, conn *websocket.Conn, sess *session, msg *wsMessage) {
	var state core.CognitiveState
	switch {
	case msg.CognitiveState != nil:
		state = *msg.CognitiveState
	default:
		stored, ok := sess.state(msg.TabID)
		if !ok {
			s.send(conn, msg.ID, "error", map[string]interface{}{"message": "no cognitive state for tab"})
			return
		}
		state = stored
	}

	reply, err := s.respond(ctx, conn, msg.ID, state, msg.Message)
	if err != nil {
		s.sendError(conn, msg.ID, err)
		return
	}

	thought := core.NewFact(core.FactAIThought, reply, nil)
	if err := s.store.Append(ctx, thought); err != nil {
		log.Printf("[SERVER] Failed to persist reply: %v", err)
	}
	s.send(conn, msg.ID, "respond_done", map[string]interface{}{"reply": reply})
}

func (s *Server) handleReset(ctx context.Context, conn *websocket.Conn, sess *session, msg *wsMessage) {
	if err := s.store.Reset(ctx); err != nil {
		s.sendError(conn, msg.ID, err)
		return
	}
	sess.clearStates()
	s.send(conn, msg.ID, "reset_done", nil)
}

// handleChat runs the full streaming flow: persist the user message,
// stream orchestrated recall frames, then stream the answer. When the
// recall stream ends in an interrupt the state is derived from the raw
// log instead and the chat continues.
func (s *Server) handleChat(ctx context.Context, conn *websocket.Conn, sess *session, msg *wsMessage) {
	if msg.Message == "" {
		s.send(conn, msg.ID, "error", map[string]interface{}{"message": "empty message"})
		return
	}
	sess.addHistory(msg.Message)

	fact := core.NewFact(core.FactUserMsg, msg.Message, nil)
	if err := s.store.Append(ctx, fact); err != nil {
		s.sendError(conn, msg.ID, err)
		return
	}

	var state core.CognitiveState
	var completed bool
	for frame := range s.orchestrator.Run(ctx, msg.Message) {
		s.sendFrame(conn, msg.ID, frame)
		if frame.Kind == recall.FrameComplete && frame.State != nil {
			state = *frame.State
			completed = true
		}
	}
	if !completed {
		facts, err := s.store.ReadAll(ctx)
		if err != nil {
			s.sendError(conn, msg.ID, err)
			return
		}
		state = recall.DeriveState(facts)
		s.send(conn, msg.ID, "recall_result", map[string]interface{}{
			"cognitive_state": state,
			"memory_text":     formatMemoryText(state),
			"derived":         true,
		})
	}
	sess.setState(msg.TabID, state)

	reply, err := s.respond(ctx, conn, msg.ID, state, msg.Message)
	if err != nil {
		s.sendError(conn, msg.ID, err)
		return
	}
	thought := core.NewFact(core.FactAIThought, reply, nil)
	if err := s.store.Append(ctx, thought); err != nil {
		log.Printf("[SERVER] Failed to persist reply: %v", err)
	}
	s.send(conn, msg.ID, "respond_done", map[string]interface{}{"reply": reply})
}

// respond streams one responder completion, emitting respond_meta when
// the answer section begins and respond_delta for each answer chunk.
// It returns the parsed answer text.
func (s *Server) respond(ctx context.Context, conn *websocket.Conn, id int, state core.CognitiveState, userMessage string) (string, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal cognitive state: %w", err)
	}

	content := userMessage
	if content == "" {
		content = state.CurrentGoal
	}
	req := &llm.Request{
		Model:  s.cfg.Model,
		System: config.ResponderPrompt + "\n\nCOGNITIVE_STATE_JSON=" + string(stateJSON),
		Messages: []core.Message{
			{Role: core.RoleUser, Content: content},
		},
	}

	stream := newResponderStream(
		func(summary string, tools []string) {
			s.send(conn, id, "respond_meta", map[string]interface{}{
				"summary": summary,
				"tools":   tools,
			})
		},
		func(delta string) {
			s.send(conn, id, "respond_delta", map[string]interface{}{"delta": delta})
		},
	)

	raw, err := s.completer.Stream(ctx, req, stream.feed)
	if err != nil {
		return "", fmt.Errorf("responder completion: %w", err)
	}

	parsed := ParseResponder(raw)
	if !stream.answerStarted {
		// No ANSWER sentinel appeared. Deliver the fallback reply as
		// one delta so streaming clients still render it.
		s.send(conn, id, "respond_meta", map[string]interface{}{
			"summary": parsed.Summary,
			"tools":   parsed.Tools,
		})
		s.send(conn, id, "respond_delta", map[string]interface{}{"delta": parsed.Reply})
	}
	return parsed.Reply, nil
}

// sendFrame converts one recall frame to its wire form. Metacognition
// frames are reduced to a generic progress event; the full diagnostic
// stays internal.
func (s *Server) sendFrame(conn *websocket.Conn, id int, frame recall.Frame) {
	switch frame.Kind {
	case recall.FrameStart:
		s.send(conn, id, "recall_start", map[string]interface{}{"trigger": frame.Trigger})
	case recall.FrameActivate:
		s.send(conn, id, "recall_activate", map[string]interface{}{
			"round":    frame.Round,
			"activate": frame.Activate,
		})
	case recall.FrameHold:
		s.send(conn, id, "recall_hold", map[string]interface{}{
			"slots": frame.Slots,
			"hold":  frame.Hold,
		})
	case recall.FrameFeel:
		s.send(conn, id, "recall_feel", map[string]interface{}{"feel": frame.Feel})
	case recall.FrameStateUpdate:
		s.send(conn, id, "recall_state_update", map[string]interface{}{
			"field":  frame.Field,
			"value":  frame.Value,
			"reason": frame.Reason,
		})
	case recall.FrameComplete:
		s.send(conn, id, "recall_result", map[string]interface{}{
			"cognitive_state": frame.State,
			"memory_text":     formatMemoryText(*frame.State),
			"recall_trace":    frame.Trace,
		})
	case recall.FrameInterrupt:
		s.send(conn, id, "recall_interrupt", map[string]interface{}{"reason": frame.Reason})
	default:
		s.send(conn, id, "recall_progress", map[string]interface{}{"kind": string(frame.Kind)})
	}
}

func (s *Server) send(conn *websocket.Conn, id int, msgType string, data map[string]interface{}) {
	response := map[string]interface{}{"id": id, "type": msgType}
	for key, value := range data {
		response[key] = value
	}
	if err := conn.WriteJSON(response); err != nil {
		log.Printf("[SERVER] Write failed: %v", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, id int, err error) {
	log.Printf("[SERVER] Request %d failed: %v", id, err)
	s.send(conn, id, "error", map[string]interface{}{"message": err.Error()})
}

// formatMemoryText renders a cognitive state as the display block shown
// above an answer.
func formatMemoryText(state core.CognitiveState) string {
	text := "GOAL: " + state.CurrentGoal + "\nPLAN:\n"
	for _, step := range state.PlanStatus {
		text += "  - " + step + "\n"
	}
	text += "KEY FACTS:\n"
	for _, keyFact := range state.KeyFacts {
		text += "  - " + keyFact + "\n"
	}
	text += "LAST ACTION: " + state.LastActionResult
	return text
}
