package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/llm"
	"github.com/becomeliminal/agenter-go/llm/mock"
	"github.com/becomeliminal/agenter-go/memory"
	"github.com/becomeliminal/agenter-go/recall"
)

// newTestServer wires a full server over a mock completer that
// dispatches on the task marker in each system prompt.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tool := func(prompt string) config.ToolConfig {
		return config.ToolConfig{Model: "test-model", MaxTokens: 500, SystemPrompt: prompt}
	}
	cfg := &config.Config{
		Model:         "test-model",
		Orchestrator:  tool("metacognition prompt"),
		Activation:    tool("activation prompt"),
		WorkingMemory: tool("working memory prompt"),
		Emotion:       tool("emotion prompt"),
		Comparison:    tool("comparison prompt"),
	}

	completer := mock.NewFunc(func(req *llm.Request) (string, error) {
		switch {
		case req.System == "activation prompt":
			return `{"memories":[{"content":"user name is Alice","relevance":0.9}],"activation_pattern":"identity"}`, nil
		case req.System == "working memory prompt":
			return `{"slots":["user name is Alice"],"operations":["ADD"],"reason":"keep"}`, nil
		case req.System == "emotion prompt":
			return `{"valence":"positive","arousal":0.3,"priority":"medium","reason":"friendly"}`, nil
		case req.System == "metacognition prompt":
			return `{"should_continue":false,"gaps":[],"suggested_queries":[],"confidence":0.9}`, nil
		case strings.Contains(req.System, "BUILD_COGNITIVE_STATE"):
			return `{"current_goal":"Answer the name question","plan_status":["Recall (done)"],"key_facts":["User is Alice"],"last_action_result":"Recalled identity"}`, nil
		case strings.Contains(req.System, "RESPOND_USER"):
			return "SUMMARY: Answered the name question.\nTOOLS: NONE\nANSWER:\nYou are Alice.", nil
		}
		return "", nil
	})

	store := memory.NewFactStore(t.TempDir())
	retriever := memory.NewHybridRetriever(store, nil, nil)
	rememberer := recall.NewRememberer(store, retriever, completer, cfg.Model)
	orchestrator := recall.NewOrchestrator(cognition.NewRegistry(completer, cfg))

	ts := httptest.NewServer(New(cfg, store, rememberer, orchestrator, completer).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := conn.ReadJSON(&response); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return response
}

func TestPing(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(map[string]interface{}{"id": 1, "type": "ping"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	response := readResponse(t, conn)
	if response["type"] != "pong" || response["id"] != float64(1) {
		t.Fatalf("Expected pong for id 1, got %v", response)
	}
}

func TestRecallReturnsState(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(map[string]interface{}{
		"id": 2, "type": "recall", "tab_id": 1, "message": "what is my name?",
	}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	response := readResponse(t, conn)
	if response["type"] != "recall_result" {
		t.Fatalf("Expected recall_result, got %v", response)
	}
	state, ok := response["cognitive_state"].(map[string]interface{})
	if !ok {
		t.Fatalf("Missing cognitive_state in %v", response)
	}
	if state["current_goal"] != "Answer the name question" {
		t.Errorf("Unexpected goal: %v", state["current_goal"])
	}
	memoryText, _ := response["memory_text"].(string)
	if !strings.Contains(memoryText, "GOAL: Answer the name question") {
		t.Errorf("Unexpected memory text: %q", memoryText)
	}
}

func TestChatStreamsFramesThenAnswer(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(map[string]interface{}{
		"id": 3, "type": "chat", "tab_id": 1, "message": "what is my name?",
	}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var types []string
	var reply string
	for {
		response := readResponse(t, conn)
		msgType, _ := response["type"].(string)
		types = append(types, msgType)
		if msgType == "respond_done" {
			reply, _ = response["reply"].(string)
			break
		}
		if msgType == "error" {
			t.Fatalf("Chat failed: %v", response)
		}
	}

	for _, want := range []string{"recall_start", "recall_activate", "recall_hold", "recall_feel", "recall_result", "respond_meta", "respond_delta"} {
		found := false
		for _, got := range types {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected a %s message, got sequence %v", want, types)
		}
	}
	if reply != "You are Alice." {
		t.Errorf("Unexpected reply: %q", reply)
	}
}

func TestUnknownMessageType(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(map[string]interface{}{"id": 4, "type": "bogus"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	response := readResponse(t, conn)
	if response["type"] != "error" {
		t.Fatalf("Expected error for unknown type, got %v", response)
	}
}

func TestHistoryNavigationOverSocket(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(map[string]interface{}{
		"id": 5, "type": "recall", "tab_id": 1, "message": "remember this input",
	}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	readResponse(t, conn)

	if err := conn.WriteJSON(map[string]interface{}{
		"id": 6, "type": "history_prev", "current_draft": "typing...",
	}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	response := readResponse(t, conn)
	if response["type"] != "history_entry" || response["text"] != "remember this input" {
		t.Fatalf("Expected previous input, got %v", response)
	}
}

func TestResetClearsLog(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(map[string]interface{}{
		"id": 7, "type": "recall", "tab_id": 1, "message": "store something",
	}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	readResponse(t, conn)

	if err := conn.WriteJSON(map[string]interface{}{"id": 8, "type": "reset"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	response := readResponse(t, conn)
	if response["type"] != "reset_done" {
		t.Fatalf("Expected reset_done, got %v", response)
	}
}
