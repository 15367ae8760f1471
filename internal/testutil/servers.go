package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeGitHub serves canned JSON for GitHub REST paths and records requests.
type FakeGitHub struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]any
	requests  []*http.Request
}

// NewFakeGitHub starts a GitHub stand-in. Paths without a response get 404.
func NewFakeGitHub(t *testing.T, responses map[string]any) *FakeGitHub {
	t.Helper()

	f := &FakeGitHub{responses: responses}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	body, ok := f.responses[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Requests returns the requests served so far.
func (f *FakeGitHub) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// ModelReply is one scripted chat completion: either final content or a set
// of tool calls.
type ModelReply struct {
	Content   string
	ToolCalls []ModelToolCall
}

// ModelToolCall is a function call requested by the fake model.
type ModelToolCall struct {
	Name      string
	Arguments map[string]any
}

// FakeModel is an OpenAI-compatible chat completions endpoint that answers
// with scripted replies in order, repeating the last one when the script
// runs out.
type FakeModel struct {
	Server *httptest.Server

	mu       sync.Mutex
	script   []ModelReply
	requests []map[string]any
}

// NewFakeModel starts the fake model server. Point llm.base_url at
// Server.URL.
func NewFakeModel(t *testing.T, script ...ModelReply) *FakeModel {
	t.Helper()
	if len(script) == 0 {
		t.Fatal("fake model needs at least one reply")
	}

	f := &FakeModel{script: script}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeModel) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req map[string]any
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	n := len(f.requests)
	f.requests = append(f.requests, req)
	reply := f.script[min(n, len(f.script)-1)]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(completion(n, reply))
}

func completion(n int, reply ModelReply) map[string]any {
	message := map[string]any{
		"role":    "assistant",
		"content": reply.Content,
	}
	finish := "stop"
	if len(reply.ToolCalls) > 0 {
		calls := make([]map[string]any, 0, len(reply.ToolCalls))
		for i, tc := range reply.ToolCalls {
			args, _ := json.Marshal(tc.Arguments)
			calls = append(calls, map[string]any{
				"id":   fmt.Sprintf("call_%d_%d", n, i),
				"type": "function",
				"function": map[string]any{
					"name":      tc.Name,
					"arguments": string(args),
				},
			})
		}
		message["tool_calls"] = calls
		finish = "tool_calls"
	}

	return map[string]any{
		"id":      fmt.Sprintf("chatcmpl-%d", n),
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "fake-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       message,
			"finish_reason": finish,
		}},
		"usage": map[string]any{
			"prompt_tokens":     1,
			"completion_tokens": 1,
			"total_tokens":      2,
		},
	}
}

// Requests returns the decoded request bodies received so far.
func (f *FakeModel) Requests() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.requests...)
}

// Messages returns the "messages" array of the n-th request.
func (f *FakeModel) Messages(n int) []map[string]any {
	reqs := f.Requests()
	if n >= len(reqs) {
		return nil
	}
	list, _ := reqs[n]["messages"].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, m := range list {
		if msg, ok := m.(map[string]any); ok {
			out = append(out, msg)
		}
	}
	return out
}
