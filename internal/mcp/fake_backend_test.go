package mcp_test

import (
	"context"
	"encoding/json"
	"sync"

	"mcp-docgate/internal/backend"
)

type call struct {
	Method string
	Args   []any
}

// fakeBackend records calls and answers with canned JSON.
type fakeBackend struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeBackend) record(method string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Args: args})
}

func (f *fakeBackend) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeBackend) ListSpaces(ctx context.Context) (json.RawMessage, error) {
	f.record("ListSpaces")
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"items":[{"id":"s1"}]}`), nil
}

func (f *fakeBackend) ListPages(ctx context.Context, spaceID string) (*backend.PageList, error) {
	f.record("ListPages", spaceID)
	if f.err != nil {
		return nil, f.err
	}
	return &backend.PageList{Items: []json.RawMessage{json.RawMessage(`{"id":"p1"}`)}}, nil
}

func (f *fakeBackend) GetPage(ctx context.Context, pageID string) (json.RawMessage, error) {
	f.record("GetPage", pageID)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":"` + pageID + `"}`), nil
}

func (f *fakeBackend) SearchPages(ctx context.Context, query string) (json.RawMessage, error) {
	f.record("SearchPages", query)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeBackend) CreatePage(ctx context.Context, in backend.CreatePageInput) (json.RawMessage, error) {
	f.record("CreatePage", in)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":"new"}`), nil
}

func (f *fakeBackend) UpdatePage(ctx context.Context, pageID string, payload map[string]any) (json.RawMessage, error) {
	f.record("UpdatePage", pageID, payload)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":"` + pageID + `"}`), nil
}
