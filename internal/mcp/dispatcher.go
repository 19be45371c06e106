// internal/mcp/dispatcher.go
// Dispatcher: maps a tool name + params onto a backend call.

package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"mcp-docgate/internal/backend"
	"mcp-docgate/internal/util"
)

// Backend is the subset of the backend client the dispatcher calls.
type Backend interface {
	ListSpaces(ctx context.Context) (json.RawMessage, error)
	ListPages(ctx context.Context, spaceID string) (*backend.PageList, error)
	GetPage(ctx context.Context, pageID string) (json.RawMessage, error)
	SearchPages(ctx context.Context, query string) (json.RawMessage, error)
	CreatePage(ctx context.Context, in backend.CreatePageInput) (json.RawMessage, error)
	UpdatePage(ctx context.Context, pageID string, payload map[string]any) (json.RawMessage, error)
}

// Observer records dispatch outcomes.
type Observer interface {
	ObserveTool(tool string, duration time.Duration, err error)
}

type toolFunc func(ctx context.Context, params map[string]any) (any, error)

type toolHandler struct {
	mutating bool
	call     toolFunc
}

// parameter contracts, decoded by name from the caller's params

type listPagesParams struct {
	SpaceID string `mapstructure:"spaceId"`
}

type pageParams struct {
	PageID string `mapstructure:"pageId"`
}

type searchParams struct {
	Query string `mapstructure:"query"`
}

type createPageParams struct {
	Title    string `mapstructure:"title"`
	Content  string `mapstructure:"content"`
	SpaceID  string `mapstructure:"spaceId"`
	FolderID string `mapstructure:"folderId"`
}

type updatePageParams struct {
	PageID  string         `mapstructure:"pageId"`
	Payload map[string]any `mapstructure:",remain"`
}

type Dispatcher struct {
	readOnly bool
	handlers map[string]toolHandler
	observer Observer
}

func NewDispatcher(b Backend, readOnly bool, observer Observer) *Dispatcher {
	return &Dispatcher{
		readOnly: readOnly,
		observer: observer,
		handlers: map[string]toolHandler{
			"list_spaces": {call: func(ctx context.Context, _ map[string]any) (any, error) {
				return b.ListSpaces(ctx)
			}},
			"list_pages": {call: bind(func(ctx context.Context, p listPagesParams) (any, error) {
				return b.ListPages(ctx, p.SpaceID)
			})},
			"get_page": {call: bind(func(ctx context.Context, p pageParams) (any, error) {
				return b.GetPage(ctx, p.PageID)
			})},
			"search_pages": {call: bind(func(ctx context.Context, p searchParams) (any, error) {
				return b.SearchPages(ctx, p.Query)
			})},
			"create_page": {mutating: true, call: bind(func(ctx context.Context, p createPageParams) (any, error) {
				return b.CreatePage(ctx, backend.CreatePageInput{
					Title:    p.Title,
					Content:  p.Content,
					SpaceID:  p.SpaceID,
					FolderID: p.FolderID,
				})
			})},
			"update_page": {mutating: true, call: bind(func(ctx context.Context, p updatePageParams) (any, error) {
				return b.UpdatePage(ctx, p.PageID, p.Payload)
			})},
		},
	}
}

// Dispatch runs one tool. The read-only check happens before params are
// looked at, so a blocked call fails the same way whatever it carries.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, params map[string]any) (any, error) {
	start := time.Now()
	tool = strings.TrimSpace(tool)

	result, err := d.dispatch(ctx, tool, params)

	if d.observer != nil {
		label := tool
		if _, known := d.handlers[tool]; !known {
			label = "unknown"
		}
		d.observer.ObserveTool(label, time.Since(start), err)
	}
	return result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, tool string, params map[string]any) (any, error) {
	if tool == "" {
		return nil, util.ValidationError("tool name is required")
	}
	h, ok := d.handlers[tool]
	if !ok {
		return nil, util.ValidationError("unknown tool: %s", tool)
	}
	if d.readOnly && h.mutating {
		return nil, util.PolicyError("tool %s is disabled in read-only mode", tool)
	}
	if params == nil {
		params = map[string]any{}
	}
	return h.call(ctx, params)
}

// Tools lists the names in the dispatch table with their mutating flag.
func (d *Dispatcher) Tools() map[string]bool {
	out := make(map[string]bool, len(d.handlers))
	for name, h := range d.handlers {
		out[name] = h.mutating
	}
	return out
}

// Names returns the dispatch table keys, sorted.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bind[P any](fn func(context.Context, P) (any, error)) toolFunc {
	return func(ctx context.Context, raw map[string]any) (any, error) {
		var p P
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return fn(ctx, p)
	}
}

func decodeParams(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return util.Wrap(util.KindInternal, err, "build params decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return util.Wrap(util.KindValidation, err, "invalid params")
	}
	return nil
}
