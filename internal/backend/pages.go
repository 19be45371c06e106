package backend

import (
	"context"
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"mcp-docgate/internal/util"
)

// spacesPageSize is the fixed page size used when listing spaces.
const spacesPageSize = 100

// PageList is the accumulated result of a paginated sidebar listing.
// Meta is the metadata of the last page fetched.
type PageList struct {
	Items []json.RawMessage `json:"items"`
	Meta  json.RawMessage   `json:"meta,omitempty"`
}

type CreatePageInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	SpaceID  string `json:"spaceId"`
	FolderID string `json:"folderId,omitempty"`
}

type sidebarPage struct {
	Items       []json.RawMessage `json:"items"`
	Meta        json.RawMessage   `json:"meta"`
	HasNextPage *bool             `json:"hasNextPage"`
}

func (p sidebarPage) hasNext() bool {
	if len(p.Meta) > 0 {
		var meta struct {
			HasNextPage bool `json:"hasNextPage"`
		}
		if err := json.Unmarshal(p.Meta, &meta); err == nil && meta.HasNextPage {
			return true
		}
	}
	return p.HasNextPage != nil && *p.HasNextPage
}

func (c *Client) ListSpaces(ctx context.Context) (json.RawMessage, error) {
	return c.post(ctx, "/spaces", map[string]int{"page": 1, "limit": spacesPageSize})
}

// ListPages walks the sidebar listing of a space page by page until the
// backend reports no next page, or until MaxPages requests have been made.
func (c *Client) ListPages(ctx context.Context, spaceID string) (*PageList, error) {
	if err := required("spaceId", spaceID); err != nil {
		return nil, err
	}

	out := &PageList{Items: []json.RawMessage{}}
	for page := 1; ; page++ {
		raw, err := c.post(ctx, "/pages/sidebar-pages", map[string]any{
			"spaceId": spaceID,
			"page":    page,
		})
		if err != nil {
			return nil, err
		}

		var sp sidebarPage
		if err := json.Unmarshal(raw, &sp); err != nil {
			return nil, util.Wrap(util.KindBackend, err, "decode sidebar page %d", page)
		}
		out.Items = append(out.Items, sp.Items...)
		out.Meta = sp.Meta

		if !sp.hasNext() {
			break
		}
		if page >= c.maxPages {
			c.log.Warn("backend.list_pages.truncated",
				zap.String("space_id", spaceID),
				zap.Int("pages", page),
				zap.Int("items", len(out.Items)),
			)
			break
		}
	}
	return out, nil
}

func (c *Client) GetPage(ctx context.Context, pageID string) (json.RawMessage, error) {
	if err := required("pageId", pageID); err != nil {
		return nil, err
	}
	return c.post(ctx, "/pages/info", map[string]string{"pageId": pageID})
}

func (c *Client) SearchPages(ctx context.Context, query string) (json.RawMessage, error) {
	if err := required("query", query); err != nil {
		return nil, err
	}
	return c.post(ctx, "/search", map[string]string{"query": query})
}

func (c *Client) CreatePage(ctx context.Context, in CreatePageInput) (json.RawMessage, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.SpaceID, validation.Required),
	)
	if err != nil {
		return nil, util.Wrap(util.KindValidation, err, "create_page")
	}

	var parent *string
	if in.FolderID != "" {
		parent = &in.FolderID
	}
	return c.post(ctx, "/pages/create", map[string]any{
		"title":        in.Title,
		"content":      in.Content,
		"spaceId":      in.SpaceID,
		"parentPageId": parent,
	})
}

// UpdatePage sends payload merged with the page id. pageId in payload is
// ignored.
func (c *Client) UpdatePage(ctx context.Context, pageID string, payload map[string]any) (json.RawMessage, error) {
	if err := required("pageId", pageID); err != nil {
		return nil, err
	}
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["pageId"] = pageID
	return c.post(ctx, "/pages/update", body)
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return util.ValidationError("%s is required", name)
	}
	return nil
}
