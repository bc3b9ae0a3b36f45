package pinata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ReviewFilePrefix is the filename convention that marks a pinned document
// as a review: the author's wallet address leads the name, so every review
// file starts with this literal. It is the sole discriminator separating
// reviews from other pinned files (info.json and the like) in a group.
const ReviewFilePrefix = "0x"

func (c *Client) listPinned(ctx context.Context, groupID string, pageLimit int) ([]PinnedFile, error) {
	q := url.Values{}
	q.Set("groupId", groupID)
	q.Set("status", "pinned")
	if pageLimit > 0 {
		q.Set("pageLimit", strconv.Itoa(pageLimit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/data/pinList?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pin list request: %w", err)
	}

	resp, err := c.httpClient.Do(c.newAPIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("pin list: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if !statusOK(resp.StatusCode) {
		return nil, httpError("pin list", resp.StatusCode, raw)
	}

	var list pinListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("pin list decode: %w body=%s", err, string(raw))
	}
	return list.Rows, nil
}

// ListReviewFiles returns the group's pinned review documents: JSON files
// whose metadata name starts with the author address prefix. Anything else
// pinned alongside them is excluded. Returns an empty list when the gateway
// call fails; the read path never surfaces listing errors.
func (c *Client) ListReviewFiles(ctx context.Context, groupID string) []PinnedFile {
	rows, err := c.listPinned(ctx, groupID, pinListPageLimit)
	if err != nil {
		c.logger.Errorw("listing review files failed", "group_id", groupID, "error", err)
		return nil
	}

	var files []PinnedFile
	for _, f := range rows {
		if f.MimeType == "application/json" && strings.HasPrefix(f.Metadata.Name, ReviewFilePrefix) {
			files = append(files, f)
		}
	}
	return files
}

// UserHasReviewed scans every pinned JSON file in the group for a document
// whose author equals address. A full-group scan is acceptable only because
// groups stay small; there is no author index on the gateway.
func (c *Client) UserHasReviewed(ctx context.Context, address, groupID string) (bool, error) {
	rows, err := c.listPinned(ctx, groupID, 0)
	if err != nil {
		return false, err
	}

	for _, f := range rows {
		if f.MimeType != "application/json" {
			continue
		}
		var doc struct {
			Author string `json:"author"`
		}
		if err := c.FetchJSON(ctx, f.IpfsPinHash, &doc); err != nil {
			// An unreadable document cannot prove authorship; keep scanning.
			c.logger.Warnw("skipping unreadable document in author scan",
				"cid", f.IpfsPinHash, "group_id", groupID, "error", err)
			continue
		}
		if doc.Author == address {
			return true, nil
		}
	}
	return false, nil
}

// FetchLocationInfo returns the group's info.json document, or nil when the
// group has none. An info.json that exists but cannot be fetched is an
// error, unlike the silent drops on the review path.
func (c *Client) FetchLocationInfo(ctx context.Context, groupID string) (map[string]any, error) {
	rows, err := c.listPinned(ctx, groupID, 0)
	if err != nil {
		return nil, err
	}

	for _, f := range rows {
		if f.Metadata.Name != "info.json" {
			continue
		}
		var info map[string]any
		if err := c.FetchJSON(ctx, f.IpfsPinHash, &info); err != nil {
			return nil, fmt.Errorf("fetch info.json: %w", err)
		}
		return info, nil
	}
	return nil, nil
}
