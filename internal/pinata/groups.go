package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GroupNotFound is what ResolveGroupID returns both when no group carries
// the location's name and when the lookup itself failed. Callers on the
// read path cannot tell the two apart; the write path re-checks with
// GroupExists, which propagates errors.
const GroupNotFound = ""

// ResolveGroupID maps a location name to its group id by exact,
// case-sensitive name match over the full group listing.
func (c *Client) ResolveGroupID(ctx context.Context, locationName string) string {
	groups, err := c.ListGroups(ctx)
	if err != nil {
		c.logger.Errorw("group lookup failed", "location", locationName, "error", err)
		return GroupNotFound
	}
	for _, g := range groups {
		if g.Name == locationName {
			return g.ID
		}
	}
	return GroupNotFound
}

// ListGroups returns every group on the gateway. The gateway has shipped
// both a bare array and a {rows: []} envelope for this listing; both are
// accepted.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/groups", nil)
	if err != nil {
		return nil, fmt.Errorf("list groups request: %w", err)
	}

	resp, err := c.httpClient.Do(c.newAPIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if !statusOK(resp.StatusCode) {
		return nil, httpError("list groups", resp.StatusCode, raw)
	}

	var groups []Group
	if err := json.Unmarshal(raw, &groups); err == nil {
		return groups, nil
	}

	var wrapped groupListResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("list groups decode: %w body=%s", err, string(raw))
	}
	return wrapped.Rows, nil
}

// GroupExists returns the group record named locationName, or nil when no
// such group exists. Unlike ResolveGroupID this propagates lookup failures;
// the submission flow must not mistake an outage for a missing group.
func (c *Client) GroupExists(ctx context.Context, locationName string) (*Group, error) {
	groups, err := c.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Name == locationName {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// CreateGroup makes the group for a location's first review.
func (c *Client) CreateGroup(ctx context.Context, locationName string) (Group, error) {
	body, _ := json.Marshal(map[string]string{"name": locationName})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/groups", bytes.NewReader(body))
	if err != nil {
		return Group{}, fmt.Errorf("create group request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(c.newAPIRequest(req))
	if err != nil {
		return Group{}, fmt.Errorf("create group: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if !statusOK(resp.StatusCode) {
		return Group{}, httpError("create group", resp.StatusCode, raw)
	}

	var group Group
	if err := json.Unmarshal(raw, &group); err != nil {
		return Group{}, fmt.Errorf("create group decode: %w body=%s", err, string(raw))
	}
	if group.ID == "" {
		return Group{}, fmt.Errorf("create group: response has no id, body=%s", string(raw))
	}
	return group, nil
}

// AddCIDsToGroup appends a batch of content hashes to a group's membership.
func (c *Client) AddCIDsToGroup(ctx context.Context, cids []string, groupID string) error {
	body, _ := json.Marshal(map[string][]string{"cids": cids})

	url := fmt.Sprintf("%s/groups/%s/cids", c.apiURL, groupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("add cids request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(c.newAPIRequest(req))
	if err != nil {
		return fmt.Errorf("add cids to group: %w", err)
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		raw, _ := io.ReadAll(resp.Body)
		return httpError("add cids to group", resp.StatusCode, raw)
	}
	return nil
}
