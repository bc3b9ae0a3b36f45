package pinata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// FetchJSON retrieves the document at cid from the content gateway and
// decodes it into v. A non-success status or a body that is not JSON means
// "this document is unavailable"; callers on the aggregation path drop the
// document and move on rather than failing the whole listing.
func (c *Client) FetchJSON(ctx context.Context, cid string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/ipfs/"+cid, nil)
	if err != nil {
		return fmt.Errorf("content request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cid, err)
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		raw, _ := io.ReadAll(resp.Body)
		return httpError("fetch "+cid, resp.StatusCode, raw)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", cid, err)
	}
	return nil
}
