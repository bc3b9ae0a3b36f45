package pinata

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://api.pinata.cloud"

	// pinList pages are capped by the gateway; one page is enough for the
	// group sizes this service is built for.
	pinListPageLimit = 1000
)

// Client wraps the pinning gateway's REST API. It holds the one bearer
// credential for the process lifetime; it keeps no caches, pools beyond the
// shared http.Client, or retry state.
type Client struct {
	jwt        string
	apiURL     string
	gatewayURL string
	logger     *zap.SugaredLogger
	httpClient *http.Client
}

// NewClient builds a gateway client. apiURL and gatewayURL must not have a
// trailing slash; gatewayURL is the dedicated content host serving
// /ipfs/{cid}.
func NewClient(token, apiURL, gatewayURL string, logger *zap.SugaredLogger) *Client {
	c := &Client{
		jwt:        token,
		apiURL:     apiURL,
		gatewayURL: gatewayURL,
		logger:     logger,
		httpClient: http.DefaultClient,
	}
	c.checkToken()
	return c
}

// checkToken does an unverified parse of the configured JWT so an expired or
// malformed credential shows up in the logs at startup instead of as a wall
// of 401s later. The gateway remains the authority; nothing aborts here.
func (c *Client) checkToken() {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.jwt, claims); err != nil {
		c.logger.Warnw("gateway token does not parse as a JWT", "error", err)
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		c.logger.Warnw("gateway token is expired", "expired_at", exp.Time)
	}
}

func (c *Client) newAPIRequest(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	return req
}

func statusOK(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func httpError(op string, code int, body []byte) error {
	return fmt.Errorf("%s failed: http=%d body=%s", op, code, string(body))
}
