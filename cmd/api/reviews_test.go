package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayreview/internal/pinata"
	"stayreview/internal/reviews"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// downGateway resolves the location but fails every scan, the shape of a
// gateway outage mid-request.
type downGateway struct{}

func (downGateway) ResolveGroupID(context.Context, string) string { return "g-1" }
func (downGateway) ListReviewFiles(context.Context, string) []pinata.PinnedFile {
	return nil
}
func (downGateway) FetchJSON(context.Context, string, any) error {
	return errors.New("gateway down")
}
func (downGateway) ListGroups(context.Context) ([]pinata.Group, error) {
	return nil, errors.New("gateway down")
}
func (downGateway) GroupExists(context.Context, string) (*pinata.Group, error) {
	return nil, errors.New("gateway down")
}
func (downGateway) CreateGroup(context.Context, string) (pinata.Group, error) {
	return pinata.Group{}, errors.New("gateway down")
}
func (downGateway) UploadFile(context.Context, string, io.Reader) (string, error) {
	return "", errors.New("gateway down")
}
func (downGateway) AddCIDsToGroup(context.Context, []string, string) error {
	return errors.New("gateway down")
}
func (downGateway) UserHasReviewed(context.Context, string, string) (bool, error) {
	return false, errors.New("gateway down")
}
func (downGateway) FetchLocationInfo(context.Context, string) (map[string]any, error) {
	return nil, errors.New("gateway down")
}

func newTestApp() *application {
	logger := zap.NewNop().Sugar()
	return &application{
		logger:  logger,
		reviews: reviews.NewService(downGateway{}, logger, 0),
	}
}

func TestUserReviewedHandlerDegradesOnGatewayFailure(t *testing.T) {
	app := newTestApp()

	r := chi.NewRouter()
	r.Get("/v1/locations/{location}/reviewed", app.userReviewedHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/locations/City%20Hotel/reviewed?address=0xAbc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	// Read paths never surface gateway errors; a failed scan reads as
	// "not reviewed".
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data["reviewed"])
}

func TestUserReviewedHandlerRequiresAddress(t *testing.T) {
	app := newTestApp()

	r := chi.NewRouter()
	r.Get("/v1/locations/{location}/reviewed", app.userReviewedHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/locations/City%20Hotel/reviewed", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
