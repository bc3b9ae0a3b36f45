package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"stayreview/internal/pinata"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 8

// Gateway is the slice of the pinning client the review service depends
// on; tests substitute a fake.
type Gateway interface {
	ResolveGroupID(ctx context.Context, locationName string) string
	ListReviewFiles(ctx context.Context, groupID string) []pinata.PinnedFile
	FetchJSON(ctx context.Context, cid string, v any) error
	ListGroups(ctx context.Context) ([]pinata.Group, error)
	GroupExists(ctx context.Context, locationName string) (*pinata.Group, error)
	CreateGroup(ctx context.Context, locationName string) (pinata.Group, error)
	UploadFile(ctx context.Context, filename string, content io.Reader) (string, error)
	AddCIDsToGroup(ctx context.Context, cids []string, groupID string) error
	UserHasReviewed(ctx context.Context, address, groupID string) (bool, error)
	FetchLocationInfo(ctx context.Context, groupID string) (map[string]any, error)
}

type Service struct {
	gw               Gateway
	logger           *zap.SugaredLogger
	fetchConcurrency int
}

func NewService(gw Gateway, logger *zap.SugaredLogger, fetchConcurrency int) *Service {
	if fetchConcurrency <= 0 {
		fetchConcurrency = defaultFetchConcurrency
	}
	return &Service{
		gw:               gw,
		logger:           logger,
		fetchConcurrency: fetchConcurrency,
	}
}

// Aggregate loads every review document for a location and computes the
// page's derived state. Read failures anywhere on this path degrade to an
// empty result; the page shows "no reviews yet" rather than an error.
func (s *Service) Aggregate(ctx context.Context, locationName, viewerAddress string) Aggregation {
	groupID := s.gw.ResolveGroupID(ctx, locationName)
	if groupID == pinata.GroupNotFound {
		return Aggregation{Reviews: []Review{}}
	}

	files := s.gw.ListReviewFiles(ctx, groupID)
	retained := s.fetchAll(ctx, files)

	agg := Aggregation{
		Reviews: retained,
		Total:   len(retained),
	}

	if viewerAddress != "" {
		for i, r := range retained {
			if r.Author == viewerAddress {
				// The viewer's own review leads the display order.
				copy(retained[1:i+1], retained[:i])
				retained[0] = r
				agg.UserHasReviewed = true
				break
			}
		}
	}

	if len(retained) > 0 {
		var sum float64
		for _, r := range retained {
			sum += r.Rating
		}
		avg := math.Round(sum/float64(len(retained))*10) / 10
		agg.AverageRating = &avg
	}
	return agg
}

// fetchAll retrieves every file's document concurrently, bounded by the
// configured cap. A document that fails to fetch or parse is dropped;
// one bad document never aborts aggregation of the rest.
func (s *Service) fetchAll(ctx context.Context, files []pinata.PinnedFile) []Review {
	docs := make([]*Review, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			var r Review
			if err := s.gw.FetchJSON(gctx, f.IpfsPinHash, &r); err != nil {
				s.logger.Warnw("dropping unreadable review document",
					"cid", f.IpfsPinHash, "error", err)
				return nil
			}
			docs[i] = &r
			return nil
		})
	}
	_ = g.Wait() // the goroutines never return errors

	retained := make([]Review, 0, len(files))
	for _, d := range docs {
		if d != nil {
			retained = append(retained, *d)
		}
	}
	return retained
}

// AverageRating reports just the location's mean rating, nil when the
// location has no retained reviews (or does not exist).
func (s *Service) AverageRating(ctx context.Context, locationName string) *float64 {
	return s.Aggregate(ctx, locationName, "").AverageRating
}

// HasReviewed reports whether the address has a review document in the
// location's group. A location with no group cannot have been reviewed.
// This is the read path: a failed scan degrades to false, logged, never
// surfaced. The submission flow does its own error-propagating scan.
func (s *Service) HasReviewed(ctx context.Context, locationName, address string) bool {
	groupID := s.gw.ResolveGroupID(ctx, locationName)
	if groupID == pinata.GroupNotFound {
		return false
	}
	reviewed, err := s.gw.UserHasReviewed(ctx, address, groupID)
	if err != nil {
		s.logger.Errorw("author scan failed", "location", locationName, "error", err)
		return false
	}
	return reviewed
}

// LocationInfo returns the location's info.json document.
func (s *Service) LocationInfo(ctx context.Context, locationName string) (map[string]any, error) {
	groupID := s.gw.ResolveGroupID(ctx, locationName)
	if groupID == pinata.GroupNotFound {
		return nil, ErrLocationNotFound
	}
	return s.gw.FetchLocationInfo(ctx, groupID)
}

// Locations lists every location group known to the gateway.
func (s *Service) Locations(ctx context.Context) ([]pinata.Group, error) {
	return s.gw.ListGroups(ctx)
}

// PhotoUpload is one attached photo in a submission.
type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

// Submit writes a review: the location's group is created on first review,
// photos are pinned, the review JSON is pinned under the author-prefixed
// filename, and all resulting CIDs are attached to the group. Every step's
// failure aborts the flow with an explicit error; a partial failure can
// leave pinned content unattached to its group, there is no retry or undo.
func (s *Service) Submit(ctx context.Context, locationName string, review Review, photos []PhotoUpload) (string, error) {
	group, err := s.gw.GroupExists(ctx, locationName)
	if err != nil {
		return "", fmt.Errorf("checking group: %w", err)
	}

	var groupID string
	if group != nil {
		groupID = group.ID

		reviewed, err := s.gw.UserHasReviewed(ctx, review.Author, groupID)
		if err != nil {
			return "", fmt.Errorf("checking existing review: %w", err)
		}
		if reviewed {
			return "", ErrAlreadyReviewed
		}
	} else {
		created, err := s.gw.CreateGroup(ctx, locationName)
		if err != nil {
			return "", fmt.Errorf("creating group: %w", err)
		}
		groupID = created.ID
		s.logger.Infow("created location group", "location", locationName, "group_id", groupID)
	}

	if review.Timestamp == "" {
		review.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	photoCIDs := make([]string, 0, len(photos))
	for _, p := range photos {
		name := fmt.Sprintf("%s_photo_%s%s", review.Author, uuid.NewString(), filepath.Ext(p.Filename))
		cid, err := s.gw.UploadFile(ctx, name, p.Content)
		if err != nil {
			return "", fmt.Errorf("uploading photo %s: %w", p.Filename, err)
		}
		photoCIDs = append(photoCIDs, cid)
	}
	review.Photos = append(review.Photos, photoCIDs...)

	body, err := json.Marshal(review)
	if err != nil {
		return "", fmt.Errorf("encoding review: %w", err)
	}

	reviewCID, err := s.gw.UploadFile(ctx, review.Author+".json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("uploading review: %w", err)
	}

	cids := append([]string{reviewCID}, photoCIDs...)
	if err := s.gw.AddCIDsToGroup(ctx, cids, groupID); err != nil {
		return "", fmt.Errorf("attaching review to group: %w", err)
	}

	s.logger.Infow("review submitted",
		"location", locationName, "author", review.Author,
		"cid", reviewCID, "photos", len(photoCIDs))
	return reviewCID, nil
}
