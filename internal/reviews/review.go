package reviews

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAlreadyReviewed  = errors.New("user has already reviewed this location")
)

// Review is the document pinned on the gateway, one per author per
// location. Field names are the on-storage JSON names; documents already
// pinned must keep decoding.
type Review struct {
	Author     string   `json:"author" validate:"required,walletaddress"`
	Timestamp  string   `json:"timestamp"`
	ReviewText string   `json:"reviewText" validate:"required,max=2000"`
	Rating     float64  `json:"rating" validate:"required,min=1,max=5"`
	Photos     []string `json:"photos,omitempty"`
}

// Aggregation is the derived view state for one location page load.
type Aggregation struct {
	Reviews []Review `json:"reviews"`
	// Total is the retained document count; documents that failed to fetch
	// or parse are not in it.
	Total int `json:"total_reviews"`
	// AverageRating is nil when no documents were retained. The client must
	// render "no rating yet", never a numeric artifact.
	AverageRating   *float64 `json:"average_rating"`
	UserHasReviewed bool     `json:"user_has_reviewed"`
}
