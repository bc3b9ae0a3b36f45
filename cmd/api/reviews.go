package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"stayreview/internal/reviews"

	"github.com/go-chi/chi/v5"
)

// Get Reviews Handler
//
// Returns the aggregated review state for one location page load. The
// address query identifies the viewer's wallet so their own review can be
// surfaced first; visible bounds how many reviews are returned, it never
// changes what is fetched.
func (app *application) getLocationReviewsHandler(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	address := r.URL.Query().Get("address")

	agg := app.reviews.Aggregate(r.Context(), location, address)

	requested := reviews.InitialVisible
	if val := r.URL.Query().Get("visible"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			app.badRequestResponse(w, r, errors.New("invalid visible count"))
			return
		}
		requested = parsed
	}

	// The window only grows in pager steps, so an arbitrary visible value
	// snaps to the load-more sequence.
	pager := reviews.NewPager(agg.Total)
	for pager.Visible() < requested && pager.Advance() {
	}

	response := map[string]interface{}{
		"reviews":           pager.Window(agg.Reviews),
		"showing":           pager.Visible(),
		"total_reviews":     agg.Total,
		"average_rating":    agg.AverageRating,
		"user_has_reviewed": agg.UserHasReviewed,
	}

	app.jsonResponse(w, http.StatusOK, response)
}

// Create Review Handler
//
// Accepts either a bare JSON review or a multipart form with a "review"
// JSON part plus up to 5 "photos" files. Write-path failures surface as
// explicit errors; nothing here retries.
func (app *application) createLocationReviewHandler(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	var payload reviews.Review
	var photos []reviews.PhotoUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		files, err := app.parseReviewForm(w, r, &payload)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				app.badRequestResponse(w, r, fmt.Errorf("open file: %w", err))
				return
			}
			defer file.Close()
			photos = append(photos, reviews.PhotoUpload{
				Filename: fileHeader.Filename,
				Content:  file,
			})
		}
	} else {
		if err := readJSON(w, r, &payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if err := Validate.Struct(payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	cid, err := app.reviews.Submit(r.Context(), location, payload, photos)
	if err != nil {
		if errors.Is(err, reviews.ErrAlreadyReviewed) {
			app.conflictResponse(w, r, err)
			return
		}
		app.badGatewayResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, map[string]string{"cid": cid})
}

func (app *application) parseReviewForm(w http.ResponseWriter, r *http.Request, data *reviews.Review) ([]*multipart.FileHeader, error) {
	const maxBytes = 15 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	// Decode JSON payload
	if err := json.Unmarshal([]byte(r.FormValue("review")), data); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	// Validate payload
	if err := Validate.Struct(data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Validate photo count
	files := r.MultipartForm.File["photos"]
	if len(files) > 5 {
		return nil, fmt.Errorf("maximum 5 photos allowed")
	}

	return files, nil
}

// User Reviewed Handler
func (app *application) userReviewedHandler(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	address := r.URL.Query().Get("address")
	if address == "" {
		app.badRequestResponse(w, r, errors.New("address query parameter is required"))
		return
	}

	reviewed := app.reviews.HasReviewed(r.Context(), location, address)

	app.jsonResponse(w, http.StatusOK, map[string]bool{"reviewed": reviewed})
}
