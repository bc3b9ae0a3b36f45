package main

import (
	"errors"
	"net/http"

	"stayreview/internal/reviews"

	"github.com/go-chi/chi/v5"
)

// List Locations Handler
func (app *application) listLocationsHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := app.reviews.Locations(r.Context())
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, groups)
}

// Get Rating Handler
//
// Read path: a gateway outage degrades to "no rating yet" rather than an
// error, the page never shows a failure state for ratings.
func (app *application) getLocationRatingHandler(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	avg := app.reviews.AverageRating(r.Context(), location)

	app.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"average_rating": avg,
	})
}

// Get Location Info Handler
func (app *application) getLocationInfoHandler(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	info, err := app.reviews.LocationInfo(r.Context(), location)
	if err != nil {
		if errors.Is(err, reviews.ErrLocationNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.badGatewayResponse(w, r, err)
		return
	}
	if info == nil {
		app.notFoundResponse(w, r, errors.New("location has no info document"))
		return
	}

	app.jsonResponse(w, http.StatusOK, info)
}
