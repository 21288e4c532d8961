// Package geo wraps the geocoding and routing collaborators. Both are
// queried sequentially within a travel turn; a failure in either simply
// removes route facts from the prompt.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound means the geocoder had no result for the place name.
var ErrNotFound = errors.New("place not found")

// ErrNoRoute means the routing service could not connect the two points.
var ErrNoRoute = errors.New("no route between points")

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Route is the computed leg between two points.
type Route struct {
	DistanceKM  float64
	DurationMin float64
}

// Geocoder resolves free-text place names, capped at one result.
type Geocoder struct {
	baseURL string
	client  *http.Client
}

func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup returns the best match for the place name or ErrNotFound.
func (g *Geocoder) Lookup(ctx context.Context, place string) (Point, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Point{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode error %d: %s", resp.StatusCode, string(body))
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return Point{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("%w: %q", ErrNotFound, place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse lon: %w", err)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// Router computes driving legs between coordinate pairs.
type Router struct {
	baseURL string
	client  *http.Client
}

func NewRouter(baseURL string) *Router {
	return &Router{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route returns distance and duration between the two points or ErrNoRoute.
func (r *Router) Route(ctx context.Context, from, to Point) (Route, error) {
	path := fmt.Sprintf("/route/v1/driving/%f,%f;%f,%f?overview=false", from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return Route{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("route call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Route{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("route error %d: %s", resp.StatusCode, string(body))
	}

	var apiResp routeResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Route{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Code != "Ok" || len(apiResp.Routes) == 0 {
		return Route{}, ErrNoRoute
	}

	return Route{
		DistanceKM:  apiResp.Routes[0].Distance / 1000,
		DurationMin: apiResp.Routes[0].Duration / 60,
	}, nil
}
