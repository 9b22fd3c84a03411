// Package geo extracts coordinates from Google Maps share links. Pure and
// stateless so the admin form logic stays trivially testable.
package geo

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultZoom is used when a link yields coordinates but no zoom level.
const DefaultZoom = 17

// Zoom bounds accepted by the embed renderer.
const (
	MinZoom = 1
	MaxZoom = 21
)

// Point is a parsed map location.
type Point struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

var (
	// Place or maps view: /@lat,lng,zoomz or /@lat,lng,zoomm
	atRe = regexp.MustCompile(`(?i)@(-?\d+\.?\d*),(-?\d+\.?\d*),(\d+)[zm]`)
	// Query: ?q=lat,lng or &q=lat,lng (coordinates only)
	queryRe = regexp.MustCompile(`[?&]q=(-?\d+\.?\d*),(-?\d+\.?\d*)(?:[^&\d]|$)`)
	// Embed pb=: !3dLAT!4dLNG and optionally !2dZOOM
	embedRe     = regexp.MustCompile(`!3d(-?\d+\.?\d*)!4d(-?\d+\.?\d*)`)
	embedZoomRe = regexp.MustCompile(`!2d(\d+)`)
)

// ParseMapsURL extracts lat/lng/zoom from a Google Maps URL. It tries the
// place/view shape first, then the q= query parameter, then embed pb=
// parameters. Returns nil when no coordinate pair is found or the pair is
// out of range.
func ParseMapsURL(rawURL string) *Point {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil
	}

	var (
		lat, lng float64
		zoom     = -1
		found    bool
	)

	if m := atRe.FindStringSubmatch(s); m != nil {
		lat, _ = strconv.ParseFloat(m[1], 64)
		lng, _ = strconv.ParseFloat(m[2], 64)
		zoom, _ = strconv.Atoi(m[3])
		found = true
	}
	if !found && strings.Contains(s, "?") {
		if m := queryRe.FindStringSubmatch(s); m != nil {
			lat, _ = strconv.ParseFloat(m[1], 64)
			lng, _ = strconv.ParseFloat(m[2], 64)
			found = true
		}
	}
	if !found && (strings.Contains(s, "embed") || strings.Contains(s, "pb=")) {
		if m := embedRe.FindStringSubmatch(s); m != nil {
			lat, _ = strconv.ParseFloat(m[1], 64)
			lng, _ = strconv.ParseFloat(m[2], 64)
			if zm := embedZoomRe.FindStringSubmatch(s); zm != nil {
				zoom, _ = strconv.Atoi(zm[1])
			}
			found = true
		}
	}

	if !found || math.IsNaN(lat) || math.IsNaN(lng) {
		return nil
	}
	if zoom < 0 {
		zoom = DefaultZoom
	}
	zoom = min(MaxZoom, max(MinZoom, zoom))
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return &Point{Lat: lat, Lng: lng, Zoom: zoom}
}

// ValidateMapFields checks manually entered latitude, longitude and zoom
// values against the same bounds as ParseMapsURL, without URL parsing.
func ValidateMapFields(latVal, lngVal, zoomVal string) bool {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latVal), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(lngVal), 64)
	zoom, errZoom := strconv.Atoi(strings.TrimSpace(zoomVal))
	if errLat != nil || errLng != nil || errZoom != nil {
		return false
	}
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	return zoom >= MinZoom && zoom <= MaxZoom
}
