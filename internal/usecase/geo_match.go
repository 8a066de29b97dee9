package usecase

import "strings"

// MatchesRegion reports whether a free-text location belongs to region.
// It is a substring heuristic, not a geocoder: "Delhi, India" matches "India",
// and so does any location that happens to embed the region's name.
func MatchesRegion(location, region string) bool {
	loc := strings.ToLower(strings.TrimSpace(location))
	reg := strings.ToLower(strings.TrimSpace(region))
	if loc == "" || reg == "" {
		return false
	}
	return loc == reg || strings.Contains(loc, reg)
}
