package entity

import "time"

// ParsedItinerary is the structured result of reading a plain-text trip request
type ParsedItinerary struct {
	Title         string
	CustomerEmail string
	TravelDate    *time.Time
	Origin        string
	Destination   string
	Steps         []Step
}
