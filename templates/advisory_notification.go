package templates

import "fmt"

const advisoryAlertBody = `Dear %s,

An important travel advisory has been issued that affects your trip.
Advisory: %s

Impact Analysis:
Estimated Cost Impact: %s
Estimated Delay: %s

Our agent will be in touch shortly to discuss options.

Sincerely,
Travel App Team`

// AdvisoryAlert returns the subject and body sent when an advisory hits a booking
func AdvisoryAlert(customerName, sourceRegion, targetRegion, description, estimatedCost, estimatedTimeDelay string) (string, string) {
	subject := fmt.Sprintf("Travel Advisory Alert: %s to %s", sourceRegion, targetRegion)
	body := fmt.Sprintf(advisoryAlertBody, customerName, description, estimatedCost, estimatedTimeDelay)
	return subject, body
}

// TripUpdated is sent after the customer accepts the remediation
func TripUpdated(customerName string) (string, string) {
	return "Trip Updated: " + customerName,
		"Great! We have updated your itinerary based on the advisory changes. Safe travels!"
}

// TripUpdateAcknowledged is sent after the customer declines the remediation
func TripUpdateAcknowledged() (string, string) {
	return "Trip Update Acknowledged",
		"We understand your concern. An agent will contact you to discuss cancellation or alternative options."
}
