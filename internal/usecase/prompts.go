package usecase

import (
	"fmt"
	"strings"

	"travel-advisory-service/internal/domain/entity"
)

const travelDateLayout = entity.TravelDateLayout

func buildCompliancePrompt(advisories []*entity.Advisory, steps []entity.Step) string {
	var b strings.Builder
	b.WriteString("You are a Travel Compliance Officer. Check the following itinerary steps against active Travel Advisories.\n\n")

	b.WriteString("ACTIVE ADVISORIES:\n")
	for _, adv := range advisories {
		fmt.Fprintf(&b, "- [%s] From %s to %s: %s\n", adv.Severity, adv.SourceRegion, adv.TargetRegion, adv.Description)
	}

	b.WriteString("\nITINERARY STEPS:\n")
	for _, step := range steps {
		fmt.Fprintf(&b, "- Step ID: %s | Name: %s | Desc: %s\n", step.ID, step.Name, step.Description)
	}

	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. Analyze EVERY step independently. Identify ANY step that violates an advisory (e.g. flying from a banned source to a banned target).\n")
	b.WriteString("2. Use geographic knowledge to map cities to countries explicitly (e.g. Delhi is in India, Shanghai is in China).\n")
	b.WriteString("3. For round trips, check the outbound and return legs separately.\n")
	b.WriteString("4. For EACH violation, provide a 'warning' message and an 'alternative' route.\n")
	b.WriteString("5. Return a JSON object mapping Step IDs to violations: { \"step-id\": { \"warning\": \"...\", \"alternative\": \"...\" } }.\n")
	b.WriteString("6. If a step has NO violation, do NOT include it in the JSON.\n")
	b.WriteString("7. If there are NO violations in the entire workflow, return {}.\n")
	b.WriteString("Return ONLY valid JSON.")
	return b.String()
}

func buildScriptPrompt(workflow *entity.Workflow, advisory *entity.Advisory) string {
	var b strings.Builder
	b.WriteString("You are a Travel Strategy Consultant. A new Travel Advisory has been issued that affects a customer's booking.\n\n")

	b.WriteString("ADVISORY DETAILS:\n")
	fmt.Fprintf(&b, "- Severity: %s\n", advisory.Severity)
	fmt.Fprintf(&b, "- From: %s To: %s\n", advisory.SourceRegion, advisory.TargetRegion)
	fmt.Fprintf(&b, "- Description: %s\n\n", advisory.Description)

	b.WriteString("BOOKING DETAILS:\n")
	fmt.Fprintf(&b, "- Customer: %s\n", workflow.CustomerName)
	fmt.Fprintf(&b, "- Route: %s to %s\n", workflow.Origin, workflow.Destination)
	if workflow.TravelDate != nil {
		fmt.Fprintf(&b, "- Travel Date: %s\n", workflow.TravelDate.Format(travelDateLayout))
	}

	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. Draft a script for the travel agent to read to the customer.\n")
	b.WriteString("2. Explain the implications of the advisory clearly and empathetically.\n")
	b.WriteString("3. Highlight potential costs (e.g. cancellation fees, higher fares for rerouting).\n")
	b.WriteString("4. Suggest date changes if applicable.\n")
	b.WriteString("5. Keep it professional but urgent if severity is HIGH.\n\n")
	b.WriteString("Output JSON format: { \"script\": \"...\", \"estimatedCost\": \"$XXX\", \"estimatedTimeDelay\": \"X days/hours\" }")
	return b.String()
}

func buildSentimentPrompt(response string) string {
	return fmt.Sprintf("Analyze this customer response to a travel advisory change: %q. "+
		"Classify as POSITIVE (accepts changes/proceeds) or NEGATIVE (cancels/rejects). "+
		"Return ONLY the word POSITIVE or NEGATIVE.", response)
}

func buildItineraryPrompt(request string) string {
	return fmt.Sprintf("You are an expert travel agent. Analyze this request: %q. "+
		"Generate a detailed JSON object with: "+
		"1. 'title': a short, catchy summary (e.g. 'Luxury Honeymoon in Bali'). "+
		"2. 'customerEmail': the email address if present in the request, otherwise null. "+
		"3. 'travelDate': the start date of the trip in YYYY-MM-DD format; infer it if implied (e.g. 'next Friday'), otherwise null. "+
		"4. 'source': the starting country/city. "+
		"5. 'destination': the main destination country/city. "+
		"6. 'steps': a JSON array of workflow steps, each with 'name' and 'description'. "+
		"Steps MUST cover logistics (flights, transfers), accommodation (hotels), key activities (tours) and documents (visa/insurance). "+
		"Return ONLY valid JSON.", request)
}
