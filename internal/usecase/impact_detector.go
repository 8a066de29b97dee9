package usecase

import "travel-advisory-service/internal/domain/entity"

// IsImpacted reports whether either end of the booking touches either region of
// the advisory. Direction is ignored: inbound travel is impacted as well.
func IsImpacted(workflow *entity.Workflow, advisory *entity.Advisory) bool {
	if workflow == nil || advisory == nil {
		return false
	}
	for _, location := range []string{workflow.Origin, workflow.Destination} {
		if MatchesRegion(location, advisory.SourceRegion) || MatchesRegion(location, advisory.TargetRegion) {
			return true
		}
	}
	return false
}
