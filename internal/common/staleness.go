// Package common provides shared utilities across the application.
package common

import (
	"fmt"
	"time"
)

// StalenessResult contains the result of a course staleness check.
type StalenessResult struct {
	// IsStale indicates whether the cached course needs re-enrichment.
	IsStale bool
	// NextCheckTime is when to check again if the course is not currently
	// stale. Useful for scheduling the next pass.
	NextCheckTime time.Time
	// Reason provides a human-readable explanation for the decision.
	Reason string
}

// CheckCourseStaleness determines whether a cached course is stale given the
// configured staleness window. A zero updatedAt is always stale.
func CheckCourseStaleness(updatedAt time.Time, now time.Time, staleAfter time.Duration) StalenessResult {
	if staleAfter <= 0 {
		return StalenessResult{
			IsStale: false,
			Reason:  "staleness window disabled",
		}
	}

	if updatedAt.IsZero() {
		return StalenessResult{
			IsStale: true,
			Reason:  "course has no update timestamp, assuming stale",
		}
	}

	now = now.UTC()
	updatedAt = updatedAt.UTC()
	expiry := updatedAt.Add(staleAfter)

	if now.After(expiry) {
		return StalenessResult{
			IsStale: true,
			Reason: fmt.Sprintf(
				"course last updated %s, window of %s expired at %s",
				updatedAt.Format(time.RFC3339),
				staleAfter,
				expiry.Format(time.RFC3339),
			),
		}
	}

	return StalenessResult{
		IsStale:       false,
		NextCheckTime: expiry,
		Reason: fmt.Sprintf(
			"course is fresh (updated %s), next check at %s",
			updatedAt.Format(time.RFC3339),
			expiry.Format(time.RFC3339),
		),
	}
}
