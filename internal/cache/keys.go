package cache

import "strings"

const (
	GlobalKeyPrefix = "skillassess"

	ServiceSession = "session"
	ServiceLearner = "learner"
)

// GenerateCacheKey builds "skillassess:<service>:<objectType>:<identifier>", followed by
// ":<p1_p2...>" when paramsKey is not empty.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return baseKey + ":" + strings.Join(paramsKey, "_")
	}
	return baseKey
}

// SessionStateKey holds the snapshot of a running session.
func SessionStateKey(sessionID string) string {
	return GenerateCacheKey(ServiceSession, "state", sessionID)
}

// SessionSummaryKey holds the evaluation summary of a completed session.
func SessionSummaryKey(sessionID string) string {
	return GenerateCacheKey(ServiceSession, "summary", sessionID)
}

// LearnerCompletedKey is a hash of the items a learner has completed.
func LearnerCompletedKey(learner string) string {
	return GenerateCacheKey(ServiceLearner, "completed", learner)
}
