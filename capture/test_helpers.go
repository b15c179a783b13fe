package capture

import "github.com/stretchr/testify/mock"

// MatchCapture creates a custom matcher for capture arguments in mocks
func MatchCapture(matcher func(Capture) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchReplayOutcome creates a custom matcher for replay outcome arguments in mocks
func MatchReplayOutcome(matcher func(ReplayOutcome) bool) interface{} {
	return mock.MatchedBy(matcher)
}
