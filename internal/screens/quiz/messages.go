package quiz

// feedbackDoneMsg ends the feedback pause. token ties it to one answer so
// a tick that fires after the learner skipped ahead is ignored.
type feedbackDoneMsg struct {
	token int
}

// savedMsg reports the result of persisting a report.
type savedMsg struct {
	err error
}

// explainPollMsg asks the results screen to check for a tutor answer.
type explainPollMsg struct {
	questionID string
}
