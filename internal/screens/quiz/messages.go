package quiz

import (
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
)

// firstQuestionMsg is sent when the /start request resolves.
type firstQuestionMsg struct {
	Question *api.Question
	Err      error
}

// submitDoneMsg is sent when a grading request resolves.
type submitDoneMsg struct {
	Result *api.SubmitResult
	Err    error
}

// feedbackElapsedMsg is sent when the feedback display period ends. Seq
// guards against a timer scheduled for an earlier question or a session
// that has already been torn down.
type feedbackElapsedMsg struct {
	Seq int
}

// hintMsg is sent when a hint request resolves.
type hintMsg struct {
	Text string
	Err  error
}

// issueReportDoneMsg is sent when an issue report resolves.
type issueReportDoneMsg struct {
	Err error
}

// profileRefreshedMsg is sent when the end-of-session profile refresh
// resolves.
type profileRefreshedMsg struct {
	User *api.User
	Err  error
}
