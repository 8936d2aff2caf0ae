package api

// User is the profile returned by GET /users/me. The server owns it; the
// client holds a read-mostly cached copy refreshed on demand.
type User struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	EducationLevel string       `json:"education_level"`
	Progress       *Progress    `json:"progress"`
	Fingerprint    *Fingerprint `json:"fingerprint"`
}

// Progress summarizes answering history.
type Progress struct {
	CurrentDifficulty int     `json:"current_difficulty"`
	QuestionsAnswered int     `json:"questions_answered"`
	CorrectAnswers    int     `json:"correct_answers"`
	Ability           float64 `json:"ability"`
}

// Accuracy returns the fraction of correct answers, or 0 before any answer.
func (p *Progress) Accuracy() float64 {
	if p == nil || p.QuestionsAnswered == 0 {
		return 0
	}
	return float64(p.CorrectAnswers) / float64(p.QuestionsAnswered)
}

// Fingerprint holds the four cognitive scores, each in [0,1].
type Fingerprint struct {
	Comprehension float64 `json:"comprehension"`
	Application   float64 `json:"application"`
	Concentration float64 `json:"concentration"`
	Retention     float64 `json:"retention"`
}

// Question is one live question. Options is keyed by option letter and may
// have absent slots. A non-empty Err is the server's end-of-session marker,
// distinct from a transport failure.
type Question struct {
	ID              string            `json:"id"`
	Text            string            `json:"question_text"`
	Options         map[string]string `json:"options"`
	CorrectAnswer   string            `json:"correct_answer"`
	DifficultyLevel int               `json:"difficulty_level"`
	Err             string            `json:"error"`
}

// Exhausted reports whether the server signaled that no further question
// is available.
func (q *Question) Exhausted() bool {
	return q == nil || q.Err != ""
}

// Submission is the POST /submit payload. DifficultyLevel must echo the
// level of the question being answered; server-side grading is keyed on it.
type Submission struct {
	UserAnswer      string  `json:"user_answer"`
	CorrectAnswer   string  `json:"correct_answer"`
	TimeTaken       float64 `json:"time_taken"`
	DifficultyLevel int     `json:"difficulty_level"`
}

// SubmitResult is the grading response.
type SubmitResult struct {
	IsCorrect    bool      `json:"is_correct"`
	Feedback     string    `json:"feedback"`
	Report       *Report   `json:"report"`
	NextQuestion *Question `json:"next_question"`
}

// Report references the two server-rendered charts. The client never
// constructs or interprets its contents.
type Report struct {
	FingerprintChartURL string `json:"fingerprint_chart_url"`
	TrajectoryChartURL  string `json:"trajectory_chart_url"`
}

// RegisterInput is the POST /register payload.
type RegisterInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	EducationLevel string `json:"education_level"`
}

// ProfileUpdate carries only the fields being changed; nil-valued fields
// are omitted from the PUT /users/me body.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the update carries no changes.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Password == nil
}

// SharedReport is the public, unauthenticated report payload.
type SharedReport struct {
	ID         string         `json:"id"`
	UserName   string         `json:"user_name"`
	ReportData map[string]any `json:"report_data"`
}

// DifficultyLabel maps the 1-4 ordinal to its display name.
func DifficultyLabel(level int) string {
	switch level {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	case 3:
		return "Hard"
	case 4:
		return "Expert"
	default:
		return "Adaptive"
	}
}
