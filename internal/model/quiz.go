package model

// QuizID uniquely identifies a quiz in the catalog
type QuizID string

// Option represents one answer choice within a question
type Option struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models a single quiz question with ordered answer options.
// Multiple options may be correct (multi-select questions).
type Question struct {
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	TimeLimit int      `json:"time_limit"` // seconds
	Points    int      `json:"points"`
	Options   []Option `json:"options"`
}

// CorrectOptionIDs returns the IDs of all correct options
func (q *Question) CorrectOptionIDs() []int {
	var ids []int
	for _, o := range q.Options {
		if o.Correct {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Quiz is an immutable snapshot of quiz content for one session.
// Catalog edits made after the snapshot is taken never propagate into it.
type Quiz struct {
	ID        QuizID     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// QuestionByID returns the question with the given ID, or nil
func (q *Quiz) QuestionByID(id int) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// OptionView is an option as shown to participants (correctness withheld)
type OptionView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// QuestionView is a question as shown to participants
type QuestionView struct {
	ID        int          `json:"id"`
	Text      string       `json:"text"`
	TimeLimit int          `json:"time_limit"`
	Points    int          `json:"points"`
	Options   []OptionView `json:"options"`
}

// View returns the participant-facing projection of a question
func (q *Question) View() QuestionView {
	opts := make([]OptionView, len(q.Options))
	for i, o := range q.Options {
		opts[i] = OptionView{ID: o.ID, Text: o.Text}
	}
	return QuestionView{
		ID:        q.ID,
		Text:      q.Text,
		TimeLimit: q.TimeLimit,
		Points:    q.Points,
		Options:   opts,
	}
}
