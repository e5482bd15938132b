package models

// MCQ is one generated multiple-choice question. Options always has four
// entries and AnswerIndex points into it.
type MCQ struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

func (q MCQ) Valid() bool {
	if q.Question == "" || len(q.Options) != 4 {
		return false
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	return true
}

type QuizInfo struct {
	FormID        string `json:"form_id"`
	ResponderURL  string `json:"responder_url"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

type QuizRequirements struct {
	RequiredFields    []string          `json:"required_fields"`
	TopicRequirements TopicRequirements `json:"topic_requirements"`
	DifficultyOptions DifficultyOptions `json:"difficulty_options"`
	Output            QuizOutputSpec    `json:"output"`
}

type TopicRequirements struct {
	Type        string `json:"type"`
	MinLength   int    `json:"min_length"`
	MaxLength   int    `json:"max_length"`
	Description string `json:"description"`
}

type DifficultyOptions struct {
	Type        string   `json:"type"`
	Values      []string `json:"values"`
	Description string   `json:"description"`
}

type QuizOutputSpec struct {
	QuestionCount      int    `json:"question_count"`
	QuestionType       string `json:"question_type"`
	OptionsPerQuestion int    `json:"options_per_question"`
	Platform           string `json:"platform"`
}
