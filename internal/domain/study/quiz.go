package study

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestion struct {
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
}

// Quiz is a short re-engagement quiz generated from study material.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// Usable reports whether every question has text and exactly one correct option.
func (q *Quiz) Usable() bool {
	if q == nil || len(q.Questions) == 0 {
		return false
	}
	for _, qq := range q.Questions {
		if qq.Text == "" || len(qq.Options) < 2 {
			return false
		}
		correct := 0
		for _, o := range qq.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return false
		}
	}
	return true
}
