package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed questions.json
var defaultQuestions []byte

// Question is a single multiple-choice question. The bank is loaded once at
// startup and never mutated afterwards.
type Question struct {
	ID          int      `json:"id"`
	Text        string   `json:"text"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answerIndex"`
}

// QuestionView is the participant-facing shape of a Question, with the
// correct answer index withheld. Host payloads carry the full Question.
type QuestionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

func (q Question) view() QuestionView {
	return QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Choices: q.Choices,
	}
}

const choicesPerQuestion = 4

func parseQuestions(data []byte) ([]Question, error) {
	var bank []Question

	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}

	if len(bank) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	for i, q := range bank {
		if q.Text == "" {
			return nil, fmt.Errorf("question %d has no text", i)
		}
		if len(q.Choices) != choicesPerQuestion {
			return nil, fmt.Errorf("question %d has %d choices, want %d", i, len(q.Choices), choicesPerQuestion)
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
			return nil, fmt.Errorf("question %d has answer index %d out of range", i, q.AnswerIndex)
		}
	}

	return bank, nil
}

// loadQuestions returns the embedded bank, or the contents of cfg.questionsFile
// when one was provided.
func loadQuestions(cfg *Config) ([]Question, error) {
	data := defaultQuestions

	if cfg.questionsFile != "" {
		var err error
		data, err = os.ReadFile(cfg.questionsFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", cfg.questionsFile, err)
		}
	}

	return parseQuestions(data)
}
