package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseQuestions_EmbeddedBank(t *testing.T) {
	bank, err := parseQuestions(defaultQuestions)
	if err != nil {
		t.Fatalf("embedded bank failed to parse: %v", err)
	}
	if len(bank) == 0 {
		t.Fatal("embedded bank is empty")
	}

	for i, q := range bank {
		if q.Text == "" {
			t.Errorf("question %d has no text", i)
		}
		if len(q.Choices) != choicesPerQuestion {
			t.Errorf("question %d has %d choices", i, len(q.Choices))
		}
	}
}

func TestParseQuestions_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "nope"},
		{"empty array", "[]"},
		{"missing text", `[{"id":1,"text":"","choices":["a","b","c","d"],"answerIndex":0}]`},
		{"too few choices", `[{"id":1,"text":"q","choices":["a","b"],"answerIndex":0}]`},
		{"too many choices", `[{"id":1,"text":"q","choices":["a","b","c","d","e"],"answerIndex":0}]`},
		{"answer out of range", `[{"id":1,"text":"q","choices":["a","b","c","d"],"answerIndex":4}]`},
		{"negative answer", `[{"id":1,"text":"q","choices":["a","b","c","d"],"answerIndex":-1}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseQuestions([]byte(tc.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadQuestions_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	data := `[{"id":1,"text":"custom?","choices":["a","b","c","d"],"answerIndex":2}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.questionsFile = path

	bank, err := loadQuestions(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bank) != 1 || bank[0].Text != "custom?" {
		t.Errorf("bank = %+v, want the custom question", bank)
	}
}

func TestLoadQuestions_MissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.questionsFile = filepath.Join(t.TempDir(), "absent.json")

	if _, err := loadQuestions(cfg); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestQuestionView_WithholdsAnswer(t *testing.T) {
	q := Question{ID: 7, Text: "q", Choices: []string{"a", "b", "c", "d"}, AnswerIndex: 2}

	v := q.view()

	if v.ID != q.ID || v.Text != q.Text || len(v.Choices) != len(q.Choices) {
		t.Errorf("view = %+v, want the question fields copied", v)
	}
}
