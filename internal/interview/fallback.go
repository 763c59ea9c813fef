package interview

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fallback_questions.yml
var fallbackQuestionsYAML []byte

// fallbackQuestions maps an exact topic to a pre-written question. Loaded
// once at init so lookups are deterministic and never do I/O.
var fallbackQuestions = mustLoadFallbackQuestions()

func mustLoadFallbackQuestions() map[string]string {
	var table map[string]string
	if err := yaml.Unmarshal(fallbackQuestionsYAML, &table); err != nil {
		panic(fmt.Errorf("yaml.Unmarshal(fallback_questions.yml) > %w", err))
	}
	if _, ok := table[DefaultTopic]; !ok {
		panic(fmt.Errorf("fallback_questions.yml is missing the %q entry", DefaultTopic))
	}
	return table
}

// FallbackQuestion returns the curated question for the topic, or the shared
// generic question for unrecognized topics. Same topic always yields the
// same text.
func FallbackQuestion(topic string) string {
	if question, ok := fallbackQuestions[topic]; ok {
		return question
	}
	return fallbackQuestions[DefaultTopic]
}
