package generator

import (
	"fmt"
	"strings"

	"github.com/studydesk/backend/internal/models"
)

// optionLetter labels options A, B, C... the way exam booklets do.
func optionLetter(i int) string {
	return string(rune('A' + i))
}

func DraftSystemPrompt() string {
	return `You are an experienced tutor for Brazilian public service entrance exams (concursos públicos).
Given a multiple-choice QUESTION with its OPTIONS and the CORRECT OPTION, write study material in Brazilian Portuguese.

EXPLANATION
- Explain why the correct option is right, citing the rule, concept or passage it relies on.
- Briefly explain why each incorrect option is wrong, referring to options by letter.
- Be precise and neutral. Do not invent legal article numbers you are unsure of.

TIPS
- One to three short, practical tips that help the student avoid this kind of mistake next time.

OUTPUT FORMAT
Respond with a single JSON object and nothing else:
{"explanation": "...", "tips": "..."}`
}

func BuildDraftUserPrompt(req models.DraftExplanationRequest) string {
	var b strings.Builder

	if req.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	}
	if req.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	}

	fmt.Fprintf(&b, "\nQUESTION:\n%s\n\nOPTIONS:\n", strings.TrimSpace(req.Statement))
	for i, opt := range req.Options {
		fmt.Fprintf(&b, "%s) %s\n", optionLetter(i), strings.TrimSpace(opt))
	}
	if req.CorrectOptionIndex >= 0 && req.CorrectOptionIndex < len(req.Options) {
		fmt.Fprintf(&b, "\nCORRECT OPTION: %s\n", optionLetter(req.CorrectOptionIndex))
	}

	b.WriteString("\nReturn the JSON object with the explanation and tips fields.")
	return b.String()
}
