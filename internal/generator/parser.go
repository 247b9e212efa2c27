package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Draft is the JSON object the model is asked to return.
type Draft struct {
	Explanation string `json:"explanation"`
	Tips        string `json:"tips"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseDraft(responseBody string) (*Draft, error) {
	cleaned := stripCodeFences(responseBody)

	var draft Draft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	draft.Explanation = strings.TrimSpace(draft.Explanation)
	draft.Tips = strings.TrimSpace(draft.Tips)

	if err := validateDraft(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

const (
	minExplanationLen = 20
	maxExplanationLen = 4000
	maxTipsLen        = 1500
)

func validateDraft(d *Draft) error {
	var errs []string

	if l := len(d.Explanation); l < minExplanationLen || l > maxExplanationLen {
		errs = append(errs, fmt.Sprintf("explanation length %d outside range [%d, %d]", l, minExplanationLen, maxExplanationLen))
	}
	if d.Tips == "" {
		errs = append(errs, "empty tips")
	} else if len(d.Tips) > maxTipsLen {
		errs = append(errs, fmt.Sprintf("tips length %d exceeds %d", len(d.Tips), maxTipsLen))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
