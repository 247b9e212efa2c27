package review

import (
	"fmt"
	"strconv"

	"github.com/studydesk/backend/internal/models"
)

// ErrorTypeFilter narrows answers by classification. The zero value means no filter.
type ErrorTypeFilter string

const (
	FilterAll          ErrorTypeFilter = ""
	FilterUnclassified ErrorTypeFilter = "unclassified"
	FilterAttention    ErrorTypeFilter = ErrorTypeFilter(models.ErrorAttention)
	FilterKnowledge    ErrorTypeFilter = ErrorTypeFilter(models.ErrorKnowledge)
)

type Filter struct {
	SubjectID *int64
	ErrorType ErrorTypeFilter
}

// Active reports whether any filter narrows the result.
func (f Filter) Active() bool {
	return f.SubjectID != nil || f.ErrorType != FilterAll
}

// Matches applies the filter to one answer in memory. Stores apply the same
// rules in SQL; the service rechecks every row it aggregates.
func (f Filter) Matches(a models.IncorrectAnswer) bool {
	if f.SubjectID != nil && (a.Question == nil || a.Question.SubjectID != *f.SubjectID) {
		return false
	}
	switch f.ErrorType {
	case FilterAll:
		return true
	case FilterUnclassified:
		return a.ErrorType == nil
	default:
		return a.ErrorType != nil && ErrorTypeFilter(*a.ErrorType) == f.ErrorType
	}
}

// ParseFilter reads the review query parameters. Empty values and "all" mean
// no filter.
func ParseFilter(subject, errorType string) (Filter, error) {
	var f Filter

	if subject != "" && subject != "all" {
		id, err := strconv.ParseInt(subject, 10, 64)
		if err != nil || id <= 0 {
			return Filter{}, fmt.Errorf("%w: invalid subject %q", models.ErrValidation, subject)
		}
		f.SubjectID = &id
	}

	switch ErrorTypeFilter(errorType) {
	case "", "all":
		f.ErrorType = FilterAll
	case FilterUnclassified, FilterAttention, FilterKnowledge:
		f.ErrorType = ErrorTypeFilter(errorType)
	default:
		return Filter{}, fmt.Errorf("%w: invalid errorType %q", models.ErrValidation, errorType)
	}

	return f, nil
}
