// Package notebook keeps the user's highlights and notes, grouped by subject.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/studydesk/backend/internal/groupby"
	"github.com/studydesk/backend/internal/models"
	"go.uber.org/zap"
)

type Service struct {
	store    Store
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, validate: validator.New(), log: log}
}

// List returns the notebook grouped by subject name. Groups keep the order
// of their most recent entry. A non-empty query keeps only entries whose
// content or subject contains it, ignoring case.
func (s *Service) List(ctx context.Context, userID int64, query string) (*models.NotebookResponse, error) {
	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Build(entries, query), nil
}

// Build filters and groups entries. Counts reflect the filtered entries.
func Build(entries []models.NotebookEntry, query string) *models.NotebookResponse {
	query = strings.ToLower(strings.TrimSpace(query))

	kept := make([]models.NotebookEntry, 0, len(entries))
	for _, e := range entries {
		if query == "" || matches(e, query) {
			kept = append(kept, e)
		}
	}

	groups := groupby.Ordered(kept, subjectName)

	resp := &models.NotebookResponse{
		Groups: make([]models.NotebookGroup, 0, len(groups)),
		Counts: models.NotebookCounts{Total: len(kept), Subjects: len(groups)},
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, models.NotebookGroup{Subject: g.Key, Entries: g.Items})
	}
	for _, e := range kept {
		switch e.EntryType {
		case models.EntryHighlight:
			resp.Counts.Highlights++
		case models.EntryUserNote:
			resp.Counts.Notes++
		}
	}
	return resp
}

func subjectName(e models.NotebookEntry) string {
	if e.SubjectName == nil || *e.SubjectName == "" {
		return models.UnassignedSubject
	}
	return *e.SubjectName
}

func matches(e models.NotebookEntry, query string) bool {
	return strings.Contains(strings.ToLower(e.Content), query) ||
		strings.Contains(strings.ToLower(subjectName(e)), query)
}

// AddHighlight saves text highlighted in a question. Without an explicit
// subject the question's subject is used.
func (s *Service) AddHighlight(ctx context.Context, userID int64, req models.CreateHighlightRequest) (*models.NotebookEntry, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	subjectID := req.SubjectID
	if subjectID == 0 {
		id, err := s.store.QuestionSubject(ctx, req.QuestionID)
		if err != nil {
			return nil, err
		}
		subjectID = id
	}

	questionID := req.QuestionID
	e := &models.NotebookEntry{
		UserID:           userID,
		SubjectID:        &subjectID,
		SourceQuestionID: &questionID,
		EntryType:        models.EntryHighlight,
		Content:          req.Text,
	}
	if err := s.store.InsertEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) AddNote(ctx context.Context, userID int64, req models.CreateNoteRequest) (*models.NotebookEntry, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	subjectID := req.SubjectID
	e := &models.NotebookEntry{
		UserID:    userID,
		SubjectID: &subjectID,
		EntryType: models.EntryUserNote,
		Content:   req.Content,
	}
	if err := s.store.InsertEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.store.DeleteEntry(ctx, userID, id)
}

func (s *Service) validateRequest(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s is %s", models.ErrValidation, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
	}
	return fmt.Errorf("%w: %v", models.ErrValidation, err)
}
