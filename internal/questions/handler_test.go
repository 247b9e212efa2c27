package questions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studydesk/backend/internal/middleware"
	"github.com/studydesk/backend/internal/models"
	"go.uber.org/zap"
)

func newTestRouter(store Store) *mux.Router {
	h := NewHandler(newTestService(store, nil), zap.NewNop())
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithClaims(req.Context(), &middleware.Claims{UserID: 7, Role: models.RoleStudent})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.HandleFunc("/subjects/{id}/questions", h.PracticeQuestions).Methods("GET")
	r.HandleFunc("/questions/{id}/answers", h.SubmitAnswer).Methods("POST")
	r.HandleFunc("/answers/{id}/classification", h.ClassifyAnswer).Methods("PUT")
	r.HandleFunc("/admin/questions", h.CreateQuestion).Methods("POST")
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_AnswerAndClassify(t *testing.T) {
	r := newTestRouter(newFakeStore())

	rec := do(r, http.MethodPost, "/questions/1/answers", `{"selected_option_id":11}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.SubmitAnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Correct)

	rec = do(r, http.MethodPut, "/answers/1/classification", `{"error_type":"knowledge"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_type":"knowledge"`)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"bad question id", http.MethodPost, "/questions/abc/answers", `{"selected_option_id":11}`, http.StatusBadRequest},
		{"missing option", http.MethodPost, "/questions/1/answers", `{}`, http.StatusBadRequest},
		{"foreign option", http.MethodPost, "/questions/1/answers", `{"selected_option_id":55}`, http.StatusBadRequest},
		{"unknown question", http.MethodPost, "/questions/42/answers", `{"selected_option_id":11}`, http.StatusNotFound},
		{"unknown answer", http.MethodPut, "/answers/9/classification", `{"error_type":"attention"}`, http.StatusNotFound},
		{"invalid create", http.MethodPost, "/admin/questions", `{"subject":"X"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestRouter(newFakeStore()), tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_PracticeQuestionsHideAnswers(t *testing.T) {
	rec := do(newTestRouter(newFakeStore()), http.MethodGet, "/subjects/10/questions?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "is_correct")
	assert.NotContains(t, rec.Body.String(), "explanation")
}
