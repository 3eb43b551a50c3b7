// Package web serves the local endpoint that receives quiz answers
// from the briefing viewer and applies the spaced-repetition update.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
	"github.com/conorfennell/notebrief/internal/repetition"
	"github.com/conorfennell/notebrief/internal/storage"
)

// Server holds the dependencies for the quiz HTTP server.
type Server struct {
	db     *storage.DB
	cfg    repetition.Config
	router *http.ServeMux
	now    func() time.Time
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, cfg repetition.Config) *Server {
	s := &Server{
		db:     db,
		cfg:    cfg,
		router: http.NewServeMux(),
		now:    time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe binds to host:port and serves until the listener
// fails. Port 0 picks a free port; the chosen address is logged.
func (s *Server) ListenAndServe(host string, port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("failed to bind quiz server: %w", err)
	}
	slog.Info("quiz server listening", "addr", listener.Addr().String())
	return http.Serve(listener, s)
}

func (s *Server) routes() {
	s.router.HandleFunc("/quiz/submit", s.handleSubmit())
	s.router.HandleFunc("/quiz/due", s.handleDue())
	s.router.HandleFunc("/quiz/pending", s.handlePending())
}

// submitRequest is a scored quiz answer posted by the viewer.
type submitRequest struct {
	TopicKey     string `json:"topic_key"`
	Q1Correct    bool   `json:"q1_correct"`
	Q2Evaluation string `json:"q2_evaluation"`
	BriefingFile string `json:"briefing_file"`
}

type submitResponse struct {
	TopicKey        string `json:"topic_key"`
	NewLevel        int    `json:"new_level"`
	NewIntervalDays int    `json:"new_interval_days"`
	NextQuizAt      string `json:"next_quiz_at"`
	LevelChange     string `json:"level_change"`
}

// handleSubmit records a quiz outcome: computes the level update,
// persists it, and removes the topic's pending entry.
func (s *Server) handleSubmit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if req.TopicKey == "" {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "topic_key is required"})
			return
		}
		evaluation := domain.Evaluation(req.Q2Evaluation)
		switch evaluation {
		case domain.EvalGood, domain.EvalPartial, domain.EvalPoor:
		default:
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q2_evaluation must be good, partial or poor"})
			return
		}

		now := s.now()
		update, err := repetition.UpdateAfterScoring(s.db, req.TopicKey, req.Q1Correct, evaluation, s.cfg, now)
		if err != nil {
			slog.Error("failed to compute repetition update", "topic", req.TopicKey, "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scoring failed"})
			return
		}

		pending, err := s.db.RemovePendingQuiz(req.TopicKey)
		if err != nil {
			slog.Error("failed to remove pending quiz", "topic", req.TopicKey, "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scoring failed"})
			return
		}
		pattern := domain.PatternLearning
		if pending != nil {
			pattern = pending.Pattern
		}

		result := domain.QuizResult{
			Date:         now.Format(repetition.DateLayout),
			Q1Correct:    req.Q1Correct,
			Q2Evaluation: evaluation,
			Pattern:      pattern,
		}
		if err := s.db.UpdateQuizHistory(req.TopicKey, result, update.NewLevel, update.NewIntervalDays, update.NextQuizAt); err != nil {
			slog.Error("failed to persist quiz history", "topic", req.TopicKey, "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scoring failed"})
			return
		}

		s.writeJSON(w, http.StatusOK, submitResponse{
			TopicKey:        req.TopicKey,
			NewLevel:        update.NewLevel,
			NewIntervalDays: update.NewIntervalDays,
			NextQuizAt:      update.NextQuizAt,
			LevelChange:     string(update.LevelChange),
		})
	}
}

type dueTopicResponse struct {
	TopicKey     string `json:"topic_key"`
	Level        int    `json:"level"`
	IntervalDays int    `json:"interval_days"`
}

// handleDue lists the topics whose next quiz date has passed.
func (s *Server) handleDue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		entries, err := s.db.AllQuizHistory()
		if err != nil {
			slog.Error("failed to load quiz history", "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
			return
		}

		due := repetition.DueTopics(entries, s.now())
		resp := make([]dueTopicResponse, 0, len(due))
		for _, topic := range due {
			resp = append(resp, dueTopicResponse{
				TopicKey:     topic.TopicKey,
				Level:        topic.Level,
				IntervalDays: topic.IntervalDays,
			})
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

type pendingQuizResponse struct {
	BriefingFile string `json:"briefing_file"`
	TopicKey     string `json:"topic_key"`
	Pattern      string `json:"pattern"`
	CreatedAt    string `json:"created_at"`
}

// handlePending lists quizzes that have been shown but not scored.
func (s *Server) handlePending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		pending, err := s.db.PendingQuizzes()
		if err != nil {
			slog.Error("failed to load pending quizzes", "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pending unavailable"})
			return
		}
		resp := make([]pendingQuizResponse, 0, len(pending))
		for _, pq := range pending {
			resp = append(resp, pendingQuizResponse{
				BriefingFile: pq.BriefingFile,
				TopicKey:     pq.TopicKey,
				Pattern:      string(pq.Pattern),
				CreatedAt:    pq.CreatedAt,
			})
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
