package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"grana/internal/session"
)

// maxExtractImageBytes caps receipt uploads.
const maxExtractImageBytes = 10 << 20 // 10MB

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		UserID:    s.UserID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}
}

func decodeCredentials(r *http.Request) (credentialsRequest, error) {
	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return credentialsRequest{}, errors.New("invalid request body")
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return credentialsRequest{}, errors.New("email and password are required")
	}
	return creds, nil
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sess, err := s.sessions.SignUp(r.Context(), creds.Email, creds.Password)
	if err != nil {
		slog.WarnContext(r.Context(), "Sign-up rejected", "email", creds.Email, "error", err)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "sign-up failed"})
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sess, err := s.sessions.SignIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		slog.WarnContext(r.Context(), "Sign-in rejected", "email", creds.Email, "error", err)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.store.Transactions()
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toJSON(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	draft, err := toDraft(in)
	if err == nil {
		err = draft.Validate()
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	tx, err := s.store.Add(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJSON(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in transactionJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	draft, err := toDraft(in)
	if err == nil {
		err = draft.Validate()
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	tx, err := s.store.Update(r.Context(), draft.WithID(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.store.Summary()
	writeJSON(w, http.StatusOK, summaryResponse{
		Income:  sum.Income.Float(),
		Expense: sum.Expense.Float(),
		Balance: sum.Balance.Float(),
	})
}

// handleExtract accepts a receipt image as multipart form field "image" and
// answers with the fields the extractor could read off it.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "extraction not configured"})
		return
	}

	if err := r.ParseMultipartForm(maxExtractImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "expected multipart form with image field"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing image field"})
		return
	}
	defer file.Close()

	img, err := io.ReadAll(io.LimitReader(file, maxExtractImageBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read image"})
		return
	}
	if len(img) > maxExtractImageBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "image too large"})
		return
	}

	fields, err := s.extractor.Extract(r.Context(), img, header.Header.Get("Content-Type"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Receipt extraction failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "extraction failed"})
		return
	}
	writeJSON(w, http.StatusOK, fields)
}
