package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// GoTrueProvider authenticates against a GoTrue-compatible auth API
// (the scheme used by Supabase): password grant for sign-in, refresh-token
// grant for renewal, and a logout endpoint that revokes the session.
type GoTrueProvider struct {
	notifier

	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoTrue creates a provider for the auth API rooted at baseURL
// (e.g. "https://project.example.co/auth/v1"). The apiKey is sent both as
// the anon key header and, until sign-in, as the bearer token.
func NewGoTrue(baseURL, apiKey string) (*GoTrueProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("missing auth base URL")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing auth API key")
	}
	return &GoTrueProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (p *GoTrueProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	sess, err := p.tokenRequest(ctx, p.baseURL+"/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	p.set(sess)
	return sess, nil
}

func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := p.tokenRequest(ctx, p.baseURL+"/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	p.set(sess)
	return sess, nil
}

// Refresh exchanges the current refresh token for a new session. The session
// identity is unchanged, but subscribers are still notified so consumers pick
// up the new access token.
func (p *GoTrueProvider) Refresh(ctx context.Context) (*Session, error) {
	current := p.Current()
	if current == nil {
		return nil, errors.New("no active session")
	}
	sess, err := p.tokenRequest(ctx, p.baseURL+"/token?grant_type=refresh_token", map[string]string{
		"refresh_token": current.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	p.set(sess)
	return sess, nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context) error {
	current := p.Current()
	// Local state is cleared regardless of whether the revoke call succeeds.
	defer p.set(nil)
	if current == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+current.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Warn("Sign out revoke call failed", "error", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("Sign out revoke call rejected", "status", resp.StatusCode)
	}
	return nil
}

func (p *GoTrueProvider) tokenRequest(ctx context.Context, url string, payload map[string]string) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth API connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("auth API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return nil, errors.New("auth response missing token or user")
	}

	return &Session{
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
