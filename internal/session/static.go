package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// StaticProvider issues sessions without an external auth service. Any
// email/password pair signs in; the user id is derived from the email so a
// returning user sees their own rows again. Used for local deployments and
// tests.
type StaticProvider struct {
	notifier
}

func NewStatic() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return p.SignIn(ctx, email, password)
}

func (p *StaticProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	sess := &Session{
		UserID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)).String(),
		Email:       email,
		AccessToken: uuid.NewString(),
	}
	p.set(sess)
	return sess, nil
}

func (p *StaticProvider) SignOut(context.Context) error {
	p.set(nil)
	return nil
}

// Set installs a session directly, bypassing sign-in. Test hook.
func (p *StaticProvider) Set(s *Session) {
	p.set(s)
}
