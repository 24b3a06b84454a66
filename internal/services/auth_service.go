package services

import (
	"errors"
	"strings"

	"tvicladmin/internal/domain"
	"tvicladmin/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

// dummyHash keeps the bcrypt cost constant when the email is unknown,
// so login timing does not reveal which addresses exist.
var dummyHash = []byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO7ZLk5nGzKAmms8G3z0Oq5r1d0e2fGyu")

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	u, err := s.Users.ByEmail(email)
	if err != nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves the session cookie to its operator and refreshes
// the session's last_seen marker as a side effect.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, err
	}
	_ = s.Users.TouchSession(sid)
	return u, nil
}
