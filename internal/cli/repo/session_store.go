package repo

import (
	"Neighborly/internal/cli/model"
	"errors"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// SessionStore is the persistence boundary of the client session.
type SessionStore interface {
	Load() (*model.Session, error)
	Save(s *model.Session) error
	Clear() error
}
