package commands

import (
	"Neighborly/internal/cli/api"
	"Neighborly/internal/cli/model"
	"Neighborly/internal/cli/repo"
	fsrepo "Neighborly/internal/cli/repo/fs"
	"Neighborly/internal/config"
	"errors"
)

// env is what a command works with: the API client and the session
// persistence boundary. The session itself is loaded per command and
// passed to the client explicitly.
type env struct {
	api      *api.Client
	sessions repo.SessionStore
}

func newEnv(cfg *config.Config) (*env, error) {
	store, err := fsrepo.NewSessionFSStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	return &env{api: api.New(cfg.ServerURL), sessions: store}, nil
}

var errNotLoggedIn = errors.New("not logged in, run: login <email> <password>")

// session returns the saved session or errNotLoggedIn.
func (e *env) session() (*model.Session, error) {
	s, err := e.sessions.Load()
	if errors.Is(err, repo.ErrNoSession) {
		return nil, errNotLoggedIn
	}
	return s, err
}

// optionalSession is for commands that also work anonymously.
func (e *env) optionalSession() *model.Session {
	s, err := e.sessions.Load()
	if err != nil {
		return nil
	}
	return s
}
