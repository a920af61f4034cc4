package commands

import (
	"Neighborly/internal/config"
	"context"
	"fmt"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account" }
func (registerCmd) Usage() string       { return "register <name> <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	if err := e.api.Register(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Registered. Now run: login", args[1], "<password>")
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and save the session" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := e.sessions.Save(sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Fprintf(Out, "Logged in as %s\n", sess.User.Name)
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the saved session" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	if err := e.sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the logged in user" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess := e.optionalSession()
	if sess == nil {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	fmt.Fprintf(Out, "%s <%s>\n", sess.User.Name, sess.User.Email)
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(whoamiCmd{})
}
