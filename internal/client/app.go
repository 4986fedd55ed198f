package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// API is the subset of APIClient the app drives.
type API interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Validate(ctx context.Context, token string) (*UserInfo, error)
	Logout(ctx context.Context) error
}

// App drives one command of the terminal client.
type App struct {
	api API
	in  *bufio.Reader
	out io.Writer
}

func NewApp(api API, in io.Reader, out io.Writer) *App {
	return &App{api: api, in: bufio.NewReader(in), out: out}
}

// Run executes a single named command.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "validate":
		return a.validate(ctx)
	case "logout":
		return a.logout(ctx)
	default:
		return fmt.Errorf("unknown command %q (expected register, login, validate or logout)", command)
	}
}

func (a *App) register(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Enter user name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, username, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) login(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Enter user name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	token, err := a.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) validate(ctx context.Context) error {
	token, err := GetSimpleText(a.in, "Enter token", a.out)
	if err != nil {
		return err
	}

	user, err := a.api.Validate(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Token is valid for %s (id %s)\n", user.Username, user.ID)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
