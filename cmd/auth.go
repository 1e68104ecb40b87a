package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// AuthLogin authenticates with the tracking service. The session cookie
// lives in the API client, so subsequent commands in the same process
// are authenticated.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "username", username)

	result, err := r.api.Login(ctx, username, cmd.String("password"))
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, result.Message)
	}

	return r.writePlain("✓ Logged in as %s\n", result.Username)
}

// AuthRegister creates an account and logs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	r.logger.Info("registering account", "username", username)

	result, err := r.api.Register(ctx, username, cmd.String("password"))
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, result.Message)
	}

	return r.writePlain("✓ Registered and logged in as %s\n", result.Username)
}

// AuthLogout ends the server-side session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.api.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus checks service health and the current session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if err := r.api.Health(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	r.writePlain("✓ Service is healthy\n")

	status, err := r.api.CheckAuth(ctx)
	if err != nil {
		return err
	}

	if status.LoggedIn {
		r.writePlain("Authentication: ✓ Logged in as %s\n", status.Username)
	} else {
		r.writePlain("Authentication: ✗ Not logged in\n")
	}
	return nil
}
