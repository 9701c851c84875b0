package main

import (
	"context"
	"fmt"
	"time"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/server"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/services"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const oauthTimeout = 2 * time.Minute

// AuthLogin runs the browser-based authorization-code flow and persists the
// resulting credential.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	spotify, err := r.spotifyService()
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, spotify)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	spotify.AdoptToken(token)

	tokenPath := r.config.Credentials.Spotify.TokenPath
	if tokenPath == "" {
		tokenPath = "spotify_token.json"
	}
	if err := services.SaveCredential(tokenPath, spotify.Credential()); err != nil {
		return err
	}

	r.logger.Info("credential saved", "path", tokenPath)

	user, err := spotify.CurrentUser(ctx)
	if err != nil {
		return r.writePlainln("Authenticated, but profile lookup failed: %v", err)
	}

	return r.writePlainln("Authenticated as %s (%s).", user.DisplayName, user.ID)
}

// AuthStatus reports whether the stored credential is usable.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	spotify, err := r.spotifyService()
	if err != nil {
		return err
	}

	if spotify.Credential().AccessToken == "" {
		return r.writePlainln("Not authenticated. Run `tunemigrate auth login` first.")
	}

	user, err := spotify.CurrentUser(ctx)
	if err != nil {
		return r.writePlainln("Stored credential is not usable: %v", err)
	}

	return r.writePlainln("Authenticated as %s (%s).", user.DisplayName, user.ID)
}

// doOAuth serves the local callback endpoint, opens the authorization URL in
// the browser, and waits for the exchanged token.
func (r *Runner) doOAuth(ctx context.Context, spotify *services.SpotifyService) (*oauth2.Token, error) {
	state, err := server.RandomState()
	if err != nil {
		return nil, err
	}

	config := spotify.OAuthConfig()
	handler := server.NewOAuthHandler(config, state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Run(serverCtx, addr, router); err != nil {
			serverErrors <- err
		}
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	r.logger.Info("opening browser for authorization", "url", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser, visit the URL manually", "error", err)
		if err := r.writePlainln("Open this URL in your browser:\n\n  %s", authURL); err != nil {
			return nil, err
		}
	}

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return nil, result.Error()
		}
		return result.Token, nil
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-time.After(oauthTimeout):
		return nil, fmt.Errorf("%w: no callback within %s", shared.ErrTimeout, oauthTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
