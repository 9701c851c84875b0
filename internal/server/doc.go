// Package server provides the short-lived local HTTP server backing the
// Spotify login flow.
//
// When the user runs the login command, a temporary server starts on the
// configured host and port, serves the OAuth2 authorization-code callback,
// and shuts down once a token has been exchanged.
//
// OAuthHandler validates the state parameter (CSRF protection), exchanges
// the authorization code for tokens, and delivers the result through a
// channel. It processes at most one callback to prevent replay.
//
// The [Router] interface and [BasicRouter] implementation exist so the
// callback handler and any future web surface share middleware wiring;
// [Logging] is the only middleware the CLI flow uses.
package server
