// Package google handles OAuth2 authentication against Google for the
// calendar scope.
//
// The OAuth client ID and secret come from the environment. After the user
// completes the consent flow once (see the auth command), the access and
// refresh tokens are persisted to the user cache directory and refreshed
// automatically on subsequent runs.
package google
