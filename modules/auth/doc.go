// Package auth serves the sign-in and sign-up pages, the passcode modal and
// sign-out, and guards the rest of the application with RequireUser.
//
// Between issuing a passcode and verifying it, the pending account id and
// email travel in an encrypted, short-lived cookie so the browser never has
// to echo them back in the form.
package auth
