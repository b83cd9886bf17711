// Package views holds the HTML components of the drive web UI. Pages are
// plain templ components; element ids match the datastar patch targets used
// by modules/auth.
package views
