// Package email delivers transactional mail.
//
// EmailSender has two implementations: a Postmark client for deployed
// environments and DevSender, which writes each message to a directory as
// HTML plus JSON metadata. NewFromConfig picks Postmark when both tokens are
// configured and falls back to DevSender otherwise.
//
// Message bodies are templ components rendered with templates.Render.
package email
