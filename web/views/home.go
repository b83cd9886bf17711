package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/drive/modules/auth"
)

// Home is the dashboard shown to signed-in users.
func Home(p auth.HomeParams) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var name, email, avatar string
		if p.User != nil {
			name, email, avatar = p.User.FullName(), p.User.Email, p.User.Avatar
		}
		_, err := fmt.Fprintf(w, `<header class="header">
<img class="avatar" src="%s" alt="avatar">
<div><p class="name">%s</p><p class="email">%s</p></div>
<form method="post" action="/sign-out"><button type="submit">Sign out</button></form>
</header>
<main class="dashboard"><h1>Dashboard</h1></main>`, esc(avatar), esc(name), esc(email))
		return err
	})
	return Layout("Dashboard", body)
}
