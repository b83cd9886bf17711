package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// Layout wraps body in the document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | Drive</title>
<script type="module" src="%s"></script>
</head>
<body>
<div id="toast-container"></div>
`, templ.EscapeString(title), datastarScript); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>")
		return err
	})
}

// write renders parts in order, stopping at the first error.
func write(ctx context.Context, w io.Writer, parts ...any) error {
	for _, p := range parts {
		var err error
		switch v := p.(type) {
		case string:
			_, err = io.WriteString(w, v)
		case templ.Component:
			if v != nil {
				err = v.Render(ctx, w)
			}
		default:
			err = fmt.Errorf("views: unsupported part %T", p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func esc(s string) string { return templ.EscapeString(s) }
