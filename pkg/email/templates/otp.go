package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// OTPCode is the passcode email body.
func OTPCode(code string, ttl time.Duration) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html><body style="font-family:sans-serif;color:#1f2937">
<h2>Verify your email</h2>
<p>Enter this code to continue:</p>
<p style="font-size:32px;font-weight:bold;letter-spacing:8px">%s</p>
<p>The code expires in %d minutes. If you did not request it, ignore this email.</p>
</body></html>`, templ.EscapeString(code), int(ttl.Minutes()))
		return err
	})
}
