package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/requestid"
	"github.com/dmitrymomot/drive/pkg/validator"
)

type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

type ErrorToastParams struct {
	Message   string
	Type      string // "error" or "warning"
	RequestID string
}

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// ErrorPage renders a full page for regular requests. Without it a plain
	// text body is written.
	ErrorPage func(ErrorPageParams) templ.Component

	// ErrorToast renders a notification for datastar requests.
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget defaults to "#toast-container".
	ToastTarget string

	// ToastMode defaults to PatchPrepend.
	ToastMode datastar.ElementPatchMode

	// Classify maps domain errors to an HTTPError. It runs before the
	// built-in classification; returning false falls through.
	Classify func(error) (HTTPError, bool)
}

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Message    string
	Type       string
	LogLevel   slog.Level
}

func classifyError(err error, classify func(error) (HTTPError, bool)) ErrorInfo {
	info := ErrorInfo{
		StatusCode: ErrInternalServerError.Code,
		Message:    ErrInternalServerError.Message,
	}

	if he, ok := toHTTPError(err, classify); ok {
		info.StatusCode, info.Message = he.Code, he.Message
	}

	if info.StatusCode < http.StatusInternalServerError {
		info.Type = "warning"
		info.LogLevel = slog.LevelWarn
	} else {
		info.Type = "error"
		info.LogLevel = slog.LevelError
	}
	return info
}

func toHTTPError(err error, classify func(error) (HTTPError, bool)) (HTTPError, bool) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return HTTPError{Code: http.StatusUnprocessableEntity, Message: formatValidationErrors(ve)}, true
	}
	if classify != nil {
		if he, ok := classify(err); ok {
			return he, true
		}
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return HTTPError{}, false
}

func formatValidationErrors(ve validator.ValidationErrors) string {
	if ve.IsEmpty() {
		return ErrUnprocessableEntity.Message
	}
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// NewErrorHandler returns an ErrorHandler that logs the error, then renders
// ErrorToast for datastar requests or ErrorPage with the classified status
// for everything else.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		reqID := requestid.FromContext(r.Context())
		info := classifyError(err, cfg.Classify)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("is_datastar", IsDataStar(r)),
		)

		if IsDataStar(r) {
			if cfg.ErrorToast == nil {
				log.WarnContext(r.Context(), "no error toast component configured")
				return
			}
			resp := Templ(cfg.ErrorToast(ErrorToastParams{
				Message:   info.Message,
				Type:      info.Type,
				RequestID: reqID,
			}), WithTarget(cfg.ToastTarget), WithPatchMode(cfg.ToastMode))
			if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
				log.ErrorContext(r.Context(), "failed to render error toast", logger.Error(rerr))
			}
			return
		}

		if cfg.ErrorPage == nil {
			http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
			return
		}
		resp := TemplStatus(info.StatusCode, cfg.ErrorPage(ErrorPageParams{
			Error:      info.Message,
			StatusCode: info.StatusCode,
			RequestID:  reqID,
			RetryURL:   r.URL.Path,
		}))
		if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error page", logger.Error(rerr))
		}
	}
}
