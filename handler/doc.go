// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value bound by one or more
// binders, and returns a Response. Responses know how to render themselves
// for both plain browser requests and datastar requests: Templ renders HTML
// or an SSE element patch, Redirect issues a 303 or an SSE redirect.
//
//	h := handler.HandlerFunc[SignInRequest](func(ctx handler.Context, req SignInRequest) handler.Response {
//		return handler.Templ(views.OTPModal(...), handler.WithTarget("#otp-modal"))
//	})
//
//	r.Post("/sign-in", handler.Wrap(h,
//		handler.WithBinders[SignInRequest](binder.Form(), binder.JSON()),
//		handler.WithErrorHandler[SignInRequest](errorHandler),
//	))
//
// Errors returned from binding or rendering go through the ErrorHandler.
// NewErrorHandler builds one that classifies errors into status codes and
// renders an error page or an error toast depending on the request type.
package handler
