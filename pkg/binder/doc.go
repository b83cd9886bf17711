// Package binder decodes HTTP request bodies into structs.
//
// A Binder returns ErrBinderNotApplicable when the request content type is
// not one it handles, so several binders can be chained and the first
// applicable one wins:
//
//	handler.Wrap(h, handler.WithBinders(binder.Form(), binder.JSON()))
//
// Form binds application/x-www-form-urlencoded and multipart/form-data
// values through `form:"name"` tags. JSON binds application/json bodies,
// which is also how datastar posts its signals.
package binder
