// Package validator provides small declarative validation rules.
//
// A Rule pairs a Check func with the ValidationError reported when the
// check fails. Apply evaluates rules in order and returns every failure as
// ValidationErrors, which implements error and can be rendered per field.
//
//	err := validator.Apply(
//	    validator.ValidEmail("email", f.Email).WithMessage("Please enter a valid email address"),
//	    validator.MinLen("password", f.Password, 8),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs.Has("email") {
//	    // render errs.First("email") next to the field
//	}
package validator
