// Package users implements passcode based sign-up, sign-in and session
// handling on top of a baas.Factory.
//
// A user is a document in a configured collection that points at a platform
// account through accountId. Registration and sign-in both end with a
// passcode mailed by the platform; VerifySecret exchanges that passcode for
// a session whose secret is handed to the browser through a
// session.Transport.
//
//	svc, err := users.New(factory, transport, cfg, users.WithLogger(log))
//	res, err := svc.CreateAccount(ctx, users.SignUpInput{...})
//	_, err = svc.VerifySecret(ctx, w, users.VerifyInput{AccountID: res.AccountID, Code: code})
//
// Every method logs its failures and normalizes them: errors that already
// carry a user-facing message are returned unchanged, anything else is
// joined with the operation's generic sentinel (ErrCreateAccount, ErrSendOTP,
// ErrSignIn, ErrVerifyOTP, ErrSignOut).
package users
