// Package baas defines the backend-as-a-service contract the application
// talks to: an account API for passcode tokens and sessions, and a document
// database API.
//
// Clients are obtained per request from a Factory. Admin clients act with
// the server key; session clients act as the user owning a session secret.
//
//	admin, err := factory.Admin(ctx)
//	if err != nil {
//		return err
//	}
//	token, err := admin.Account.CreateEmailToken(ctx, baas.UniqueID, email)
//
//	client, err := factory.Session(ctx, secret)
//	if err != nil {
//		return err
//	}
//	acct, err := client.Account.Get(ctx)
//
// Adapters live in subpackages: appwrite talks to a remote Appwrite server
// over REST, embedded implements the same contract in-process on top of the
// pgstore, mongostore and redisstore backends.
package baas
