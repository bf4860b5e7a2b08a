/*
Package accountsdk is a Go client for the foodcodes accounts service and the
home of its wire types.

The server imports the same types and errors, so request and response shapes
are defined once:

	client := accountsdk.NewClient("https://accounts.example.com")

	msg, err := client.Register(ctx, accountsdk.RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "correct horse battery staple",
		PasswordConfirm: "correct horse battery staple",
	})

	// The activation link arrives by email; it can be followed in a browser
	// or replayed through the client.
	msg, err = client.Activate(ctx, uidb64, token)

	session, err := client.Login(ctx, "alice", "correct horse battery staple")
	profile, err := session.Profile(ctx)

# Errors

Non-2xx responses come back as *APIError. Validation failures carry the
offending fields in APIError.Fields. A rejected activation link is reported
as ErrActivationInvalid whatever the cause.
*/
package accountsdk
