/*
Package authsdk provides a client SDK for the orgauth service.

# SDKClient vs Session

  - SDKClient: public operations (register, login, invite inspection, health)
  - Session: operations made on behalf of a logged-in user

	client := authsdk.NewSDKClient("https://auth.example.com")

	session, err := client.Login(ctx, "owner@example.com", password)

	org, err := session.SetupOrganisation(ctx, "Acme", "Widgets")
	count, err := session.Invite(ctx, org.ID, []string{"a@example.com"}, false)

Sessions carry a bearer token with a fixed lifetime. There is no refresh; log
in again once Expired reports true.

# Errors

Every non-2xx response is returned as *APIError carrying the HTTP status, the
server's error code and its messages:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.CodeUserExists {
		// ...
	}
*/
package authsdk
