package webauth

import "github.com/goliatone/go-ual-webauth/ual"

const (
	// Name identifies the authenticator to the host framework and in errors.
	Name = "WebAuth"

	// OnboardingLink is where users can get the wallet.
	OnboardingLink = "https://webauth.com"
)

// Logo is the button icon as an SVG data URI.
const Logo = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCA2NCA2NCI+PGNpcmNsZSBjeD0iMzIiIGN5PSIzMiIgcj0iMzIiIGZpbGw9IiM1YTMzYzkiLz48cGF0aCBkPSJNMTYgMjJsNiAyMGg0bDYtMTQgNiAxNGg0bDYtMjBoLTVsLTMgMTItNi0xMmgtNGwtNiAxMi0zLTEyeiIgZmlsbD0iI2ZmZiIvPjwvc3ZnPg=="

func buttonStyle() ual.ButtonStyle {
	return ual.ButtonStyle{
		Icon:       Logo,
		Text:       Name,
		TextColor:  "white",
		Background: "rgb(90, 51, 201)",
	}
}
