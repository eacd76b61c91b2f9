package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// InviteSubject is the subject line of every invite.
const InviteSubject = "[Invite] You are invited"

//go:embed templates/*.html
var templateFS embed.FS

var inviteTemplate = template.Must(template.ParseFS(templateFS, "templates/invite.html"))

// InviteContent is everything the invite body shows.
type InviteContent struct {
	Email            string
	OrganisationName string
	Manager          bool
	Token            string
	BaseURL          string
}

// JoinLink is where the invitee redeems their token.
func JoinLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/join?token=" + url.QueryEscape(token)
}

// RenderInvite builds the HTML body of an invite. It has no side effects.
func RenderInvite(c InviteContent) (string, error) {
	role := "member"
	if c.Manager {
		role = "manager"
	}

	var buf bytes.Buffer
	err := inviteTemplate.Execute(&buf, struct {
		InviteContent
		Role string
		Link string
	}{c, role, JoinLink(c.BaseURL, c.Token)})
	if err != nil {
		return "", fmt.Errorf("render invite: %w", err)
	}
	return buf.String(), nil
}
