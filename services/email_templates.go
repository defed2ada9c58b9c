package services

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"wedding-rsvp/utils"
)

const InviteSubject = "You're Invited to Yannis & Alara's Engagement Party"

type invitationData struct {
	Names   string
	RSVPURL string
	SiteURL string
}

type updateData struct {
	Names      string
	Subject    string
	Paragraphs []string
	RSVPURL    string
}

var invitationText = texttemplate.Must(texttemplate.New("invitation.txt").Parse(`Dear {{.Names}},

We are delighted to invite you to celebrate our engagement!

Please join us for an evening of joy, laughter, and love as we mark this special milestone in our journey together.

Date: Saturday, 11th July 2026
Time: Details to follow
Venue: The Libertine, 1 Royal Exchange, Cornhill, London, EC3V 3LL

Please let us know if you can attend:
{{.RSVPURL}}

More details are on our website: {{.SiteURL}}

With love,
Yannis & Alara
`))

var invitationHTML = htmltemplate.Must(htmltemplate.New("invitation.html").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>You're Invited</title>
<style>
body { background:#f7f4ee; font-family:Georgia, serif; color:#222; }
.container { max-width:600px; margin:20px auto; }
.card { background:#fff; border:1px solid #e8e1d4; padding:28px; border-radius:8px; }
.btn { display:inline-block; padding:12px 24px; background:#2f4f3a; color:#fff; text-decoration:none; border-radius:24px; margin-top:16px; }
.small { font-size:12px; color:#777; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>You're Invited</h2>
    <p>Dear {{.Names}},</p>
    <p>We are delighted to invite you to celebrate our engagement!</p>
    <p>Please join us for an evening of joy, laughter, and love as we mark this special milestone in our journey together.</p>
    <p><strong>Date:</strong> Saturday, 11th July 2026<br>
       <strong>Time:</strong> Details to follow<br>
       <strong>Venue:</strong> The Libertine, 1 Royal Exchange, Cornhill, London, EC3V 3LL</p>
    <p>We would be honoured to have you celebrate with us. Please let us know if you can attend.</p>
    <a class="btn" href="{{.RSVPURL}}" target="_blank">RSVP Now</a>
    <p>With love,<br>Yannis &amp; Alara</p>
    <p class="small">If the button does not work, copy this link into your browser:<br>{{.RSVPURL}}</p>
  </div>
</div>
</body>
</html>`))

var updateText = texttemplate.Must(texttemplate.New("update.txt").Parse(`Dear {{.Names}},

{{range .Paragraphs}}{{.}}

{{end}}{{if .RSVPURL}}View or change your RSVP:
{{.RSVPURL}}

{{end}}With love,
Yannis & Alara
`))

var updateHTML = htmltemplate.Must(htmltemplate.New("update.html").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Subject}}</title>
<style>
body { background:#f7f4ee; font-family:Georgia, serif; color:#222; }
.container { max-width:600px; margin:20px auto; }
.card { background:#fff; border:1px solid #e8e1d4; padding:28px; border-radius:8px; }
.btn { display:inline-block; padding:12px 24px; background:#2f4f3a; color:#fff; text-decoration:none; border-radius:24px; margin-top:16px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>{{.Subject}}</h2>
    <p>Dear {{.Names}},</p>
    {{range .Paragraphs}}<p>{{.}}</p>
    {{end}}{{if .RSVPURL}}<a class="btn" href="{{.RSVPURL}}" target="_blank">View your RSVP</a>{{end}}
    <p>With love,<br>Yannis &amp; Alara</p>
  </div>
</div>
</body>
</html>`))

// BuildInvitation renders the invitation for a household.
func BuildInvitation(to string, firstNames []string, rsvpURL, siteURL string) (utils.EmailMessage, error) {
	data := invitationData{Names: utils.FormatGuestNames(firstNames), RSVPURL: rsvpURL, SiteURL: siteURL}

	var text, html bytes.Buffer
	if err := invitationText.Execute(&text, data); err != nil {
		return utils.EmailMessage{}, err
	}
	if err := invitationHTML.Execute(&html, data); err != nil {
		return utils.EmailMessage{}, err
	}
	return utils.EmailMessage{To: to, Subject: InviteSubject, Text: text.String(), HTML: html.String()}, nil
}

// BuildUpdate renders a free-form update. Blank lines split paragraphs.
func BuildUpdate(to string, firstNames []string, subject, message, rsvpURL string) (utils.EmailMessage, error) {
	var paragraphs []string
	for _, p := range strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	data := updateData{
		Names:      utils.FormatGuestNames(firstNames),
		Subject:    subject,
		Paragraphs: paragraphs,
		RSVPURL:    rsvpURL,
	}

	var text, html bytes.Buffer
	if err := updateText.Execute(&text, data); err != nil {
		return utils.EmailMessage{}, err
	}
	if err := updateHTML.Execute(&html, data); err != nil {
		return utils.EmailMessage{}, err
	}
	return utils.EmailMessage{To: to, Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
