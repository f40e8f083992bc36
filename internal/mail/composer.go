// Package mail composes and delivers the registration confirmation: an HTML
// body with an inline QR code encoding the registration identifier, a
// plain-text fallback, and SMTP submission.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"skibazar/internal/registration/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	confirmationSubject = "Deine Skibazar-Voranmeldung"
	infoLink            = "https://ssctettnang.wordpress.com/wintersport/aktuelles-skiabteilung/ski-und-sportbazar/"
)

// Composer builds confirmation messages. The HTML template references the
// QR image through a cid:qrcode placeholder that Compose rewrites to the
// generated content-ID of the embedded PNG.
type Composer struct {
	tmpl        *template.Template
	sender      string
	editBaseURL string
}

// NewComposer parses the embedded template. sender is the From address,
// editBaseURL the frontend base under which /bearbeiten/{identifier} lives.
func NewComposer(sender, editBaseURL string) (*Composer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/confirmation.html")
	if err != nil {
		return nil, fmt.Errorf("parse confirmation template: %w", err)
	}
	return &Composer{
		tmpl:        tmpl,
		sender:      sender,
		editBaseURL: strings.TrimRight(editBaseURL, "/"),
	}, nil
}

// EditLink returns the frontend URL where the registration can be changed.
func (c *Composer) EditLink(identifier string) string {
	return c.editBaseURL + "/bearbeiten/" + identifier
}

// Compose assembles the full confirmation message for a registration:
// plain-text part, HTML alternative, and the QR PNG embedded as an inline
// related resource bound to a fresh content-ID.
func (c *Composer) Compose(reg *models.Registration) (*gomail.Msg, error) {
	qrPNG, err := encodeQR(reg.Identifier)
	if err != nil {
		return nil, err
	}

	link := c.EditLink(reg.Identifier)

	var htmlBuf bytes.Buffer
	err = c.tmpl.Execute(&htmlBuf, struct {
		Name  string
		Items []models.LineItem
		Link  string
	}{reg.Name, reg.Items, link})
	if err != nil {
		return nil, fmt.Errorf("render confirmation template: %w", err)
	}

	contentID := uuid.NewString() + "@skibazar"
	htmlBody := strings.ReplaceAll(htmlBuf.String(), "cid:qrcode", "cid:"+contentID)

	msg := gomail.NewMsg()
	msg.Subject(confirmationSubject)
	if err := msg.From(c.sender); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(reg.Email); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.SetBodyString(gomail.TypeTextPlain, plainTextBody(reg, link))
	msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	if err := msg.EmbedReader("qrcode.png", bytes.NewReader(qrPNG), gomail.WithFileContentID(contentID)); err != nil {
		return nil, fmt.Errorf("embed qr: %w", err)
	}
	return msg, nil
}

// plainTextBody carries the same information as the HTML part. The QR code
// cannot appear in text, so the wording points at the HTML version.
func plainTextBody(reg *models.Registration, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", reg.Name)
	b.WriteString("vielen Dank für deine Vorabanmeldung zum Skibazar!\n")
	b.WriteString("Bitte bring den QR-Code zur Warenannahme mit (nicht im Text sichtbar).\n\n")
	b.WriteString("Artikel:\n")
	for _, item := range reg.Items {
		fmt.Fprintf(&b, "- %s (%s, %.2f €)\n", item.Description, item.Size, item.Price)
	}
	fmt.Fprintf(&b, "\nBearbeiten: %s\n", link)
	fmt.Fprintf(&b, "Mehr Infos: %s\n", infoLink)
	return b.String()
}
