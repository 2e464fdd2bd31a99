package services

import (
	"bytes"
	"html/template"
	"time"

	"github.com/rpupo63/portfolio-site-backend/models"
)

var notificationTemplate = template.Must(template.New("notification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #ff6b35;">New message from your portfolio</h1>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="font-weight: bold; width: 100px;">Name:</td><td>{{.Name}}</td></tr>
    <tr><td style="font-weight: bold;">Email:</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    <tr><td style="font-weight: bold;">Subject:</td><td>{{.Subject}}</td></tr>
    <tr><td style="font-weight: bold;">Received:</td><td>{{.Received}}</td></tr>
  </table>
  <div style="background: #f8f9fa; padding: 20px; border-left: 4px solid #ff6b35; margin-top: 20px; white-space: pre-wrap;">{{.Message}}</div>
</div>`))

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #28a745;">Your message was received</h1>
  <p>Hi <strong>{{.Name}}</strong>,</p>
  <p>Thanks for getting in touch. I received your message about "<strong>{{.Subject}}</strong>" and will reply as soon as I can.</p>
  <p>Best regards,<br><strong>{{.SiteName}}</strong></p>
</div>`))

type contactEmailData struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Received string
	SiteName string
}

func newContactEmailData(c *models.Contact, siteName string) contactEmailData {
	return contactEmailData{
		Name:     c.Name,
		Email:    c.Email,
		Subject:  c.Subject,
		Message:  c.Message,
		Received: c.CreatedAt.Format(time.RFC1123),
		SiteName: siteName,
	}
}

func render(t *template.Template, data contactEmailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
