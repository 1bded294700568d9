package collection

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Channel is the medium a billing message is delivered through
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelLetter   Channel = "LETTER"
)

// IsValid checks if the channel is known
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp, ChannelLetter:
		return true
	}
	return false
}

// MessageData is the data a template is rendered with
type MessageData struct {
	Member MemberData
	Dues   DuesData
	Club   ClubData
}

// MemberData exposes the billed member to templates
type MemberData struct {
	Name               string
	RegistrationNumber string
	Email              string
	Phone              string
}

// DuesData exposes the open dues record to templates, amounts preformatted
type DuesData struct {
	Period      string
	DueDate     string
	Amount      string
	Total       string
	DaysOverdue int
}

// ClubData exposes the tenant to templates
type ClubData struct {
	Name  string
	Phone string
}

// Template is a reusable billing message (template de cobrança).
// Subject and body are Go text templates over MessageData.
type Template struct {
	shared.TenantAggregateRoot
	Name    string
	Channel Channel
	Subject string
	Body    string
	Active  bool
}

// NewTemplate creates an active template after checking it parses
func NewTemplate(tenantID uuid.UUID, name string, channel Channel, subject, body string) (*Template, error) {
	t := &Template{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	if err := t.Update(name, channel, subject, body); err != nil {
		return nil, err
	}
	t.Version = 1
	return t, nil
}

// Update replaces the template content
func (t *Template) Update(name string, channel Channel, subject, body string) error {
	name = strings.TrimSpace(name)
	channel = Channel(strings.ToUpper(string(channel)))

	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 100 {
		v.Add("name", "Name cannot exceed 100 characters")
	}
	if !channel.IsValid() {
		v.Add("channel", "Channel must be EMAIL, SMS, WHATSAPP or LETTER")
	}
	if channel == ChannelEmail && strings.TrimSpace(subject) == "" {
		v.Add("subject", "Email templates need a subject")
	}
	if strings.TrimSpace(body) == "" {
		v.Add("body", "Body is required")
	}
	if _, err := parse("subject", subject); err != nil {
		v.Add("subject", err.Error())
	}
	if _, err := parse("body", body); err != nil {
		v.Add("body", err.Error())
	}
	if err := v.Err(); err != nil {
		return err
	}

	t.Name = name
	t.Channel = channel
	t.Subject = subject
	t.Body = body
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetActive toggles the template
func (t *Template) SetActive(active bool) {
	t.Active = active
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Render executes subject and body with data
func (t *Template) Render(data MessageData) (subject, body string, err error) {
	if subject, err = execute("subject", t.Subject, data); err != nil {
		return "", "", err
	}
	if body, err = execute("body", t.Body, data); err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func parse(name, text string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Parse(text)
}

func execute(name, text string, data MessageData) (string, error) {
	tmpl, err := parse(name, text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
