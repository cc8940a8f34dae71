package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"learnhub/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Mailer renders HTML templates and delivers them over SMTP.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
}

func New(host string, port int, username, password, from string) (*Mailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &Mailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		templates: templates,
	}, nil
}

func (m *Mailer) SendActivation(to, name, code string) error {
	return m.send(to, "Activate your account", "activation.tmpl", map[string]string{
		"Name": name,
		"Code": code,
	})
}

func (m *Mailer) SendOrderConfirmation(to, name string, course *model.Course, order *model.Order) error {
	return m.send(to, "Order confirmation", "order.tmpl", map[string]any{
		"Name":    name,
		"Course":  course.Name,
		"Price":   course.Price,
		"OrderID": order.ID.Hex(),
		"Date":    order.CreatedAt.Format("January 2, 2006"),
	})
}

func (m *Mailer) SendQuestionAnswered(to, name, courseName, sectionTitle string) error {
	return m.send(to, "Your question got a reply", "answer.tmpl", map[string]string{
		"Name":    name,
		"Course":  courseName,
		"Section": sectionTitle,
	})
}

func (m *Mailer) send(to, subject, templateName string, data any) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
