package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendContractReady(to, name, title, downloadURL string) error {
	m, err := s.message(to, fmt.Sprintf("Seu contrato está pronto: %s", title), "contract_ready.html",
		ContractReadyData{Name: name, Title: title, DownloadURL: downloadURL})
	if err != nil {
		return err
	}
	return s.send(m)
}

func (s *EmailSender) SendContractFailed(to, name, title, reason string) error {
	m, err := s.message(to, fmt.Sprintf("Falha ao gerar contrato: %s", title), "contract_failed.html",
		ContractFailedData{Name: name, Title: title, Reason: reason})
	if err != nil {
		return err
	}
	return s.send(m)
}

func (s *EmailSender) message(to, subject, tmpl string, data any) (*gomail.Message, error) {
	body, err := renderTemplate(tmpl, data)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m, nil
}

func renderTemplate(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailSender) send(m *gomail.Message) error {
	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
