// Package docgen posts generated contracts to the document generation
// webhook and reads back the download link.
package docgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/pricing"
)

var ErrNoDownloadURL = errors.New("webhook não retornou link do documento")

type Client struct {
	HTTPClient *http.Client
	WebhookURL string
	Now        func() time.Time
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		WebhookURL: webhookURL,
		Now:        time.Now,
	}
}

func (c *Client) GenerateDocument(ctx context.Context, event entity.ContractGeneratedEvent) (string, error) {
	payload := GenerateRequest{
		ContractData: ContractData{
			ContractGeneratedEvent:       event,
			FormattedImplementationValue: pricing.FormatNumberAsCurrency(event.ImplementationValue),
			FormattedMonthlyValue:        pricing.FormatNumberAsCurrency(event.MonthlyPlanValue),
			FormattedContractTotal:       pricing.FormatNumberAsCurrency(event.TotalContractValue),
		},
		Timestamp: c.Now().UTC(),
		Source:    Source,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("falha request webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("[docgen] erro do webhook")
		return "", fmt.Errorf("webhook de geração: status %d", resp.StatusCode)
	}

	var out WebhookResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("erro decode resposta do webhook: %w", err)
	}
	if out.Status == "error" {
		msg := out.Error
		if msg == "" {
			msg = out.Message
		}
		if msg == "" {
			msg = "Erro desconhecido"
		}
		return "", errors.New(msg)
	}
	if out.DownloadURL == "" {
		return "", ErrNoDownloadURL
	}
	return out.DownloadURL, nil
}
