// Package advisor generates the AI financial report through the Gemini API.
// Failures degrade to a human-readable message so the rest of the
// application keeps working without a key or with the API down.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fincontrol/internal/core"

	"github.com/google/generative-ai-go/genai"
	goption "google.golang.org/api/option"
)

// Messages returned instead of a report when the call cannot be made.
const (
	MsgMissingKey  = "Chave de API não configurada. Por favor, configure a API Key para usar a IA."
	MsgUnavailable = "Não foi possível gerar a análise no momento."
)

const defaultModel = "gemini-2.0-flash"

type Client struct {
	client *genai.Client
	model  string
}

// NewFromEnv creates a Gemini client from GEMINI_API_KEY and GEMINI_MODEL.
// A missing key is not an error; AnalyzeFinances reports it as text.
func NewFromEnv(ctx context.Context) (*Client, error) {
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	return New(ctx, key, model)
}

// New creates a Gemini client with an explicit key and model
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = defaultModel
	}
	c := &Client{model: model}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

// Close releases the underlying API connection
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

type transactionSummary struct {
	Type     core.TransactionType `json:"type"`
	Value    string               `json:"value"`
	Category string               `json:"category"`
	Name     string               `json:"name"`
	Profile  string               `json:"profile"`
	Priority string               `json:"priority,omitempty"`
}

type dataSummary struct {
	Profiles          []string             `json:"profiles"`
	TotalTransactions int                  `json:"totalTransactions"`
	Summary           []transactionSummary `json:"summary"`
}

// AnalyzeFinances produces a narrative report over the given ledger slice.
// The returned text is always displayable; errors are logged and folded
// into a fallback message.
func (c *Client) AnalyzeFinances(ctx context.Context, transactions []core.Transaction, profiles []core.Profile) (string, error) {
	if c.client == nil {
		return MsgMissingKey, nil
	}

	prompt, err := buildPrompt(transactions, profiles)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	resp, err := c.client.GenerativeModel(c.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		slog.ErrorContext(ctx, "Gemini call failed", "error", err, "model", c.model)
		return MsgUnavailable, nil
	}

	text := responseText(resp)
	if text == "" {
		slog.WarnContext(ctx, "Gemini returned an empty response", "model", c.model)
		return MsgUnavailable, nil
	}
	return text, nil
}

func buildPrompt(transactions []core.Transaction, profiles []core.Profile) (string, error) {
	summary := dataSummary{
		Profiles:          make([]string, 0, len(profiles)),
		TotalTransactions: len(transactions),
		Summary:           make([]transactionSummary, 0, len(transactions)),
	}
	for _, p := range profiles {
		summary.Profiles = append(summary.Profiles, p.Name)
	}
	for _, t := range transactions {
		ts := transactionSummary{
			Type:     t.Type,
			Value:    t.Value.String(),
			Category: t.Category,
			Name:     t.Name,
			Profile:  core.ProfileDisplayName(profiles, t.ProfileID),
		}
		if t.Obligation != nil {
			ts.Priority = string(t.Obligation.Priority)
		}
		summary.Summary = append(summary.Summary, ts)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Atue como um consultor financeiro sênior. Analise os seguintes dados financeiros (em formato JSON) e forneça um relatório conciso em HTML (sem markdown, apenas tags como <p>, <strong>, <ul>, <li>).\n\n")
	b.WriteString("Foque em:\n")
	b.WriteString("1. Saúde financeira geral.\n")
	b.WriteString("2. Alertas sobre dívidas de alta prioridade.\n")
	b.WriteString("3. Oportunidades de corte de gastos.\n")
	b.WriteString("4. Sugestão para alocação de recursos.\n\n")
	b.WriteString("Dados: ")
	b.Write(data)
	return b.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
