package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/spendlens/spendlens/internal/analytics"
)

// SummarizeSpending asks Gemini for a short plain-language read of the
// owner's category breakdown over the insight window.
func (c *Client) SummarizeSpending(ctx context.Context, breakdown []analytics.CategoryBreakdown) (string, error) {
	if len(breakdown) == 0 {
		return "", fmt.Errorf("SummarizeSpending: empty breakdown: %w", ErrSummaryUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("SummarizeSpending: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildSummaryPrompt(breakdown)}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("SummarizeSpending: generate content: %w", err)
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("SummarizeSpending: empty response from model: %w", ErrSummaryUnavailable)
	}
	return summary, nil
}

// buildSummaryPrompt lays the breakdown out one category per line so
// the model sees exactly the numbers the API already returned.
func buildSummaryPrompt(breakdown []analytics.CategoryBreakdown) string {
	var b strings.Builder
	b.WriteString("You are a friendly personal finance assistant.\n\n")
	b.WriteString("A user spent the following over the last 30 days, by category:\n\n")

	total := decimal.Zero
	for _, entry := range breakdown {
		fmt.Fprintf(&b, "- %s: %s (%d%%)\n", entry.Name, entry.Amount.StringFixed(2), entry.Percentage)
		total = total.Add(entry.Amount)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", total.StringFixed(2))

	b.WriteString("Write a short summary (3-4 sentences) of their spending habits in plain language.\n")
	b.WriteString("Mention the biggest category and one concrete, encouraging suggestion.\n")
	b.WriteString("Do not use Markdown, bullet points or headings; answer with plain sentences only.\n")
	return b.String()
}
