package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docindex/ai"
	"github.com/tmc/langchaingo/llms"
)

// Describer implements ai.Describer using a multimodal chat model.
type Describer struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Describer = (*Describer)(nil)

func newDescriber(client llms.Model) *Describer {
	return &Describer{
		client: client,
		logger: slog.Default().With("component", "llm-describer"),
	}
}

// DescribeImage sends the image and prompt to the vision model and returns
// the raw text of the first choice.
func (d *Describer) DescribeImage(ctx context.Context, imageData []byte, mimeType, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.BinaryPart(mimeType, imageData),
			},
		},
	}

	response, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		d.logger.Error("failed to generate image description", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("model returned no choices")
	}
	return response.Choices[0].Content, nil
}
