package ai

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// VisionClient отправляет текст и картинку в OpenAI. Используется для
// извлечения текста из кадра экрана.
type VisionClient struct {
	client *openai.Client
	model  string
}

// Ensure interface compliance
var _ Client = (*VisionClient)(nil)

func NewVisionClient(client *openai.Client, model string) *VisionClient {
	if model == "" {
		model = DefaultModel
	}
	return &VisionClient{client: client, model: model}
}

func (c *VisionClient) SendRequest(ctx context.Context, text string, imageURL string) (string, error) {
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: text,
							},
						},
						{
							OfInputImage: &responses.ResponseInputImageParam{
								Detail:   responses.ResponseInputImageDetailAuto,
								ImageURL: openai.String(imageURL),
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		return "", err
	}

	return resp.OutputText(), nil
}
