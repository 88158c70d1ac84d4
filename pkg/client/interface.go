package client

import "context"

// VisionClient sends one image plus an instruction prompt to a multimodal
// model and returns the raw text response. Callers must tolerate markdown
// code-fence wrapping and malformed JSON in the returned text.
type VisionClient interface {
	Classify(ctx context.Context, model, prompt, imageB64, mimeType string) (string, error)
}
