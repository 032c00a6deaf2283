package pipeline

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/scholar-match/internal/ai"
)

// DecodeQAContext turns a free-form candidate context, as read from a config
// or request document, into the typed QA context.
func DecodeQAContext(raw map[string]any) (*ai.QAContext, error) {
	var candidate ai.QAContext

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &candidate,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create candidate context decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode candidate context: %w", err)
	}

	return &candidate, nil
}
