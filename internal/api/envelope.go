package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps handler bodies and errors in an Envelope.
// Register it in huma.Config.Transformers.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	if _, ok := v.(*Envelope); ok {
		return v, nil
	}

	return &Envelope{
		Success: strings.HasPrefix(status, "2"),
		Data:    v,
	}, nil
}
