// Package dto provides request and response types for the catalog API.
// These types are used by huma to generate OpenAPI documentation and perform validation.
package dto

// PageQuery carries the raw page parameters. They stay strings so that
// missing or non-numeric values fall back to the defaults instead of failing.
type PageQuery struct {
	Page  string `query:"page" doc:"1-based page number (default 1)"`
	Limit string `query:"limit" doc:"Rows per page (default 10, capped by the server)"`
}

// IDParam is a path parameter for resource IDs.
type IDParam struct {
	ID string `path:"id" doc:"Resource identifier"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}
