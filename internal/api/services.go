package api

import (
	"github.com/listenupapp/catalog-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Assignment *service.AssignmentService
	Review     *service.ReviewService
}
