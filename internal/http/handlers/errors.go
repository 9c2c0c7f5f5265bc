// Package handlers implements the relay's HTTP endpoints.
//
// This file holds the stable, machine-readable error codes carried in the
// ErrorResponse envelope. Codes are lowercase snake_case; clients branch on
// the code, never on the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "forbidden",
//	  "message": "forbidden"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeDeliveryFailed = "delivery_failed"
)
