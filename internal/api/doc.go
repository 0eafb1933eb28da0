// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the practice service, translating HTTP concerns to stroke judgement,
// review scheduling and backup operations.
package api
