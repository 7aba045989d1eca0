// Package api contains the HTTP handlers, request/response models, and
// error mapping for the REST surface. Handlers translate HTTP concerns into
// service calls; all business rules live in the service layer.
package api
