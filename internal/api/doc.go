// Package api contains the HTTP handlers, request/response models and
// error mapping for the accounts API. Handlers delegate all policy to the
// account service and translate its errors into the uniform response
// envelope.
package api
