// Package http provides the HTTP transport layer for the dashboard
// API. Handlers decode and validate requests, delegate to the service
// layer, and render JSON responses; session pipeline logic lives in the
// services package.
package http
