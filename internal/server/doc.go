// Package server implements the HTTP server for Image Drop: an
// authenticated single-image upload endpoint that stores files under
// generated names in a flat directory, and a public static file server
// for reading them back. It also provides the health and metrics
// endpoints and the lifecycle helpers used by tests and the binary.
package server
