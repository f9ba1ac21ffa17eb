// Package core orchestrates the upload pipeline: detect the file type,
// parse, validate headers against the uploader schema, map rows to
// events, and either return a preview or deliver to the data-platform
// webhook. The package has no HTTP dependencies and can be driven by any
// frontend.
package core
