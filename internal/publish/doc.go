// Package publish uploads built route manifests to object storage so that
// deployed servers can fetch the current route table.
package publish
