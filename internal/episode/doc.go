// Package episode persists the campaign episode catalog and per-episode
// processing status in SQLite. Registration and stage advancement are
// transactional so the catalog never records an artifact that was not
// produced first.
package episode
