// Package audit implements the post-generation hook. After the template has
// been rendered it records the answers that produced the project in three
// places: an append-only JSON-lines log (copier_log.txt), a pretty-printed
// snapshot of the latest event (template-metadata.json), and a human-readable
// CHANGELOG.md line. Writing the log is best effort; the snapshot and the
// changelog are required.
package audit
