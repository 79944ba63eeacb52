// Package capture stores named copies of component directories and
// restores them over the live configuration.
//
// Snapshots and containers share this machinery and differ only in their
// [Layout]: which components are captured, where copies live inside the
// capture directory, the metadata key listing them, and the suffix used
// for pre-restore backups.
//
// # Capture Layout
//
// A capture is a directory named after the capture:
//
//	<dir>/
//	└── {name}/
//	    ├── metadata.json
//	    └── [payload/]{component}/...
//
// metadata.json is written last. A capture directory without it is
// incomplete: it is listed, flagged by [Info.Complete], and refused by
// [Store.Restore] with errors.ErrIncomplete.
//
// # Creating Captures
//
// [Store.Create] copies components into a hidden staging directory
// (".{name}.staging-*") beside the final location and renames it into
// place once metadata is written. Staging directories are never listed.
//
// # Restoring Captures
//
// [Store.Restore] is driven by the metadata item list. Each listed
// component is copied to a "{live}.nixdeck-incoming" sibling first; the
// live directory is then renamed to "{live}{BackupSuffix}" (replacing any
// older backup) and the incoming copy renamed into place. Components not
// in the list are left alone.
package capture
