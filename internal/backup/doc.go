// Package backup keeps copies of a config file taken before uimpit
// overwrites it.
//
// Backups live under the XDG data home, one slot per config file:
//
//	~/.local/share/uimpit/backups/
//	└── config.json-1a2b3c4d/
//	    └── 20260123T100712/
//	        ├── manifest.json
//	        └── config.json
//
// The slot name is the file's base name plus a short hash of its absolute
// path, so two servers' config.json files never share a slot. Each manifest
// records the SHA-256 of the copy, which [Manager.Restore] verifies before
// writing anything back.
//
// [Manager.EnsureBackedUp] takes at most one backup per file per process, so
// an editor session that saves ten times leaves one backup of the file as it
// was before the session.
package backup
