// Package paths resolves where uimpit keeps its own files.
//
// The tool's settings live under the XDG config home and backups of edited
// config files under the XDG data home, both resolved through
// github.com/adrg/xdg:
//
//	paths.SettingsDir() // ~/.config/uimpit
//	paths.BackupDir()   // ~/.local/share/uimpit/backups
//
// The game config itself and its language directory are not XDG paths. They
// default to config.json and lang/ in the working directory, matching how the
// mod ships them next to the server binary.
package paths
