// Package config manages uimpit's own settings, not the game config it
// edits.
//
// Settings are read with Viper from settings.yaml in the working directory
// or in ~/.config/uimpit, with UIMPIT_* environment variables taking
// precedence (UIMPIT_BACKUP_RETENTION for backup.retention):
//
//	config_path: config.json
//	lang_dir: lang
//	language: en
//	backup:
//	  enabled: true
//	  retention: 5
//
// Every loaded Settings value is validated. [Set] validates a single key
// before persisting the file atomically as YAML.
package config
