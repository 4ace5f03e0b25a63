package models

import "time"

// BackupVersion is written into every export and backup snapshot.
const BackupVersion = "2.0"

// Settings are the user preferences carried inside backups.
type Settings struct {
	Theme      string `json:"theme"`
	Language   string `json:"language"`
	AutoBackup bool   `json:"autoBackup"`
}

func DefaultSettings() Settings {
	return Settings{Theme: "light", Language: "es", AutoBackup: true}
}

// Backup is a full snapshot of the task set, used for both the periodic
// backup and manual export/import.
type Backup struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Tasks     []Task    `json:"tasks"`
	Settings  Settings  `json:"settings"`
}
