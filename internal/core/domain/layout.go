package domain

import "path/filepath"

const (
	// KilnDirName is the name of the internal project directory.
	KilnDirName = ".kiln"

	// RecordsDirName is the name of the directory holding default build records.
	RecordsDirName = "records"

	// RecordExt is the file extension of build records.
	RecordExt = ".timestamp"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "kiln.yaml"

	// ConfigVersion is the only supported configuration schema version.
	ConfigVersion = "1"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultKilnPath returns the default root directory for kiln metadata.
func DefaultKilnPath() string {
	return KilnDirName
}

// DefaultRecordsPath returns the default directory for build records.
// It joins .kiln and records.
func DefaultRecordsPath() string {
	return filepath.Join(KilnDirName, RecordsDirName)
}
