package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceStatFailed is returned when the modification time of a watched source cannot be read.
	ErrSourceStatFailed = zerr.New("failed to stat shader source")

	// ErrRecordCorrupt is returned when a build record exists but does not hold a timestamp.
	ErrRecordCorrupt = zerr.New("build record is corrupt")

	// ErrRecordReadFailed is returned when a build record exists but cannot be read.
	ErrRecordReadFailed = zerr.New("failed to read build record")

	// ErrRecordWriteFailed is returned when a build record cannot be written.
	ErrRecordWriteFailed = zerr.New("failed to write build record")

	// ErrRecordCreateFailed is returned when the directory holding a build record cannot be created.
	ErrRecordCreateFailed = zerr.New("failed to create build record directory")

	// ErrRecordRemoveFailed is returned when a build record cannot be removed.
	ErrRecordRemoveFailed = zerr.New("failed to remove build record")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedVersion is returned when the config file declares an unknown schema version.
	ErrUnsupportedVersion = zerr.New("unsupported config version")

	// ErrInvalidShader is returned when a shader entry is missing its source or output.
	ErrInvalidShader = zerr.New("shader requires both source and output")

	// ErrDuplicateRecord is returned when two shaders share one build record.
	ErrDuplicateRecord = zerr.New("build record is shared by more than one shader")

	// ErrDuplicateShader is returned when a shader source is listed more than once.
	ErrDuplicateShader = zerr.New("shader source is listed more than once")

	// ErrShaderCompileFailed is returned when the shader compiler exits with an error.
	ErrShaderCompileFailed = zerr.New("shader compilation failed")

	// ErrBuildFailed is returned when the build tool exits with an error.
	ErrBuildFailed = zerr.New("build failed")

	// ErrLaunchFailed is returned when the built executable cannot be started.
	ErrLaunchFailed = zerr.New("failed to launch executable")

	// ErrCommandFailed is returned when an external command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")
)
