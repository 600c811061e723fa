package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
type Kilnfile struct {
	Version  string      `yaml:"version"`
	Root     string      `yaml:"root"`
	Compiler string      `yaml:"compiler"`
	Shaders  []ShaderDTO `yaml:"shaders"`
	Build    *CommandDTO `yaml:"build"`
	Launch   *CommandDTO `yaml:"launch"`
}

// ShaderDTO represents a shader entry in the configuration.
type ShaderDTO struct {
	Source           string   `yaml:"source"`
	Output           string   `yaml:"output"`
	Record           string   `yaml:"record"`
	Langs            []string `yaml:"langs"`
	Format           string   `yaml:"format"`
	SaveIntermediate *bool    `yaml:"saveIntermediate"`
}

// CommandDTO represents an external command in the configuration.
type CommandDTO struct {
	Cmd         []string          `yaml:"cmd"`
	WorkingDir  string            `yaml:"workingDir"`
	Environment map[string]string `yaml:"environment"`
}
