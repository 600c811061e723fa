package domain

const (
	// DefaultCompiler is the shader compiler used when none is configured.
	DefaultCompiler = "sokol-shdc"

	// DefaultShaderFormat is the output format tag passed to the shader compiler.
	DefaultShaderFormat = "sokol_odin"
)

// DefaultShaderLangs are the backend identifiers passed to the shader compiler.
func DefaultShaderLangs() []string {
	return []string{"hlsl5", "wgsl"}
}

// DefaultPipeline returns the pipeline used when no kiln.yaml exists:
// compile game/shader.glsl, build the game package with debug info and start game.exe.
func DefaultPipeline(root string) *Pipeline {
	return &Pipeline{
		Root:     root,
		Compiler: DefaultCompiler,
		Shaders: []ShaderTarget{
			{
				Source:           "game/shader.glsl",
				Output:           "game/shader.odin",
				Record:           "game/shader.timestamp",
				Langs:            DefaultShaderLangs(),
				Format:           DefaultShaderFormat,
				SaveIntermediate: true,
			},
		},
		Build: &Command{
			Args: []string{"odin", "build", "game", "-debug"},
			Dir:  root,
		},
		Launch: &Command{
			Args: []string{"game.exe"},
			Dir:  root,
		},
	}
}
