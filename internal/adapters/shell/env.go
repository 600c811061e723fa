package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// goos selects the environment rules of the target platform.
var goos = runtime.GOOS

// defaultPathExt is used on Windows when the environment has no PATHEXT.
const defaultPathExt = ".com;.exe;.bat;.cmd"

// envKey returns the key environment entries are deduplicated by.
// Windows environment keys are case-insensitive.
func envKey(k string) string {
	if goos == "windows" {
		return strings.ToUpper(k)
	}
	return k
}

// resolveEnvironment merges the command environment over the system environment.
// An overridden entry keeps the key spelling of the system environment.
func resolveEnvironment(sysEnv []string, cmdEnv map[string]string) []string {
	names := make(map[string]string, len(sysEnv)+len(cmdEnv))
	values := make(map[string]string, len(sysEnv)+len(cmdEnv))
	order := make([]string, 0, len(sysEnv)+len(cmdEnv))

	set := func(k, v string) {
		key := envKey(k)
		if _, seen := values[key]; !seen {
			order = append(order, key)
			names[key] = k
		}
		values[key] = v
	}

	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		set(k, v)
	}
	for k, v := range cmdEnv {
		set(k, v)
	}

	result := make([]string, 0, len(order))
	for _, key := range order {
		result = append(result, names[key]+"="+values[key])
	}
	return result
}

// getenv returns the last value of key in env.
func getenv(env []string, key string) string {
	var value string
	for _, e := range env {
		k, v, ok := strings.Cut(e, "=")
		if ok && envKey(k) == envKey(key) {
			value = v
		}
	}
	return value
}

// resolveExecutable finds the program to run for name.
//
// Names containing a path separator are taken relative to dir. Bare names are
// searched in the PATH of env, then in dir.
func resolveExecutable(name, dir string, env []string) string {
	if filepath.IsAbs(name) {
		return name
	}

	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		if dir == "" {
			return name
		}
		return filepath.Join(dir, name)
	}

	if lp, err := lookPath(name, env); err == nil {
		return lp
	}

	if dir != "" {
		if local, err := findInDir(dir, name, env); err == nil {
			return local
		}
	}

	return name
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	path := getenv(env, "PATH")
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		if candidate, err := findInDir(dir, file, env); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

// findInDir looks for file in dir. On Windows the PATHEXT suffixes are tried
// when file has none of them.
func findInDir(dir, file string, env []string) (string, error) {
	candidate := filepath.Join(dir, file)

	exts := executableExts(env)
	if len(exts) == 0 || hasExt(file, exts) {
		if err := findExecutable(candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}

	for _, ext := range exts {
		if err := findExecutable(candidate + ext); err == nil {
			return candidate + ext, nil
		}
	}
	return "", exec.ErrNotFound
}

func executableExts(env []string) []string {
	if goos != "windows" {
		return nil
	}

	pathExt := getenv(env, "PATHEXT")
	if pathExt == "" {
		pathExt = defaultPathExt
	}

	var exts []string
	for _, e := range strings.Split(strings.ToLower(pathExt), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

func hasExt(file string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	m := d.Mode()
	if m.IsDir() {
		return os.ErrPermission
	}
	// Windows has no executable bit.
	if goos == "windows" || m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
