package runner

import (
	"os"
	"os/exec"
	"path/filepath"
)

// defaultSearchPaths are the conventional install directories for the AFS
// client and server utilities, tried in order before falling back to PATH.
var defaultSearchPaths = []string{
	"/usr/bin",
	"/usr/local/bin",
	"/usr/sbin",
	"/usr/local/sbin",
	"/usr/afs/bin",
	"/usr/afsws/bin",
}

// FindCommand locates the named diagnostic binary. An explicit override
// takes precedence; otherwise the conventional directories are searched,
// then the execution environment's PATH.
func FindCommand(name, override string, searchPaths []string) (string, error) {
	if override != "" {
		if err := checkExecutable(override); err != nil {
			return "", &LaunchError{Path: override, Err: err}
		}
		return override, nil
	}
	if searchPaths == nil {
		searchPaths = defaultSearchPaths
	}
	for _, dir := range searchPaths {
		path := filepath.Join(dir, name)
		if checkExecutable(path) == nil {
			return path, nil
		}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &LaunchError{Path: name, Err: err}
	}
	return path, nil
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return os.ErrPermission
	}
	return nil
}
