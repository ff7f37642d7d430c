package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultSpecPath is the default folder where assembly discovery starts
	DefaultSpecPath = "."
	// DefaultAssemblyPattern matches assembly manifests relative to the spec path
	DefaultAssemblyPattern = "**/*.spec.yaml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".mspec"
	// DefaultShell runs specification and hook commands
	DefaultShell = "/bin/sh"
	// DefaultSpecTimeout bounds a single command, zero disables it
	DefaultSpecTimeout = 5 * time.Minute
	// DefaultDBPort is the MySQL port used when only a database name is configured
	DefaultDBPort = "3306"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for assemblies
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"testdata",
}
