package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mspec/internal/domain"
)

// LoadAssembly reads and validates an assembly manifest
func LoadAssembly(path string) (*domain.Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading assembly %s: %w", path, err)
	}

	asm, err := ParseAssembly(data)
	if err != nil {
		return nil, fmt.Errorf("assembly %s: %w", path, err)
	}
	asm.Path = path
	return asm, nil
}

// ParseAssembly decodes a manifest, rejecting unknown fields
func ParseAssembly(data []byte) (*domain.Assembly, error) {
	var asm domain.Assembly
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&asm); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty manifest")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateAssembly(&asm); err != nil {
		return nil, fmt.Errorf("invalid assembly: %w", err)
	}
	return &asm, nil
}

func validateAssembly(asm *domain.Assembly) error {
	if asm.Name == "" {
		return fmt.Errorf("assembly name is required")
	}

	types := make(map[string]bool)
	for i, ctx := range asm.Contexts {
		if ctx.Name == "" {
			return fmt.Errorf("contexts[%d]: name is required", i)
		}
		fullName := ctx.FullName()
		if types[fullName] {
			return fmt.Errorf("contexts[%d]: duplicate context %s", i, fullName)
		}
		types[fullName] = true

		fields := make(map[string]bool)
		for j, spec := range ctx.Specs {
			if spec.Name == "" {
				return fmt.Errorf("%s specs[%d]: name is required", fullName, j)
			}
			if fields[spec.Name] {
				return fmt.Errorf("%s: duplicate spec %s", fullName, spec.Name)
			}
			fields[spec.Name] = true
			if spec.Run == "" {
				return fmt.Errorf("%s::%s: run is required", fullName, spec.Name)
			}
		}
	}
	return nil
}
