package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// BuildDir loads the CUE package in dir and builds it into one value.
func BuildDir(dir string) (cue.Value, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return cue.Value{}, fmt.Errorf("specs directory: %w", err)
	}
	if !info.IsDir() {
		return cue.Value{}, fmt.Errorf("not a directory: %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	// Err only reports a failing root; conflicts deeper in are found by Validate
	if err := value.Validate(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}

// LoadCatalog compiles and validates every entity in dir. It fails on the
// first compile error and reports all validation errors together.
func LoadCatalog(dir string) (ir.Catalog, error) {
	value, err := BuildDir(dir)
	if err != nil {
		return nil, err
	}

	specs, err := CompileEntities(value)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no entities found in %s", dir)
	}

	catalog := ir.NewCatalog(specs...)
	if errs := Validate(catalog); len(errs) > 0 {
		return nil, &SchemaError{Errors: errs}
	}
	return catalog, nil
}

// SchemaError aggregates the validation errors of a catalog.
type SchemaError struct {
	Errors []ValidationError
}

func (e *SchemaError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}
