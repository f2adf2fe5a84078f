package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/mhafizyusof/speedment/internal/compiler"
	"github.com/mhafizyusof/speedment/internal/ir"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading specs from a directory.
type LoadResult struct {
	Entities  []ir.EntitySpec
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// Catalog indexes the loaded entities by name.
func (r *LoadResult) Catalog() ir.Catalog {
	return ir.NewCatalog(r.Entities...)
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads and compiles the CUE entity schemas in a directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
//
// A nil result means nothing could be loaded at all. Schema rules
// (duplicate tables, reserved names) are checked by compiler.Validate, not
// here.
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	value, err := compiler.BuildDir(dir)
	if err != nil {
		return nil, []error{convertCompileError(err, ErrCodeBuildFailed, "building CUE value")}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	var errs []error
	entitiesVal := value.LookupPath(cue.ParsePath("entity"))
	if entitiesVal.Exists() {
		iter, iterErr := entitiesVal.Fields()
		if iterErr != nil {
			return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating entities: %v", iterErr)}}
		}
		for iter.Next() {
			spec, compileErr := compiler.CompileEntity(iter.Value())
			if compileErr != nil {
				errs = append(errs, convertCompileError(compileErr, ErrCodeGeneric, "entity."+iter.Label()))
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}
			result.Entities = append(result.Entities, *spec)
		}
	}

	if len(result.Entities) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoEntities, Message: fmt.Sprintf("no entities found in %s", dir)})
	}

	return result, errs
}

// LoadCatalog loads dir fail-fast and validates the result. Every failure
// is an ExitError with ExitCommandError.
func LoadCatalog(dir string) (ir.Catalog, error) {
	result, errs := LoadSpecs(dir, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, "failed to load specs", errs[0])
	}

	catalog := result.Catalog()
	if verrs := compiler.Validate(catalog); len(verrs) > 0 {
		return nil, WrapExitError(ExitCommandError, "invalid specs", &compiler.SchemaError{Errors: verrs})
	}
	return catalog, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with
// position info. Errors without a field fall back to code.
func convertCompileError(err error, code, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		c := MapFieldToErrorCode(compileErr.Field)
		if c == ErrCodeGeneric {
			c = code
		}
		return &LoadError{
			Code:    c,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // Scenario load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeNoEntities  = "E008" // No entity declarations

	// Entity schema errors share the compiler's validation codes
	ErrCodeEntityTable   = compiler.ErrEntityNoTable
	ErrCodeEntityColumns = compiler.ErrEntityNoColumns
	ErrCodeInvalidType   = compiler.ErrInvalidFieldType

	// Stream errors
	ErrCodeUnknownEntity = "E201" // Scenario entity not in the catalog
	ErrCodeDialect       = "E202" // Unknown dialect or unusable DSN
	ErrCodePipeline      = "E203" // Pipeline step could not be built
	ErrCodeNotPushable   = "E204" // Steps evaluated in-process
	ErrCodeExecution     = "E205" // Query execution failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "table":
		return ErrCodeEntityTable
	case field == "columns":
		return ErrCodeEntityColumns
	case field == "type", strings.HasSuffix(field, ".type"):
		return ErrCodeInvalidType
	default:
		return ErrCodeGeneric
	}
}
