package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bitemp/internal/compiler"
	"github.com/roach88/bitemp/internal/schema"
)

// LoadResult contains a compiled schema and the CUE it came from.
type LoadResult struct {
	Schema    *schema.Schema
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during schema loading.
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

// LoadCUE builds the CUE value at path, which is either a single .cue file
// or a directory holding one CUE package.
func LoadCUE(path string) (cue.Value, int, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema path not found: %s", path)}
	}
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema path: %v", err)}
	}

	ctx := cuecontext.New()

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
		}
		value := ctx.CompileBytes(data, cue.Filename(path))
		if err := value.Err(); err != nil {
			return cue.Value{}, 1, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
		}
		return value, 1, nil
	}

	cueFiles, err := FindCUEFiles(path)
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return cue.Value{}, len(cueFiles), &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, len(cueFiles), &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, len(cueFiles), &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, len(cueFiles), nil
}

// LoadSchema loads and compiles the field schema at path.
func LoadSchema(path string) (*LoadResult, error) {
	value, count, err := LoadCUE(path)
	if err != nil {
		return nil, err
	}

	sch, err := compiler.CompileSchema(value)
	if err != nil {
		return nil, convertCompileError(err, path)
	}

	return &LoadResult{
		Schema:    sch,
		CUEValue:  value,
		FileCount: count,
	}, nil
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

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // Store write error

	// Schema validation errors
	ErrCodeNoFields         = "E101" // No field struct declared
	ErrCodeFieldType        = "E102" // Missing or unsupported mapper type
	ErrCodeFieldPattern     = "E103" // Invalid time pattern
	ErrCodeFieldNowValue    = "E104" // Invalid now_value
	ErrCodeUnknownAttribute = "E105" // Unknown field attribute
	ErrCodeCUESyntax        = "E106" // CUE evaluation error

	// Query errors
	ErrCodeInvalidQuery = "E201" // Condition rejected before planning
	ErrCodeSearchFailed = "E202" // Store search failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
// Any other field name is the name of a declared field carrying an unknown
// attribute.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "field":
		return ErrCodeNoFields
	case "type":
		return ErrCodeFieldType
	case "pattern":
		return ErrCodeFieldPattern
	case "now_value":
		return ErrCodeFieldNowValue
	case "cue":
		return ErrCodeCUESyntax
	case "":
		return ErrCodeGeneric
	default:
		return ErrCodeUnknownAttribute
	}
}
