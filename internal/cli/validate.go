package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/bitemp/internal/compiler"
	"github.com/roach88/bitemp/internal/schema"
)

// ValidationIssue is one problem found in a schema.
type ValidationIssue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Pattern  string `json:"pattern,omitempty"`
	NowValue int64  `json:"now_value,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Fields []FieldInfo       `json:"fields,omitempty"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-path>",
		Short: "Validate a field schema",
		Long: `Validate a CUE field schema, a single file or a package directory.

Every field declaration is checked and all problems are reported, not only
the first. On success the declared fields are listed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	value, count, err := LoadCUE(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", count, path)

	fields, issues := validateAll(value, formatter)
	if len(issues) > 0 {
		return outputValidationErrors(formatter, issues)
	}
	return outputValidateSuccess(formatter, fields)
}

// validateAll compiles every field declaration and collects all issues.
func validateAll(value cue.Value, formatter *OutputFormatter) ([]FieldInfo, []ValidationIssue) {
	fieldsVal := value.LookupPath(cue.ParsePath("field"))
	if !fieldsVal.Exists() {
		return nil, []ValidationIssue{{
			Field:   "field",
			Code:    ErrCodeNoFields,
			Message: "no field declarations found",
		}}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, []ValidationIssue{issueFromError("field", err)}
	}

	var (
		mappers []schema.Mapper
		issues  []ValidationIssue
	)
	for iter.Next() {
		name := iter.Label()
		formatter.VerboseLog("Validating field: %s", name)

		m, err := compiler.CompileField(iter.Value())
		if err != nil {
			issues = append(issues, issueFromError(name, err))
			continue
		}
		mappers = append(mappers, m)
	}
	if len(issues) > 0 {
		return nil, issues
	}

	sch, err := schema.New(mappers...)
	if err != nil {
		return nil, []ValidationIssue{issueFromError("field", err)}
	}
	if len(sch.Fields()) == 0 {
		return nil, []ValidationIssue{{Field: "field", Code: ErrCodeNoFields, Message: "at least one field is required"}}
	}

	fields := make([]FieldInfo, 0, len(sch.Fields()))
	for _, name := range sch.Fields() {
		m, _ := sch.Mapper(name)
		info := FieldInfo{Name: name, Type: m.Type()}
		if bm, ok := m.(*schema.BitemporalMapper); ok {
			info.Pattern = bm.Pattern
			info.NowValue = bm.NowValue
		}
		fields = append(fields, info)
	}
	return fields, nil
}

// issueFromError converts a compile error to a validation issue.
func issueFromError(field string, err error) ValidationIssue {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return ValidationIssue{
			Field:   field,
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Line:    lineOf(compileErr.Pos),
		}
	}
	return ValidationIssue{Field: field, Code: ErrCodeGeneric, Message: err.Error()}
}

// lineOf extracts the line number from a CUE position.
func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, fields []FieldInfo) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Fields: fields})
	}

	for _, f := range fields {
		if f.Pattern != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s (pattern %q)\n", f.Name, f.Type, f.Pattern)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", f.Name, f.Type)
		}
	}
	fmt.Fprintln(formatter.Writer, "✓ Schema valid")
	return nil
}

// outputLoadError outputs a schema loading error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Error()
	}
	_ = formatter.Error(code, message, nil)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, message)
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: issues}
		if err := formatter.Failure(issues[0].Code, issues[0].Message, result); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", issue.Code, issue.Field, issue.Message)
	}

	return exitErr
}
