package query

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasktxt/internal/sorting"
	"github.com/nibzard/tasktxt/internal/utils"
)

// DocumentVersion is the current filter document version.
const DocumentVersion = 1

const schemaURL = "https://github.com/nibzard/tasktxt/schema/filter.schema.json"

//go:embed filter.schema.json
var filterSchema []byte

// ErrInvalidFilter is returned when a filter document cannot be decoded or
// does not match the schema.
var ErrInvalidFilter = errors.New("invalid filter")

// ValidationError is one schema violation.
type ValidationError struct {
	Path string // dotted path to the offending field
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every violation of one document.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidFilter) hold for validation failures.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidFilter
}

// Document is the versioned export form of a Filter.
type Document struct {
	Version           int      `json:"version" yaml:"version"`
	Priorities        []string `json:"priorities,omitempty" yaml:"priorities,omitempty"`
	PrioritiesNot     bool     `json:"prioritiesNot" yaml:"prioritiesNot"`
	Contexts          []string `json:"contexts,omitempty" yaml:"contexts,omitempty"`
	ContextsNot       bool     `json:"contextsNot" yaml:"contextsNot"`
	Projects          []string `json:"projects,omitempty" yaml:"projects,omitempty"`
	ProjectsNot       bool     `json:"projectsNot" yaml:"projectsNot"`
	Search            string   `json:"search,omitempty" yaml:"search,omitempty"`
	HideCompleted     bool     `json:"hideCompleted" yaml:"hideCompleted"`
	HideFuture        bool     `json:"hideFuture" yaml:"hideFuture"`
	HideHidden        bool     `json:"hideHidden" yaml:"hideHidden"`
	HideLists         bool     `json:"hideLists" yaml:"hideLists"`
	HideTags          bool     `json:"hideTags" yaml:"hideTags"`
	HideCreateDate    bool     `json:"hideCreateDate" yaml:"hideCreateDate"`
	CreateIsThreshold bool     `json:"createIsThreshold" yaml:"createIsThreshold"`
	Sort              []string `json:"sort,omitempty" yaml:"sort,omitempty"`
	Script            string   `json:"script,omitempty" yaml:"script,omitempty"`
	UseScript         bool     `json:"useScript" yaml:"useScript"`
	ScriptTestTask    string   `json:"scriptTestTask,omitempty" yaml:"scriptTestTask,omitempty"`
}

// Document returns the export form of f.
func (f *Filter) Document() Document {
	codes := make([]string, 0, len(f.Priorities))
	for _, p := range f.Priorities {
		codes = append(codes, p.Code())
	}
	return Document{
		Version:           DocumentVersion,
		Priorities:        codes,
		PrioritiesNot:     f.PrioritiesNot,
		Contexts:          f.Contexts,
		ContextsNot:       f.ContextsNot,
		Projects:          f.Projects,
		ProjectsNot:       f.ProjectsNot,
		Search:            f.Search,
		HideCompleted:     f.HideCompleted,
		HideFuture:        f.HideFuture,
		HideHidden:        f.HideHidden,
		HideLists:         f.HideLists,
		HideTags:          f.HideTags,
		HideCreateDate:    f.HideCreateDate,
		CreateIsThreshold: f.CreateIsThreshold,
		Sort:              f.Sort.Strings(),
		Script:            f.Script,
		UseScript:         f.UseScript,
		ScriptTestTask:    f.ScriptTestTask,
	}
}

// Filter converts the document back to a Filter.
func (d Document) Filter(logger *log.Logger) *Filter {
	return &Filter{
		Priorities:        ParsePriorities(d.Priorities),
		PrioritiesNot:     d.PrioritiesNot,
		Contexts:          d.Contexts,
		ContextsNot:       d.ContextsNot,
		Projects:          d.Projects,
		ProjectsNot:       d.ProjectsNot,
		Search:            d.Search,
		HideCompleted:     d.HideCompleted,
		HideFuture:        d.HideFuture,
		HideHidden:        d.HideHidden,
		HideLists:         d.HideLists,
		HideTags:          d.HideTags,
		HideCreateDate:    d.HideCreateDate,
		CreateIsThreshold: d.CreateIsThreshold,
		Sort:              sorting.ParseSpec(d.Sort, logger),
		Script:            d.Script,
		UseScript:         d.UseScript,
		ScriptTestTask:    d.ScriptTestTask,
	}
}

// MarshalJSON encodes f as an indented JSON document.
func MarshalJSON(f *Filter) ([]byte, error) {
	data, err := json.MarshalIndent(f.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	return append(data, '\n'), nil
}

// MarshalYAML encodes f as a YAML document.
func MarshalYAML(f *Filter) ([]byte, error) {
	data, err := yaml.Marshal(f.Document())
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	return data, nil
}

// UnmarshalJSON validates and decodes a JSON filter document.
func UnmarshalJSON(data []byte, logger *log.Logger) (*Filter, error) {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: parse json: %v", ErrInvalidFilter, err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidFilter, err)
	}
	return doc.Filter(logger), nil
}

// UnmarshalYAML validates and decodes a YAML filter document. The YAML is
// converted to JSON first so both formats share one schema.
func UnmarshalYAML(data []byte, logger *log.Logger) (*Filter, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidFilter, err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: convert yaml: %v", ErrInvalidFilter, err)
	}
	return UnmarshalJSON(asJSON, logger)
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(filterSchema)); err != nil {
		return nil, fmt.Errorf("load filter schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Validate checks a decoded JSON value against the filter schema.
func Validate(doc interface{}) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile filter schema: %w", err)
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	var errs ValidationErrors
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *ValidationErrors, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}
