package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// Schema names understood by an Engine.
const (
	Tutorial = "tutorial"
	Skeleton = "skeleton"
)

//go:embed tutorial.schema.json
var tutorialSchema []byte

//go:embed skeleton.schema.json
var skeletonSchema []byte

// Diagnostic is one schema violation.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the outcome of validating a document.
type Result struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// ErrorList converts the diagnostics to schema errors of the given severity.
func (r Result) ErrorList(severity buildErrors.Severity, source string) *buildErrors.ErrorList {
	list := buildErrors.NewErrorList()
	for _, d := range r.Diagnostics {
		list.Add(&buildErrors.Error{
			Type:     buildErrors.ErrorTypeSchema,
			Severity: severity,
			Message:  fmt.Sprintf("%s: %s", d.Path, d.Message),
			Location: tutorial.Location{File: source},
		})
	}
	return list
}

// Engine validates JSON-compatible documents against named schemas.
type Engine interface {
	Validate(schemaName string, doc any) (bool, []Diagnostic, error)
}

// Gate runs tutorial and skeleton documents through an Engine.
type Gate struct {
	engine Engine
	logger *slog.Logger
}

// NewGate creates a gate backed by the embedded schemas.
func NewGate() (*Gate, error) {
	engine, err := NewJSONSchemaEngine()
	if err != nil {
		return nil, err
	}
	return NewGateWithEngine(engine), nil
}

// NewGateWithEngine creates a gate backed by engine.
func NewGateWithEngine(engine Engine) *Gate {
	return &Gate{engine: engine, logger: slog.Default()}
}

// SetLogger sets the logger.
func (g *Gate) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// ValidateTutorial checks a built tutorial against the tutorial schema.
func (g *Gate) ValidateTutorial(t *tutorial.Tutorial) (Result, error) {
	doc, err := ToJSONValue(t)
	if err != nil {
		return Result{}, err
	}
	return g.validate(Tutorial, doc)
}

// ValidateSkeleton checks a decoded skeleton document against the skeleton
// schema. doc must be JSON-compatible (see ToJSONValue).
func (g *Gate) ValidateSkeleton(doc any) (Result, error) {
	return g.validate(Skeleton, doc)
}

func (g *Gate) validate(name string, doc any) (Result, error) {
	valid, diags, err := g.engine.Validate(name, doc)
	if err != nil {
		return Result{}, fmt.Errorf("%s schema validation failed: %w", name, err)
	}

	if !valid {
		g.logger.Debug("Schema validation failed",
			"schema", name,
			"violations", len(diags),
		)
	}

	return Result{Valid: valid, Diagnostics: diags}, nil
}

// ToJSONValue converts v into the generic form produced by decoding JSON,
// with numbers kept as json.Number.
func ToJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}

// JSONSchemaEngine is the default Engine, backed by compiled draft-07 schemas.
type JSONSchemaEngine struct {
	schemas map[string]*jsonschema.Schema
}

// NewJSONSchemaEngine compiles the embedded schemas.
func NewJSONSchemaEngine() (*JSONSchemaEngine, error) {
	documents := map[string][]byte{
		Tutorial: tutorialSchema,
		Skeleton: skeletonSchema,
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	engine := &JSONSchemaEngine{schemas: make(map[string]*jsonschema.Schema, len(documents))}
	for name, doc := range documents {
		url := fmt.Sprintf("https://coderoad.io/schema/%s.json", name)
		if err := compiler.AddResource(url, bytes.NewReader(doc)); err != nil {
			return nil, fmt.Errorf("failed to load %s schema: %w", name, err)
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
		}
		engine.schemas[name] = compiled
	}

	return engine, nil
}

// Validate implements Engine.
func (e *JSONSchemaEngine) Validate(schemaName string, doc any) (bool, []Diagnostic, error) {
	compiled, ok := e.schemas[schemaName]
	if !ok {
		return false, nil, fmt.Errorf("unknown schema %q", schemaName)
	}

	err := compiled.Validate(doc)
	if err == nil {
		return true, nil, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return false, nil, err
	}

	diags := leafCauses(verr, nil)
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Path < diags[j].Path
	})
	return false, diags, nil
}

// leafCauses flattens the validation error tree to its most specific causes.
func leafCauses(verr *jsonschema.ValidationError, out []Diagnostic) []Diagnostic {
	if len(verr.Causes) == 0 {
		path := verr.InstanceLocation
		if path == "" {
			path = "/"
		}
		return append(out, Diagnostic{Path: path, Message: verr.Message})
	}
	for _, cause := range verr.Causes {
		out = leafCauses(cause, out)
	}
	return out
}
