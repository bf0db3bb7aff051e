package skeleton

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coderoad/coderoad-cli/pkg/commits"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/schema"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// DefaultMaxFileSize is the largest skeleton file Load accepts (1MB).
const DefaultMaxFileSize = 1024 * 1024

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// Document is a loaded skeleton together with its generic decoded form,
// which is what the schema check validates.
type Document struct {
	Skeleton *tutorial.Skeleton
	Raw      any
	Source   string
	Lines    []string
}

// Loader reads skeleton files.
type Loader struct {
	maxFileSize int64
	logger      *slog.Logger
}

// NewLoader creates a loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
}

// WithMaxFileSize sets the maximum file size Load accepts.
func (l *Loader) WithMaxFileSize(size int64) *Loader {
	l.maxFileSize = size
	return l
}

// WithLogger sets the logger.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Load reads and decodes the skeleton at path.
func (l *Loader) Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ioError(path, fmt.Sprintf("failed to stat skeleton file: %v", err))
	}
	if info.Size() > l.maxFileSize {
		return nil, ioError(path, fmt.Sprintf("skeleton file too large: %d bytes (max %d bytes)", info.Size(), l.maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(path, fmt.Sprintf("failed to read skeleton file: %v", err))
	}

	return l.LoadBytes(data, path)
}

// LoadBytes decodes skeleton YAML. source names the document in diagnostics.
// Errors are *errors.ErrorList values holding one fatal entry.
func (l *Loader) LoadBytes(data []byte, source string) (*Document, error) {
	lines := splitLines(data)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, syntaxError(err, source, lines)
	}
	if len(root.Content) == 0 {
		return nil, structuralError("skeleton is empty", tutorial.Location{File: source})
	}

	var skel tutorial.Skeleton
	if err := root.Decode(&skel); err != nil {
		return nil, syntaxError(err, source, lines)
	}

	var raw any
	if err := root.Decode(&raw); err != nil {
		return nil, syntaxError(err, source, lines)
	}
	jsonRaw, err := schema.ToJSONValue(raw)
	if err != nil {
		return nil, structuralError(fmt.Sprintf("skeleton is not a JSON-compatible document: %v", err), tutorial.Location{File: source})
	}

	attachLocations(&skel, root.Content[0], source)
	normalizeIDs(&skel)

	l.logger.Debug("Loaded skeleton",
		"source", source,
		"id", skel.ID,
		"version", skel.Version,
		"levels", len(skel.Levels),
	)

	return &Document{Skeleton: &skel, Raw: jsonRaw, Source: source, Lines: lines}, nil
}

// attachLocations records the line of every level and step mapping.
func attachLocations(skel *tutorial.Skeleton, doc *yaml.Node, source string) {
	levels := mappingValue(doc, "levels")
	if levels == nil || levels.Kind != yaml.SequenceNode {
		return
	}

	for i, levelNode := range levels.Content {
		if i >= len(skel.Levels) {
			break
		}
		skel.Levels[i].Location = tutorial.Location{File: source, Line: levelNode.Line, Column: levelNode.Column}

		steps := mappingValue(levelNode, "steps")
		if steps == nil || steps.Kind != yaml.SequenceNode {
			continue
		}
		for j, stepNode := range steps.Content {
			if j >= len(skel.Levels[i].Steps) {
				break
			}
			skel.Levels[i].Steps[j].Location = tutorial.Location{File: source, Line: stepNode.Line, Column: stepNode.Column}
		}
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// normalizeIDs rewrites legacy ids to canonical ones. Ids that do not parse
// are left untouched for Check to report.
func normalizeIDs(skel *tutorial.Skeleton) {
	for i := range skel.Levels {
		lvl := &skel.Levels[i]
		if id, err := commits.NormalizeID(lvl.ID); err == nil {
			lvl.ID = id
		}
		for j := range lvl.Steps {
			if id, err := commits.NormalizeID(lvl.Steps[j].ID); err == nil {
				lvl.Steps[j].ID = id
			}
		}
	}
}

func syntaxError(err error, source string, lines []string) error {
	loc := tutorial.Location{File: source}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		err = errors.New(typeErr.Errors[0])
	}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		loc.Line, _ = strconv.Atoi(m[1])
	}

	list := buildErrors.NewErrorList()
	list.Add(buildErrors.WithContext(&buildErrors.Error{
		Type:     buildErrors.ErrorTypeSyntax,
		Severity: buildErrors.SeverityError,
		Message:  fmt.Sprintf("invalid skeleton YAML: %v", err),
		Location: loc,
	}, lines, 2))
	return list
}

func structuralError(message string, loc tutorial.Location) error {
	list := buildErrors.NewErrorList()
	list.AddError(buildErrors.ErrorTypeStructural, message, loc)
	return list
}

func ioError(path, message string) error {
	list := buildErrors.NewErrorList()
	list.AddError(buildErrors.ErrorTypeIO, message, tutorial.Location{File: path})
	return list
}

func splitLines(data []byte) []string {
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}
