// Package scenario runs feature files written in plain step phrases against
// the flight search page objects.
package scenario

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Feature is a parsed feature file.
type Feature struct {
	Name        string
	Description []string
	Tags        []string
	// Path is where the feature was read from.
	Path      string
	Scenarios []Scenario
}

// Scenario is a named sequence of steps. Background steps of the feature
// are already prepended.
type Scenario struct {
	Name  string
	Tags  []string
	Line  int
	Steps []Step
}

// Step is a single step line.
type Step struct {
	Keyword string
	Text    string
	Line    int
}

func (s Step) String() string {
	return s.Keyword + " " + s.Text
}

// ParseError reports a malformed feature file line.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

var stepKeywords = []string{"Given", "When", "Then", "And", "But", "*"}

// ParseFile reads a feature file from disk.
func ParseFile(path string) (*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// ParseFS reads a feature file from fsys.
func ParseFS(fsys fs.FS, path string) (*Feature, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads the subset of Gherkin used by the suite: a Feature with an
// optional description, an optional Background, Scenarios with steps, tags
// and comments.
func Parse(r io.Reader, path string) (*Feature, error) {
	var (
		feature    *Feature
		background []Step
		current    *Scenario
		inBack     bool
		tags       []string
	)
	fail := func(line int, format string, args ...any) error {
		return &ParseError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "@") {
			tags = append(tags, strings.Fields(line)...)
			continue
		}

		if name, ok := cutKeyword(line, "Feature:"); ok {
			if feature != nil {
				return nil, fail(lineNo, "second Feature")
			}
			feature = &Feature{Name: name, Tags: tags, Path: path}
			tags = nil
			continue
		}
		if feature == nil {
			return nil, fail(lineNo, "expected Feature, got %q", line)
		}

		if _, ok := cutKeyword(line, "Background:"); ok {
			if current != nil || inBack {
				return nil, fail(lineNo, "Background must come before the first Scenario")
			}
			inBack = true
			continue
		}

		if name, ok := cutKeyword(line, "Scenario:"); ok {
			if current != nil {
				feature.Scenarios = append(feature.Scenarios, *current)
			}
			inBack = false
			current = &Scenario{
				Name:  name,
				Tags:  tags,
				Line:  lineNo,
				Steps: append([]Step(nil), background...),
			}
			tags = nil
			continue
		}

		if keyword, text, ok := cutStep(line); ok {
			step := Step{Keyword: keyword, Text: text, Line: lineNo}
			switch {
			case current != nil:
				current.Steps = append(current.Steps, step)
			case inBack:
				background = append(background, step)
			default:
				return nil, fail(lineNo, "step outside of a Scenario")
			}
			continue
		}

		if current == nil && !inBack {
			feature.Description = append(feature.Description, line)
			continue
		}
		return nil, fail(lineNo, "unexpected line %q", line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if feature == nil {
		return nil, fail(lineNo, "no Feature found")
	}
	if current != nil {
		feature.Scenarios = append(feature.Scenarios, *current)
	}
	return feature, nil
}

func cutKeyword(line, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(line, keyword)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func cutStep(line string) (keyword, text string, ok bool) {
	for _, kw := range stepKeywords {
		rest, found := strings.CutPrefix(line, kw+" ")
		if found {
			return kw, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}
