package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Plan is one immutable task description loaded from a markdown file.
type Plan struct {
	Path     string
	TaskName string
	// Branch overrides the generated branch name when the plan's front
	// matter asks for one.
	Branch string
	Text   string
}

// frontMatter is the optional YAML block at the top of a plan file.
type frontMatter struct {
	Title  string `yaml:"title"`
	Branch string `yaml:"branch"`
}

// Load reads a plan file. The task name defaults to the file name
// without its .md suffix; a front-matter title overrides it.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %s: %w", path, err)
	}

	p := &Plan{
		Path:     path,
		TaskName: TaskName(path),
		Text:     string(data),
	}

	if fm, ok := parseFrontMatter(p.Text); ok {
		if fm.Title != "" {
			p.TaskName = slugify(fm.Title)
		}
		p.Branch = fm.Branch
	}

	return p, nil
}

// TaskName derives the default task name from a plan path.
func TaskName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

// parseFrontMatter reads the leading `---` block when one exists. Plans
// are free-form markdown, so anything unparseable is simply not front
// matter.
func parseFrontMatter(text string) (frontMatter, bool) {
	var fm frontMatter
	if !strings.HasPrefix(text, "---\n") {
		return fm, false
	}

	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, false
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, false
	}
	return fm, true
}

func slugify(token string) string {
	token = strings.ToLower(token)
	token = nonAlphanumeric.ReplaceAllString(token, "-")
	token = strings.Trim(token, "-")
	if token == "" {
		return "unknown"
	}
	return token
}
