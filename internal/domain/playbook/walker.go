// Package playbook locates tasks inside Ansible YAML documents. It is used
// only to find where modules are; it never renders YAML back to text.
package playbook

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

// TaskListKeys are play keys whose values are task lists.
var TaskListKeys = map[string]bool{
	"tasks":      true,
	"handlers":   true,
	"pre_tasks":  true,
	"post_tasks": true,
}

// BlockKeys are task keys whose values are nested task lists.
var BlockKeys = map[string]bool{
	"block":  true,
	"rescue": true,
	"always": true,
}

var playKeys = map[string]bool{
	"hosts":           true,
	"roles":           true,
	"import_playbook": true,
	"gather_facts":    true,
	"vars_files":      true,
}

// Key is one key of a task mapping with its source position (1-based).
type Key struct {
	Name   string
	Line   int
	Column int
}

// Task is a task mapping found in a document, in document order.
type Task struct {
	Path  string
	Index int
	Line  int
	Keys  []Key
}

// Parse decodes every document of a YAML stream. Empty documents are dropped.
// Failures are returned as *domain.YAMLParseError.
func Parse(content string) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(content))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.YAMLParseError{Line: lineFromError(err), Err: err}
		}
		if len(doc.Content) == 0 {
			continue
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

// Tasks walks all documents and returns every task mapping in document order.
// A top-level sequence is treated as a list of plays when its items carry
// play keys, and as a task file otherwise.
func Tasks(docs []*yaml.Node) []Task {
	w := &walker{}
	for d, doc := range docs {
		root := doc
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = root.Content[0]
		}
		prefix := fmt.Sprintf("doc[%d]", d)
		switch root.Kind {
		case yaml.SequenceNode:
			w.topLevel(root, prefix)
		case yaml.MappingNode:
			w.play(root, prefix)
		}
	}
	return w.tasks
}

// HasTaskShape reports whether any document contains something task-like.
func HasTaskShape(docs []*yaml.Node) bool {
	return len(Tasks(docs)) > 0
}

type walker struct {
	tasks []Task
}

func (w *walker) topLevel(seq *yaml.Node, prefix string) {
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		path := fmt.Sprintf("%s[%d]", prefix, i)
		if isPlay(item) {
			w.play(item, path)
		} else {
			w.task(item, path)
		}
	}
}

func (w *walker) play(m *yaml.Node, path string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if TaskListKeys[key.Value] && val.Kind == yaml.SequenceNode {
			w.taskList(val, path+"."+key.Value)
		}
	}
}

func (w *walker) taskList(seq *yaml.Node, path string) {
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		w.task(item, fmt.Sprintf("%s[%d]", path, i))
	}
}

func (w *walker) task(m *yaml.Node, path string) {
	t := Task{Path: path, Index: len(w.tasks), Line: m.Line}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		t.Keys = append(t.Keys, Key{Name: k.Value, Line: k.Line, Column: k.Column})
	}
	w.tasks = append(w.tasks, t)

	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if BlockKeys[key.Value] && val.Kind == yaml.SequenceNode {
			w.taskList(val, path+"."+key.Value)
		}
	}
}

func isPlay(m *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		name := m.Content[i].Value
		if playKeys[name] || TaskListKeys[name] {
			return true
		}
	}
	return false
}

var errLineRe = regexp.MustCompile(`line (\d+)`)

func lineFromError(err error) int {
	m := errLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
