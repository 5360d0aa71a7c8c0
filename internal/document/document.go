package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/criteria/internal/criteria"
)

// ErrInvalidDocument is wrapped by every structural error in a document.
var ErrInvalidDocument = errors.New("invalid criteria document")

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Node is the document form of a criteria node.
type Node struct {
	Column   string `yaml:"column,omitempty" json:"column,omitempty"`
	Value    Scalar `yaml:"value,omitempty" json:"value,omitempty"`
	Operator string `yaml:"operator,omitempty" json:"operator,omitempty"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Function string `yaml:"function,omitempty" json:"function,omitempty"`

	Elements  []Node `yaml:"elements,omitempty" json:"elements,omitempty"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`

	Sort    string `yaml:"sort,omitempty" json:"sort,omitempty"`
	Order   string `yaml:"order,omitempty" json:"order,omitempty"`
	Limit   int    `yaml:"limit,omitempty" json:"limit,omitempty"`
	Start   int    `yaml:"start,omitempty" json:"start,omitempty"`
	GroupBy string `yaml:"group_by,omitempty" json:"group_by,omitempty"`
}

// Scalar is a value written as any scalar (string, number or bool) and
// kept as its literal text.
type Scalar string

// UnmarshalYAML keeps the scalar's source text.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch {
	case text == "null":
		*s = ""
	case strings.HasPrefix(text, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case strings.HasPrefix(text, "{"), strings.HasPrefix(text, "["):
		return errors.New("value must be a scalar")
	default:
		*s = Scalar(text)
	}
	return nil
}

// Error describes a structural problem at a node path such as
// "root.elements[1]".
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap lets callers match any document error with ErrInvalidDocument.
func (e *Error) Unwrap() error {
	return ErrInvalidDocument
}

// Load reads a document, choosing the decoder by file extension:
// .yaml and .yml use YAML, .cue and .json use CUE.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue", ".json":
		return ParseCUE(data, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadCriteria loads a document and builds its criteria tree.
func LoadCriteria(path string) (criteria.Node, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Build converts the document into a criteria tree.
func (n *Node) Build() (criteria.Node, error) {
	return n.build("root")
}

func (n *Node) build(path string) (criteria.Node, error) {
	hasColumn := n.Column != ""
	hasElements := len(n.Elements) > 0

	switch {
	case hasColumn && hasElements:
		return nil, &Error{Path: path, Message: "column and elements are mutually exclusive"}
	case !hasColumn && !hasElements:
		return nil, &Error{Path: path, Message: "one of column or elements is required"}
	case hasElements && (n.Value != "" || n.Operator != "" || n.Prefix != "" || n.Function != ""):
		return nil, &Error{Path: path, Message: "value, operator, prefix and function apply to predicates only"}
	}

	if err := n.checkModifiers(path); err != nil {
		return nil, err
	}

	if hasColumn {
		p := criteria.NewPredicate(n.Column, string(n.Value), n.Operator).
			WithPrefix(n.Prefix).
			WithFunction(n.Function)
		n.applyModifiers(&p.Modifiers)
		return p, nil
	}

	c := criteria.NewComposite()
	for i := range n.Elements {
		el := &n.Elements[i]
		elPath := fmt.Sprintf("%s.elements[%d]", path, i)

		connector, err := parseCondition(el.Condition, elPath)
		if err != nil {
			return nil, err
		}
		child, err := el.build(elPath)
		if err != nil {
			return nil, err
		}
		c.Add(child, connector)
	}
	n.applyModifiers(&c.Modifiers)
	return c, nil
}

func (n *Node) checkModifiers(path string) error {
	if n.Limit < 0 {
		return &Error{Path: path, Message: fmt.Sprintf("limit must not be negative, got %d", n.Limit)}
	}
	if n.Start < 0 {
		return &Error{Path: path, Message: fmt.Sprintf("start must not be negative, got %d", n.Start)}
	}
	switch strings.ToUpper(n.Order) {
	case "", string(criteria.Asc), string(criteria.Desc):
		return nil
	default:
		return &Error{Path: path, Message: fmt.Sprintf("order must be ASC or DESC, got %q", n.Order)}
	}
}

func (n *Node) applyModifiers(m *criteria.Modifiers) {
	m.SetSort(n.Sort)
	m.SetOrder(n.Order)
	m.SetLimit(n.Limit)
	m.SetStart(n.Start)
	m.SetGroupBy(n.GroupBy)
}

// parseCondition is stricter than criteria.ParseConnector: a typo in a
// document is an error rather than a silent AND.
func parseCondition(s, path string) (criteria.Connector, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AND":
		return criteria.And, nil
	case "OR":
		return criteria.Or, nil
	default:
		return "", &Error{Path: path, Message: fmt.Sprintf("condition must be AND or OR, got %q", s)}
	}
}
