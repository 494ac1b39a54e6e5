package catalogue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/extcheck/internal/extension"
)

// Stubs reads the catalogue from a tree of PHP stub files in the
// phpstorm-stubs layout: every immediate sub-directory of the root is one
// extension, and the .php files below it declare that extension's symbols.
type Stubs struct {
	fs       afero.Fs
	dir      string
	core     *extension.CoreSet
	language *sitter.Language
	logger   *log.Logger
}

// NewStubs creates a catalogue backed by the stubs tree at dir.
func NewStubs(fs afero.Fs, dir string, core *extension.CoreSet, logger *log.Logger) *Stubs {
	return &Stubs{
		fs:       fs,
		dir:      dir,
		core:     core,
		language: sitter.NewLanguage(php.LanguagePHP()),
		logger:   logger,
	}
}

// Extensions parses every stub file. Extensions are ordered by directory name
// and symbols by first declaration.
func (s *Stubs) Extensions(ctx context.Context) ([]*extension.Extension, error) {
	if s.dir == "" {
		return nil, extension.NewCatalogueError(fmt.Errorf("no stubs directory configured"))
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("failed to read stubs directory: %w", err))
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(s.language); err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("failed to load PHP grammar: %w", err))
	}

	var extensions []entry
	for _, dirEntry := range entries {
		if !dirEntry.IsDir() || strings.HasPrefix(dirEntry.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		syms := newSymbolSet()
		extDir := filepath.Join(s.dir, dirEntry.Name())
		if err := s.parseDir(parser, extDir, syms); err != nil {
			return nil, extension.NewCatalogueError(err)
		}

		extensions = append(extensions, entry{
			Name:      dirEntry.Name(),
			Classes:   syms.classes.items,
			Constants: syms.constants.items,
			Functions: syms.functions.items,
		})
		s.logger.Debug("parsed stubs", "extension", dirEntry.Name(),
			"classes", len(syms.classes.items),
			"constants", len(syms.constants.items),
			"functions", len(syms.functions.items))
	}

	result, err := build(extensions, s.core)
	if err != nil {
		return nil, extension.NewCatalogueError(err)
	}

	s.logger.Debug("loaded catalogue", "source", SourceStubs, "dir", s.dir, "extensions", len(result))
	return result, nil
}

// parseDir collects the symbols of every .php file below dir.
func (s *Stubs) parseDir(parser *sitter.Parser, dir string, syms *symbolSet) error {
	return afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, extension.DefaultSuffix) {
			return nil
		}

		source, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return err
		}

		tree := parser.Parse(source, nil)
		if tree == nil {
			return fmt.Errorf("failed to parse stub file: %s", path)
		}
		defer tree.Close()

		collectDeclarations(tree.RootNode(), source, "", syms)
		return nil
	})
}

// collectDeclarations records the top-level declarations under node.
// Class members are not visited, so methods and class constants are skipped.
func collectDeclarations(node *sitter.Node, source []byte, namespace string, syms *symbolSet) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "namespace_definition":
			ns := ""
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				ns = nodeText(nameNode, source)
			}
			if body := child.ChildByFieldName("body"); body != nil {
				collectDeclarations(body, source, ns, syms)
			} else {
				// "namespace Foo;" applies to the statements that follow it.
				namespace = ns
			}

		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			if name := declaredName(child, source); name != "" {
				syms.classes.add(qualify(namespace, name))
			}

		case "function_definition":
			if name := declaredName(child, source); name != "" {
				syms.functions.add(qualify(namespace, name))
			}

		case "const_declaration":
			for j := uint(0); j < child.ChildCount(); j++ {
				element := child.Child(j)
				if element == nil || element.Kind() != "const_element" {
					continue
				}
				if nameNode := findChildByKind(element, "name"); nameNode != nil {
					syms.constants.add(qualify(namespace, nodeText(nameNode, source)))
				}
			}

		case "expression_statement":
			if name, ok := defineName(child, source); ok {
				syms.constants.add(name)
			}

		case "compound_statement":
			collectDeclarations(child, source, namespace, syms)
		}
	}
}

// defineName returns NAME for a statement of the form define('NAME', ...).
func defineName(stmt *sitter.Node, source []byte) (string, bool) {
	call := findChildByKind(stmt, "function_call_expression")
	if call == nil {
		return "", false
	}

	fn := call.ChildByFieldName("function")
	if fn == nil || !strings.EqualFold(strings.TrimPrefix(nodeText(fn, source), `\`), "define") {
		return "", false
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	first := findChildByKind(args, "argument")
	if first == nil {
		return "", false
	}

	name := strings.Trim(nodeText(first, source), `'"`)
	if name == "" {
		return "", false
	}
	return name, true
}

func declaredName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return nodeText(nameNode, source)
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByKind finds the first child node with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + `\` + name
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func (o *orderedSet) add(s string) {
	if s == "" || o.seen[s] {
		return
	}
	o.seen[s] = true
	o.items = append(o.items, s)
}

type symbolSet struct {
	classes   orderedSet
	constants orderedSet
	functions orderedSet
}

func newSymbolSet() *symbolSet {
	return &symbolSet{
		classes:   orderedSet{seen: map[string]bool{}},
		constants: orderedSet{seen: map[string]bool{}},
		functions: orderedSet{seen: map[string]bool{}},
	}
}
