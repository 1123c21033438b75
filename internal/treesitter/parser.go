package treesitter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// LanguagePython is the only language the analyzer understands today
const LanguagePython = "python"

// LanguageParser wraps tree-sitter parser with language-specific grammar
// IMPORTANT: Always call Close() to prevent memory leaks (CGO requirement)
// A LanguageParser must not be shared between goroutines.
type LanguageParser struct {
	parser   *sitter.Parser
	langName string
}

// NewLanguageParser creates a parser for the specified language
// Supported languages: python
// Returns error if language is unsupported
func NewLanguageParser(lang string) (*LanguageParser, error) {
	var language *sitter.Language
	switch lang {
	case LanguagePython:
		language = python.GetLanguage()
	default:
		return nil, serrors.ValidationErrorf("unsupported language: %s", lang)
	}

	parser := sitter.NewParser()
	if parser == nil {
		return nil, serrors.InternalError("failed to create tree-sitter parser")
	}
	parser.SetLanguage(language)

	return &LanguageParser{
		parser:   parser,
		langName: lang,
	}, nil
}

// Language returns the grammar name of the parser
func (lp *LanguageParser) Language() string {
	return lp.langName
}

// Close releases parser resources (REQUIRED - CGO memory management)
func (lp *LanguageParser) Close() {
	if lp.parser != nil {
		lp.parser.Close()
		lp.parser = nil
	}
}

// Parse parses source code and returns the syntax tree.
// A tree that contains syntax errors is closed and reported as a parse error
// located at the first erroneous node.
// Caller must call tree.Close() when done
func (lp *LanguageParser) Parse(ctx context.Context, code []byte) (*sitter.Tree, error) {
	if lp.parser == nil {
		return nil, serrors.InternalError("parser is closed")
	}

	tree, err := lp.parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse code: %w", err)
	}
	if tree == nil {
		return nil, serrors.InternalErrorf("failed to parse %d bytes of %s", len(code), lp.langName)
	}

	root := tree.RootNode()
	if root.HasError() {
		bad := FirstError(root)
		tree.Close()
		if bad == nil {
			return nil, serrors.ParseErrorAt(0, 0, "invalid syntax")
		}
		line, col := Position(bad)
		snippet := strings.TrimSpace(firstLine(NodeText(bad, code)))
		if bad.IsMissing() {
			return nil, serrors.ParseErrorAt(line, col, "invalid syntax at %d:%d: missing %s", line, col, bad.Type())
		}
		if snippet == "" {
			return nil, serrors.ParseErrorAt(line, col, "invalid syntax at %d:%d", line, col)
		}
		return nil, serrors.ParseErrorAt(line, col, "invalid syntax at %d:%d near %q", line, col, snippet)
	}

	// The grammar still accepts Python 2 print and exec statements
	if legacy := FirstOfType(root, legacyStatements...); legacy != nil {
		tree.Close()
		line, col := Position(legacy)
		return nil, serrors.ParseErrorAt(line, col, "invalid syntax at %d:%d: %s is not a statement in Python 3",
			line, col, strings.TrimSuffix(legacy.Type(), "_statement"))
	}

	return tree, nil
}

var legacyStatements = []string{"print_statement", "exec_statement"}

// DetectLanguage returns language identifier from file extension
func DetectLanguage(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))

	langMap := map[string]string{
		".py":  LanguagePython,
		".pyi": LanguagePython,
		".pyw": LanguagePython,
	}

	return langMap[ext]
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
