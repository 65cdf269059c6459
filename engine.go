package receiptpdf

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mailgun/raymond/v2"
)

// Engine evaluates handlebars templates against a RenderContext. Compiled
// templates are memoized by name for the process lifetime: a Compile call
// for an already-compiled name returns the cached value without reparsing,
// so template changes require a process restart or ClearCache. Helpers and
// partials must be registered before the first Compile.
//
// The cache is shared, read-mostly state; concurrent first-use races resolve
// to a single compiled value under the mutex.
type Engine struct {
	mu       sync.Mutex
	helpers  map[string]interface{}
	partials map[string]string
	cache    map[string]*raymond.Template
}

// NewEngine creates an empty template engine.
func NewEngine() *Engine {
	return &Engine{
		helpers:  make(map[string]interface{}),
		partials: make(map[string]string),
		cache:    make(map[string]*raymond.Template),
	}
}

// RegisterHelper adds a named helper available to all templates compiled
// afterwards.
func (e *Engine) RegisterHelper(name string, fn interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.helpers[name] = fn
}

// RegisterPartial adds a named partial template available to all templates
// compiled afterwards. Registering the same name again replaces the source
// for future compiles only; cached templates keep the partials they were
// compiled with.
func (e *Engine) RegisterPartial(name, source string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.partials[name] = source
}

// Compile parses source and memoizes the compiled template under name.
// Subsequent calls with the same name return the cached value without
// reparsing the new source. Unknown helper or partial references fail here,
// not at render time.
func (e *Engine) Compile(name, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.cache[name]; ok {
		return nil
	}

	if err := e.validateSource(source); err != nil {
		return fmt.Errorf("compiling %q: %w", name, err)
	}
	for partialName, partialSource := range e.partials {
		if err := e.validateSource(partialSource); err != nil {
			return fmt.Errorf("compiling %q: partial %q: %w", name, partialName, err)
		}
	}

	tpl, err := raymond.Parse(source)
	if err != nil {
		return fmt.Errorf("%w: parsing %q: %v", ErrTemplateEval, name, err)
	}
	tpl.RegisterHelpers(e.helpers)
	for partialName, partialSource := range e.partials {
		tpl.RegisterPartial(partialName, partialSource)
	}

	e.cache[name] = tpl
	return nil
}

// Render evaluates a compiled template against ctx.
// Returns ErrTemplateNotCompiled if name was never compiled and
// ErrTemplateEval for any evaluation failure. Helpers report failures by
// panicking with an error; the recover here turns those into hard errors
// rather than blank output.
func (e *Engine) Render(name string, ctx interface{}) (result string, err error) {
	e.mu.Lock()
	tpl, ok := e.cache[name]
	e.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotCompiled, name)
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = fmt.Errorf("%w: %v", ErrTemplateEval, r)
		}
	}()

	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateEval, err)
	}
	return out, nil
}

// ClearCache drops all compiled templates. Registered helpers and partials
// survive; the next Compile per name reparses.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*raymond.Template)
}

// Mustache scanning for compile-time helper resolution.
var (
	mustachePattern   = regexp.MustCompile(`\{\{\{?([^{}]*)\}?\}\}`)
	subexprPattern    = regexp.MustCompile(`\(\s*([A-Za-z_][A-Za-z0-9_]*)`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// builtinBlockNames are handlebars built-ins that are not registry helpers.
var builtinBlockNames = map[string]bool{
	"if":     true,
	"unless": true,
	"each":   true,
	"with":   true,
	"lookup": true,
	"log":    true,
}

// validateSource fails fast on references to unregistered helpers or
// partials. A mustache with parameters must name a registered helper; a
// parameterless mustache may be either a helper or a context path and is
// resolved at render time. Callers hold e.mu.
func (e *Engine) validateSource(source string) error {
	for _, match := range mustachePattern.FindAllStringSubmatch(source, -1) {
		expr := strings.Trim(strings.TrimSpace(match[1]), "~")
		expr = strings.TrimSpace(expr)

		// Comments, closers, and else-sections reference no helpers.
		if expr == "" || strings.HasPrefix(expr, "!") || strings.HasPrefix(expr, "/") || expr == "else" {
			continue
		}

		if strings.HasPrefix(expr, ">") {
			partialName := firstToken(strings.TrimSpace(expr[1:]))
			if _, ok := e.partials[partialName]; !ok {
				return fmt.Errorf("%w: unknown partial %q", ErrTemplateEval, partialName)
			}
			continue
		}

		for _, sub := range subexprPattern.FindAllStringSubmatch(expr, -1) {
			if !e.isKnownHelper(sub[1]) {
				return fmt.Errorf("%w: unknown helper %q", ErrTemplateEval, sub[1])
			}
		}

		isBlock := strings.HasPrefix(expr, "#")
		if isBlock {
			expr = strings.TrimSpace(expr[1:])
		}

		name := firstToken(expr)
		if name == "" || !identifierPattern.MatchString(name) || builtinBlockNames[name] {
			continue
		}

		hasParams := len(strings.Fields(expr)) > 1
		if (isBlock || hasParams) && !e.isKnownHelper(name) {
			return fmt.Errorf("%w: unknown helper %q", ErrTemplateEval, name)
		}
	}
	return nil
}

// isKnownHelper reports whether name is registered. Callers hold e.mu.
func (e *Engine) isKnownHelper(name string) bool {
	_, ok := e.helpers[name]
	return ok
}

// firstToken returns the first whitespace-separated token of expr.
func firstToken(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
