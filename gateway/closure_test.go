package gateway

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parsePackage parses the non-test sources of this package.
func parsePackage(t *testing.T) map[string]*ast.File {
	t.Helper()
	names, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	files := make(map[string]*ast.File)
	for _, name := range names {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		src, err := os.ReadFile(name)
		require.NoError(t, err)
		f, err := parser.ParseFile(fset, name, src, 0)
		require.NoError(t, err)
		files[name] = f
	}
	return files
}

func TestClosure_ExportedConstructors(t *testing.T) {
	var found []string
	for _, f := range parsePackage(t) {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !fn.Name.IsExported() || fn.Type.Results == nil {
				continue
			}
			for _, res := range fn.Type.Results.List {
				if id, ok := res.Type.(*ast.Ident); ok && id.Name == "Descriptor" {
					found = append(found, fn.Name.Name)
				}
			}
		}
	}
	sort.Strings(found)

	var want []string
	for name := range constructors() {
		want = append(want, name)
	}
	sort.Strings(want)
	assert.Equal(t, want, found)
}

func TestClosure_NoExportedDiscriminators(t *testing.T) {
	for name, f := range parsePackage(t) {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || (gen.Tok != token.CONST && gen.Tok != token.VAR) {
				continue
			}
			for _, spec := range gen.Specs {
				vs := spec.(*ast.ValueSpec)
				sel, ok := vs.Type.(*ast.SelectorExpr)
				if !ok || sel.Sel.Name != "Type" {
					continue
				}
				for _, id := range vs.Names {
					assert.False(t, id.IsExported(), "%s exports discriminator %s", name, id.Name)
				}
			}
		}
	}
}

func TestClosure_ExcludedLiteralsOnlyDeclared(t *testing.T) {
	excluded := make(map[string]bool)
	for _, e := range GetManifest() {
		if !e.Allowed {
			excluded[string(e.Type)] = true
		}
	}

	for name, f := range parsePackage(t) {
		if name == "declarations.go" {
			continue
		}
		ast.Inspect(f, func(n ast.Node) bool {
			lit, ok := n.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				return true
			}
			s, err := strconv.Unquote(lit.Value)
			if err == nil && excluded[s] {
				t.Errorf("%s references excluded discriminator %q", name, s)
			}
			return true
		})
	}
}
