// Package nostdlog reports output written around the structured logger: any use of
// the standard log package and the fmt.Print family outside package main.
// Tests are not checked.
package nostdlog

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "nostdlog",
	Doc:  "prohibits the standard log package and fmt.Print* outside package main",
	Run:  run,
}

var fmtPrinters = map[string]bool{
	"Print":   true,
	"Printf":  true,
	"Println": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() == "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.File(file.Pos()).Name(), "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			obj := pass.TypesInfo.Uses[sel.Sel]
			if obj == nil || obj.Pkg() == nil {
				return true
			}
			if _, isFunc := obj.(*types.Func); !isFunc {
				return true
			}

			switch {
			case obj.Pkg().Path() == "log":
				pass.Reportf(sel.Pos(), "log.%s: use internal/logger instead of the standard log package", obj.Name())
			case obj.Pkg().Path() == "fmt" && fmtPrinters[obj.Name()]:
				pass.Reportf(sel.Pos(), "fmt.%s: use internal/logger instead of printing to stdout", obj.Name())
			}

			return true
		})
	}

	return nil, nil
}
