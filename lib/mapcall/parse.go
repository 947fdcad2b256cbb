package mapcall

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Parse scans one Go source file for recognized calls. A file that does not
// parse yields an empty result: unparseable sources are simply not
// translation sources, never an error. Records come back in source order
// with their raw spans already extracted.
func Parse(filename string, src []byte) File {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		log.Debugf("skipping unparseable file %s: %s", filename, err)
		return File{}
	}

	out := File{Domain: fileDomain(f)}

	text := string(src)
	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		rec, ok := recordFromCall(fset, filename, call)
		if !ok {
			return true
		}
		rec.RawSpan = ExtractSpan(text, rec.Line)
		if rec.RawSpan != nil && !strings.HasPrefix(text[rec.Offset:], rec.RawSpan.Text) {
			// the line scan matched other text on the call's line, a
			// preceding call or a comment; with no span of its own the
			// call is skipped by sync instead of spliced wrongly
			log.Debugf("%s:%d: span text not at the call site, dropping span", filename, rec.Line)
			rec.RawSpan = nil
		}
		out.Records = append(out.Records, rec)
		return true
	})

	return out
}

// fileDomain finds the file-level domain declaration: the first
// Use(Options{Domain: "..."}) carrying a literal domain wins, later ones are
// ignored.
func fileDomain(f *ast.File) *string {
	var domain *string
	ast.Inspect(f, func(n ast.Node) bool {
		if domain != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if name, _ := funcName(call); name != useName {
			return true
		}
		if d, _ := callOptions(call.Args); d != nil && *d != "" {
			domain = d
			return false
		}
		return true
	})
	return domain
}

func recordFromCall(fset *token.FileSet, filename string, call *ast.CallExpr) (Record, bool) {
	name, qualifier := funcName(call)

	var kind Kind
	switch name {
	case string(KindMapper):
		kind = KindMapper
	case string(KindMapperString):
		kind = KindMapperString
	default:
		return Record{}, false
	}

	if len(call.Args) == 0 {
		return Record{}, false
	}
	translations, order, ok := mapLiteral(call.Args[0])
	if !ok {
		return Record{}, false
	}

	pos := fset.Position(call.Pos())
	rec := Record{
		Macro:        kind,
		Qualifier:    qualifier,
		Translations: translations,
		LocaleOrder:  order,
		File:         filename,
		Line:         pos.Line,
		Offset:       pos.Offset,
	}
	rec.Domain, rec.MsgID = callOptions(call.Args[1:])
	return rec, true
}

// funcName names the callee of a call written bare or behind a plain
// package qualifier. Anything else (chained selectors, method values) comes
// back empty and is not recognized.
func funcName(call *ast.CallExpr) (name, qualifier string) {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name, ""
	case *ast.SelectorExpr:
		if x, ok := fn.X.(*ast.Ident); ok {
			return fn.Sel.Name, x.Name
		}
	}
	return "", ""
}

// mapLiteral decodes a literal map[string]string composite. Pairs that are
// not literal-string to literal-string are dropped; a composite with no
// surviving pairs, or any other expression, is rejected entirely.
func mapLiteral(expr ast.Expr) (map[string]string, []string, bool) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, nil, false
	}
	mt, ok := lit.Type.(*ast.MapType)
	if !ok || !isStringIdent(mt.Key) || !isStringIdent(mt.Value) {
		return nil, nil, false
	}

	m := make(map[string]string, len(lit.Elts))
	order := make([]string, 0, len(lit.Elts))
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		k, kok := stringLiteral(kv.Key)
		v, vok := stringLiteral(kv.Value)
		if !kok || !vok || k == "" {
			continue
		}
		if _, dup := m[k]; !dup {
			order = append(order, k)
		}
		m[k] = v
	}
	if len(m) == 0 {
		return nil, nil, false
	}
	return m, order, true
}

func isStringIdent(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "string"
}

// stringLiteral unquotes a literal string expression, interpreted or raw.
func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// callOptions reads Domain and MsgID off the first Options literal among
// args. Non-literal field values and unknown fields are ignored; further
// arguments after the first Options literal are ignored too.
func callOptions(args []ast.Expr) (domain, msgid *string) {
	for _, arg := range args {
		lit, ok := arg.(*ast.CompositeLit)
		if !ok || !isOptionsType(lit.Type) {
			continue
		}
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}
			val, ok := stringLiteral(kv.Value)
			if !ok {
				continue
			}
			switch key.Name {
			case optionDomain:
				if domain == nil {
					v := val
					domain = &v
				}
			case optionMsgID:
				if msgid == nil {
					v := val
					msgid = &v
				}
			}
		}
		break
	}
	return domain, msgid
}

func isOptionsType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name == optionsName
	case *ast.SelectorExpr:
		return t.Sel.Name == optionsName
	}
	return false
}
