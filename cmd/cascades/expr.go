// Copyright 2025 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/errors"
)

// exprParser parses the function call notation the plans are explained in, e.g.
// "and(gt(t.b, 1), isnull(s.a))".
type exprParser struct {
	s       scanner.Scanner
	tok     rune
	resolve func(name string) (*expression.Column, error)
}

func parseExpr(src string, resolve func(name string) (*expression.Column, error)) (expression.Expression, error) {
	p := &exprParser{resolve: resolve}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts
	// a broken token surfaces as an unexpected one below.
	p.s.Error = func(*scanner.Scanner, string) {}
	p.next()
	expr, err := p.parse()
	if err != nil {
		return nil, errors.Annotatef(err, "parse %q", src)
	}
	if p.tok != scanner.EOF {
		return nil, errors.Errorf("parse %q: unexpected %s", src, p.describe())
	}
	return expr, nil
}

func (p *exprParser) next() {
	p.tok = p.s.Scan()
}

func (p *exprParser) describe() string {
	switch p.tok {
	case scanner.Ident, scanner.Int:
		return p.s.TokenText()
	}
	return scanner.TokenString(p.tok)
}

func (p *exprParser) parse() (expression.Expression, error) {
	switch p.tok {
	case '-', scanner.Int:
		text := ""
		if p.tok == '-' {
			text = "-"
			p.next()
			if p.tok != scanner.Int {
				return nil, errors.Errorf("unexpected %s after -", p.describe())
			}
		}
		v, err := strconv.ParseInt(text+p.s.TokenText(), 10, 64)
		if err != nil {
			return nil, errors.Trace(err)
		}
		p.next()
		return expression.NewInt64Const(v), nil
	case scanner.Ident:
		name := p.s.TokenText()
		p.next()
		switch p.tok {
		case '(':
			return p.parseArgs(name)
		case '.':
			p.next()
			if p.tok != scanner.Ident {
				return nil, errors.Errorf("unexpected %s after %s.", p.describe(), name)
			}
			name += "." + p.s.TokenText()
			p.next()
		}
		if strings.EqualFold(name, "null") {
			return expression.NewNull(), nil
		}
		col, err := p.resolve(name)
		if err != nil {
			return nil, err
		}
		return col, nil
	}
	return nil, errors.Errorf("unexpected %s", p.describe())
}

func (p *exprParser) parseArgs(funcName string) (expression.Expression, error) {
	// skip '('
	p.next()
	var args []expression.Expression
	for p.tok != ')' {
		if len(args) > 0 {
			if p.tok != ',' {
				return nil, errors.Errorf("unexpected %s in the arguments of %s", p.describe(), funcName)
			}
			p.next()
		}
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.next()
	return expression.NewFunction(funcName, args...)
}
