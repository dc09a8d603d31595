// Copyright 2020 CUE Authors
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

package term

import (
	"fmt"
	"strings"
)

// Sprint renders e as a fully-parenthesized debug form. It is meant for
// diagnostics and CLI output, not for round-tripping back into an Expr.
func Sprint(e Expr) string {
	var b strings.Builder
	sprint(&b, e)
	return b.String()
}

func sprint(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *Var:
		fmt.Fprintf(b, "#%d", x.Index)
	case *Sort:
		b.WriteString("Sort ")
		sprintLevel(b, x.Level)
	case *Const:
		b.WriteString(x.Name)
		sprintLevelArgs(b, x.Levels)
	case *App:
		b.WriteByte('(')
		sprint(b, x.Fn)
		b.WriteByte(' ')
		sprint(b, x.Arg)
		b.WriteByte(')')
	case *Lambda:
		fmt.Fprintf(b, "(fun %s : ", x.Name)
		sprint(b, x.Domain)
		b.WriteString(", ")
		sprint(b, x.Body)
		b.WriteByte(')')
	case *Pi:
		fmt.Fprintf(b, "(forall %s : ", x.Name)
		sprint(b, x.Domain)
		b.WriteString(", ")
		sprint(b, x.Body)
		b.WriteByte(')')
	case *Macro:
		b.WriteString(x.Name)
		for _, a := range x.Args {
			b.WriteByte(' ')
			sprint(b, a)
		}
	case *LocalConst:
		b.WriteString(x.Name)
	case *MetaApp:
		fmt.Fprintf(b, "?%s", x.Name)
		for _, a := range x.Args {
			b.WriteByte(' ')
			sprint(b, a)
		}
	case *HRef:
		fmt.Fprintf(b, "h%d", x.Index)
	case *MRef:
		fmt.Fprintf(b, "?m%d", x.Index)
		for _, a := range x.Args {
			b.WriteByte(' ')
			sprint(b, a)
		}
	default:
		fmt.Fprintf(b, "<%T>", x)
	}
}

func sprintLevelArgs(b *strings.Builder, levels []Level) {
	if len(levels) == 0 {
		return
	}
	b.WriteString(".{")
	for i, l := range levels {
		if i > 0 {
			b.WriteByte(',')
		}
		sprintLevel(b, l)
	}
	b.WriteByte('}')
}

func sprintLevel(b *strings.Builder, l Level) {
	switch x := l.(type) {
	case *LZero:
		b.WriteByte('0')
	case *LSucc:
		b.WriteString("succ ")
		sprintLevel(b, x.Of)
	case *LParam:
		b.WriteString(x.Name)
	case *LGlobal:
		b.WriteString(x.Name)
	case *LMax:
		b.WriteString("max(")
		sprintLevel(b, x.A)
		b.WriteByte(',')
		sprintLevel(b, x.B)
		b.WriteByte(')')
	case *LIMax:
		b.WriteString("imax(")
		sprintLevel(b, x.A)
		b.WriteByte(',')
		sprintLevel(b, x.B)
		b.WriteByte(')')
	case *LMeta:
		fmt.Fprintf(b, "?l%d", x.ID)
	case *URef:
		fmt.Fprintf(b, "?u%d", x.Index)
	default:
		fmt.Fprintf(b, "<%T>", x)
	}
}
