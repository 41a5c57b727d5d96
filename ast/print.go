package ast

import (
	"strconv"
	"strings"
)

// String renders w back into shell source, up to whitespace
// canonicalization.
func (w Word) String() string {
	var sb strings.Builder
	for _, u := range w.Units {
		writeTextUnit(&sb, u)
	}
	return sb.String()
}

func (t Text) String() string {
	var sb strings.Builder
	for _, u := range t.Units {
		writeTextUnit(&sb, u)
	}
	return sb.String()
}

func writeTextUnit(sb *strings.Builder, u TextUnit) {
	switch x := u.(type) {
	case *Literal:
		sb.WriteString(x.Value)
	case *Escaped:
		sb.WriteByte('\\')
		sb.WriteRune(x.Char)
	case *SingleQuoted:
		sb.WriteByte('\'')
		sb.WriteString(x.Value)
		sb.WriteByte('\'')
	case *DoubleQuoted:
		sb.WriteByte('"')
		sb.WriteString(x.Parts.String())
		sb.WriteByte('"')
	case *ParamExpansion:
		sb.WriteString(x.Raw)
	case *ArithExpansion:
		sb.WriteString(x.Raw)
	case *CommandSubst:
		sb.WriteString(x.Raw)
	case *Backquote:
		sb.WriteString(x.Raw)
	}
}

// String renders the redirection. A here-doc renders as its operator and
// delimiter only; its body is not part of the output.
func (r *Redir) String() string {
	var sb strings.Builder
	if r.Fd != nil {
		sb.WriteString(strconv.FormatUint(uint64(*r.Fd), 10))
	}
	switch b := r.Body.(type) {
	case *Normal:
		sb.WriteString(b.Operator.String())
		sb.WriteString(b.Operand.String())
	case *HereDoc:
		if b.RemoveTabs {
			sb.WriteString("<<-")
		} else {
			sb.WriteString("<<")
		}
		sb.WriteString(b.Delimiter.String())
	}
	return sb.String()
}

func (s *SimpleCommand) String() string {
	var parts []string
	for _, a := range s.Assigns {
		parts = append(parts, assignString(a))
	}
	for _, w := range s.Words {
		parts = append(parts, w.String())
	}
	for _, r := range s.Redirs {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}

func assignString(a *Assign) string {
	if a.Array != nil {
		var ws []string
		for _, w := range a.Array {
			ws = append(ws, w.String())
		}
		return a.Name + "=(" + strings.Join(ws, " ") + ")"
	}
	return a.Name + "=" + a.Value.String()
}

func (g *Grouping) String() string {
	return "{ " + g.Body.String() + "; }"
}

func (s *Subshell) String() string {
	return "(" + s.Body.String() + ")"
}

func (f *ForLoop) String() string {
	var sb strings.Builder
	sb.WriteString("for ")
	sb.WriteString(f.Name)
	if f.Values != nil {
		sb.WriteString(" in")
		for _, w := range *f.Values {
			sb.WriteByte(' ')
			sb.WriteString(w.String())
		}
	}
	sb.WriteString("; do ")
	sb.WriteString(f.Body.String())
	sb.WriteString("; done")
	return sb.String()
}

func (w *WhileLoop) String() string {
	return "while " + w.Condition.String() + "; do " + w.Body.String() + "; done"
}

func (u *UntilLoop) String() string {
	return "until " + u.Condition.String() + "; do " + u.Body.String() + "; done"
}

func (c *CaseClause) String() string {
	var sb strings.Builder
	sb.WriteString("case ")
	sb.WriteString(c.Subject.String())
	sb.WriteString(" in ")
	for _, item := range c.Items {
		var pats []string
		for _, p := range item.Patterns {
			pats = append(pats, p.String())
		}
		sb.WriteString(strings.Join(pats, " | "))
		sb.WriteString(") ")
		sb.WriteString(item.Body.String())
		sb.WriteString(" ;; ")
	}
	sb.WriteString("esac")
	return sb.String()
}

func (f *FullCompoundCommand) String() string {
	var sb strings.Builder
	sb.WriteString(f.Command.(interface{ String() string }).String())
	for _, r := range f.Redirs {
		sb.WriteByte(' ')
		sb.WriteString(r.String())
	}
	return sb.String()
}

func (f *FunctionDefinition) String() string {
	var sb strings.Builder
	if f.HasKeyword {
		sb.WriteString("function ")
		sb.WriteString(f.Name.String())
	} else {
		sb.WriteString(f.Name.String())
		sb.WriteString("()")
	}
	sb.WriteByte(' ')
	sb.WriteString(f.Body.String())
	return sb.String()
}

func (p *Pipeline) String() string {
	var parts []string
	for _, c := range p.Commands {
		parts = append(parts, c.(interface{ String() string }).String())
	}
	body := strings.Join(parts, " | ")
	if p.Negation {
		return "! " + body
	}
	return body
}

func (a AndOrList) String() string {
	var sb strings.Builder
	sb.WriteString(a.First.String())
	for _, pair := range a.Rest {
		if pair.Op == AndThen {
			sb.WriteString(" && ")
		} else {
			sb.WriteString(" || ")
		}
		sb.WriteString(pair.Pipeline.String())
	}
	return sb.String()
}

func (it *Item) String() string {
	s := it.AndOr.String()
	if it.IsAsync {
		return s + " &"
	}
	return s
}

func (l List) String() string {
	var sb strings.Builder
	for i, it := range l {
		if i > 0 {
			// An async item's "&" already separates it from the next one.
			if l[i-1].IsAsync {
				sb.WriteByte(' ')
			} else {
				sb.WriteString("; ")
			}
		}
		sb.WriteString(it.String())
	}
	return sb.String()
}
