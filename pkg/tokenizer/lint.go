package tokenizer

import "fmt"

// arity is a built-in's accepted argument-count range, ported from the
// reference VM's per-function minRequiredArgs()/maxAllowedArgs() pair
// (InstrumentScriptVMFunctions.h) — the source this module's checkArgs
// equivalent statically checks against.
type arity struct{ min, max int }

var builtinArity = map[string]arity{
	"play_note":         {1, 4},
	"note_off":          {1, 2},
	"set_controller":    {2, 2},
	"set_rpn":           {2, 2},
	"set_nrpn":          {2, 2},
	"ignore_event":      {0, 1},
	"ignore_controller": {0, 1},
	"set_event_mark":    {2, 2},
	"delete_event_mark": {2, 2},
	"by_marks":          {1, 1},
	"change_vol":        {2, 3},
	"change_tune":       {2, 3},
	"change_pan":        {2, 3},
	"change_cutoff":     {2, 2},
	"change_reso":       {2, 2},
	"change_attack":     {2, 2},
	"change_decay":      {2, 2},
	"change_release":    {2, 2},
	"change_pan_time":   {2, 2},
	"fade_in":           {2, 2},
	"fade_out":          {2, 3},
	"get_event_par":     {2, 2},
	"set_event_par":     {3, 3},
	"change_note":       {2, 2},
	"change_velo":       {2, 2},
	"change_play_pos":   {2, 2},
	"event_status":      {1, 1},
	"callback_status":   {1, 1},
	"wait":              {1, 2},
	"stop_wait":         {1, 2},
	"abort":             {1, 1},
	"fork":              {0, 2},
}

// Diagnostic is one static lint finding: an out-of-range argument count
// for a recognized built-in call.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

// LintCalls walks tokens looking for `identifier (` sequences naming a
// known built-in, counts the top-level (paren-depth-1) comma-separated
// arguments up to the matching close paren, and reports any call whose
// argument count falls outside that built-in's accepted range — the
// same static check the reference VM's checkArgs performs before a
// script ever runs, done here from tokens alone since this module has
// no expression parser.
func LintCalls(tokens []Token) []Diagnostic {
	var out []Diagnostic
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind != Identifier {
			continue
		}
		ar, known := builtinArity[tok.Text]
		if !known {
			continue
		}
		j := i + 1
		if j >= len(tokens) || tokens[j].Kind != Other || tokens[j].Text != "(" {
			continue
		}
		argCount, close := countArgs(tokens, j)
		if close < 0 {
			out = append(out, Diagnostic{
				Line: tok.Line, Column: tok.Column,
				Message: fmt.Sprintf("%s(...): unterminated argument list", tok.Text),
			})
			continue
		}
		if argCount < ar.min || argCount > ar.max {
			out = append(out, Diagnostic{
				Line: tok.Line, Column: tok.Column,
				Message: fmt.Sprintf("%s: %d argument(s) given, expected %s", tok.Text, argCount, rangeText(ar)),
			})
		}
	}
	return out
}

func rangeText(a arity) string {
	if a.min == a.max {
		return fmt.Sprintf("%d", a.min)
	}
	return fmt.Sprintf("%d..%d", a.min, a.max)
}

// countArgs counts comma-separated arguments between the '(' at
// tokens[open] and its matching ')', treating nested parens as opaque.
// Returns (-1 count, -1 index) if the list never closes. An empty
// `()` call counts as zero arguments.
func countArgs(tokens []Token, open int) (count int, closeIdx int) {
	depth := 1
	sawAnyToken := false
	count = 0
	for i := open + 1; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind == Other && t.Text == "(" {
			depth++
			sawAnyToken = true
			continue
		}
		if t.Kind == Other && t.Text == ")" {
			depth--
			if depth == 0 {
				if sawAnyToken {
					count++
				}
				return count, i
			}
			continue
		}
		if depth == 1 && t.Kind == Other && t.Text == "," {
			count++
			sawAnyToken = false
			continue
		}
		if t.Kind != NewLine {
			sawAnyToken = true
		}
	}
	return -1, -1
}
