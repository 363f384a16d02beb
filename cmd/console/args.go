package console

import (
	"math"
	"strconv"
	"strings"

	"github.com/scienceol/labstock/pkg/common/code"
)

// args splits console tokens into positionals and key=value options.
type args struct {
	positional []string
	options    map[string]string
}

func parseArgs(tokens []string) *args {
	a := &args{options: make(map[string]string)}
	for _, tok := range tokens {
		if k, v, ok := strings.Cut(tok, "="); ok && k != "" {
			a.options[strings.ToLower(k)] = v
			continue
		}
		a.positional = append(a.positional, tok)
	}
	return a
}

func (a *args) get(key string) string {
	return a.options[key]
}

func (a *args) int(key string) (int, error) {
	v := a.options[key]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, code.ParamErr.WithMsgf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func (a *args) float(key string) (float64, error) {
	v := a.options[key]
	if v == "" {
		return 0, nil
	}
	return number(key, v)
}

func (a *args) pos(i int, name string) (string, error) {
	if i >= len(a.positional) {
		return "", code.ParamErr.WithMsgf("missing %s", name)
	}
	return a.positional[i], nil
}

func (a *args) posFloat(i int, name string) (float64, error) {
	v, err := a.pos(i, name)
	if err != nil {
		return 0, err
	}
	return number(name, v)
}

// number parses a finite float; NaN and Inf are rejected.
func number(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, code.ParamErr.WithMsgf("%s must be a number, got %q", name, v)
	}
	return f, nil
}

// split tokenizes a line on whitespace. Double quotes group a token, so
// name="Sulfuric Acid" stays one option.
func split(line string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, code.ParamErr.WithMsg("unterminated quote")
	}
	if started {
		out = append(out, cur.String())
	}
	return out, nil
}
