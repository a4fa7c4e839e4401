package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
	"github.com/haasonsaas/embedinfo/pkg/models"
)

type evalData struct {
	Message *models.Message
	GuildID string
	RunID   string
}

// EvalMessage interpolates variables into text. Strings without template
// delimiters are returned unchanged.
//
//	{{ tempVars "target" }}  {{ serverVars "prefix" | upper }}
func (r *Runner) EvalMessage(text string, cache *actionsdk.Cache) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	t, err := template.New("eval").Funcs(r.evalFuncs(cache)).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", text, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, evalData{Message: cache.Message, GuildID: cache.GuildID, RunID: cache.RunID}); err != nil {
		return "", fmt.Errorf("evaluate %q: %w", text, err)
	}
	return buf.String(), nil
}

func (r *Runner) evalFuncs(cache *actionsdk.Cache) template.FuncMap {
	lookup := func(scope actionsdk.VarScope) func(string) any {
		return func(name string) any {
			v, ok := r.vars.Get(scope, cache, name)
			if !ok {
				return ""
			}
			return v
		}
	}
	titleCase := cases.Title(language.Und)
	return template.FuncMap{
		"tempVars":   lookup(actionsdk.ScopeTemp),
		"serverVars": lookup(actionsdk.ScopeServer),
		"globalVars": lookup(actionsdk.ScopeGlobal),
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"title":      titleCase.String,
		"trim":       strings.TrimSpace,
	}
}
