package config

import (
	"regexp"
	"time"
)

// timeNow is swapped in tests to pin the {{timestamp}} value.
var timeNow = time.Now

// timestampLayout is the format {{timestamp}} expands to.
const timestampLayout = "20060102-150405"

var tokenRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Vars assembles the template variable map for an environment.
// Environment fields fall back one level to the inherited parent; custom
// keys pass through under their own names. filesOverride, when non-empty,
// becomes the files variable.
func (t *Tables) Vars(envName, filesOverride string) (map[string]string, error) {
	env, err := t.Env(envName)
	if err != nil {
		return nil, err
	}

	var parent *Env
	if env.Inherit != "" {
		// Missing parents resolve to nothing rather than failing: the
		// child may carry every field itself.
		parent = t.Envs[env.Inherit]
	}

	vars := make(map[string]string)

	// Custom keys first, parent before child so the child wins.
	if parent != nil {
		for k, v := range parent.Extra {
			vars[k] = v
		}
	}
	for k, v := range env.Extra {
		vars[k] = v
	}

	vars["ssh"] = inherited(env.SSH, parent, func(e *Env) string { return e.SSH })
	vars["user"] = inherited(env.User, parent, func(e *Env) string { return e.User })
	vars["domain"] = inherited(env.Domain, parent, func(e *Env) string { return e.Domain })

	vars["name"] = t.Target.Name
	vars["env"] = envName
	if filesOverride != "" {
		vars["files"] = filesOverride
	}
	vars["timestamp"] = timeNow().Format(timestampLayout)

	// source and cwd may reference the variables above.
	vars["source"] = Substitute(t.Target.Source, vars)
	vars["cwd"] = Substitute(t.Target.Cwd, vars)

	return vars, nil
}

// ConfirmRequired reports whether deploys to envName are gated behind a
// confirmation prompt. An environment that does not set confirm falls
// back one level to the inherited parent, like the other profile fields.
func (t *Tables) ConfirmRequired(envName string) (bool, error) {
	env, err := t.Env(envName)
	if err != nil {
		return false, err
	}
	if env.Confirm != nil {
		return *env.Confirm, nil
	}
	if env.Inherit != "" {
		if parent, ok := t.Envs[env.Inherit]; ok && parent.Confirm != nil {
			return *parent.Confirm, nil
		}
	}
	return false, nil
}

// inherited returns own if set, else the parent's value of the same field.
func inherited(own string, parent *Env, field func(*Env) string) string {
	if own != "" {
		return own
	}
	if parent != nil {
		return field(parent)
	}
	return ""
}

// Expand substitutes {{key}} tokens in template against the variable map
// for envName. Unknown keys resolve to empty string so optional variables
// never break a template; they are logged at debug level to keep typos
// findable.
func (t *Tables) Expand(template, envName, filesOverride string) (string, error) {
	vars, err := t.Vars(envName, filesOverride)
	if err != nil {
		return "", err
	}
	return Substitute(template, vars), nil
}

// Substitute performs literal {{key}} replacement against vars.
func Substitute(template string, vars map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(template, func(token string) string {
		key := token[2 : len(token)-2]
		val, ok := vars[key]
		if !ok {
			log.Debug("template variable %q not set, expanding to empty", key)
			return ""
		}
		return val
	})
}
