// Package config loads target configuration files.
//
// The format is a restricted TOML-like grammar: [section] and
// [section.subsection] headers, key = value assignments with quoted
// strings, bracketed arrays of quoted strings, and triple-quoted
// multi-line strings, plus #-prefixed comments. Values are stored
// verbatim apart from quote stripping and \" / \\ unescaping. Malformed
// lines are skipped with a warning; unknown sections are kept as data
// because custom environment keys depend on that.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/logger"
)

var log = logger.NewEnvLogger("[config]")

// DefaultPipeline is the pipeline used when the address names none.
const DefaultPipeline = "default"

// Load parses the target configuration file at path into a fresh Tables.
// A missing file is a hard error; a previously loaded file never leaks
// into the result.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Target config file not found: "+path,
				"Check the target name and org, or create the file.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot read target config: "+path,
			"Check file permissions.")
	}

	return Parse(string(data))
}

// Parse parses configuration text into a fresh Tables.
func Parse(text string) (*Tables, error) {
	t := newTables()
	lines := strings.Split(text, "\n")

	var section []string
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			name, ok := parseHeader(line)
			if !ok {
				log.Warn("skipping malformed section header: %s", line)
				section = nil
				continue
			}
			section = strings.Split(name, ".")
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 1 {
			log.Warn("skipping malformed line: %s", line)
			continue
		}
		key := strings.TrimSpace(line[:eq])
		raw := strings.TrimSpace(line[eq+1:])
		if key == "" {
			log.Warn("skipping assignment with empty key: %s", line)
			continue
		}

		val, list, isList := parseValue(raw, lines, &i)
		t.assign(section, key, val, list, isList)
	}

	return t, nil
}

// parseHeader extracts the dotted section name from a [header] line.
func parseHeader(line string) (string, bool) {
	end := strings.Index(line, "]")
	if end < 0 {
		return "", false
	}
	name := strings.TrimSpace(line[1:end])
	if name == "" {
		return "", false
	}
	return name, true
}

// parseValue parses the right-hand side of an assignment. Triple-quoted
// strings and arrays may span lines; i is advanced past any consumed
// continuation lines.
func parseValue(raw string, lines []string, i *int) (val string, list []string, isList bool) {
	switch {
	case strings.HasPrefix(raw, `"""`):
		return parseMultiline(raw, lines, i), nil, false
	case strings.HasPrefix(raw, "["):
		return "", parseArray(raw, lines, i), true
	case strings.HasPrefix(raw, `"`):
		return unquote(raw), nil, false
	default:
		// Bare value, stored verbatim. Lenient: not part of the strict
		// grammar but harmless to keep.
		return raw, nil, false
	}
}

// parseMultiline handles """...""" values, possibly spanning lines.
func parseMultiline(raw string, lines []string, i *int) string {
	rest := raw[3:]
	if end := strings.Index(rest, `"""`); end >= 0 {
		return rest[:end]
	}

	var b strings.Builder
	if rest != "" {
		b.WriteString(rest)
		b.WriteString("\n")
	}
	for *i+1 < len(lines) {
		*i++
		line := lines[*i]
		if end := strings.Index(line, `"""`); end >= 0 {
			b.WriteString(line[:end])
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// parseArray handles [ "a", "b" ] values, possibly spanning lines.
func parseArray(raw string, lines []string, i *int) []string {
	text := raw
	for !closesBracket(text) && *i+1 < len(lines) {
		*i++
		text += "\n" + lines[*i]
	}

	var items []string
	inQuote := false
	var cur strings.Builder
	for pos := 0; pos < len(text); pos++ {
		c := text[pos]
		if inQuote {
			switch c {
			case '\\':
				if pos+1 < len(text) && (text[pos+1] == '"' || text[pos+1] == '\\') {
					cur.WriteByte(text[pos+1])
					pos++
					continue
				}
				cur.WriteByte(c)
			case '"':
				items = append(items, cur.String())
				cur.Reset()
				inQuote = false
			default:
				cur.WriteByte(c)
			}
			continue
		}
		if c == '"' {
			inQuote = true
		}
	}
	return items
}

// closesBracket reports whether text contains the terminating ] of an
// array, ignoring brackets inside quoted strings.
func closesBracket(text string) bool {
	inQuote := false
	for pos := 0; pos < len(text); pos++ {
		c := text[pos]
		if inQuote {
			if c == '\\' {
				pos++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case ']':
			return true
		}
	}
	return false
}

// unquote strips surrounding double quotes and unescapes \" and \\.
// Anything after the closing quote is dropped.
func unquote(raw string) string {
	var b strings.Builder
	for pos := 1; pos < len(raw); pos++ {
		c := raw[pos]
		if c == '\\' && pos+1 < len(raw) && (raw[pos+1] == '"' || raw[pos+1] == '\\') {
			b.WriteByte(raw[pos+1])
			pos++
			continue
		}
		if c == '"' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// assign stores one parsed key/value into the table the current section
// selects. Array values stay first-class lists where the table wants a
// list; tables that want a single string get the list space-joined.
func (t *Tables) assign(section []string, key, val string, list []string, isList bool) {
	scalar := val
	if isList {
		scalar = strings.Join(list, " ")
	}

	switch {
	case len(section) == 0:
		log.Warn("skipping assignment outside any section: %s", key)

	case section[0] == "target" && len(section) == 1:
		switch key {
		case "name":
			t.Target.Name = scalar
		case "source":
			t.Target.Source = scalar
		case "cwd":
			t.Target.Cwd = scalar
		default:
			log.Debug("ignoring unknown [target] key %q", key)
		}

	case section[0] == "env" && len(section) == 2:
		env := t.env(section[1])
		switch key {
		case "ssh":
			env.SSH = scalar
		case "user":
			env.User = scalar
		case "domain":
			env.Domain = scalar
		case "confirm":
			b := parseBool(scalar)
			env.Confirm = &b
		case "inherit":
			env.Inherit = scalar
		default:
			env.Extra[key] = scalar
		}

	case section[0] == "files" && len(section) == 1:
		if _, exists := t.Files[key]; !exists {
			t.FileOrder = append(t.FileOrder, key)
		}
		t.Files[key] = FileSet{Pattern: scalar}

	case section[0] == "files" && len(section) == 2:
		group := section[1]
		if key == "include" && isList {
			t.Files[group] = FileSet{Include: list}
		} else {
			log.Warn("ignoring key %q in [files.%s]: groups take include = [...]", key, group)
		}

	case section[0] == "build" && len(section) == 1:
		if key == "pre" {
			t.BuildPre = scalar
		} else {
			t.Build[key] = scalar
		}

	case section[0] == "build" && len(section) == 2:
		if key == "command" {
			t.Build[section[1]] = scalar
		} else {
			log.Warn("ignoring key %q in [build.%s]: build sections take command", key, section[1])
		}

	case section[0] == "push" && len(section) == 1:
		switch key {
		case "flags":
			t.Push.Flags = list
		case "exclude":
			t.Push.Exclude = list
		case "delete":
			t.Push.Delete = parseBool(scalar)
		default:
			log.Debug("ignoring unknown [push] key %q", key)
		}

	case section[0] == "pipeline" && len(section) == 1:
		if isList {
			t.Pipelines[key] = list
		} else {
			// Space-joined step strings from older files still work.
			t.Pipelines[key] = strings.Fields(scalar)
		}

	case section[0] == "alias" && len(section) == 1:
		t.Aliases[key] = scalar

	case section[0] == "remote" && len(section) == 1:
		t.Remote[key] = scalar

	case section[0] == "post" && len(section) == 1:
		t.Post[key] = scalar

	default:
		// Unknown section names are data too.
		name := strings.Join(section, ".")
		if t.Other[name] == nil {
			t.Other[name] = make(map[string]string)
		}
		t.Other[name][key] = scalar
	}
}

// env returns the profile for name, creating it on first reference.
func (t *Tables) env(name string) *Env {
	if e, ok := t.Envs[name]; ok {
		return e
	}
	e := &Env{Extra: make(map[string]string)}
	t.Envs[name] = e
	return e
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "on":
		return true
	}
	return false
}

// Env looks up an environment profile by name.
func (t *Tables) Env(name string) (*Env, error) {
	e, ok := t.Envs[name]
	if !ok {
		return nil, errors.New(errors.ErrEnv,
			fmt.Sprintf("No environment named %q in target %q", name, t.Target.Name),
			"Check the [env.<name>] sections of the target config.")
	}
	return e, nil
}
