// Package address parses the compact CLI address grammar:
//
//	[org:]target[:pipeline][:{items}] env
//
// Item-selection tokens: {a,b} include-only, {!a,b} exclude, {@group}
// group expansion, ~name shorthand for {name}. Parsing is purely
// syntactic; target/pipeline existence and {@group} expansion need the
// target's tables and happen after the config is loaded.
package address

import (
	"fmt"
	"strings"

	"github.com/shipit-cli/shipit/internal/errors"
)

// SelectionKind tags what an address's item token asks for.
type SelectionKind int

const (
	// SelectNone means the address carried no item token.
	SelectNone SelectionKind = iota
	// SelectInclude narrows the run to exactly the named items.
	SelectInclude
	// SelectExclude drops the named items from the current set.
	SelectExclude
	// SelectGroup include-onlys the members of a named file-set group.
	SelectGroup
)

// Selection is the item-selection part of an address. It applies for a
// single invocation and is never persisted.
type Selection struct {
	Kind  SelectionKind
	Names []string
	Group string
}

// Address is the parse result of one CLI address. Consumed once.
type Address struct {
	Org      string
	Target   string
	Pipeline string
	Items    Selection
}

// Parse parses an address string. The environment argument is separate
// on the command line and is not part of the address.
func Parse(s string) (*Address, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New(errors.ErrAddress,
			"Empty address",
			"Usage: shipit [org:]target[:pipeline][:{items}] <env>")
	}

	segs := strings.Split(s, ":")

	addr := &Address{}

	// A trailing item token binds tighter than the org/target/pipeline
	// positions, so strip it first.
	last := segs[len(segs)-1]
	if strings.HasPrefix(last, "{") || strings.HasPrefix(last, "~") {
		sel, err := parseItems(last)
		if err != nil {
			return nil, err
		}
		addr.Items = sel
		segs = segs[:len(segs)-1]
	}

	for _, seg := range segs {
		if strings.TrimSpace(seg) == "" {
			return nil, errors.New(errors.ErrAddress,
				"Address has an empty segment: "+s,
				"Remove the stray colon.")
		}
	}

	switch len(segs) {
	case 1:
		addr.Target = segs[0]
	case 2:
		addr.Target = segs[0]
		addr.Pipeline = segs[1]
	case 3:
		addr.Org = segs[0]
		addr.Target = segs[1]
		addr.Pipeline = segs[2]
	default:
		return nil, errors.New(errors.ErrAddress,
			"Too many segments in address: "+s,
			"The most an address holds is org:target:pipeline:{items}.")
	}

	return addr, nil
}

// parseItems parses one item-selection token.
func parseItems(token string) (Selection, error) {
	// ~name is shorthand for {name}.
	if strings.HasPrefix(token, "~") {
		name := token[1:]
		if name == "" {
			return Selection{}, errors.New(errors.ErrAddress,
				"Item shorthand ~ needs a name",
				"Write ~name, the shorthand for {name}.")
		}
		return Selection{Kind: SelectInclude, Names: []string{name}}, nil
	}

	if !strings.HasSuffix(token, "}") {
		return Selection{}, errors.New(errors.ErrAddress,
			"Unterminated item selection: "+token,
			"Item selections look like {a,b}, {!a,b}, or {@group}.")
	}

	body := token[1 : len(token)-1]
	if strings.TrimSpace(body) == "" {
		return Selection{}, errors.New(errors.ErrAddress,
			"Empty item selection {}",
			"Name at least one item, or drop the braces.")
	}

	if strings.HasPrefix(body, "@") {
		group := body[1:]
		if group == "" || strings.Contains(group, ",") {
			return Selection{}, errors.New(errors.ErrAddress,
				"Group selection takes exactly one group name: {"+body+"}",
				"Write {@group} with a single [files.<group>] name.")
		}
		return Selection{Kind: SelectGroup, Group: group}, nil
	}

	parts := strings.Split(body, ",")
	exclude := strings.HasPrefix(parts[0], "!")

	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		bang := strings.HasPrefix(part, "!")
		if bang {
			part = part[1:]
		}
		if part == "" {
			return Selection{}, errors.New(errors.ErrAddress,
				"Empty item name in selection {"+body+"}",
				"Remove the stray comma.")
		}
		if strings.HasPrefix(part, "@") {
			return Selection{}, errors.New(errors.ErrAddress,
				"Group marker @ cannot be mixed with item names: {"+body+"}",
				"Use {@group} on its own.")
		}
		// Include and exclude markers cannot be mixed in one brace: the
		// first entry decides the mode and a later ! is a hard error,
		// never a silently-merged selection.
		if !exclude && bang {
			return Selection{}, errors.New(errors.ErrAddress,
				fmt.Sprintf("Selection {%s} mixes include and exclude markers", body),
				"Use {a,b} to include or {!a,b} to exclude, not both.")
		}
		names = append(names, part)
	}

	kind := SelectInclude
	if exclude {
		kind = SelectExclude
	}
	return Selection{Kind: kind, Names: names}, nil
}
