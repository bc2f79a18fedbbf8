package session

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/shipit-cli/shipit/internal/errors"
)

// InteractiveEdit presents the current item list as editable text, one
// item per line, and replaces the selection with the edited result.
// Blank and #-comment lines are ignored on read-back; an empty result
// is an error and leaves the context untouched.
func InteractiveEdit(ctx *Context) error {
	text := strings.Join(ctx.Items, "\n")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit item selection").
				Description("One item per line. Blank and # lines are ignored.").
				Value(&text),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrSelect,
			"Item edit aborted",
			"The previous selection is unchanged.")
	}

	items, err := ParseEditedItems(text)
	if err != nil {
		return err
	}
	ctx.Items = items
	ctx.Modified = true
	return nil
}

// ParseEditedItems parses edited item text back into an item list.
func ParseEditedItems(text string) ([]string, error) {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrSelect,
			"Edited selection is empty",
			"Keep at least one item, or abort the edit.")
	}
	return items, nil
}
