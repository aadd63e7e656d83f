package schema

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Command is one instruction for the OCR application's control endpoint,
// encoded on the wire as a JSON array of strings.
type Command []string

// Command flag tokens understood by the control endpoint.
const (
	FlagAllPages = "--all_pages"
	FlagAddPage  = "--add_page"
	FlagDelPage  = "--del_page"
	FlagCallQML  = "--call_qml"
	FlagFunc     = "--func"
)

// ListTabs enumerates all open tabs.
func ListTabs() Command {
	return Command{FlagAllPages}
}

// AddTab opens a new tab from the page template identified by pageType.
func AddTab(pageType string) Command {
	return Command{FlagAddPage, pageType}
}

// DeleteTab closes the tab at index.
func DeleteTab(index TabIndex) Command {
	return Command{FlagDelPage, strconv.FormatUint(uint64(index), 10)}
}

// CallQML invokes fn on the tab named target. When args are present they are
// passed as a single JSON-encoded array token.
func CallQML(target, fn string, args ...string) Command {
	cmd := Command{FlagCallQML, target, FlagFunc, fn}
	if len(args) == 0 {
		return cmd
	}
	// Marshalling a []string cannot fail.
	payload, _ := json.Marshal(args)
	return append(cmd, string(payload))
}

// Name returns the flag token of the command, or an empty string.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// String renders the command for logs.
func (c Command) String() string {
	return strings.Join(c, " ")
}
