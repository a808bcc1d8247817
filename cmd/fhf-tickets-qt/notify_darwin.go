//go:build darwin

package main

import (
	"errors"
	"os/exec"
	"strings"
)

var errNoNotifier = errors.New("osascript not found")

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func notifyCommand(title, body string) *exec.Cmd {
	script := `display notification "` + appleScriptEscaper.Replace(body) +
		`" with title "` + appleScriptEscaper.Replace(title) +
		`" subtitle "FHF Tickets"`
	return exec.Command("osascript", "-e", script)
}
