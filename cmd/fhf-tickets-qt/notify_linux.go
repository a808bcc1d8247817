//go:build linux

package main

import (
	"errors"
	"os/exec"
)

var errNoNotifier = errors.New("notify-send not found")

func notifyCommand(title, body string) *exec.Cmd {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return nil
	}
	return exec.Command("notify-send", "-a", "FHF Tickets", "-i", "dialog-information", title, body)
}
