//go:build !linux && !darwin && !windows

package main

import (
	"errors"
	"os/exec"
)

var errNoNotifier = errors.New("desktop notifications unsupported on this platform")

func notifyCommand(_, _ string) *exec.Cmd { return nil }
