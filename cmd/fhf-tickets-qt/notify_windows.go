//go:build windows

package main

import (
	"errors"
	"os/exec"
	"strings"
)

var errNoNotifier = errors.New("powershell not found")

func notifyCommand(title, body string) *exec.Cmd {
	// Single quotes are doubled inside PowerShell string literals.
	title = strings.ReplaceAll(title, "'", "''")
	body = strings.ReplaceAll(body, "'", "''")

	script := `Add-Type -AssemblyName System.Windows.Forms;` +
		`$n = New-Object System.Windows.Forms.NotifyIcon;` +
		`$n.Icon = [System.Drawing.SystemIcons]::Information;` +
		`$n.Text = 'FHF Tickets';` +
		`$n.BalloonTipTitle = '` + title + `';` +
		`$n.BalloonTipText = '` + body + `';` +
		`$n.Visible = $true;` +
		`$n.ShowBalloonTip(4000);` +
		`Start-Sleep -Milliseconds 4100;` +
		`$n.Dispose()`
	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-WindowStyle", "Hidden", "-Command", script)
}
