package main

// sendOSNotification shows a desktop notification through the platform's
// own notifier. It does not wait for the notifier to exit.
func sendOSNotification(title, body string) error {
	cmd := notifyCommand(title, body)
	if cmd == nil {
		return errNoNotifier
	}
	return cmd.Start()
}
