// Package dialog presents launcher diagnostics to the user.
//
// Render draws a bordered message box with lipgloss. Fatal renders an
// error box on stderr and exits with status 1; every fatal setup failure
// goes through it so nothing exits silently.
//
// Terminal.Confirm asks a yes/no question. Without an attached terminal
// (golang.org/x/term) there is nobody to ask and AssumeYes is returned.
package dialog
