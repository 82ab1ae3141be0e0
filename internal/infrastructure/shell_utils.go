package infrastructure

import "strings"

// Characters with special meaning in a POSIX shell.
const shellSpecials = " \t\n\r'\"$`\\!*?[](){}|;<>&~#%"

// ShellQuote quotes s for safe display in a logged command line. This is
// for logging purposes only - exec.Command passes arguments directly to the
// process and never goes through a shell.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, shellSpecials) {
		return s
	}
	// Single-quote wrapping; embedded single quotes become '"'"'
	// (end quote, quoted quote, start quote).
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// ShellEscapeCommand renders a binary and its arguments as a display-safe
// command line for the download log header.
func ShellEscapeCommand(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellQuote(binary))
	for _, arg := range args {
		parts = append(parts, ShellQuote(arg))
	}
	return strings.Join(parts, " ")
}
