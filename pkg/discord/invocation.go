package discord

import "strings"

// Invocation is a parsed text command
type Invocation struct {
	Prefix string
	Name   string
	Args   []string
}

// ParseInvocation splits a prefixed message into a command key and its
// arguments. The prefix is matched case-sensitively; only the key is
// lowercased, arguments keep their case.
func ParseInvocation(content, prefix string) (Invocation, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return Invocation{}, false
	}

	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return Invocation{}, false
	}

	return Invocation{
		Prefix: prefix,
		Name:   strings.ToLower(fields[0]),
		Args:   fields[1:],
	}, true
}

// Rest joins the arguments from index i, or "" when there are fewer
func (inv Invocation) Rest(i int) string {
	if i >= len(inv.Args) {
		return ""
	}
	return strings.Join(inv.Args[i:], " ")
}
