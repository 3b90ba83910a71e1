package textcmd

import "strings"

// command is a parsed text command.
type command struct {
	verb string
	args []string
}

// parse splits a raw message into a verb and arguments. The verb is
// lower-cased; arguments keep their case (machine names are lower-case by
// convention but usernames and tokens may not be).
func parse(message string) command {
	parts := strings.Fields(message)
	if len(parts) == 0 {
		return command{}
	}
	return command{
		verb: strings.ToLower(parts[0]),
		args: parts[1:],
	}
}

func (c command) arg(i int) (string, bool) {
	if i >= len(c.args) {
		return "", false
	}
	return c.args[i], true
}
