package bubbletea

import (
	"strings"

	"github.com/fwojciec/lingua"
)

// command is a parsed slash command.
type command struct {
	name string
	arg  string
}

// parseCommand splits "/name rest of line". ok is false for ordinary
// chat input.
func parseCommand(input string) (cmd command, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(input[1:], " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

// tool is a one-shot prompt builder exposed as a slash command.
type tool struct {
	title string
	// missing is shown when the command has no argument.
	missing string
	prompt  func(string) (string, error)
}

var tools = map[string]tool{
	"paraphrase": {
		title:   "Paraphrase",
		missing: "Please enter text to paraphrase",
		prompt:  lingua.ParaphrasePrompt,
	},
	"formula": {
		title:   "Formula",
		missing: "Please describe the formula you need",
		prompt:  lingua.FormulaPrompt,
	},
}

const helpText = `/paraphrase <text>     rewrite text professionally
/formula <description> generate a spreadsheet formula
/progress              show your learning progress
/signin <email>        sign in to your account
/signout               sign out
/say [n]               read the last (or nth) tutor message aloud
/stop                  stop speaking
/voice                 voice input
/help                  show this list`
