// Package prompt asks the user for the lifecycle action when none was given on the command line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/devantler-tech/vmctl/pkg/utils/notify"
	"golang.org/x/term"
)

// DefaultAction is chosen when the user just presses enter.
const DefaultAction = waiter.DesiredStopped

// ErrNoInput is returned when stdin closes before an answer was read.
var ErrNoInput = errors.New("no action entered")

// Test override variables with mutexes for thread safety.
var (
	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerOverride func() bool
)

// SetTTYCheckerForTests overrides the TTY checker for testing.
// Returns a restore function that should be called to reset the override.
func SetTTYCheckerForTests(checker func() bool) func() {
	ttyCheckerMu.Lock()

	previous := ttyCheckerOverride
	ttyCheckerOverride = checker

	ttyCheckerMu.Unlock()

	return func() {
		ttyCheckerMu.Lock()

		ttyCheckerOverride = previous

		ttyCheckerMu.Unlock()
	}
}

// IsTTY returns true if stdin is connected to a terminal.
// Prompts are only shown in interactive sessions; pipelines must pass --action.
func IsTTY() bool {
	ttyCheckerMu.RLock()

	override := ttyCheckerOverride

	ttyCheckerMu.RUnlock()

	if override != nil {
		return override()
	}

	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptForAction asks for "start" or "stop" and returns the matching desired state.
// An empty answer selects DefaultAction.
func PromptForAction(writer io.Writer, reader io.Reader, instanceID string) (waiter.DesiredState, error) {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "start or stop instance %s? [start/stop] (default %s): ",
		Args:    []any{instanceID, DefaultAction.Verb()},
		Writer:  writer,
	})

	input, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read action: %w", err)
	}

	input = strings.TrimSpace(input)

	switch {
	case input != "":
		return waiter.ParseDesiredState(input)
	case errors.Is(err, io.EOF):
		return "", ErrNoInput
	default:
		return DefaultAction, nil
	}
}
