package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	fcolor "github.com/fatih/color"
)

// MessageType selects the symbol and color of a message line.
type MessageType int

// Message types.
const (
	// ErrorType is printed red with ✗.
	ErrorType MessageType = iota
	// WarningType is printed yellow with ⚠.
	WarningType
	// ActivityType is printed with ► in the default color.
	ActivityType
	// SuccessType is printed green with ✔.
	SuccessType
	// InfoType is printed blue with ℹ.
	InfoType
)

// Message is one line (or block) of user-facing output.
type Message struct {
	Type MessageType
	// Content is a format string when Args is non-empty.
	Content string
	Args    []any
	// Elapsed is printed on its own line after a SuccessType message when positive.
	Elapsed time.Duration
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

// style is the symbol and color of a MessageType.
type style struct {
	symbol string
	color  *fcolor.Color
}

//nolint:gochecknoglobals // Package-level constant for message styling
var styles = map[MessageType]style{
	ErrorType:    {symbol: "✗ ", color: fcolor.New(fcolor.FgRed)},
	WarningType:  {symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)},
	ActivityType: {symbol: "► ", color: fcolor.New(fcolor.Reset)},
	SuccessType:  {symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)},
	InfoType:     {symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)},
}

// Errorf writes an error line.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning line.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes a line announcing work in progress.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success line.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithElapsedf writes a success line followed by "⏲ took <elapsed>".
func SuccessWithElapsedf(writer io.Writer, elapsed time.Duration, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Elapsed: elapsed, Writer: writer})
}

// Infof writes an informational line.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// WriteMessage writes msg with its symbol and color. Continuation lines of multi-line
// content are indented under the first line's text.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	msgStyle, ok := styles[msg.Type]
	if !ok {
		msgStyle = style{color: fcolor.New(fcolor.Reset)}
	}

	_, err := msgStyle.color.Fprintf(writer, "%s%s\n", msgStyle.symbol, indent(content, msgStyle.symbol))
	reportWriteError(err)

	if msg.Type == SuccessType && msg.Elapsed > 0 {
		_, err = msgStyle.color.Fprintf(writer, "⏲ took %s\n", msg.Elapsed.Round(time.Second))
		reportWriteError(err)
	}
}

// reportWriteError prints to stderr; a failed status line must not fail the command.
func reportWriteError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

func indent(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	padding := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = padding + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
