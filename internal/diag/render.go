package diag

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ibscript/internal/langerr"
)

// Render formats a langerr.Error with source context: a file/position
// header, the offending source line prefixed with its line number, a
// caret underneath the offending column, and the message.
func Render(err *langerr.Error, sm *SourceMap, file string, color bool) string {
	var sb strings.Builder

	line, col, lineText := 0, 0, ""
	if sm != nil {
		line, col, lineText = sm.Locate(err.Pos.Offset)
	} else {
		line, col = err.Pos.Line, err.Pos.Column
	}

	if file != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", file, line, col)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", line, col)
	}

	if lineText != "" {
		gutter := fmt.Sprintf("%4d | ", line)
		sb.WriteString(gutter)
		sb.WriteString(lineText)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(gutter)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(err.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(err.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}
