package script

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dshills/replaykit/internal/command"
)

// Header carries the informational comment block written at the top of a
// recorded script. The parser ignores it on the way back in.
type Header struct {
	ID           string
	Recorded     time.Time
	Duration     time.Duration
	NewLocations int
}

// Render returns the script text: the header comment block (when given)
// followed by one command per line.
func Render(s command.Script, h *Header) string {
	var b strings.Builder

	if h != nil {
		fmt.Fprintf(&b, "# Recording ID: %s\n", h.ID)
		fmt.Fprintf(&b, "# Recorded: %s\n", h.Recorded.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "# Duration: %.1f seconds\n", h.Duration.Seconds())
		fmt.Fprintf(&b, "# Total commands: %d\n", s.Len())
		fmt.Fprintf(&b, "# New locations saved: %d\n", h.NewLocations)
		b.WriteString("\n")
		b.WriteString("# To run this recording:\n")
		fmt.Fprintf(&b, "# replaykit play %s\n", h.ID)
		b.WriteString("\n")
	}

	for _, cmd := range s {
		b.WriteString(cmd.Text())
		b.WriteString("\n")
	}
	return b.String()
}

// Write renders the script to w.
func Write(w io.Writer, s command.Script, h *Header) error {
	_, err := io.WriteString(w, Render(s, h))
	return err
}
