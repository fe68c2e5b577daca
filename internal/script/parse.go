package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
)

// Problem describes a line the parser reported and skipped.
type Problem struct {
	// Line is the 1-based line number in the source text.
	Line int

	// Text is the offending line, trimmed.
	Text string

	// Reason explains why the line was skipped.
	Reason string
}

// String formats the problem for diagnostics.
func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s (%q)", p.Line, p.Reason, p.Text)
}

// fence delimits code block content.
const fence = "```"

var pointPattern = regexp.MustCompile(`^\(?\s*(\d+)\s*,\s*(\d+)\s*\)?$`)

// Parse converts script text into a command sequence. Comment and blank
// lines are ignored. Unrecognized lines are collected as problems and
// skipped; parsing never fails outright.
func Parse(src string) (command.Script, []Problem) {
	var cmds command.Script
	var problems []Problem

	lines := strings.Split(src, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lower := strings.ToLower(line)
		if lower == "type code block" {
			block, next := scanCodeBlock(lines, i+1)
			if block == nil {
				problems = append(problems, Problem{Line: i + 1, Text: line, Reason: "code block missing opening fence"})
			} else {
				cmds = append(cmds, command.TypeCodeBlock{Lines: block})
			}
			i = next - 1
			continue
		}

		cmd, err := parseLine(line, lower)
		if err != nil {
			problems = append(problems, Problem{Line: i + 1, Text: line, Reason: err.Error()})
			continue
		}
		cmds = append(cmds, cmd)
	}

	return cmds, problems
}

// scanCodeBlock looks for an opening fence at or after start, collects
// verbatim lines until the closing fence, and returns the content plus the
// index of the first line after the block. Content lines keep their exact
// leading whitespace. A missing closing fence ends the block at EOF.
func scanCodeBlock(lines []string, start int) ([]string, int) {
	i := start
	for i < len(lines) && strings.TrimSpace(lines[i]) != fence {
		i++
	}
	if i >= len(lines) {
		return nil, len(lines)
	}
	i++ // skip opening fence

	block := []string{}
	for i < len(lines) && strings.TrimSpace(lines[i]) != fence {
		block = append(block, lines[i])
		i++
	}
	if i < len(lines) {
		i++ // skip closing fence
	}
	return block, i
}

// parseLine parses one single-line command. line keeps the author's case
// for operands; lower is used for keyword matching. The two share offsets.
func parseLine(line, lower string) (command.Command, error) {
	switch {
	case strings.HasPrefix(lower, "left click and hold") || strings.HasPrefix(lower, "right click and hold"):
		return parseClickAndHold(line, lower)

	case strings.HasPrefix(lower, "drag "):
		return parseDrag(line, lower)

	case strings.HasPrefix(lower, "left click") || strings.HasPrefix(lower, "right click"):
		return parseClick(line, lower)

	case strings.HasPrefix(lower, "move mouse to "):
		return parseMoveTo(strings.TrimSpace(line[len("move mouse to "):]))

	case strings.HasPrefix(lower, "press "):
		return parsePress(strings.TrimSpace(lower[len("press "):]))

	case strings.HasPrefix(lower, "type line "):
		return command.TypeLine{Value: unquote(strings.TrimSpace(line[len("type line "):]))}, nil

	case strings.HasPrefix(lower, "type "):
		return command.Type{Value: unquote(strings.TrimSpace(line[len("type "):]))}, nil

	case strings.HasPrefix(lower, "wait") || strings.HasPrefix(lower, "sleep"):
		return parseWait(lower)

	default:
		return nil, fmt.Errorf("unknown command")
	}
}

func parseClick(line, lower string) (command.Command, error) {
	button, _ := mouse.ParseButton(firstField(lower))
	if idx := strings.Index(lower, " at "); idx >= 0 {
		name := strings.TrimSpace(line[idx+len(" at "):])
		if name == "" {
			return nil, fmt.Errorf("click missing location name")
		}
		return command.Click{Button: button, Location: name}, nil
	}
	return command.Click{Button: button}, nil
}

func parseClickAndHold(line, lower string) (command.Command, error) {
	button, _ := mouse.ParseButton(firstField(lower))
	cmd := command.ClickAndHold{Button: button, Seconds: 1.0}

	if idx := strings.Index(lower, " at "); idx >= 0 {
		rest := strings.TrimSpace(line[idx+len(" at "):])
		if fi := strings.Index(strings.ToLower(rest), " for "); fi >= 0 {
			cmd.Location = strings.TrimSpace(rest[:fi])
			secs, err := parseSeconds(rest[fi+len(" for "):])
			if err != nil {
				return nil, err
			}
			cmd.Seconds = secs
		} else {
			cmd.Location = rest
		}
		if cmd.Location == "" {
			return nil, fmt.Errorf("click and hold missing location name")
		}
	} else if fi := strings.Index(lower, " for "); fi >= 0 {
		secs, err := parseSeconds(line[fi+len(" for "):])
		if err != nil {
			return nil, err
		}
		cmd.Seconds = secs
	}
	return cmd, nil
}

func parseDrag(line, lower string) (command.Command, error) {
	fields := strings.Fields(lower)
	if len(fields) < 2 {
		return nil, fmt.Errorf("drag has no button")
	}
	button, ok := mouse.ParseButton(fields[1])
	if !ok {
		return nil, fmt.Errorf("unknown drag button %q", fields[1])
	}
	fromIdx := strings.Index(lower, " from ")
	if fromIdx < 0 {
		return nil, fmt.Errorf("drag missing 'from' location")
	}
	rest := line[fromIdx+len(" from "):]
	toIdx := strings.Index(strings.ToLower(rest), " to ")
	if toIdx < 0 {
		return nil, fmt.Errorf("drag missing 'to' location")
	}
	from := strings.TrimSpace(rest[:toIdx])
	to := strings.TrimSpace(rest[toIdx+len(" to "):])
	if from == "" || to == "" {
		return nil, fmt.Errorf("drag missing location name")
	}
	return command.Drag{Button: button, From: from, To: to}, nil
}

func parseMoveTo(target string) (command.Command, error) {
	if target == "" {
		return nil, fmt.Errorf("move missing target")
	}
	if m := pointPattern.FindStringSubmatch(target); m != nil {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		return command.MoveTo{Target: command.PointTarget(x, y)}, nil
	}
	return command.MoveTo{Target: command.NamedTarget(target)}, nil
}

func parsePress(combo string) (command.Command, error) {
	if combo == "" {
		return nil, fmt.Errorf("press missing key")
	}
	parts := strings.Split(combo, "+")
	keyName := strings.TrimSpace(parts[len(parts)-1])
	if keyName == "" {
		return nil, fmt.Errorf("press missing key")
	}

	var mods key.Modifier
	for _, part := range parts[:len(parts)-1] {
		mod, ok := key.ParseModifier(part)
		if !ok {
			return nil, fmt.Errorf("unknown modifier %q", strings.TrimSpace(part))
		}
		mods = mods.With(mod)
	}
	return command.Press{Mods: mods, Key: keyName}, nil
}

func parseWait(lower string) (command.Command, error) {
	fields := strings.Fields(lower)
	if len(fields) < 2 {
		// Bare "wait" sleeps for one second, matching historic behavior.
		return command.Wait{Seconds: 1.0}, nil
	}
	secs, err := parseSeconds(fields[1])
	if err != nil {
		return nil, err
	}
	return command.Wait{Seconds: secs}, nil
}

// parseSeconds parses a duration like "0.25" or "2.5s".
func parseSeconds(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "s")
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("malformed duration %q", s)
	}
	return secs, nil
}

// unquote strips exactly one matching pair of single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
