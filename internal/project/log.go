package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bullet prefixes each entry appended to a Log.
const Bullet = "• "

// Log is an append-only, ordered list of free-text lines such as adopted
// mitigations or engagement strategies. Each element is one line exactly as
// it appears in the newline-delimited text the front end edits, so lines the
// user typed keep their own prefix (or none). Only appended entries receive
// the Bullet.
type Log []string

// Append returns the log with entry added at the end as a bulleted line.
// Line breaks inside entry are folded into spaces so one entry stays one line.
func (l Log) Append(entry string) Log {
	return append(l, Bullet+oneLine(entry))
}

// Clone returns an independent copy of l, preserving nil.
func (l Log) Clone() Log {
	if l == nil {
		return nil
	}
	return append(Log{}, l...)
}

// String renders the log as its newline-delimited text form.
func (l Log) String() string {
	return strings.Join(l, "\n")
}

// Entries returns the non-blank lines with any leading bullet ("•", "- ",
// "* ") removed.
func (l Log) Entries() []string {
	var out []string
	for _, line := range l {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"•", "- ", "* "} {
			if strings.HasPrefix(line, prefix) {
				line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
				break
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseLog splits text into lines without altering them, so
// ParseLog(text).String() == text. Empty text is an empty log.
func ParseLog(text string) Log {
	if text == "" {
		return nil
	}
	return Log(strings.Split(text, "\n"))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (l Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts the text form, a JSON array of lines, or null.
func (l *Log) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*l = nil
		return nil
	case strings.HasPrefix(trimmed, "["):
		var entries []string
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("decoding log entries: %w", err)
		}
		*l = ParseLog(strings.Join(entries, "\n"))
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("decoding log text: %w", err)
	}
	*l = ParseLog(text)
	return nil
}

func (l Log) MarshalYAML() (interface{}, error) {
	return []string(l), nil
}

// UnmarshalYAML accepts either a sequence of lines or the text form.
func (l *Log) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var entries []string
		if err := value.Decode(&entries); err != nil {
			return err
		}
		*l = ParseLog(strings.Join(entries, "\n"))
		return nil
	}
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	*l = ParseLog(text)
	return nil
}
