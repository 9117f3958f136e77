package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// confirm writes message to out and reads one answer from in. Anything other
// than y or yes, including a read error, counts as no.
func confirm(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprint(out, message)

	answer, err := readAnswer(in)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// readAnswer reads up to LF or CR so Enter works in cooked and raw terminal modes.
func readAnswer(in io.Reader) (string, error) {
	var buf []byte
	var one [1]byte
	for {
		n, err := in.Read(one[:])
		if n > 0 {
			if one[0] == '\n' || one[0] == '\r' {
				return string(buf), nil
			}
			buf = append(buf, one[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}
