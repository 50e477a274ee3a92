// Package editor provides a line oriented text editor used to view and edit
// namespace files from a terminal.
package editor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrAborted is returned when the session ends with q instead of w.
var ErrAborted = errors.New("edit aborted")

const prompt = ": "

const usage = `commands:
  a        append lines, end with a single "."
  i N      insert lines before line N, end with a single "."
  d N      delete line N
  r N txt  replace line N with txt
  p        print the buffer
  w        save and quit
  q        quit without saving`

// LineEditor reads commands from in and writes the buffer and prompts to out.
type LineEditor struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// ViewText prints content with line numbers.
func (ed *LineEditor) ViewText(content string) error {
	return ed.print(splitLines(content))
}

// EditText runs an editing session over current and returns the saved text.
func (ed *LineEditor) EditText(current string) (string, error) {
	lines := splitLines(current)

	if err := ed.print(lines); err != nil {
		return "", err
	}

	for {
		fmt.Fprint(ed.out, prompt)
		if !ed.in.Scan() {
			if err := ed.in.Err(); err != nil {
				return "", errors.WithMessage(err, "failed to read command")
			}
			return "", ErrAborted
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(ed.in.Text()), " ")

		var err error
		switch cmd {
		case "":
			continue
		case "a":
			lines = append(lines, ed.readBlock()...)
		case "i":
			lines, err = ed.insert(lines, arg)
		case "d":
			lines, err = remove(lines, arg)
		case "r":
			lines, err = replace(lines, arg)
		case "p":
			err = ed.print(lines)
		case "w":
			return joinLines(lines), nil
		case "q":
			return "", ErrAborted
		default:
			fmt.Fprintln(ed.out, usage)
		}

		if err != nil {
			fmt.Fprintf(ed.out, "? %v\n", err)
		}
	}
}

// readBlock collects input lines until a line holding only ".".
func (ed *LineEditor) readBlock() []string {
	var block []string
	for ed.in.Scan() {
		line := ed.in.Text()
		if line == "." {
			break
		}
		block = append(block, line)
	}
	return block
}

func (ed *LineEditor) insert(lines []string, arg string) ([]string, error) {
	n, err := lineNumber(arg, len(lines)+1)
	if err != nil {
		return lines, err
	}

	block := ed.readBlock()
	result := make([]string, 0, len(lines)+len(block))
	result = append(result, lines[:n-1]...)
	result = append(result, block...)
	return append(result, lines[n-1:]...), nil
}

func remove(lines []string, arg string) ([]string, error) {
	n, err := lineNumber(arg, len(lines))
	if err != nil {
		return lines, err
	}

	return append(lines[:n-1:n-1], lines[n:]...), nil
}

func replace(lines []string, arg string) ([]string, error) {
	num, text, _ := strings.Cut(arg, " ")

	n, err := lineNumber(num, len(lines))
	if err != nil {
		return lines, err
	}

	lines[n-1] = text
	return lines, nil
}

func (ed *LineEditor) print(lines []string) error {
	for i, line := range lines {
		if _, err := fmt.Fprintf(ed.out, "%4d  %s\n", i+1, line); err != nil {
			return errors.WithMessage(err, "failed to print buffer")
		}
	}
	return nil
}

// lineNumber parses a 1-based line number no greater than limit.
func lineNumber(arg string, limit int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.Errorf("invalid line number %q", arg)
	}

	if n < 1 || n > limit {
		return 0, errors.Errorf("line %d out of range", n)
	}

	return n, nil
}

func splitLines(content string) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
