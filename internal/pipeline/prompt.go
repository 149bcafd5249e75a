package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Confirmer asks a yes/no question
type Confirmer interface {
	Confirm(prompt string, defaultYes bool) (bool, error)
}

// AutoConfirmer answers every question with its value
type AutoConfirmer bool

// Confirm returns the fixed answer
func (a AutoConfirmer) Confirm(string, bool) (bool, error) { return bool(a), nil }

// Prompter reads answers line by line from a terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question; an empty answer takes the default
func (p *Prompter) Confirm(prompt string, defaultYes bool) (bool, error) {
	choices := "[y/N]"
	if defaultYes {
		choices = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s %s ", prompt, choices)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintf(p.out, "Please answer y or n.\n")
	}
}

// Select asks the user to pick one of items and returns its index
func (p *Prompter) Select(prompt string, items []string, defaultIndex int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s\n", prompt)
		for i, item := range items {
			marker := " "
			if i == defaultIndex {
				marker = ">"
			}
			fmt.Fprintf(p.out, " %s %d) %s\n", marker, i+1, item)
		}
		fmt.Fprintf(p.out, "Choice [%d]: ", defaultIndex+1)

		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return defaultIndex, nil
		}

		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(items))
	}
}

// Input reads one line of free text
func (p *Prompter) Input(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", prompt)
	return p.readLine()
}

// readLine returns the trimmed next line. io.EOF is only returned when no
// text preceded it.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
