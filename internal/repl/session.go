// Package repl runs the interactive question-and-answer loop on a terminal.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cortexai/igs/internal/tools"
)

const (
	welcomeText  = "Welcome to the Intelligent Generative System!"
	assistText   = "How may I assist you today? Please enter your query below."
	goodbyeText  = "Thank you for using the Intelligent Generative System! Goodbye!"
	continueText = "Alright, let's continue!"
	invalidText  = "Invalid choice. Exiting the system."
)

// Answerer is satisfied by *service.Dispatcher.
type Answerer interface {
	Process(ctx context.Context, query string) tools.Result
}

// Session reads queries from in and writes answers to out.
type Session struct {
	in  *bufio.Reader
	out io.Writer

	prompt  *color.Color
	success *color.Color
	failure *color.Color
	notice  *color.Color
}

func New(in io.Reader, out io.Writer) *Session {
	return &Session{
		in:      bufio.NewReader(in),
		out:     out,
		prompt:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		notice:  color.New(color.FgYellow),
	}
}

// ReadAPIKey asks for an OpenAI API key. It shares the session's input, so
// call it before Run.
func (s *Session) ReadAPIKey() (string, error) {
	s.prompt.Fprint(s.out, "Please enter your OpenAI API key: ")
	key, err := s.readLine()
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(key), nil
}

// Run loops until the user exits, the input ends or ctx is cancelled. End of
// input is a normal exit.
func (s *Session) Run(ctx context.Context, a Answerer) error {
	fmt.Fprintln(s.out, welcomeText)
	fmt.Fprintln(s.out, assistText)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.prompt.Fprint(s.out, "You: ")
		query, err := s.readLine()
		if err != nil {
			return endOfInput(err)
		}

		res := a.Process(ctx, query)
		fmt.Fprint(s.out, "Response: ")
		if res.Failed() {
			s.failure.Fprintln(s.out, res.Text)
		} else {
			s.success.Fprintln(s.out, res.Text)
		}
		fmt.Fprintln(s.out)

		s.prompt.Fprint(s.out, "Do you have any other query? (Y/N): ")
		another, err := s.readLine()
		if err != nil {
			return endOfInput(err)
		}

		switch strings.ToLower(strings.TrimSpace(another)) {
		case "y":
			continue
		case "n":
			s.prompt.Fprint(s.out, "Do you want to exit? (Y/N): ")
			exit, err := s.readLine()
			if err != nil {
				return endOfInput(err)
			}
			if strings.ToLower(strings.TrimSpace(exit)) == "y" {
				fmt.Fprintln(s.out, goodbyeText)
				return nil
			}
			s.notice.Fprintln(s.out, continueText)
		default:
			s.notice.Fprintln(s.out, invalidText)
			return nil
		}
	}
}

// readLine returns one line without its terminator. A final line without a
// newline is returned normally; io.EOF only comes back when nothing was read.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
