package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/acs/lang"
	"github.com/ardnew/acs/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the session source in
// the user's editor until the result parses or the user declines to retry.
type editCommand struct {
	ctx    context.Context
	source string
	opts   []lang.Option
	logger log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// edited holds the accepted source; nil if the user emptied the file.
	edited *string
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run returns [ErrEditDeclined] if the source does not parse and the user
// chooses not to edit it again.
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "acs-repl-*.acs")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	content := c.source

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		_, perr := lang.ParseString(c.ctx, content, c.opts...)

		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", perr == nil),
		)

		if perr == nil {
			c.edited = &content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", perr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		sc := bufio.NewScanner(c.stdin)
		if !sc.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in $EDITOR, or vi if unset.
func (c *editCommand) runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(c.ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}
