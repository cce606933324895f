package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xbst/lib/tree"
	"github.com/benz9527/xbst/xlog"
)

const prompt = "> "

const helpText = `List of commands:
 - insert <n> ...... insert <n> into the tree
 - delete <n> ...... delete <n> from the tree
 - search <n> ...... output whether <n> is in the tree or not
 - clear ........... clear all elements from the tree
 - isempty ......... output whether the tree is empty or not
 - height .......... output the height of the tree
 - leaves .......... output the number of leaves in the tree
 - print tree ...... print formatted tree
 - print inorder ... print elements using inorder traversal
 - switch [kind] ... select a new tree, rb, avl or none (toggles rb and avl)
 - check ........... validate the tree invariants
 - help ............ reprint this menu
 - exit ............ exit program
`

const welcomeText = "Welcome!\nThis is the CLI for testing RedBlack and AVL trees.\nEnter `exit' to exit at any point.\n"

// Shell reads line commands and applies each of them to the selected
// tree. Not safe for concurrent use.
type Shell struct {
	in        io.Reader
	out       io.Writer
	logger    xlog.XLogger
	renderer  *renderer
	prompt    bool
	colorize  bool
	statsName string
	kind      Kind
	tree      boundTree
}

type ShellOption func(*Shell)

func WithShellLogger(logger xlog.XLogger) ShellOption {
	return func(s *Shell) {
		s.logger = logger
	}
}

// WithShellPrompt prints the prompt before each line, for terminals.
func WithShellPrompt(enabled bool) ShellOption {
	return func(s *Shell) {
		s.prompt = enabled
	}
}

func WithShellColor(enabled bool) ShellOption {
	return func(s *Shell) {
		s.colorize = enabled
	}
}

func WithShellKind(kind Kind) ShellOption {
	return func(s *Shell) {
		s.kind = kind
	}
}

// WithShellTreeStats records the tree metrics under the name.
func WithShellTreeStats(name string) ShellOption {
	return func(s *Shell) {
		s.statsName = name
	}
}

func NewShell(in io.Reader, out io.Writer, opts ...ShellOption) *Shell {
	s := &Shell{
		in:   in,
		out:  out,
		kind: KindRB,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = xlog.NewNopXLogger()
	}
	s.renderer = newRenderer(s.colorize)
	s.tree = newBoundTree(s.kind, s.logger.Named("bstree"), s.statsName)
	return s
}

// Kind returns the balancer kind of the current tree.
func (s *Shell) Kind() Kind {
	return s.tree.kind()
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(msg string) {
	_, _ = io.WriteString(s.out, msg+"\n")
}

func (s *Shell) selected() {
	s.printf("You have selected a %s tree.\n", s.tree.kind().displayName())
}

// Run serves the commands until exit, the end of the input or ctx done.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("%s", welcomeText)
	s.selected()
	s.printf("%s", helpText)

	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt {
			s.printf("%s", prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if exit := s.Exec(scanner.Text()); exit {
			return nil
		}
	}
}

func parseKey(arg string) (uint32, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(line string) bool {
	args := strings.Fields(line)
	if len(args) <= 0 {
		return false
	} else if len(args) >= 3 {
		s.println("Too many arguments!")
		return false
	}
	s.logger.Debug("shell command", zap.Strings("args", args), zap.String("tree", string(s.tree.kind())))

	switch cmd := args[0]; cmd {
	case "insert", "delete", "search":
		if len(args) < 2 {
			s.println("Missing argument!")
			return false
		}
		key, err := parseKey(args[1])
		if err != nil {
			s.println("Enter an unsigned integer.")
			return false
		}
		s.keyCommand(cmd, key)
	case "clear":
		s.tree.Clear()
		s.println("Tree has been cleared.")
	case "isempty":
		s.printf("Is empty: %t\n", s.tree.IsEmpty())
	case "height":
		s.printf("Height: %d\n", s.tree.Height())
	case "leaves":
		s.printf("Leaves: %d\n", s.tree.Leaves())
	case "print":
		if len(args) < 2 {
			s.println("Missing argument!")
			return false
		}
		var err error
		switch args[1] {
		case "tree":
			err = s.renderer.renderTree(s.out, s.tree)
		case "inorder":
			err = s.renderer.renderInorder(s.out, s.tree)
		default:
			s.println("Invalid argument!")
		}
		if err != nil {
			s.logger.Error(err, "shell print failed")
		}
	case "switch":
		s.switchTree(args[1:])
	case "check":
		if err := s.tree.check(); err != nil {
			s.printf("Violations: %v\n", err)
			return false
		}
		s.println("Tree is valid.")
	case "help":
		s.printf("%s", helpText)
	case "exit":
		return true
	default:
		s.println("Invalid command!")
	}
	return false
}

func (s *Shell) keyCommand(cmd string, key uint32) {
	switch cmd {
	case "insert":
		if err := s.tree.Insert(key); err != nil {
			s.logger.Debug("shell insert failed", zap.Uint32("key", key), zap.Error(err))
			if errors.Is(err, tree.ErrDuplicateKey) {
				s.printf("Already have %d.\n", key)
			}
			return
		}
		s.printf("Inserted %d.\n", key)
	case "delete":
		if _, err := s.tree.Remove(key); err != nil {
			s.logger.Debug("shell delete failed", zap.Uint32("key", key), zap.Error(err))
			s.printf("Did not find %d.\n", key)
			return
		}
		s.printf("Deleted %d.\n", key)
	case "search":
		if s.tree.Search(key) {
			s.printf("Found %d!\n", key)
			return
		}
		s.printf("Did not find %d.\n", key)
	default:
	}
}

// switchTree replaces the tree by a new empty one. Without argument it
// toggles between RedBlack and AVL.
func (s *Shell) switchTree(args []string) {
	next := lo.Ternary(s.tree.kind() == KindRB, KindAVL, KindRB)
	if len(args) > 0 {
		kind, err := ParseKind(args[0])
		if err != nil {
			s.println("Invalid argument!")
			return
		}
		next = kind
	}
	s.tree.Release()
	s.kind = next
	s.tree = newBoundTree(next, s.logger.Named("bstree"), s.statsName)
	s.selected()
}
