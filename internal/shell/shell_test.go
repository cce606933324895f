package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xbst/xlog"
)

func execLines(t *testing.T, s *Shell, out *bytes.Buffer, lines ...string) []string {
	out.Reset()
	for _, line := range lines {
		require.False(t, s.Exec(line))
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestShellCommands(t *testing.T) {
	type testcase struct {
		name     string
		kind     Kind
		lines    []string
		expected []string
	}
	testcases := []testcase{
		{
			name:  "insert search delete",
			kind:  KindRB,
			lines: []string{"insert 5", "insert 5", "search 5", "delete 5", "search 5", "delete 5"},
			expected: []string{
				"Inserted 5.", "Already have 5.", "Found 5!", "Deleted 5.", "Did not find 5.", "Did not find 5.",
			},
		},
		{
			name:  "argument errors",
			kind:  KindAVL,
			lines: []string{"insert", "insert -1", "insert abc", "delete 4294967296", "insert 1 2 3", "print", "print x", "fly"},
			expected: []string{
				"Missing argument!", "Enter an unsigned integer.", "Enter an unsigned integer.",
				"Enter an unsigned integer.", "Too many arguments!", "Missing argument!",
				"Invalid argument!", "Invalid command!",
			},
		},
		{
			name:     "queries",
			kind:     KindAVL,
			lines:    []string{"isempty", "height", "leaves", "insert 40", "insert 50", "insert 60", "isempty", "height", "leaves"},
			expected: []string{"Is empty: true", "Height: 0", "Leaves: 0", "Inserted 40.", "Inserted 50.", "Inserted 60.", "Is empty: false", "Height: 2", "Leaves: 2"},
		},
		{
			name:     "clear",
			kind:     KindNone,
			lines:    []string{"insert 1", "insert 2", "clear", "isempty", "print inorder"},
			expected: []string{"Inserted 1.", "Inserted 2.", "Tree has been cleared.", "Is empty: true", "(empty)"},
		},
		{
			name:     "unbalanced height",
			kind:     KindNone,
			lines:    []string{"insert 1", "insert 2", "insert 3", "height", "leaves", "check"},
			expected: []string{"Inserted 1.", "Inserted 2.", "Inserted 3.", "Height: 3", "Leaves: 1", "Tree is valid."},
		},
		{
			name:  "blank line",
			kind:  KindRB,
			lines: []string{"   ", "insert 7"},
			expected: []string{
				"Inserted 7.",
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			out := &bytes.Buffer{}
			s := NewShell(strings.NewReader(""), out, WithShellKind(tc.kind))
			require.Equal(tt, tc.kind, s.Kind())
			require.Equal(tt, tc.expected, execLines(tt, s, out, tc.lines...))
		})
	}
}

func TestShellPrint(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewShell(strings.NewReader(""), out, WithShellKind(KindRB), WithShellColor(false))
	lines := execLines(t, s, out, "insert 5", "insert 3", "insert 8", "insert 1")
	require.Len(t, lines, 4)

	lines = execLines(t, s, out, "print inorder")
	require.Equal(t, []string{"1 3 5 8"}, lines)

	lines = execLines(t, s, out, "print tree")
	require.Equal(t, []string{
		"5 (B)",
		"  L: 3 (B)",
		"    L: 1 (R)",
		"  R: 8 (B)",
	}, lines)

	lines = execLines(t, s, out, "check")
	require.Equal(t, []string{"Tree is valid."}, lines)
}

func TestShellPrintColor(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewShell(strings.NewReader(""), out, WithShellKind(KindRB), WithShellColor(true))
	execLines(t, s, out, "insert 5", "insert 3")
	lines := execLines(t, s, out, "print tree")
	require.Len(t, lines, 2)
	require.Equal(t, "5 (B)", lines[0])
	require.Contains(t, lines[1], "\x1b[")
	require.Contains(t, lines[1], "3 (R)")

	avl := NewShell(strings.NewReader(""), out, WithShellKind(KindAVL), WithShellColor(true))
	execLines(t, avl, out, "insert 5", "insert 3")
	lines = execLines(t, avl, out, "print tree")
	require.Equal(t, []string{"5 (h=1)", "  L: 3 (h=0)"}, lines)
}

func TestShellSwitch(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewShell(strings.NewReader(""), out)
	require.Equal(t, KindRB, s.Kind())

	lines := execLines(t, s, out, "insert 1", "switch")
	require.Equal(t, []string{"Inserted 1.", "You have selected a AVL tree."}, lines)
	require.Equal(t, KindAVL, s.Kind())

	// A new tree is empty.
	lines = execLines(t, s, out, "isempty", "switch")
	require.Equal(t, []string{"Is empty: true", "You have selected a RedBlack tree."}, lines)
	require.Equal(t, KindRB, s.Kind())

	lines = execLines(t, s, out, "switch none", "switch avl", "switch b-tree")
	require.Equal(t, []string{
		"You have selected a Unbalanced tree.",
		"You have selected a AVL tree.",
		"Invalid argument!",
	}, lines)
	require.Equal(t, KindAVL, s.Kind())
}

func TestShellRun(t *testing.T) {
	in := strings.NewReader("insert 3\nsearch 3\nexit\ninsert 4\n")
	out := &bytes.Buffer{}
	s := NewShell(in, out, WithShellPrompt(true))
	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	require.True(t, strings.HasPrefix(text, "Welcome!\n"))
	require.Contains(t, text, "You have selected a RedBlack tree.")
	require.Contains(t, text, "List of commands:")
	require.Contains(t, text, "> Inserted 3.\n")
	require.Contains(t, text, "> Found 3!\n")
	require.NotContains(t, text, "Inserted 4.")

	// End of input without exit.
	out.Reset()
	s = NewShell(strings.NewReader("insert 9"), out)
	require.NoError(t, s.Run(context.Background()))
	require.True(t, strings.HasSuffix(out.String(), helpText+"Inserted 9.\n"))
	require.NotContains(t, out.String(), "\n"+prompt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s = NewShell(strings.NewReader("insert 9\n"), out)
	require.ErrorIs(t, s.Run(ctx), context.Canceled)
}

func TestShellLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerWriter(zapcore.AddSync(buf)),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
	)
	out := &bytes.Buffer{}
	s := NewShell(strings.NewReader(""), out, WithShellLogger(logger))
	execLines(t, s, out, "insert 1", "delete 2")
	require.Contains(t, buf.String(), "shell command")
	require.Contains(t, buf.String(), "shell delete failed")
	require.Contains(t, buf.String(), "[bstree] rebalance")
}

func TestParseKind(t *testing.T) {
	testcases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "rb", want: KindRB},
		{in: "AVL", want: KindAVL},
		{in: " none ", want: KindNone},
		{in: "1", want: KindRB},
		{in: "2", want: KindAVL},
		{in: "splay", want: KindRB, wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(tt *testing.T) {
			kind, err := ParseKind(tc.in)
			if tc.wantErr {
				require.Error(tt, err)
			} else {
				require.NoError(tt, err)
			}
			require.Equal(tt, tc.want, kind)
		})
	}
}
