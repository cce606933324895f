package shell

import (
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/benz9527/xbst/lib/tree"
)

const emptyTreeText = "(empty)"

type renderer struct {
	red *color.Color
}

func newRenderer(colorize bool) *renderer {
	red := color.New(color.FgRed, color.Bold)
	if colorize {
		red.EnableColor()
	} else {
		red.DisableColor()
	}
	return &renderer{red: red}
}

/*
renderTree prints one node per line in pre-order, indented by depth.

	5 (B)
	  L: 3 (R)
	    L: 1 (B)
	    R: 4 (B)
	  R: 8 (B)
*/
func (r *renderer) renderTree(w io.Writer, t boundTree) error {
	if t.IsEmpty() {
		_, err := io.WriteString(w, emptyTreeText+"\n")
		return err
	}
	builder := &strings.Builder{}
	t.PreorderForeach(func(depth int, side tree.Direction, key uint32, meta any) bool {
		builder.WriteString(strings.Repeat("  ", depth))
		switch side {
		case tree.Left:
			builder.WriteString("L: ")
		case tree.Right:
			builder.WriteString("R: ")
		default:
		}
		text := strconv.FormatUint(uint64(key), 10)
		label, isRed := t.metaLabel(meta)
		if len(label) > 0 {
			text += " (" + label + ")"
		}
		if isRed {
			text = r.red.Sprint(text)
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
		return true
	})
	_, err := io.WriteString(w, builder.String())
	return err
}

func (r *renderer) renderInorder(w io.Writer, t boundTree) error {
	if t.IsEmpty() {
		_, err := io.WriteString(w, emptyTreeText+"\n")
		return err
	}
	keys := make([]string, 0, t.Len())
	t.Foreach(func(idx int64, key uint32, meta any) bool {
		keys = append(keys, strconv.FormatUint(uint64(key), 10))
		return true
	})
	_, err := io.WriteString(w, strings.Join(keys, " ")+"\n")
	return err
}
