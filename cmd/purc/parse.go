package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purc-go/purc"
	"github.com/purc-go/purc/vcm"
	"github.com/purc-go/purc/vdom"
)

func init() {
	rootCmd.AddCommand(newParseCmd())
}

func newParseCmd() *cobra.Command {
	cfg := &parseConfig{}
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an HVML document and print its VDOM tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runParseWith(args[0], cfg)
		},
	}
	cfg.RegisterFlags(cmd.Flags())
	return cmd
}

func runParse(path string) error {
	return runParseWith(path, &parseConfig{})
}

func runParseWith(path string, cfg *parseConfig) error {
	doc, err := purc.LoadFromFile(path, cfg.Options()...)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	dumpNode(doc, 0)
	return nil
}

func dumpNode(n *vdom.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case vdom.KDocument:
		fmt.Printf("%s#document doctype=%q\n", indent, n.DoctypeName)
	case vdom.KElement:
		fmt.Printf("%s<%s>", indent, n.TagName)
		if n.Foreign {
			fmt.Print(" [foreign]")
		}
		fmt.Println()
	case vdom.KContent:
		fmt.Printf("%s#text %q\n", indent, contentText(n))
	case vdom.KComment:
		fmt.Printf("%s#comment %q\n", indent, n.CommentText)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dumpNode(c, depth+1)
	}
}

func contentText(n *vdom.Node) string {
	if n.Content == nil {
		return ""
	}
	if n.Content.Kind == vcm.KConcatString {
		var s string
		for _, e := range n.Content.Elements {
			if e.Kind == vcm.KString {
				s += e.Str
			}
		}
		return s
	}
	return n.Content.Str
}
