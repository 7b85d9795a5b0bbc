package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/tokenizer"
)

func init() {
	rootCmd.AddCommand(newTokenizeCmd())
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the raw token stream the tokenizer produces for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTokenize(args[0])
		},
	}
}

func runTokenize(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	defer f.Close()

	rd := reader.New(f, 32)
	tz := tokenizer.New(rd)

	for {
		tok, err := tz.Next()
		if err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}
		printToken(tok)
		if tok.Kind == tokenizer.EOFToken {
			break
		}
	}
	for _, e := range tz.Errors {
		fmt.Fprintf(os.Stderr, "recoverable: %v\n", e)
	}
	return nil
}

func printToken(tok tokenizer.Token) {
	switch tok.Kind {
	case tokenizer.StartTag:
		fmt.Printf("%s start-tag %s attrs=%d selfclosing=%v\n", tok.Pos, tok.TagName, len(tok.Attrs), tok.SelfClosing)
	case tokenizer.EndTag:
		fmt.Printf("%s end-tag %s\n", tok.Pos, tok.TagName)
	case tokenizer.Character:
		fmt.Printf("%s character\n", tok.Pos)
	case tokenizer.Comment:
		fmt.Printf("%s comment %q\n", tok.Pos, tok.CommentText)
	case tokenizer.Doctype:
		fmt.Printf("%s doctype %s\n", tok.Pos, tok.DoctypeName)
	case tokenizer.EOFToken:
		fmt.Printf("%s eof\n", tok.Pos)
	}
}
