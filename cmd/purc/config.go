package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/purc-go/purc"
)

// parseConfig holds the CLI-tunable knobs for the parse subcommand, grounded
// on MacroPower-x/magicschema's Config/RegisterFlags shape: a plain struct
// whose fields pflag binds to directly, turned into purc.Option values by
// Options.
type parseConfig struct {
	maxDepth    int
	rawAttrTags string
	strict      bool
}

// RegisterFlags adds parse-tuning flags to flags.
func (c *parseConfig) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVar(&c.maxDepth, "max-json-depth", 0,
		"maximum eJSON/JSONEE nesting depth (0 uses the tokenizer's default)")
	flags.StringVar(&c.rawAttrTags, "raw-attr-tags", "",
		"comma-separated tag names whose attribute values are taken verbatim")
	flags.BoolVar(&c.strict, "strict", false,
		"fail the whole parse on the first recoverable VDOM error instead of logging and continuing")
}

// Options converts the flag values into purc.Option values layered on top of
// the shared cliLogger.
func (c *parseConfig) Options() []purc.Option {
	opts := []purc.Option{purc.WithLogger(cliLogger()), purc.WithLenient(!c.strict)}
	if c.maxDepth > 0 {
		opts = append(opts, purc.WithMaxJSONEEDepth(c.maxDepth))
	}
	if tags := c.rawAttrTags; tags != "" {
		names := strings.Split(tags, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		opts = append(opts, purc.WithRawAttributeTags(names...))
	}
	return opts
}
