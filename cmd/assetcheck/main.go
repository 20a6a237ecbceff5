package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/milk9111/doodlai/assets"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Root    string `help:"Asset root directory. Defaults to the game's lookup order." type:"path"`
	Base    string `help:"Texture directory inside the root." default:"textures"`
	Debug   bool   `help:"Whether to enable debug logging."`
	Workers int    `help:"Loader workers used by --decode." default:"4"`

	Check struct {
		Decode  bool          `help:"Also load and decode every declared texture."`
		Timeout time.Duration `help:"Give up waiting for loads after this long." default:"30s"`
	} `cmd:"" default:"1" help:"Verify that every static texture is declared in the resolver table."`

	List struct{} `cmd:"" help:"Print the resolved path of every declared texture."`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("assetcheck"),
		kong.Description("validate doodlai asset resolver tables"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	store, err := openStore(CLI.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	resolver := assets.NewResolver(store, assets.CategoryTexture, CLI.Base)

	switch ctx.Command() {
	case "list":
		list(resolver)
	default:
		report := check(resolver, store, CLI.Check.Decode, CLI.Workers, CLI.Check.Timeout)
		report.print(os.Stdout)
		if !report.ok() {
			os.Exit(1)
		}
	}
}

func openStore(root string) (assets.Store, error) {
	if root == "" {
		r, err := assets.Root()
		if err != nil {
			return nil, err
		}
		root = r
	}
	if _, err := os.Stat(root); err != nil {
		log.Warn().Str("root", root).Msg("asset root not found, checking the embedded pack only")
		return assets.DefaultStore(""), nil
	}
	return assets.DefaultStore(root), nil
}

func list(resolver *assets.Resolver) {
	for _, t := range assets.StaticTextures() {
		p, ok := resolver.ResolveTexture(t)
		if !ok {
			p = "-"
		}
		fmt.Printf("%-18s %s\n", t, p)
	}
}
