// Command mcproto is a small demonstration harness over this module's
// packages: it speaks just enough of the Handshake exchange to probe a
// server, and can drive the Yggdrasil authentication flow from the
// command line.
//
// It is grounded on the teacher's cmd/blacklist and pkg/cmd/gate
// commands, rebuilt against urfave/cli/v2 (the CLI framework the
// teacher's go.mod actually pins) rather than hand-rolled flag parsing,
// with the teacher's zap/logr logging idiom from cmd/gate's
// initLogger carried over instead of dropped.
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go.mcproto.dev/mcproto/pkg/version"
)

func main() {
	app := &cli.App{
		Name:    "mcproto",
		Usage:   "probe Minecraft Java Edition servers and Yggdrasil accounts",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable verbose logging"},
		},
		Before: func(c *cli.Context) error {
			l := newLogger(c.Bool("debug"))
			c.Context = logr.NewContext(c.Context, zapr.NewLogger(l))
			return nil
		},
		Commands: []*cli.Command{
			handshakeCommand(),
			yggdrasilCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "console"
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return l
}
