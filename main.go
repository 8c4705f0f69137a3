package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/tran/interp"
	"github.com/pontaoski/tran/lexer"
	"github.com/pontaoski/tran/parser"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tran", "main")

const defaultLogLevel = "WARNING"

func setLogLevel(level string) error {
	lvl, err := capnslog.ParseLevel(strings.ToUpper(level))
	if err != nil {
		return tracerr.Wrap(err)
	}

	capnslog.MustRepoLogger("github.com/pontaoski/tran").SetRepoLogLevel(lvl)
	return nil
}

// runSource lexes, parses and runs one program, sending console output to
// console.
func runSource(src, filename string, console interp.Console) error {
	prog, err := parser.ParseString(src, filename)
	if err != nil {
		return err
	}

	plog.Debugf("%s: %d interfaces, %d classes", filename, len(prog.Interfaces), len(prog.Classes))
	return interp.New(prog, console).Run()
}

func readSource(path string) (string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	return string(data), nil
}

// entryFile is the file named on the command line, or the module's entry.
func entryFile(c *cli.Context) (string, error) {
	if file := c.Args().First(); file != "" {
		return file, nil
	}

	doc, err := readModule(".")
	if err != nil {
		return "", err
	}
	if !c.IsSet("log-level") && doc.LogLevel != "" {
		if err := setLogLevel(doc.LogLevel); err != nil {
			return "", err
		}
	}
	return doc.entry(), nil
}

func dumpTokens(w io.Writer, src, filename string, raw bool) error {
	tokens, err := lexer.Lex(src, filename)
	if err != nil {
		return err
	}

	if raw {
		repr.New(w).Println(tokens)
		return nil
	}
	for _, tok := range tokens {
		fmt.Fprintf(w, "%s\t%s\n", tok.Location.From, tok)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "tran",
		Usage: "tran interpreter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or TRACE",
				Value: defaultLogLevel,
			},
		},
		Before: func(c *cli.Context) error {
			capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
			return setLogLevel(c.String("log-level"))
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "init a directory",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						fmt.Printf("no module name provided\n")
						os.Exit(1)
					}
					return initModule(".", name)
				},
			},
			{
				Name:      "run",
				Usage:     "run a file, or the module's entry file",
				ArgsUsage: "[file]",
				Action: func(c *cli.Context) error {
					file, err := entryFile(c)
					if err != nil {
						return err
					}
					src, err := readSource(file)
					if err != nil {
						return err
					}
					return runSource(src, file, interp.Writer{W: os.Stdout})
				},
			},
			{
				Name:      "tokens",
				Usage:     "print the tokens of a file",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					file, err := entryFile(c)
					if err != nil {
						return err
					}
					src, err := readSource(file)
					if err != nil {
						return err
					}
					return dumpTokens(os.Stdout, src, file, c.Bool("dump"))
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of a file",
				ArgsUsage: "[file]",
				Action: func(c *cli.Context) error {
					file, err := entryFile(c)
					if err != nil {
						return err
					}
					src, err := readSource(file)
					if err != nil {
						return err
					}
					prog, err := parser.ParseString(src, file)
					if err != nil {
						return err
					}
					repr.Println(prog)
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "write and run a program interactively",
				Action: func(c *cli.Context) error {
					return repl(os.Stdout)
				},
			},
		},
	}
	app.Run(os.Args)
}
