package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/unixdj/bysquare"
	"github.com/unixdj/bysquare/abi"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var g = struct {
	cfg    bysquare.Config // codec configuration
	fn     string          // output filename
	decode bool            // decode instead of encode
	yaml   bool            // YAML instead of JSON
	indent bool            // indent JSON output
}{}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "PAY by square encoder and decoder\nUsage: ",
		cl.Program(), " ", cl.UsageLine(), ` [input]
Encoding reads a payment order as JSON or YAML from the input file, or
from standard input if no file or "-" is given, and writes the code.
Decoding (-d) takes the code as arguments or from standard input and
writes the payment order.  Defaults: version 1.2.0, deburr and validate.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`bysquare version ` + abi.Version() + `
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(&g.decode, 'd', "decode a code into a payment order")
	getopt.Flag(&g.cfg.NoDeburr, 'D', "keep diacritics in free-text fields")
	getopt.Flag(&g.cfg.NoValidate, 'n', "do not validate the payment order")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	ver := getopt.Enum('v', []string{"1.0.0", "1.1.0", "1.2.0"}, "1.2.0",
		"format version to encode; decoding reads it from the code",
		"ver")
	ff := getopt.Enum('t', []string{"json", "yaml"}, "json",
		`payment order format; JSON output is indented `+
			`if no -o is given and standard output is a TTY`,
		"json|yaml")

	getopt.Parse()
	if g.decode {
		for _, v := range "Dv" {
			if getopt.IsSet(v) {
				fmt.Fprintf(os.Stderr,
					"-d and -%c are incompatible\n", v)
				usage()
			}
		}
	}
	var err error
	if g.cfg.Version, err = bysquare.ParseVersion(*ver); err != nil {
		log.Fatalln(err)
	}
	g.yaml = *ff == "yaml"
	g.indent = !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout))
	if g.fn == "-" {
		g.fn = ""
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var out []byte
	if g.decode {
		out = decode(readCode(getopt.Args()))
	} else {
		out = encode(readOrder(getopt.Args()))
	}
	write(out)
}

// readCode returns the code given as arguments or on standard input.
func readCode(args []string) string {
	if len(args) != 0 {
		return strings.Join(args, "")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalln(err)
	}
	return strings.TrimSpace(string(b))
}

// readOrder returns the contents of the file named by args, or of
// standard input.
func readOrder(args []string) []byte {
	var (
		b   []byte
		err error
	)
	switch {
	case len(args) > 1:
		fmt.Fprintln(os.Stderr, "too many input files")
		usage()
	case len(args) == 0 || args[0] == "-":
		b, err = io.ReadAll(os.Stdin)
	default:
		b, err = os.ReadFile(args[0])
	}
	if err != nil {
		log.Fatalln(err)
	}
	return b
}

func encode(b []byte) []byte {
	if g.yaml {
		var err error
		if b, err = fromYAML(b); err != nil {
			log.Fatalln(err)
		}
	}
	var o bysquare.PaymentOrder
	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	if err := d.Decode(&o); err != nil {
		log.Fatalln("bysquare: bad payment order:", err)
	}
	s, err := bysquare.Encode(&o, &g.cfg)
	if err != nil {
		log.Fatalln(err)
	}
	return []byte(s + "\n")
}

func decode(s string) []byte {
	o, err := bysquare.Decode(s, &bysquare.Config{NoValidate: g.cfg.NoValidate})
	if err != nil {
		log.Fatalln(err)
	}
	var b []byte
	if g.indent && !g.yaml {
		b, err = json.MarshalIndent(o, "", "  ")
	} else {
		b, err = json.Marshal(o)
	}
	if err == nil && g.yaml {
		b, err = toYAML(b)
	} else {
		b = append(b, '\n')
	}
	if err != nil {
		log.Fatalln(err)
	}
	return b
}

func write(b []byte) {
	w := os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	_, err := w.Write(b)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}
