package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"btreedb/internal/command"
	"btreedb/internal/dberrors"
	"btreedb/internal/table"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Must supply a db filename")
		os.Exit(1)
	}

	tbl, err := table.Open(os.Args[1])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	runREPL(tbl, os.Stdin, os.Stdout)
}

func runREPL(tbl *table.Table, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(out, "db > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				closeOrDie(tbl)
				return
			}
			fmt.Fprintln(out, "error reading input:", err)
			closeOrDie(tbl)
			os.Exit(1)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			recognized, exit, err := command.DoMetaCommand(line, tbl, out)
			if !recognized {
				fmt.Fprintf(out, "unrecognized command '%s'\n", line)
				continue
			}
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			if exit {
				closeOrDie(tbl)
				os.Exit(0)
			}
			continue
		}

		stmt, err := command.PrepareStatement(line)
		if err != nil {
			switch {
			case dberrors.Is(err, dberrors.PrepareUnrecognized):
				fmt.Fprintf(out, "unrecognized command at start of %s.\n", line)
			case dberrors.Is(err, dberrors.PrepareNegativeID):
				fmt.Fprintln(out, "ID MUST BE POSITIVE")
			case dberrors.Is(err, dberrors.PrepareStringTooLong):
				fmt.Fprintln(out, "string is too long")
			case dberrors.Is(err, dberrors.PrepareSyntax):
				fmt.Fprintln(out, "syntax error")
			default:
				fmt.Fprintln(out, err)
			}
			continue
		}

		if err := command.Execute(stmt, tbl, out); err != nil {
			switch {
			case dberrors.Is(err, dberrors.DuplicateKey):
				fmt.Fprintln(out, "error: duplicate key.")
			default:
				fmt.Fprintln(out, "fatal error:", err)
				closeOrDie(tbl)
				os.Exit(1)
			}
			continue
		}
		fmt.Fprintln(out, "executed.")
	}
}

func closeOrDie(tbl *table.Table) {
	if err := tbl.Close(); err != nil {
		fmt.Println("error closing database:", err)
		os.Exit(1)
	}
}
