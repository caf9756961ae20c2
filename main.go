// Command fixedkv is the line-oriented shell around the table engine:
// a thin, external layer that parses `insert`/`select`/meta-commands
// and drives the storage core in package table. None of this file's
// logic lives in the core itself (see spec's "shell is external").
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"fixedkv/row"
	"fixedkv/table"
)

var log = logrus.New()

var (
	verbose   = flag.BoolP("verbose", "v", false, "enable debug logging")
	pageTrace = flag.Bool("page-trace", false, "log every page fault and flush")
)

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fixedkv <database file> [-v] [--page-trace]")
		os.Exit(1)
	}
	dbPath := args[0]

	t, err := table.Open(dbPath)
	if err != nil {
		log.Errorf("open %q: %v", dbPath, err)
		os.Exit(1)
	}

	if *pageTrace {
		log.SetLevel(logrus.DebugLevel)
		t.Trace(func(event string, pageNum uint32) {
			log.Debugf("page %s: %d", event, pageNum)
		})
	}

	sh, err := newShell()
	if err != nil {
		log.Errorf("start shell: %v", err)
		os.Exit(1)
	}
	defer sh.Close()

	run(sh, t)

	if err := t.Close(); err != nil {
		log.Errorf("close %q: %v", dbPath, err)
		os.Exit(1)
	}
}

func run(sh *shell, t *table.Table) {
	for {
		line, err := sh.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			log.Errorf("read input: %v", err)
			return
		}
		if line == "" {
			continue
		}

		if line[0] == '.' {
			switch handleMetaCommand(line, t) {
			case MetaCommandSuccess:
				if line == ".exit" {
					return
				}
			case MetaCommandUnrecognizedCommand:
				fmt.Printf("Unrecognized command '%s'.\n", line)
			}
			continue
		}

		var stmt Statement
		switch prepareStatement(line, &stmt) {
		case PrepareSuccess:
			executeStatement(&stmt, t)
		case PrepareNegativeID:
			fmt.Println("ID must be positive.")
		case PrepareStringTooLong:
			fmt.Println("String is too long.")
		case PrepareSyntaxError:
			fmt.Println("Syntax error. Could not parse statement.")
		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of '%s'.\n", line)
		}
	}
}

func executeStatement(stmt *Statement, t *table.Table) {
	switch stmt.Type {
	case StatementInsert:
		err := t.Insert(stmt.RowToInsert)
		switch {
		case err == nil:
			fmt.Println("Executed.")
		case errors.Is(err, table.ErrDuplicateKey):
			fmt.Println("Error: Duplicate key.")
		case errors.Is(err, table.ErrTableFull):
			fmt.Println("Error: Table full.")
		case errors.Is(err, row.ErrStringTooLong):
			fmt.Println("String is too long.")
		default:
			log.Errorf("insert: %v", err)
			fmt.Println("Error: the database is no longer usable.")
		}
	case StatementSelect:
		rows, err := t.SelectAll()
		if err != nil {
			log.Errorf("select: %v", err)
			return
		}
		for _, r := range rows {
			fmt.Println(describe(r))
		}
		fmt.Println("Executed.")
	}
}
