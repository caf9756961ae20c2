package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"fixedkv/table"
)

// MetaCommandResult classifies the outcome of a "." command.
type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// handleMetaCommand dispatches a line starting with "." against an
// open table. ".exit" is handled by the caller (it needs to close the
// table and stop the read loop), everything else is handled here.
func handleMetaCommand(line string, t *table.Table) MetaCommandResult {
	switch strings.TrimSpace(line) {
	case ".exit":
		return MetaCommandSuccess
	case ".btree":
		if err := t.PrintTree(os.Stdout); err != nil {
			log.Errorf("print tree: %v", err)
		}
		return MetaCommandSuccess
	case ".stats":
		printStats(t)
		return MetaCommandSuccess
	default:
		return MetaCommandUnrecognizedCommand
	}
}

func printStats(t *table.Table) {
	fmt.Printf("pages: %d\n", t.NumPages())
	fmt.Printf("file size: %s\n", humanize.Bytes(uint64(t.FileLength())))
	fmt.Printf("root page: %d\n", table.RootPageNum)
	fmt.Printf("tree height: %d\n", t.Height())
}
