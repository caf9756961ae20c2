package main

import (
	"fmt"
	"strconv"
	"strings"

	"fixedkv/row"
)

// StatementType distinguishes the two row-producing commands the
// shell understands. Everything else is a meta-command (see
// command.go).
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is the parsed form of one input line, ready for
// execution against an open table.Table.
type Statement struct {
	Type        StatementType
	RowToInsert row.Row
}

// PrepareResult classifies why parsing a line did or did not produce
// a Statement.
type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareUnrecognizedStatement
	PrepareSyntaxError
	PrepareNegativeID
	PrepareStringTooLong
)

// prepareStatement parses one input line into stmt, classifying
// failure the way the shell protocol distinguishes them: a bad
// keyword, a malformed insert, a negative id, or an over-length
// field.
func prepareStatement(line string, stmt *Statement) PrepareResult {
	switch {
	case line == "select":
		stmt.Type = StatementSelect
		return PrepareSuccess
	case strings.HasPrefix(line, "insert"):
		return prepareInsert(line, stmt)
	default:
		return PrepareUnrecognizedStatement
	}
}

// prepareInsert parses "insert <id> <username> <email>". The id must
// parse as a non-negative integer that fits in a uint32; username and
// email are rejected here only for length, matching the shell-level
// bound spec.md calls out (the core would reject them again anyway).
func prepareInsert(line string, stmt *Statement) PrepareResult {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return PrepareSyntaxError
	}

	idField, username, email := fields[1], fields[2], fields[3]

	id, err := strconv.ParseInt(idField, 10, 64)
	if err != nil {
		return PrepareSyntaxError
	}
	if id < 0 {
		return PrepareNegativeID
	}
	if id > int64(^uint32(0)) {
		return PrepareSyntaxError
	}

	if len(username) > row.UsernameSize || len(email) > row.EmailSize {
		return PrepareStringTooLong
	}

	stmt.Type = StatementInsert
	stmt.RowToInsert = row.Row{
		ID:       uint32(id),
		Username: username,
		Email:    email,
	}
	return PrepareSuccess
}

// describe renders a Row the way `select` prints it: "(id, username,
// email)".
func describe(r row.Row) string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}
