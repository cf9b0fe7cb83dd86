// Package command tokenizes and validates REPL input lines into
// meta-commands and statements, and executes statements against a
// table. It is the thin external collaborator spec.md §6 describes;
// the parsing rules themselves are exact, but layout and row storage
// belong to package btree/table.
package command

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"btreedb/internal/dberrors"
	"btreedb/internal/row"
	"btreedb/internal/table"
)

// StatementType distinguishes the two statements this engine supports.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is a prepared, validated statement ready to execute.
type Statement struct {
	Type        StatementType
	RowToInsert row.Row
}

// DoMetaCommand handles a dot-prefixed input line. recognized is false when
// input is not a recognized meta-command; callers should report
// unrecognized commands using input verbatim.
func DoMetaCommand(input string, tbl *table.Table, w io.Writer) (recognized bool, exit bool, err error) {
	switch input {
	case ".exit":
		return true, true, nil
	case ".btree":
		return true, false, tbl.DebugPrintTree(w)
	case ".constants":
		tbl.DebugPrintConstants(w)
		return true, false, nil
	default:
		return false, false, nil
	}
}

// PrepareStatement tokenizes and validates input into a Statement.
// Recognized errors use dberrors.Kind values from the PREPARE_*
// family; input that isn't insert/select is dberrors.PrepareUnrecognized.
func PrepareStatement(input string) (Statement, error) {
	switch {
	case input == "select" || strings.HasPrefix(input, "select "):
		return Statement{Type: StatementSelect}, nil

	case input == "insert" || strings.HasPrefix(input, "insert "):
		return prepareInsert(input)

	default:
		return Statement{}, dberrors.New(dberrors.PrepareUnrecognized, "unrecognized keyword at start of input")
	}
}

// prepareInsert tokenizes "insert <id> <username> <email>" on
// whitespace into exactly four tokens and validates field widths, per
// spec.md §6.
func prepareInsert(input string) (Statement, error) {
	fields := strings.Fields(input)
	if len(fields) != 4 {
		return Statement{}, dberrors.New(dberrors.PrepareSyntax, "syntax error")
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Statement{}, dberrors.New(dberrors.PrepareSyntax, "syntax error")
	}
	if id < 0 {
		return Statement{}, dberrors.New(dberrors.PrepareNegativeID, "ID MUST BE POSITIVE")
	}
	if id > math.MaxUint32 {
		return Statement{}, dberrors.New(dberrors.PrepareSyntax, "syntax error")
	}

	username, email := fields[2], fields[3]
	if len(username) > row.UsernameMaxLen || len(email) > row.EmailMaxLen {
		return Statement{}, dberrors.New(dberrors.PrepareStringTooLong, "string is too long")
	}

	return Statement{
		Type: StatementInsert,
		RowToInsert: row.Row{
			ID:       uint32(id),
			Username: username,
			Email:    email,
		},
	}, nil
}

// Execute runs stmt against tbl, writing select output to w.
func Execute(stmt Statement, tbl *table.Table, w io.Writer) error {
	switch stmt.Type {
	case StatementInsert:
		return tbl.Insert(stmt.RowToInsert)
	case StatementSelect:
		return tbl.Scan(func(r row.Row) error {
			_, err := fmt.Fprintf(w, "(%d, %s, %s)\n", r.ID, r.Username, r.Email)
			return err
		})
	default:
		return fmt.Errorf("command: unknown statement type %d", stmt.Type)
	}
}
