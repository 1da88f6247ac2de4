// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package swiftcc

import (
	"database/sql"
	"time"

	"shanhu.io/misc/errcode"

	_ "modernc.org/sqlite" // sqlite driver
)

const journalRunsSchema = `
create table if not exists runs (
	id integer primary key autoincrement,
	start integer not null
)`

const journalSchema = `
create table if not exists steps (
	run integer not null,
	seq integer not null,
	stage integer not null,
	command text not null,
	skipped integer not null,
	exit_code integer not null,
	err text not null,
	start integer not null,
	duration integer not null,
	primary key (run, seq)
)`

// Journal saves the steps of every run into a sqlite database.
type Journal struct {
	db  *sql.DB
	run int64
}

// OpenJournal opens (or creates) the journal database at p and starts a
// new run.
func OpenJournal(p string) (*Journal, error) {
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, errcode.Annotate(err, "open database")
	}
	for _, schema := range []string{journalRunsSchema, journalSchema} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, errcode.Annotate(err, "create table")
		}
	}

	// Each run takes its ID from one insert into runs.
	res, err := db.Exec(
		`insert into runs (start) values (?)`, time.Now().UnixNano(),
	)
	if err != nil {
		db.Close()
		return nil, errcode.Annotate(err, "start run")
	}
	run, err := res.LastInsertId()
	if err != nil {
		db.Close()
		return nil, errcode.Annotate(err, "read run id")
	}
	return &Journal{db: db, run: run}, nil
}

// Run returns the ID of the current run.
func (j *Journal) Run() int64 { return j.run }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Record saves a step into the current run.
func (j *Journal) Record(step *Step) error {
	var start int64
	if !step.Start.IsZero() {
		start = step.Start.UnixNano()
	}
	if _, err := j.db.Exec(
		`insert into steps
			(run, seq, stage, command, skipped, exit_code, err, start, duration)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.run, step.Seq, int(step.Stage), step.Command,
		boolInt(step.Skipped), step.Exit, step.Err,
		start, int64(step.Duration),
	); err != nil {
		return errcode.Annotate(err, "insert step")
	}
	return nil
}

// Steps reads back the steps of a run, in order.
func (j *Journal) Steps(run int64) ([]*Step, error) {
	rows, err := j.db.Query(
		`select seq, stage, command, skipped, exit_code, err, start, duration
			from steps where run = ? order by seq`, run,
	)
	if err != nil {
		return nil, errcode.Annotate(err, "query steps")
	}
	defer rows.Close()

	var steps []*Step
	for rows.Next() {
		var (
			step            Step
			stage, skipped  int
			start, duration int64
		)
		if err := rows.Scan(
			&step.Seq, &stage, &step.Command, &skipped,
			&step.Exit, &step.Err, &start, &duration,
		); err != nil {
			return nil, errcode.Annotate(err, "scan step")
		}
		step.Stage = Stage(stage)
		step.Skipped = skipped != 0
		if start != 0 {
			step.Start = time.Unix(0, start)
		}
		step.Duration = time.Duration(duration)
		steps = append(steps, &step)
	}
	if err := rows.Err(); err != nil {
		return nil, errcode.Annotate(err, "iterate steps")
	}
	return steps, nil
}

// Close closes the database.
func (j *Journal) Close() error { return j.db.Close() }
