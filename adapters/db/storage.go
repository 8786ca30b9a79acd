package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"helpify/core"
)

const taskColumns = `id, client_id, title, description, location, budget, scheduled_time, status, helper_id, created_at, updated_at`

const applicationColumns = `id, task_id, helper_id, proposal, bid_amount, status, created_at`

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {
	conn, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Tasks

func (db *DB) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	const q = `
		INSERT INTO tasks(client_id, title, description, location, budget, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns + `;
	`

	var out core.Task
	err := db.conn.GetContext(ctx, &out, q,
		t.ClientID, t.Title, t.Description, t.Location, t.Budget, t.ScheduledTime, t.Status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Task{}, fmt.Errorf("%w: unknown client", core.ErrInvalidArgs)
		}
		if isCheckViolation(err) {
			return core.Task{}, core.ErrInvalidArgs
		}
		return core.Task{}, storageError("insert task", err)
	}
	return out, nil
}

func (db *DB) GetTask(ctx context.Context, id int64) (core.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1;`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, fmt.Errorf("%w: task %d", core.ErrNotFound, id)
		}
		return core.Task{}, storageError("get task", err)
	}
	return t, nil
}

func (db *DB) ListTasks(ctx context.Context, f core.ListTasksFilter) ([]core.Task, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var (
		sb   strings.Builder
		args []any
		n    = 1
	)

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`)

	if f.Status != nil {
		args = append(args, *f.Status)
		sb.WriteString(fmt.Sprintf(" AND status = $%d", n))
		n++
	}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		sb.WriteString(fmt.Sprintf(" AND client_id = $%d", n))
		n++
	}
	if f.HelperID != nil {
		args = append(args, *f.HelperID)
		sb.WriteString(fmt.Sprintf(" AND helper_id = $%d", n))
		n++
	}

	args = append(args, f.Limit, f.Offset)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n, n+1))

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, storageError("list tasks", err)
	}
	return out, nil
}

func (db *DB) CompleteTask(ctx context.Context, taskID, clientID int64) (core.Task, error) {
	var out core.Task
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		t, err := lockTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if t.ClientID != clientID {
			return fmt.Errorf("%w: not your task", core.ErrForbidden)
		}

		next, err := t.Status.Transition(core.TaskEventComplete)
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &out,
			`UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+taskColumns+`;`,
			taskID, next)
	})
	if err != nil {
		return core.Task{}, err
	}
	return out, nil
}

func (db *DB) CancelTask(ctx context.Context, taskID, clientID int64) (core.Task, error) {
	var out core.Task
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		t, err := lockTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if t.ClientID != clientID {
			return fmt.Errorf("%w: not your task", core.ErrForbidden)
		}

		next, err := t.Status.Transition(core.TaskEventCancel)
		if err != nil {
			return err
		}

		// no application may stay pending against a cancelled task
		if _, err := tx.ExecContext(ctx,
			`UPDATE applications SET status = $2 WHERE task_id = $1 AND status = $3;`,
			taskID, core.StatusRejected, core.StatusPending); err != nil {
			return storageError("reject pending applications", err)
		}

		return tx.GetContext(ctx, &out,
			`UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+taskColumns+`;`,
			taskID, next)
	})
	if err != nil {
		return core.Task{}, err
	}
	return out, nil
}

// Applications

func (db *DB) CreateApplication(ctx context.Context, a core.Application) (core.Application, error) {
	var out core.Application
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		// FOR SHARE so the open check cannot race an accept or cancel,
		// which lock the same row FOR UPDATE.
		var t core.Task
		err := tx.GetContext(ctx, &t,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR SHARE;`, a.TaskID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: task %d", core.ErrNotFound, a.TaskID)
			}
			return storageError("get task", err)
		}

		if t.ClientID == a.HelperID {
			return fmt.Errorf("%w: cannot apply to your own task", core.ErrForbidden)
		}
		if t.Status != core.StatusOpen {
			return fmt.Errorf("%w: task is %s, applications are closed", core.ErrInvalidState, t.Status)
		}

		const q = `
			INSERT INTO applications(task_id, helper_id, proposal, bid_amount, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + applicationColumns + `;
		`
		err = tx.GetContext(ctx, &out, q, a.TaskID, a.HelperID, a.Proposal, a.BidAmount, a.Status)
		if err != nil {
			if isUniqueViolation(err) {
				return core.ErrAlreadyApplied
			}
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: unknown helper", core.ErrInvalidArgs)
			}
			return storageError("insert application", err)
		}
		return nil
	})
	if err != nil {
		return core.Application{}, err
	}
	return out, nil
}

func (db *DB) GetApplication(ctx context.Context, id int64) (core.Application, error) {
	const q = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1;`

	var a core.Application
	if err := db.conn.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Application{}, fmt.Errorf("%w: application %d", core.ErrNotFound, id)
		}
		return core.Application{}, storageError("get application", err)
	}
	return a, nil
}

func (db *DB) ListTaskApplications(ctx context.Context, taskID int64) ([]core.TaskApplication, error) {
	const q = `
		SELECT a.id, a.task_id, a.helper_id, a.proposal, a.bid_amount, a.status, a.created_at,
		       u.name AS helper_name
		FROM applications a
		JOIN users u ON u.id = a.helper_id
		WHERE a.task_id = $1
		ORDER BY a.created_at ASC;
	`

	var out []core.TaskApplication
	if err := db.conn.SelectContext(ctx, &out, q, taskID); err != nil {
		return nil, storageError("list task applications", err)
	}
	return out, nil
}

func (db *DB) ListHelperApplications(ctx context.Context, helperID int64) ([]core.HelperApplication, error) {
	const q = `
		SELECT a.id, a.task_id, a.helper_id, a.proposal, a.bid_amount, a.status, a.created_at,
		       t.title AS task_title, t.status AS task_status
		FROM applications a
		JOIN tasks t ON t.id = a.task_id
		WHERE a.helper_id = $1
		ORDER BY a.created_at DESC;
	`

	var out []core.HelperApplication
	if err := db.conn.SelectContext(ctx, &out, q, helperID); err != nil {
		return nil, storageError("list helper applications", err)
	}
	return out, nil
}

// AcceptApplication commits the three-way accept as one unit: the chosen
// application becomes accepted, its pending siblings become rejected, and
// the task moves to in_progress with the winning helper assigned. The task
// row is locked first so concurrent accepts serialize and the loser sees
// ErrInvalidState.
func (db *DB) AcceptApplication(ctx context.Context, applicationID, clientID int64) (core.AcceptResult, error) {
	var out core.AcceptResult
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		a, err := getApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		t, err := lockTask(ctx, tx, a.TaskID)
		if err != nil {
			return err
		}
		if t.ClientID != clientID {
			return fmt.Errorf("%w: not your task", core.ErrForbidden)
		}

		// re-read under the task lock; the first read raced without it
		a, err = getApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		taskNext, err := t.Status.Transition(core.TaskEventAccept)
		if err != nil {
			return err
		}
		appNext, err := a.Status.Transition(core.ApplicationEventAccept)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &out.Application,
			`UPDATE applications SET status = $2 WHERE id = $1 RETURNING `+applicationColumns+`;`,
			a.ID, appNext)
		if err != nil {
			return storageError("accept application", err)
		}

		err = tx.SelectContext(ctx, &out.RejectedIDs,
			`UPDATE applications SET status = $3 WHERE task_id = $1 AND status = $4 AND id <> $2 RETURNING id;`,
			a.TaskID, a.ID, core.StatusRejected, core.StatusPending)
		if err != nil {
			return storageError("reject sibling applications", err)
		}

		err = tx.GetContext(ctx, &out.Task,
			`UPDATE tasks SET status = $2, helper_id = $3, updated_at = now() WHERE id = $1 RETURNING `+taskColumns+`;`,
			a.TaskID, taskNext, a.HelperID)
		if err != nil {
			return storageError("assign helper", err)
		}
		return nil
	})
	if err != nil {
		return core.AcceptResult{}, err
	}
	return out, nil
}

func (db *DB) RejectApplication(ctx context.Context, applicationID, clientID int64) (core.Application, error) {
	var out core.Application
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		a, err := getApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		t, err := lockTask(ctx, tx, a.TaskID)
		if err != nil {
			return err
		}
		if t.ClientID != clientID {
			return fmt.Errorf("%w: not your task", core.ErrForbidden)
		}

		a, err = getApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		next, err := a.Status.Transition(core.ApplicationEventReject)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &out,
			`UPDATE applications SET status = $2 WHERE id = $1 RETURNING `+applicationColumns+`;`,
			a.ID, next)
		if err != nil {
			return storageError("reject application", err)
		}
		return nil
	})
	if err != nil {
		return core.Application{}, err
	}
	return out, nil
}

// tx helpers

func (db *DB) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return storageError("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageError("commit tx", err)
	}
	return nil
}

func lockTask(ctx context.Context, tx *sqlx.Tx, id int64) (core.Task, error) {
	var t core.Task
	err := tx.GetContext(ctx, &t, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE;`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, fmt.Errorf("%w: task %d", core.ErrNotFound, id)
		}
		return core.Task{}, storageError("lock task", err)
	}
	return t, nil
}

func getApplication(ctx context.Context, tx *sqlx.Tx, id int64) (core.Application, error) {
	var a core.Application
	err := tx.GetContext(ctx, &a, `SELECT `+applicationColumns+` FROM applications WHERE id = $1;`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Application{}, fmt.Errorf("%w: application %d", core.ErrNotFound, id)
		}
		return core.Application{}, storageError("get application", err)
	}
	return a, nil
}

// pg helpers

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(core.ErrStorage, err))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
