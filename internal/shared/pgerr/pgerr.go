package pgerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func code(err error) (string, *pgconn.PgError) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr
	}
	return "", nil
}

// IsUniqueViolation reports a unique_violation, optionally restricted to the
// given constraint names.
func IsUniqueViolation(err error, constraints ...string) bool {
	c, pgErr := code(err)
	if c != pgerrcode.UniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, name := range constraints {
		if pgErr.ConstraintName == name {
			return true
		}
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	c, _ := code(err)
	return c == pgerrcode.ForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	c, _ := code(err)
	return c == pgerrcode.CheckViolation
}

// IsUnavailable reports errors after which no further statement on the
// current connection or transaction can succeed.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	if c, _ := code(err); c != "" {
		switch c {
		case pgerrcode.AdminShutdown,
			pgerrcode.CrashShutdown,
			pgerrcode.CannotConnectNow,
			pgerrcode.TooManyConnections,
			pgerrcode.QueryCanceled:
			return true
		}
		return pgerrcode.IsConnectionException(c)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
