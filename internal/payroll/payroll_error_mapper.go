package payroll

import (
	"database/sql"
	"errors"

	employeeerrors "github.com/CodifyCanvas/Foodya-sub001/internal/employee/errors"
	payrollerrors "github.com/CodifyCanvas/Foodya-sub001/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	if errors.Is(err, sql.ErrNoRows) {
		return payrollerrors.ErrPayrollNotFound
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
