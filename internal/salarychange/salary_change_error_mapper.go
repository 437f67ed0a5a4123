package salarychange

import (
	"database/sql"
	"errors"

	employeeerrors "github.com/CodifyCanvas/Foodya-sub001/internal/employee/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return employeeerrors.ErrEmployeeNotFound
	}

	return err
}
