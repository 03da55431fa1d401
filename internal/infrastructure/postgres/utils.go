package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE de violación de índice único. El SKU de producto, el nombre de
// categoría y el email de usuario dependen de este código para mapear a los
// errores de duplicado del dominio.
const codeUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	// Con pgbouncer en modo transacción el *PgError puede llegar reescrito;
	// el SQLSTATE sobrevive en el texto.
	return strings.Contains(err.Error(), codeUniqueViolation)
}
