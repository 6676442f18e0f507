package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isForeignKeyViolation violación de FK (23503): referencia inexistente o fila aún referenciada.
func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// isRetryable conflictos de concurrencia que se resuelven repitiendo la transacción completa.
func isRetryable(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern patrón ILIKE "contiene s" con los comodines de s escapados.
// Usa la barra invertida, el escape por defecto de LIKE en PostgreSQL.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
