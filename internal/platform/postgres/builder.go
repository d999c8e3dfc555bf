package postgres

import (
	"github.com/Masterminds/squirrel"
)

// psql is the shared statement builder configured for PostgreSQL's
// dollar-numbered placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
