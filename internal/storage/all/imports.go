// Package all registers every storage backend with the storage factory.
// Import it for side effects from binaries that select the backend at runtime.
package all

import (
	_ "footballetl/internal/storage/mssql"
	_ "footballetl/internal/storage/mysql"
	_ "footballetl/internal/storage/postgres"
	_ "footballetl/internal/storage/sqlite"
)
