package sqlite

// Schema DDL for the todos table. The database file is recreated on every
// Attach, so there are no migrations; todos.jsonl is the source of truth.
const (
	createTodos = `CREATE TABLE todos (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL CHECK (length(trim(name)) > 0),
    is_complete INTEGER NOT NULL DEFAULT 0 CHECK (is_complete IN (0, 1)),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxTodosCreated = `CREATE INDEX idx_todos_created ON todos(created_at, id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createTodos,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTodosCreated,
}

// timeLayout is a fixed-width UTC timestamp so that text ordering in SQLite
// matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
