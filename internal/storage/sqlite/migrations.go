package sqlite

import "database/sql"

// schema is applied on every startup. Statements must stay idempotent.
// users must be created before receipts because of the foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS receipts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    subtotal REAL NOT NULL,
    tax REAL NOT NULL,
    tip REAL NOT NULL,
    total REAL NOT NULL,
    image_key TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    finalized INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS receipt_items (
    receipt_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    PRIMARY KEY (receipt_id, position),
    FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS item_splitters (
    receipt_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    member TEXT NOT NULL,
    member_order INTEGER NOT NULL,
    PRIMARY KEY (receipt_id, position, member),
    FOREIGN KEY (receipt_id, position) REFERENCES receipt_items(receipt_id, position) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_details (
    receipt_id TEXT NOT NULL,
    member TEXT NOT NULL,
    member_order INTEGER NOT NULL,
    amount REAL NOT NULL,
    PRIMARY KEY (receipt_id, member),
    FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_receipts_user_created ON receipts(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_receipts_user_category ON receipts(user_id, category);
CREATE INDEX IF NOT EXISTS idx_split_details_receipt_id ON split_details(receipt_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
