package db

const initialSchemaV1 = `
CREATE TABLE IF NOT EXISTS projects (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	category           TEXT NOT NULL,
	short_description  TEXT NOT NULL DEFAULT '',
	full_description   TEXT NOT NULL DEFAULT '',
	background_story   TEXT NOT NULL DEFAULT '',
	usage_instructions TEXT NOT NULL DEFAULT '',
	thumbnail_url      TEXT NOT NULL DEFAULT '',
	banner_url         TEXT NOT NULL DEFAULT '',
	external_link      TEXT NOT NULL DEFAULT '',
	tags               TEXT NOT NULL DEFAULT '[]',
	likes_count        INTEGER NOT NULL DEFAULT 0,
	comments_count     INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	author_name    TEXT NOT NULL,
	author_avatar  TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_project ON comments(project_id, created_at);

CREATE TABLE IF NOT EXISTS project_likes (
	project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	user_identifier  TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	PRIMARY KEY (project_id, user_identifier)
);

CREATE TABLE IF NOT EXISTS discussions (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	category       TEXT NOT NULL,
	author_name    TEXT NOT NULL,
	author_avatar  TEXT NOT NULL DEFAULT '',
	views_count    INTEGER NOT NULL DEFAULT 0,
	likes_count    INTEGER NOT NULL DEFAULT 0,
	replies_count  INTEGER NOT NULL DEFAULT 0,
	is_pinned      INTEGER NOT NULL DEFAULT 0,
	is_closed      INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL,
	last_reply_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_discussions_category ON discussions(category);

CREATE TABLE IF NOT EXISTS replies (
	id             TEXT PRIMARY KEY,
	discussion_id  TEXT NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
	content        TEXT NOT NULL,
	author_name    TEXT NOT NULL,
	author_avatar  TEXT NOT NULL DEFAULT '',
	likes_count    INTEGER NOT NULL DEFAULT 0,
	reply_to_id    TEXT,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_replies_discussion ON replies(discussion_id, created_at);
`
