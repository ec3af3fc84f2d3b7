package store

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Links table: one row per saved link, enriched in place
CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    title TEXT,
    description TEXT,
    author TEXT,
    site_name TEXT,
    lang TEXT,
    favicon_url TEXT,
    image_url TEXT,
    ai_summary TEXT,
    status TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_links_status ON links(status);

-- Link content: one-to-one extracted content per link
CREATE TABLE IF NOT EXISTS link_content (
    link_id TEXT PRIMARY KEY,
    main_content_text TEXT,
    main_content_html TEXT,
    structured_data_json TEXT,
    raw_html TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (link_id) REFERENCES links(link_id) ON DELETE CASCADE
);
`
