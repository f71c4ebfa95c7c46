package store

// Run queries
const (
	queryInsertRun = `
		INSERT INTO runs (id, mode, target, suites, status, started_at)
		VALUES (?, ?, ?, string_split(?, ','), ?, ?)`

	queryFinishRun = `
		UPDATE runs SET
			status = ?,
			passed = ?,
			failed = ?,
			skipped = ?,
			finished_at = ?
		WHERE id = ?`
)

// Test result queries
const (
	queryNextResultSeq = `SELECT COALESCE(MAX(seq), 0) FROM test_results WHERE run_id = ?`
)
