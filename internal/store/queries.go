package store

// Session status queries
const (
	queryUpsertSession = `
		INSERT INTO session_status (idx, username, proxy_host, state, connectivity, last_login_at, last_check_at, last_error, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, now())
		ON CONFLICT (idx) DO UPDATE SET
			username = EXCLUDED.username,
			proxy_host = EXCLUDED.proxy_host,
			state = EXCLUDED.state,
			connectivity = EXCLUDED.connectivity,
			last_login_at = EXCLUDED.last_login_at,
			last_check_at = EXCLUDED.last_check_at,
			last_error = EXCLUDED.last_error,
			run_id = EXCLUDED.run_id,
			updated_at = now()`

	queryListSessions = `
		SELECT idx, username, proxy_host, state, connectivity, last_login_at, last_check_at, last_error, run_id, updated_at
		FROM session_status ORDER BY idx`

	queryGetSession = `
		SELECT idx, username, proxy_host, state, connectivity, last_login_at, last_check_at, last_error, run_id, updated_at
		FROM session_status WHERE idx = ?`
)

// Update history queries
const (
	queryInsertUpdate = `
		INSERT INTO update_history (id, checked_at, installed_version, latest_version, decision, installed, digest, error)
		VALUES (nextval('update_history_id_seq'), ?, ?, ?, ?, ?, ?, ?)`

	queryLatestUpdate = `
		SELECT checked_at, installed_version, latest_version, decision, installed, digest, error
		FROM update_history ORDER BY id DESC LIMIT 1`

	queryListUpdates = `
		SELECT checked_at, installed_version, latest_version, decision, installed, digest, error
		FROM update_history ORDER BY id DESC LIMIT ?`
)
