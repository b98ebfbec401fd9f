package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS farmers (
		phone TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		province_code TEXT NOT NULL,
		province_name TEXT NOT NULL,
		district_code TEXT NOT NULL,
		district_name TEXT NOT NULL,
		sector_code TEXT NOT NULL,
		sector_name TEXT NOT NULL,
		cell_code TEXT NOT NULL,
		cell_name TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'en',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS graduates (
		phone TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		expertise TEXT NOT NULL,
		province_code TEXT NOT NULL,
		province_name TEXT NOT NULL,
		district_code TEXT NOT NULL,
		district_name TEXT NOT NULL,
		sector_code TEXT NOT NULL,
		sector_name TEXT NOT NULL,
		cell_code TEXT NOT NULL,
		cell_name TEXT NOT NULL,
		available INTEGER NOT NULL DEFAULT 1,
		latitude REAL,
		longitude REAL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_graduates_location
		ON graduates(province_code, district_code, sector_code, cell_code)
		WHERE available = 1;

	CREATE TABLE IF NOT EXISTS service_requests (
		id TEXT PRIMARY KEY,
		farmer_phone TEXT NOT NULL,
		graduate_phone TEXT,
		service_type TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		feedback TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		assigned_at INTEGER,
		started_at INTEGER,
		completed_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_requests_farmer ON service_requests(farmer_phone, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetFarmer retrieves a farmer by phone number.
func (s *SQLiteStore) GetFarmer(ctx context.Context, phone string) (*domain.Farmer, error) {
	query := `
		SELECT phone, name, province_code, province_name, district_code, district_name,
		       sector_code, sector_name, cell_code, cell_name, language, created_at, updated_at
		FROM farmers WHERE phone = ?`

	row := s.db.QueryRowContext(ctx, query, phone)

	var f domain.Farmer
	var lang string
	var createdAt, updatedAt int64

	err := row.Scan(
		&f.Phone, &f.Name,
		&f.Location.ProvinceCode, &f.Location.ProvinceName,
		&f.Location.DistrictCode, &f.Location.DistrictName,
		&f.Location.SectorCode, &f.Location.SectorName,
		&f.Location.CellCode, &f.Location.CellName,
		&lang, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan farmer row: %w", err)
	}

	f.Language = domain.Language(lang)
	f.CreatedAt = time.Unix(createdAt, 0)
	f.UpdatedAt = time.Unix(updatedAt, 0)

	return &f, nil
}

// UpsertFarmer creates or updates a farmer record keyed by phone.
func (s *SQLiteStore) UpsertFarmer(ctx context.Context, farmer *domain.Farmer) error {
	query := `
	INSERT INTO farmers (
		phone, name, province_code, province_name, district_code, district_name,
		sector_code, sector_name, cell_code, cell_name, language, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(phone) DO UPDATE SET
		name = excluded.name,
		province_code = excluded.province_code,
		province_name = excluded.province_name,
		district_code = excluded.district_code,
		district_name = excluded.district_name,
		sector_code = excluded.sector_code,
		sector_name = excluded.sector_name,
		cell_code = excluded.cell_code,
		cell_name = excluded.cell_name,
		language = excluded.language,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		farmer.Phone, farmer.Name,
		farmer.Location.ProvinceCode, farmer.Location.ProvinceName,
		farmer.Location.DistrictCode, farmer.Location.DistrictName,
		farmer.Location.SectorCode, farmer.Location.SectorName,
		farmer.Location.CellCode, farmer.Location.CellName,
		string(farmer.Language),
		farmer.CreatedAt.Unix(), farmer.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert farmer: %w", err)
	}
	return nil
}

// GetGraduate retrieves a graduate by phone number.
func (s *SQLiteStore) GetGraduate(ctx context.Context, phone string) (*domain.Graduate, error) {
	query := graduateSelect + ` WHERE phone = ?`
	rows, err := s.db.QueryContext(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("query graduate: %w", err)
	}
	grads, err := scanGraduates(rows)
	if err != nil {
		return nil, err
	}
	if len(grads) == 0 {
		return nil, nil
	}
	return grads[0], nil
}

// UpsertGraduate creates or updates a graduate record keyed by phone.
func (s *SQLiteStore) UpsertGraduate(ctx context.Context, grad *domain.Graduate) error {
	query := `
	INSERT INTO graduates (
		phone, name, expertise, province_code, province_name, district_code, district_name,
		sector_code, sector_name, cell_code, cell_name, available, latitude, longitude,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(phone) DO UPDATE SET
		name = excluded.name,
		expertise = excluded.expertise,
		province_code = excluded.province_code,
		province_name = excluded.province_name,
		district_code = excluded.district_code,
		district_name = excluded.district_name,
		sector_code = excluded.sector_code,
		sector_name = excluded.sector_name,
		cell_code = excluded.cell_code,
		cell_name = excluded.cell_name,
		available = excluded.available,
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		grad.Phone, grad.Name, string(grad.Expertise),
		grad.Location.ProvinceCode, grad.Location.ProvinceName,
		grad.Location.DistrictCode, grad.Location.DistrictName,
		grad.Location.SectorCode, grad.Location.SectorName,
		grad.Location.CellCode, grad.Location.CellName,
		grad.Available, grad.Latitude, grad.Longitude,
		grad.CreatedAt.Unix(), grad.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert graduate: %w", err)
	}
	return nil
}

const graduateSelect = `
	SELECT phone, name, expertise, province_code, province_name, district_code, district_name,
	       sector_code, sector_name, cell_code, cell_name, available, latitude, longitude,
	       created_at, updated_at
	FROM graduates`

func scanGraduates(rows *sql.Rows) ([]*domain.Graduate, error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close graduate rows", "error", closeErr)
		}
	}()

	var grads []*domain.Graduate
	for rows.Next() {
		var g domain.Graduate
		var expertise string
		var lat, lon sql.NullFloat64
		var createdAt, updatedAt int64

		if err := rows.Scan(
			&g.Phone, &g.Name, &expertise,
			&g.Location.ProvinceCode, &g.Location.ProvinceName,
			&g.Location.DistrictCode, &g.Location.DistrictName,
			&g.Location.SectorCode, &g.Location.SectorName,
			&g.Location.CellCode, &g.Location.CellName,
			&g.Available, &lat, &lon, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan graduate row: %w", err)
		}

		g.Expertise = domain.Expertise(expertise)
		g.Latitude = lat.Float64
		g.Longitude = lon.Float64
		g.CreatedAt = time.Unix(createdAt, 0)
		g.UpdatedAt = time.Unix(updatedAt, 0)
		grads = append(grads, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graduate rows: %w", err)
	}
	return grads, nil
}

// FindAvailableGraduates returns available graduates matching the query,
// ordered by creation time then phone.
func (s *SQLiteStore) FindAvailableGraduates(ctx context.Context, q GraduateQuery) ([]*domain.Graduate, error) {
	query := graduateSelect + ` WHERE available = 1 AND expertise IN (?, 'both')`
	args := []interface{}{string(q.ServiceType)}

	if q.ProvinceCode != "" {
		query += ` AND province_code = ?`
		args = append(args, q.ProvinceCode)
	}
	if q.DistrictCode != "" {
		query += ` AND district_code = ?`
		args = append(args, q.DistrictCode)
	}
	if q.SectorCode != "" {
		query += ` AND sector_code = ?`
		args = append(args, q.SectorCode)
	}
	if q.CellCode != "" {
		query += ` AND cell_code = ?`
		args = append(args, q.CellCode)
	}
	query += ` ORDER BY created_at, phone`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query available graduates: %w", err)
	}
	return scanGraduates(rows)
}

// CreateServiceRequest persists a new service request.
// Retries with exponential backoff on SQLITE_BUSY, which can occur while
// the sync bridge or web side holds a write lock.
func (s *SQLiteStore) CreateServiceRequest(ctx context.Context, req *domain.ServiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := s.createServiceRequestOnce(ctx, req)
		if err == nil {
			return nil
		}

		if shared.IsSQLiteConflictError(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("CreateServiceRequest hit SQLITE_BUSY, retrying",
				"request_id", req.ID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
			continue
		}

		return fmt.Errorf("create service request %s: %w", req.ID, err)
	}

	return nil
}

func (s *SQLiteStore) createServiceRequestOnce(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
	INSERT INTO service_requests (
		id, farmer_phone, graduate_phone, service_type, description, status,
		notes, feedback, created_at, assigned_at, started_at, completed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var graduatePhone interface{}
	if req.GraduatePhone != "" {
		graduatePhone = req.GraduatePhone
	}

	_, err := s.db.ExecContext(ctx, query,
		req.ID, req.FarmerPhone, graduatePhone,
		string(req.ServiceType), req.Description, string(req.Status),
		req.Notes, req.Feedback,
		req.CreatedAt.Unix(),
		unixOrNil(req.AssignedAt), unixOrNil(req.StartedAt), unixOrNil(req.CompletedAt),
	)
	return err
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// GetServiceRequest retrieves a service request by id.
func (s *SQLiteStore) GetServiceRequest(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	reqs, err := s.queryRequests(ctx, requestSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return reqs[0], nil
}

// ListRequestsByPhone returns a farmer's most recent requests, newest first.
func (s *SQLiteStore) ListRequestsByPhone(ctx context.Context, phone string, limit int) ([]*domain.ServiceRequest, error) {
	query := requestSelect + ` WHERE farmer_phone = ? ORDER BY created_at DESC LIMIT ?`
	return s.queryRequests(ctx, query, phone, limit)
}

const requestSelect = `
	SELECT id, farmer_phone, graduate_phone, service_type, description, status,
	       notes, feedback, created_at, assigned_at, started_at, completed_at
	FROM service_requests`

func (s *SQLiteStore) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*domain.ServiceRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query service requests: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close request rows", "error", closeErr)
		}
	}()

	var reqs []*domain.ServiceRequest
	for rows.Next() {
		var r domain.ServiceRequest
		var graduatePhone sql.NullString
		var svcType, status string
		var createdAt int64
		var assignedAt, startedAt, completedAt sql.NullInt64

		if err := rows.Scan(
			&r.ID, &r.FarmerPhone, &graduatePhone, &svcType, &r.Description, &status,
			&r.Notes, &r.Feedback, &createdAt, &assignedAt, &startedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}

		r.GraduatePhone = graduatePhone.String
		r.ServiceType = domain.ServiceType(svcType)
		r.Status = domain.RequestStatus(status)
		r.CreatedAt = time.Unix(createdAt, 0)
		r.AssignedAt = timeOrNil(assignedAt)
		r.StartedAt = timeOrNil(startedAt)
		r.CompletedAt = timeOrNil(completedAt)
		reqs = append(reqs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request rows: %w", err)
	}
	return reqs, nil
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

// UpdateRequestStatus moves a request through its lifecycle, enforcing the
// transition table and stamping the matching timestamp.
func (s *SQLiteStore) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	req, err := s.GetServiceRequest(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("service request %s not found", id)
	}
	if !domain.CanTransition(req.Status, status) {
		return fmt.Errorf("service request %s: invalid transition %s -> %s", id, req.Status, status)
	}

	column := ""
	switch status {
	case domain.StatusAssigned:
		column = "assigned_at"
	case domain.StatusInProgress:
		column = "started_at"
	case domain.StatusCompleted:
		column = "completed_at"
	}

	query := `UPDATE service_requests SET status = ?`
	args := []interface{}{string(status)}
	if column != "" {
		query += `, ` + column + ` = ?`
		args = append(args, time.Now().Unix())
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateRequestStatus affected 0 rows", "request_id", id, "status", status)
	}

	return nil
}
