package history

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqliteRecord struct {
	ID         uint   `gorm:"primaryKey"`
	SessionID  string `gorm:"index:idx_session_id"`
	Name       string `gorm:"index:idx_name"`
	Timestamp  time.Time
	ResultCode int
}

func (sqliteRecord) TableName() string {
	return "history"
}

// SQLiteRecorder stores records in a SQLite database.
type SQLiteRecorder struct {
	db *gorm.DB
}

var _ Recorder = (*SQLiteRecorder)(nil)

// OpenSQLiteRecorder opens (creating if needed) the database at path and
// migrates the history table.
func OpenSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&sqliteRecord{}); err != nil {
		return nil, err
	}

	return &SQLiteRecorder{db: db}, nil
}

// Record implements Recorder.
func (s *SQLiteRecorder) Record(r Record) error {
	return s.db.Create(&sqliteRecord{
		SessionID:  r.SessionID,
		Name:       r.Name,
		Timestamp:  r.Timestamp,
		ResultCode: r.ResultCode,
	}).Error
}

// Records returns the stored records for a session in insertion order. An
// empty sessionID returns records from every session.
func (s *SQLiteRecorder) Records(sessionID string) ([]Record, error) {
	query := s.db.Order("id")
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var rows []sqliteRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Record{
			SessionID:  row.SessionID,
			Name:       row.Name,
			Timestamp:  row.Timestamp,
			ResultCode: row.ResultCode,
		})
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteRecorder) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
