package storage

import (
	"chat-tester/internal/types"
	"chat-tester/log"
	apperrors "chat-tester/pkg/errors"
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is a direct handle on the chat database, used only to undo what the
// cases wrote through the API.
type Store struct {
	DB   *gorm.DB
	path string
}

// Open connects to an existing database file. It does not create one: a
// missing file means the server under test has not been set up.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, apperrors.Wrap(apperrors.CodeDBOpenFailed, "database path is empty", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeDBOpenFailed, "database file not accessible", path, err)
	}
	return open(path)
}

// Create opens the database, creating the file when needed.
func Create(path string) (*Store, error) {
	return open(path)
}

func open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeDBOpenFailed, "failed to connect database", path, err)
	}
	log.GetLogger().Debug("database opened", zap.String("path", path))
	return &Store{DB: db, path: path}, nil
}

// EnsureSchema creates the chat tables when they do not exist yet.
func (s *Store) EnsureSchema() error {
	err := s.DB.AutoMigrate(&types.User{}, &types.Group{}, &types.Message{}, &types.Membership{})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDBError, "failed to migrate database", err)
	}
	log.GetLogger().Info("Database schema ensured", zap.String("path", s.path))
	return nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
