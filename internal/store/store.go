// Package store persists what must survive a restart: the article chosen for
// each day and each player's saved game for that day. Everything the engine
// computes is derivable from these two tables.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lexiguess/lexiguess/internal/article"
)

// DailyArticle is the article served on one calendar day. Date is unique:
// the first writer for a day wins and everyone else reads that row.
type DailyArticle struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"uniqueIndex;size:10"`
	Title     string
	Payload   []byte // raw article JSON
	CreatedAt time.Time
}

// GameState is one player's saved progress for one day.
type GameState struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_user_date"`
	Date      string `gorm:"uniqueIndex:idx_user_date;size:10"`
	Guesses   []byte // JSON array of StoredGuess
	Revealed  []byte // JSON object: position key -> display
	Won       bool
	UpdatedAt time.Time
}

// StoredGuess is the serialized form of one submitted guess.
type StoredGuess struct {
	Word        string  `json:"word"`
	Found       bool    `json:"found"`
	Occurrences int     `json:"occurrences"`
	Similarity  float64 `json:"similarity"`
}

// SavedState is the deserialized game progress exchanged with clients.
// Revealed maps section:part:wordIndex keys to display strings; callers only
// ever add entries, the store never removes one.
type SavedState struct {
	Guesses  []StoredGuess     `json:"guesses"`
	Revealed map[string]string `json:"revealed"`
	Won      bool              `json:"won"`
}

// Store wraps the SQLite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the
// schema. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&DailyArticle{}, &GameState{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// EnsureDailyArticle returns the stored article for dateKey, fetching and
// storing it on first request. Two processes racing on the same day both end
// up with the stored row: the loser of the unique-index race re-reads the
// winner's article instead of failing.
func (s *Store) EnsureDailyArticle(dateKey string, fetch func() (article.RawArticle, error)) (article.RawArticle, error) {
	if art, ok, err := s.dailyArticle(dateKey); err != nil || ok {
		return art, err
	}

	fetched, err := fetch()
	if err != nil {
		return article.RawArticle{}, err
	}
	payload, err := json.Marshal(fetched)
	if err != nil {
		return article.RawArticle{}, fmt.Errorf("store: encode article: %w", err)
	}

	row := DailyArticle{Date: dateKey, Title: fetched.Title, Payload: payload}
	if err := s.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// Someone else stored today's article first; serve theirs.
			if art, ok, err2 := s.dailyArticle(dateKey); err2 == nil && ok {
				return art, nil
			}
		}
		return article.RawArticle{}, fmt.Errorf("store: save article for %s: %w", dateKey, err)
	}
	return fetched, nil
}

// ArticleTitle returns the stored title for a day, if any.
func (s *Store) ArticleTitle(dateKey string) (string, bool, error) {
	var row DailyArticle
	err := s.db.Where("date = ?", dateKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: load article for %s: %w", dateKey, err)
	}
	return row.Title, true, nil
}

func (s *Store) dailyArticle(dateKey string) (article.RawArticle, bool, error) {
	var row DailyArticle
	err := s.db.Where("date = ?", dateKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return article.RawArticle{}, false, nil
	}
	if err != nil {
		return article.RawArticle{}, false, fmt.Errorf("store: load article for %s: %w", dateKey, err)
	}
	var art article.RawArticle
	if err := json.Unmarshal(row.Payload, &art); err != nil {
		return article.RawArticle{}, false, fmt.Errorf("store: decode article for %s: %w", dateKey, err)
	}
	return art, true, nil
}

// SaveState upserts one player's progress for one day.
func (s *Store) SaveState(userID, dateKey string, state SavedState) error {
	guesses, err := json.Marshal(state.Guesses)
	if err != nil {
		return fmt.Errorf("store: encode guesses: %w", err)
	}
	revealed, err := json.Marshal(state.Revealed)
	if err != nil {
		return fmt.Errorf("store: encode reveals: %w", err)
	}

	row := GameState{
		UserID:   userID,
		Date:     dateKey,
		Guesses:  guesses,
		Revealed: revealed,
		Won:      state.Won,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"guesses", "revealed", "won", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store: save state for %s/%s: %w", userID, dateKey, err)
	}
	return nil
}

// LoadState returns one player's saved progress, or nil when they have none
// for that day.
func (s *Store) LoadState(userID, dateKey string) (*SavedState, error) {
	var row GameState
	err := s.db.Where("user_id = ? AND date = ?", userID, dateKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load state for %s/%s: %w", userID, dateKey, err)
	}

	state := SavedState{Revealed: map[string]string{}}
	if len(row.Guesses) > 0 {
		if err := json.Unmarshal(row.Guesses, &state.Guesses); err != nil {
			return nil, fmt.Errorf("store: decode guesses: %w", err)
		}
	}
	if len(row.Revealed) > 0 {
		if err := json.Unmarshal(row.Revealed, &state.Revealed); err != nil {
			return nil, fmt.Errorf("store: decode reveals: %w", err)
		}
	}
	state.Won = row.Won
	return &state, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
