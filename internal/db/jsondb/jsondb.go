// Package jsondb is a file-backed storage: records live in memory and the whole set
// is rewritten to a JSON file after every change and on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/patric-chuzhbe/usersignup/internal/db/memorystorage"
	"github.com/patric-chuzhbe/usersignup/internal/models"
)

type JSONDB struct {
	*memorystorage.MemoryStorage
	fileName string
	writeMu  sync.Mutex
}

type fileContent struct {
	Users models.Users `json:"users"`
}

func parseJSONFile(fileName string) (models.Users, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	var content fileContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/parseJSONFile(): error while `json.Unmarshal()` calling: %w", err)
	}

	return content.Users, nil
}

// writeToJSONFile replaces the file atomically through a temporary sibling.
func writeToJSONFile(fileName string, users models.Users) error {
	jsonData, err := json.MarshalIndent(fileContent{Users: users}, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fileName), filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(jsonData); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}

	return os.Rename(tmp.Name(), fileName)
}

// New opens fileName, creating it with an empty list when it does not exist.
func New(fileName string) (*JSONDB, error) {
	users, err := parseJSONFile(fileName)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := writeToJSONFile(fileName, models.Users{}); err != nil {
			return nil, err
		}
	}

	return &JSONDB{
		MemoryStorage: memorystorage.NewWithUsers(users),
		fileName:      fileName,
	}, nil
}

func (db *JSONDB) flush(ctx context.Context) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	users, err := db.MemoryStorage.GetUsers(ctx)
	if err != nil {
		return err
	}

	return writeToJSONFile(db.fileName, users)
}

func (db *JSONDB) InsertUser(ctx context.Context, record models.UserRecord) error {
	if err := db.MemoryStorage.InsertUser(ctx, record); err != nil {
		return err
	}

	return db.flush(ctx)
}

func (db *JSONDB) UpdateUser(ctx context.Context, record models.UserRecord) error {
	if err := db.MemoryStorage.UpdateUser(ctx, record); err != nil {
		return err
	}

	return db.flush(ctx)
}

func (db *JSONDB) Close() error {
	return db.flush(context.Background())
}
