package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"AvalancheForecaster/internal/model"
)

// Load reads the records file. A missing file yields empty records.
func Load(path string) (*model.FinancialData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.FinancialData{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var data model.FinancialData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &data, nil
}

// Save writes the records file, replacing it atomically.
func Save(path string, data *model.FinancialData) error {
	data.UpdatedAt = time.Now()
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".records-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
