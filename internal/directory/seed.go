package directory

import (
	"encoding/json"
	"os"

	"FundPulse/internal/model"
)

// LoadSeed reads a fund table from a JSON file. Returns an empty table if
// the file doesn't exist, so a missing seed is not fatal when the provider
// can supply the list instead.
func LoadSeed(path string) ([]model.Fund, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var funds []model.Fund
	if err := json.Unmarshal(data, &funds); err != nil {
		return nil, err
	}
	return funds, nil
}

// SaveSeed writes the fund table to a JSON file, used to keep a local copy
// of the last successfully fetched list.
func SaveSeed(path string, funds []model.Fund) error {
	data, err := json.MarshalIndent(funds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
