package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FarmID identifies the tenant every query is scoped to.
type FarmID int64

func ParseFarmID(s string) (FarmID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("farm id is empty")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid farm id %q: %w", s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid farm id %q: must be positive", s)
	}
	return FarmID(id), nil
}

func (id FarmID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id FarmID) Valid() bool {
	return id > 0
}

// UnmarshalJSON accepts both 42 and "42"; chat clients send either.
func (id *FarmID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*id = 0
			return nil
		}
		parsed, err := ParseFarmID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid farm id %s: %w", data, err)
	}
	*id = FarmID(n)
	return nil
}
