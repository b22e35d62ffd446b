package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type validateDateArgs struct {
	Month intArg `json:"month"`
	Day   intArg `json:"day"`
}

type nextDayArgs struct {
	StartDate string `json:"start_date"`
	Weekday   string `json:"weekday"`
}

type writeSheetArgs struct {
	CSVLine string `json:"csv_line"`
}

type modifySheetArgs struct {
	Code     string  `json:"code"`
	Hour     *string `json:"hour"`
	Date     *string `json:"date"`
	Modality *string `json:"modality"`
}

type eraseSheetArgs struct {
	Code string `json:"code"`
}

type lookupInfoArgs struct {
	Query string `json:"query"`
}

// intArg accepts 3 as well as "3", since models sometimes quote numbers.
type intArg int

func (i *intArg) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", string(b))
	}
	*i = intArg(n)
	return nil
}

func decodeArgs(raw string, dst any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
