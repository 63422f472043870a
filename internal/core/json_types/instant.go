package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultLocation est la timezone appliquée aux dates sans timezone.
// Fixée au démarrage par main à partir de la config.
var DefaultLocation = time.UTC

func parseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	// Si échec, on tente la date avec heure mais sans timezone
	if err != nil {
		parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, DefaultLocation)
		if err != nil {
			// Si échec, on tente la date seule
			parsedDate, err = time.ParseInLocation("2006-01-02", str, DefaultLocation)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse time: %v", err)
			}
		}
	}

	return parsedDate, nil
}

// CoerceInstant normalise une valeur brute de Firestore vers un instant.
// Les documents historiques du tableau de bord stockent les dates tantôt en
// Timestamp, tantôt en chaîne, tantôt en epoch millisecondes: tous les
// collecteurs passent par ici et ne manipulent ensuite que des time.Time.
func CoerceInstant(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case string:
		if val == "" {
			return time.Time{}, false
		}
		parsed, err := parseDate(val)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	case int64:
		if val <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(val).In(DefaultLocation), true
	case float64:
		if val <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(val)).In(DefaultLocation), true
	default:
		return time.Time{}, false
	}
}

type DateTime struct {
	Date time.Time
}

func (t *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	// On retire les guillemets autour de la chaîne
	str := string(data[1 : len(data)-1])

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	*t = DateTime{Date: parsedDate}
	return nil
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}

	return json.Marshal(t.Date.Format(time.RFC3339))
}
