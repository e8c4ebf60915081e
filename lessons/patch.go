package lessons

import (
	"math"

	"talentclub/apperr"

	"go.mongodb.org/mongo-driver/bson"
)

// ParsePatch validates a lesson update against the whitelist of updatable
// fields and returns the $set document. Unknown fields and type mismatches
// are rejected rather than passed through to the store.
func ParsePatch(raw map[string]any) (bson.M, error) {
	if len(raw) == 0 {
		return nil, apperr.New(apperr.InvalidRequest, "empty update")
	}

	fields := bson.M{}
	for key, value := range raw {
		switch key {
		case "topic", "location":
			s, ok := value.(string)
			if !ok || s == "" {
				return nil, apperr.New(apperr.InvalidRequest, "field '%s' must be a non-empty string", key)
			}
			fields[key] = s
		case "image":
			s, ok := value.(string)
			if !ok {
				return nil, apperr.New(apperr.InvalidRequest, "field 'image' must be a string")
			}
			fields[key] = s
		case "price":
			f, ok := value.(float64)
			if !ok || f < 0 {
				return nil, apperr.New(apperr.InvalidRequest, "field 'price' must be a non-negative number")
			}
			fields[key] = f
		case "spaces":
			f, ok := value.(float64)
			if !ok || f < 0 || f != math.Trunc(f) {
				return nil, apperr.New(apperr.InvalidRequest, "field 'spaces' must be a non-negative integer")
			}
			fields[key] = int(f)
		default:
			return nil, apperr.New(apperr.InvalidRequest, "field '%s' is not updatable", key)
		}
	}
	return fields, nil
}
