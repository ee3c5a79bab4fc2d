package internal

import (
	"github.com/samber/lo"
)

func MaybeF64ToF32(f *float64) *float32 {
	if f == nil {
		return nil
	}

	return lo.ToPtr(float32(*f))
}

func MaybeIntToInt32(i *int) *int32 {
	if i == nil {
		return nil
	}

	return lo.ToPtr(int32(*i))
}

// CoalesceModel picks the first non-empty model name.
func CoalesceModel(models ...*string) string {
	for _, model := range models {
		if model != nil && *model != "" {
			return *model
		}
	}

	return ""
}
