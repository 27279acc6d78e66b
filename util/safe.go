package util

// SafeString returns empty string if null
func SafeString(input *string) string {
	if input == nil {
		return ""
	}
	return *input
}

// SafeBool returns false if null
func SafeBool(input *bool) bool {
	if input == nil {
		return false
	}
	return *input
}

// SafeInt32 returns 0 if null
func SafeInt32(input *int32) int32 {
	if input == nil {
		return 0
	}
	return *input
}

// RefString returns a reference to a string
func RefString(input string) *string {
	return &input
}

// RefStringOrNil returns nil for an empty string and a reference otherwise
func RefStringOrNil(input string) *string {
	if input == "" {
		return nil
	}
	return &input
}

// RefBool returns a reference to a bool
func RefBool(input bool) *bool {
	return &input
}

// RefInt32 returns a reference to an int32
func RefInt32(input int32) *int32 {
	return &input
}
