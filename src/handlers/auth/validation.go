package auth

import "strings"

// missingFields collects presence failures for the given name/value pairs.
// All failures are reported together, never just the first one.
func missingFields(pairs map[string]string) map[string]string {
	fields := make(map[string]string)
	for name, value := range pairs {
		if strings.TrimSpace(value) == "" {
			fields[name] = name + " is required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
