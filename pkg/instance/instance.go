package instance

import "os"

// GetID returns the identifier for this api instance or a default value.
func GetID() string {
	if id := os.Getenv("STOCKLEDGER_INSTANCE_ID"); id != "" {
		return id
	}
	return "api-0"
}
