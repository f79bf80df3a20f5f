package config

import (
	"fmt"
	"os"
)

// Template returns the default config file contents for a new client
// deployment.
func Template() string {
	return clientTemplate
}

// WriteTemplate writes the default config template to path, refusing to
// overwrite an existing file unless overwrite is true.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(clientTemplate), 0o600)
}

const clientTemplate = `name = "netsdr-client"
host = "127.0.0.1"
control_port = 50000
data_port = 50000

connect_timeout = "3s"
response_timeout = "2s"
read_timeout = "5s"

sample_width = 16

[backoff]
initial_delay = "250ms"
multiplier = 2.0
max_delay = "5s"
jitter = true

[diagnostics]
enabled = false
addr = ":9000"
cors_origins = ["http://localhost:3000"]
`
