package gdocai

// Config selects the Document AI processor used for recognition
type Config struct {
	ProjectID       string `yaml:"project_id" toml:"project_id"`             // Google Cloud project
	Location        string `yaml:"location" toml:"location"`                 // Processor region, e.g. "eu" or "us"
	ProcessorID     string `yaml:"processor_id" toml:"processor_id"`         // OCR processor id
	CredentialsFile string `yaml:"credentials_file" toml:"credentials_file"` // Service account key, defaults to GOOGLE_APPLICATION_CREDENTIALS
}

// Validate reports missing processor coordinates
func (c *Config) Validate() error {
	switch {
	case c == nil:
		return errMissing("config")
	case c.ProjectID == "":
		return errMissing("project_id")
	case c.Location == "":
		return errMissing("location")
	case c.ProcessorID == "":
		return errMissing("processor_id")
	}
	return nil
}
