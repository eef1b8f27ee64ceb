package backend

import (
	"fmt"

	"precatorios/internal/config"
	"precatorios/internal/core"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:  backendType,
		Files: appConfig.SourceFiles(),

		SQLiteDBPath: appConfig.SQLiteDBPath,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,

		DataDirectory: appConfig.DataDir,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case XLSXBackend:
		for _, src := range core.Sources() {
			if c.Files[src] == "" {
				return fmt.Errorf("workbook path is required for source %s", src)
			}
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	case MemoryBackend:
		// DataDirectory defaults to "data"
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{XLSXBackend, SheetsBackend, SQLiteBackend, MemoryBackend}
}

// ImportSource returns the backend the worker imports from: the Google
// spreadsheet when one is configured, the xlsx workbooks otherwise.
func ImportSource(appConfig *config.Config) Config {
	if appConfig.GoogleSpreadsheetID != "" {
		return Config{
			Type:                     SheetsBackend,
			GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
			GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
			GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		}
	}
	return Config{
		Type:  XLSXBackend,
		Files: appConfig.SourceFiles(),
	}
}
