package streets

import (
	"context"
)

// SchemaChecker reports registry columns the reconciliation cannot find.
type SchemaChecker interface {
	CheckSchema() ([]string, error)
}

// IntegrityReport is the result of CheckIntegrity.
type IntegrityReport struct {
	// MissingColumns lists registry columns as "table.column".
	MissingColumns []string `json:"missing_columns"`
	// SchemaError is set when the registry could not be inspected.
	SchemaError string `json:"schema_error,omitempty"`
	// CurrentPages is the number of pages in the current snapshot folder.
	CurrentPages int `json:"current_pages"`
	// StorageError is set when the snapshot bucket could not be read.
	StorageError string `json:"storage_error,omitempty"`
}

// OK reports whether every check passed.
func (r IntegrityReport) OK() bool {
	return len(r.MissingColumns) == 0 && r.SchemaError == "" && r.StorageError == ""
}

// CheckIntegrity verifies the registry schema and the snapshot bucket.
// The bucket is created when missing.
func (s *Service) CheckIntegrity(ctx context.Context) IntegrityReport {
	report := IntegrityReport{MissingColumns: []string{}}

	if s.schema == nil {
		report.SchemaError = "registry schema check not available"
	} else if missing, err := s.schema.CheckSchema(); err != nil {
		report.SchemaError = err.Error()
	} else if len(missing) > 0 {
		report.MissingColumns = missing
	}

	if err := s.writer.EnsureBucket(ctx); err != nil {
		report.StorageError = err.Error()
		return report
	}
	names, err := s.writer.List(ctx)
	if err != nil {
		report.StorageError = err.Error()
		return report
	}
	report.CurrentPages = len(names)
	return report
}
