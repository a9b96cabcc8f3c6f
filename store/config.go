package store

// Config holds configuration for the Store.
type Config struct {
	// Region is the AWS region of the table.
	// Default: resolved from the environment, falling back to "us-east-1".
	Region string

	// TableName is the name of the DynamoDB table holding the records.
	// Default: "characters"
	TableName string

	// KeyAttribute is the name of the table's partition key attribute.
	// The table must have a simple primary key of type S.
	// Default: "character_id"
	KeyAttribute string

	// Endpoint overrides the DynamoDB endpoint, e.g. "http://localhost:8000"
	// for DynamoDB Local. Empty uses the regional endpoint.
	Endpoint string

	// Profile selects a named profile from the shared AWS config files.
	Profile string

	// ScanSegments is the number of parallel scan segments used by List and Find.
	// Default: 1 (sequential scan)
	// Max: 64
	ScanSegments int

	// PageSize limits the number of items evaluated per scan request.
	// Default: 0 (service limit of 1 MB per page)
	PageSize int32
}

// DefaultRegion is used when neither Config nor the environment names a region.
const DefaultRegion = "us-east-1"

// DefaultConfig returns the configuration of the characters table.
func DefaultConfig() Config {
	return Config{
		TableName:    "characters",
		KeyAttribute: "character_id",
		ScanSegments: 1,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "characters"
	}
	if c.KeyAttribute == "" {
		c.KeyAttribute = "character_id"
	}
	if c.ScanSegments < 1 {
		c.ScanSegments = 1
	}
	if c.ScanSegments > 64 {
		c.ScanSegments = 64
	}
	if c.PageSize < 0 {
		c.PageSize = 0
	}
}
