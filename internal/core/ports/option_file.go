package ports

// OptionFileLoader reads the persisted configuration file: a flat mapping from
// fully-qualified option name to raw string value. It seeds the option
// registry's file-priority layer once at startup.
//
//go:generate go run go.uber.org/mock/mockgen -source=option_file.go -destination=mocks/mock_option_file.go -package=mocks
type OptionFileLoader interface {
	// Load reads the option file at path. A missing file is not an error and
	// yields an empty map.
	Load(path string) (map[string]string, error)
}
